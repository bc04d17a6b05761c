package readers

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/dgacoustics/DG3D/mesh"
)

// ReadGmsh22Raw reads a Gmsh MSH file format version 2.2
func ReadGmsh22Raw(filename string) (raw mesh.RawMesh, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()

	var (
		s = newGmshScanner(file)
		b = newRawBuilder()
	)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		switch line {
		case "$MeshFormat":
			var version string
			if version, err = readMeshFormat(s); err != nil {
				break
			}
			if !strings.HasPrefix(version, "2.") {
				err = s.errorf("expected Gmsh version 2.x, found %s", version)
			}
		case "$PhysicalNames":
			err = readPhysicalNames(s, &b.raw)
		case "$Nodes":
			err = readNodes22(s, b)
		case "$Elements":
			err = readElements22(s, b)
		default:
			// $Periodic, $NodeData, $ElementData and others carry nothing we use
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = s.skipSection("$End" + line[1:])
			}
		}
		if err != nil {
			return raw, fmt.Errorf("%s: %w", filename, err)
		}
	}
	if err = s.Err(); err != nil {
		return raw, fmt.Errorf("%s: scanner error: %w", filename, err)
	}
	raw = b.raw
	return
}

func readNodes22(s *gmshScanner, b *rawBuilder) error {
	parts, err := s.next("Nodes")
	if err != nil {
		return err
	}
	numNodes, err := count(s, parts, 0)
	if err != nil {
		return err
	}
	for i := 0; i < numNodes; i++ {
		if parts, err = s.next("nodes"); err != nil {
			return err
		}
		if len(parts) < 4 {
			return s.errorf("invalid node line")
		}
		tag, err := atoi(s, parts, 0)
		if err != nil {
			return err
		}
		xyz := make([]float64, 3)
		for j := range xyz {
			if xyz[j], err = atof(s, parts, 1+j); err != nil {
				return err
			}
		}
		if err = b.addNode(tag, xyz); err != nil {
			return s.errorf("%v", err)
		}
	}
	return s.skipSection("$EndNodes")
}

// readElements22 reads lines of the form
//
//	elm-number elm-type number-of-tags <tags> node-number-list
func readElements22(s *gmshScanner, b *rawBuilder) error {
	parts, err := s.next("Elements")
	if err != nil {
		return err
	}
	numElements, err := count(s, parts, 0)
	if err != nil {
		return err
	}
	for i := 0; i < numElements; i++ {
		if parts, err = s.next("elements"); err != nil {
			return err
		}
		if len(parts) < 3 {
			return s.errorf("invalid element line")
		}
		gmshType, err := atoi(s, parts, 1)
		if err != nil {
			return err
		}
		if !isReadType(gmshType) {
			continue
		}
		numTags, err := count(s, parts, 2)
		if err != nil {
			return err
		}
		if numTags > len(parts)-3 {
			return s.errorf("element line has %d fields, cannot hold %d tags", len(parts), numTags)
		}
		var (
			physicalTag int
			nodeStart   = 3 + numTags
			numNodes    = gmshNodeCount[gmshType]
		)
		if len(parts) < nodeStart+numNodes {
			return s.errorf("element line has %d fields, expected %d", len(parts), nodeStart+numNodes)
		}
		if numTags > 0 {
			if physicalTag, err = atoi(s, parts, 3); err != nil {
				return err
			}
		}
		nodeTags := make([]int, numNodes)
		for j := range nodeTags {
			if nodeTags[j], err = atoi(s, parts, nodeStart+j); err != nil {
				return err
			}
		}
		if err = b.addElement(gmshType, physicalTag, nodeTags); err != nil {
			return s.errorf("%v", err)
		}
	}
	return s.skipSection("$EndElements")
}
