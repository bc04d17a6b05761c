package readers

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/dgacoustics/DG3D/mesh"
)

// EntityInfo stores the physical tags of a geometric entity
type EntityInfo struct {
	Dimension    int
	Tag          int
	PhysicalTags []int
}

// entityKey identifies an entity by dimension and tag
type entityKey struct{ dim, tag int }

// ReadGmsh4Raw reads a Gmsh MSH file format version 4.0 or 4.1
func ReadGmsh4Raw(filename string) (raw mesh.RawMesh, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()

	var (
		s        = newGmshScanner(file)
		b        = newRawBuilder()
		entities = make(map[entityKey]*EntityInfo)
		v40      bool
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
			switch {
			case version == "4" || strings.HasPrefix(version, "4.0"):
				v40 = true
			case strings.HasPrefix(version, "4.1"):
			default:
				err = s.errorf("expected Gmsh version 4.0 or 4.1, found %s", version)
			}
		case "$PhysicalNames":
			err = readPhysicalNames(s, &b.raw)
		case "$Entities":
			err = readEntities4(s, entities, v40)
		case "$Nodes":
			if v40 {
				err = readNodes40(s, b)
			} else {
				err = readNodes4(s, b)
			}
		case "$Elements":
			err = readElements4(s, b, entities, v40)
		default:
			// $PartitionedEntities, $Periodic, $GhostElements and data sections
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

// readEntities4 reads the physical tags of every entity. In 4.1 point lines are
//
//	tag x y z numPhysicalTags physicalTag...
//
// and curve, surface and volume lines are
//
//	tag minX minY minZ maxX maxY maxZ numPhysicalTags physicalTag... numBounding boundingTag...
//
// In 4.0 points carry a bounding box like the other entities.
func readEntities4(s *gmshScanner, entities map[entityKey]*EntityInfo, v40 bool) error {
	counts, err := s.next("Entities")
	if err != nil {
		return err
	}
	if len(counts) < 4 {
		return s.errorf("invalid entity counts")
	}
	for dim := 0; dim < 4; dim++ {
		num, err := count(s, counts, dim)
		if err != nil {
			return err
		}
		physStart := 7
		if dim == 0 && !v40 {
			physStart = 4
		}
		for i := 0; i < num; i++ {
			fields, err := s.next("entity")
			if err != nil {
				return err
			}
			tag, err := atoi(s, fields, 0)
			if err != nil {
				return err
			}
			entity := &EntityInfo{Dimension: dim, Tag: tag}
			if len(fields) > physStart {
				numPhys, err := count(s, fields, physStart)
				if err != nil {
					return err
				}
				if numPhys > len(fields)-physStart-1 {
					return s.errorf("entity %d lists %d physical tags, line has %d", tag, numPhys, len(fields)-physStart-1)
				}
				entity.PhysicalTags = make([]int, numPhys)
				for j := range entity.PhysicalTags {
					if entity.PhysicalTags[j], err = atoi(s, fields, physStart+1+j); err != nil {
						return err
					}
				}
			}
			entities[entityKey{dim, tag}] = entity
		}
	}
	return s.skipSection("$EndEntities")
}

func readNodes4(s *gmshScanner, b *rawBuilder) error {
	// numEntityBlocks numNodes minNodeTag maxNodeTag
	header, err := s.next("Nodes")
	if err != nil {
		return err
	}
	if len(header) < 4 {
		return s.errorf("invalid Nodes header")
	}
	numEntityBlocks, err := count(s, header, 0)
	if err != nil {
		return err
	}
	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag parametric numNodesInBlock
		blockHeader, err := s.next("node entity block")
		if err != nil {
			return err
		}
		if len(blockHeader) < 4 {
			return s.errorf("invalid node block header")
		}
		numNodesInBlock, err := count(s, blockHeader, 3)
		if err != nil {
			return err
		}
		var nodeTags []int
		for j := 0; j < numNodesInBlock; j++ {
			fields, err := s.next("node tags")
			if err != nil {
				return err
			}
			tag, err := atoi(s, fields, 0)
			if err != nil {
				return err
			}
			nodeTags = append(nodeTags, tag)
		}
		// Parametric coordinates, if any, follow x y z and are ignored
		for j := 0; j < numNodesInBlock; j++ {
			fields, err := s.next("node coordinates")
			if err != nil {
				return err
			}
			if len(fields) < 3 {
				return s.errorf("invalid node coordinate line")
			}
			xyz := make([]float64, 3)
			for k := range xyz {
				if xyz[k], err = atof(s, fields, k); err != nil {
					return err
				}
			}
			if err = b.addNode(nodeTags[j], xyz); err != nil {
				return s.errorf("%v", err)
			}
		}
	}
	return s.skipSection("$EndNodes")
}

// readNodes40 reads the 4.0 layout, where blocks are headed
//
//	entityTag entityDim parametric numNodesInBlock
//
// and each node is a single line "tag x y z [u v w]"
func readNodes40(s *gmshScanner, b *rawBuilder) error {
	// numEntityBlocks numNodes
	header, err := s.next("Nodes")
	if err != nil {
		return err
	}
	if len(header) < 2 {
		return s.errorf("invalid Nodes header")
	}
	numEntityBlocks, err := count(s, header, 0)
	if err != nil {
		return err
	}
	for i := 0; i < numEntityBlocks; i++ {
		blockHeader, err := s.next("node entity block")
		if err != nil {
			return err
		}
		if len(blockHeader) < 4 {
			return s.errorf("invalid node block header")
		}
		numNodesInBlock, err := count(s, blockHeader, 3)
		if err != nil {
			return err
		}
		for j := 0; j < numNodesInBlock; j++ {
			fields, err := s.next("nodes")
			if err != nil {
				return err
			}
			if len(fields) < 4 {
				return s.errorf("invalid node line")
			}
			tag, err := atoi(s, fields, 0)
			if err != nil {
				return err
			}
			xyz := make([]float64, 3)
			for k := range xyz {
				if xyz[k], err = atof(s, fields, 1+k); err != nil {
					return err
				}
			}
			if err = b.addNode(tag, xyz); err != nil {
				return s.errorf("%v", err)
			}
		}
	}
	return s.skipSection("$EndNodes")
}

// readElements4 reads element blocks. The 4.1 block header is
//
//	entityDim entityTag elementType numElementsInBlock
//
// and 4.0 swaps the first two fields.
func readElements4(s *gmshScanner, b *rawBuilder, entities map[entityKey]*EntityInfo, v40 bool) error {
	// numEntityBlocks numElements [minElementTag maxElementTag]
	header, err := s.next("Elements")
	if err != nil {
		return err
	}
	minHeader := 4
	if v40 {
		minHeader = 2
	}
	if len(header) < minHeader {
		return s.errorf("invalid Elements header")
	}
	numEntityBlocks, err := count(s, header, 0)
	if err != nil {
		return err
	}
	for i := 0; i < numEntityBlocks; i++ {
		blockHeader, err := s.next("element entity block")
		if err != nil {
			return err
		}
		if len(blockHeader) < 4 {
			return s.errorf("invalid element block header")
		}
		var (
			entityDim, entityTag, gmshType, numElemsInBlock int
		)
		order := []*int{&entityDim, &entityTag, &gmshType}
		if v40 {
			order[0], order[1] = &entityTag, &entityDim
		}
		for j, p := range order {
			if *p, err = atoi(s, blockHeader, j); err != nil {
				return err
			}
		}
		if numElemsInBlock, err = count(s, blockHeader, 3); err != nil {
			return err
		}
		if !isReadType(gmshType) {
			for j := 0; j < numElemsInBlock; j++ {
				if _, err = s.next("elements"); err != nil {
					return err
				}
			}
			continue
		}
		var physicalTag int
		if entity, ok := entities[entityKey{entityDim, entityTag}]; ok && len(entity.PhysicalTags) > 0 {
			physicalTag = entity.PhysicalTags[0]
		}
		numNodes := gmshNodeCount[gmshType]
		for j := 0; j < numElemsInBlock; j++ {
			fields, err := s.next("elements")
			if err != nil {
				return err
			}
			if len(fields) < 1+numNodes {
				return s.errorf("invalid element line: expected at least %d fields, got %d",
					1+numNodes, len(fields))
			}
			nodeTags := make([]int, numNodes)
			for k := range nodeTags {
				if nodeTags[k], err = atoi(s, fields, 1+k); err != nil {
					return err
				}
			}
			if err = b.addElement(gmshType, physicalTag, nodeTags); err != nil {
				return s.errorf("%v", err)
			}
		}
	}
	return s.skipSection("$EndElements")
}
