package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/dgacoustics/DG3D/mesh"
)

// ReadGmshRaw automatically detects the Gmsh format version and reads the file
func ReadGmshRaw(filename string) (raw mesh.RawMesh, err error) {
	var version string
	if version, err = detectGmshVersion(filename); err != nil {
		return
	}
	switch {
	case version == "4" || strings.HasPrefix(version, "4."):
		return ReadGmsh4Raw(filename)
	case strings.HasPrefix(version, "2."):
		return ReadGmsh22Raw(filename)
	default:
		err = fmt.Errorf("%s: unsupported Gmsh format version: %s", filename, version)
	}
	return
}

func detectGmshVersion(filename string) (version string, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "$MeshFormat" {
			if scanner.Scan() {
				if parts := strings.Fields(scanner.Text()); len(parts) > 0 {
					return parts[0], nil
				}
			}
			break
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	return "", fmt.Errorf("%s: could not find $MeshFormat section", filename)
}

// gmshScanner is a line scanner that tracks line numbers for error messages
type gmshScanner struct {
	*bufio.Scanner
	line int
}

func newGmshScanner(file *os.File) *gmshScanner {
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &gmshScanner{Scanner: sc}
}

func (s *gmshScanner) Scan() bool {
	ok := s.Scanner.Scan()
	if ok {
		s.line++
	}
	return ok
}

// next advances to the next line and returns its fields
func (s *gmshScanner) next(what string) ([]string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected EOF reading %s", what)
	}
	return strings.Fields(s.Text()), nil
}

func (s *gmshScanner) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", s.line, fmt.Sprintf(format, args...))
}

func (s *gmshScanner) skipSection(endMarker string) error {
	for s.Scan() {
		if strings.TrimSpace(s.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF while looking for %s", endMarker)
}

// readMeshFormat reads the MeshFormat section, ASCII files only
func readMeshFormat(s *gmshScanner) (version string, err error) {
	var parts []string
	if parts, err = s.next("MeshFormat"); err != nil {
		return
	}
	if len(parts) < 3 {
		return "", s.errorf("invalid MeshFormat line")
	}
	version = parts[0]
	if parts[1] != "0" {
		return "", s.errorf("binary Gmsh files are not supported")
	}
	err = s.skipSection("$EndMeshFormat")
	return
}

// readPhysicalNames reads physical group names (common to v2.2 and v4)
func readPhysicalNames(s *gmshScanner, raw *mesh.RawMesh) error {
	parts, err := s.next("PhysicalNames")
	if err != nil {
		return err
	}
	numNames, err := count(s, parts, 0)
	if err != nil {
		return err
	}
	if raw.PhysicalNames == nil {
		raw.PhysicalNames = make(map[int]string)
	}
	for i := 0; i < numNames; i++ {
		if parts, err = s.next("physical names"); err != nil {
			return err
		}
		if len(parts) < 3 {
			return s.errorf("invalid physical name line")
		}
		tag, err := atoi(s, parts, 1)
		if err != nil {
			return err
		}
		// Names may contain spaces
		raw.PhysicalNames[tag] = strings.Trim(strings.Join(parts[2:], " "), "\"")
	}
	return s.skipSection("$EndPhysicalNames")
}

func atoi(s *gmshScanner, parts []string, i int) (int, error) {
	if i >= len(parts) {
		return 0, s.errorf("missing field %d", i)
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0, s.errorf("invalid integer %q", parts[i])
	}
	return v, nil
}

// count reads a size field, which must not be negative
func count(s *gmshScanner, parts []string, i int) (int, error) {
	n, err := atoi(s, parts, i)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, s.errorf("negative count %d in field %d", n, i)
	}
	return n, nil
}

func atof(s *gmshScanner, parts []string, i int) (float64, error) {
	if i >= len(parts) {
		return 0, s.errorf("missing field %d", i)
	}
	v, err := strconv.ParseFloat(parts[i], 64)
	if err != nil {
		return 0, s.errorf("invalid number %q", parts[i])
	}
	return v, nil
}

// Gmsh element type numbers read into a RawMesh, with node counts. Higher
// order elements contribute their corner nodes, which Gmsh lists first.
const (
	gmshTriangle  = 2
	gmshTet       = 4
	gmshTriangle6 = 9
	gmshTet10     = 11
)

var gmshNodeCount = map[int]int{
	1: 2, 2: 3, 3: 4, 4: 4, 5: 8, 6: 6, 7: 5, 8: 3, 9: 6, 10: 9,
	11: 10, 12: 27, 13: 18, 14: 14, 15: 1, 16: 8, 17: 20, 18: 15, 19: 13,
}

// rawBuilder accumulates vertices and elements, remapping Gmsh node tags to
// 0-based indices in file order
type rawBuilder struct {
	raw       mesh.RawMesh
	nodeIndex map[int]int
}

func newRawBuilder() *rawBuilder {
	return &rawBuilder{nodeIndex: make(map[int]int)}
}

func (b *rawBuilder) addNode(tag int, xyz []float64) error {
	if _, exists := b.nodeIndex[tag]; exists {
		return fmt.Errorf("duplicate node tag %d", tag)
	}
	b.nodeIndex[tag] = len(b.raw.Vertices)
	b.raw.Vertices = append(b.raw.Vertices, xyz)
	return nil
}

func (b *rawBuilder) index(tag int) (int, error) {
	idx, ok := b.nodeIndex[tag]
	if !ok {
		return 0, fmt.Errorf("element references undefined node tag %d", tag)
	}
	return idx, nil
}

// addElement records tets and boundary triangles, other element types are
// ignored. nodeTags holds at least the element's corner nodes.
func (b *rawBuilder) addElement(gmshType, physicalTag int, nodeTags []int) (err error) {
	switch gmshType {
	case gmshTet, gmshTet10:
		var tet [4]int
		for i := range tet {
			if tet[i], err = b.index(nodeTags[i]); err != nil {
				return
			}
		}
		b.raw.Tets = append(b.raw.Tets, tet)
	case gmshTriangle, gmshTriangle6:
		var tri [3]int
		for i := range tri {
			if tri[i], err = b.index(nodeTags[i]); err != nil {
				return
			}
		}
		b.raw.BCTriangles = append(b.raw.BCTriangles, tri)
		b.raw.BCCodes = append(b.raw.BCCodes, physicalTag)
	}
	return
}

func isReadType(gmshType int) bool {
	switch gmshType {
	case gmshTet, gmshTet10, gmshTriangle, gmshTriangle6:
		return true
	}
	return false
}
