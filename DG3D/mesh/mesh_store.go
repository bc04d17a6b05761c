package mesh

import (
	"sort"

	"github.com/james-bowman/sparse"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// RawMesh holds the arrays delivered by a mesh file reader, with all vertex
// indices 0-based. BCCodes is parallel to BCTriangles and holds the physical
// label code of each boundary triangle.
type RawMesh struct {
	Vertices      [][]float64    // [NVertices][M]
	Tets          [][4]int       // [NTets]
	BCTriangles   [][3]int       // [NBCTriangles]
	BCCodes       []int          // [NBCTriangles]
	PhysicalNames map[int]string // Optional names from the file, informational
}

// MeshStore owns a tetrahedral mesh, its labeled boundary triangles and the
// face connectivity derived from it. It is immutable once constructed.
type MeshStore struct {
	nVertices int
	nTets     int
	vertices  *mat.Dense // NVertices x M
	tets      [][4]int

	bcLabels       map[string]int // Label name -> physical code
	bcTriangles    map[string][][3]int
	nBCTriangles   map[string]int
	eToE, eToF     FaceTable
	elementGraph   *sparse.CSR
	nInteriorFaces int

	logger *zap.Logger
}

type Option func(ms *MeshStore)

// WithLogger sets the logger used during construction
func WithLogger(logger *zap.Logger) Option {
	return func(ms *MeshStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMeshStore validates the raw arrays against the caller's boundary labels
// and builds the face connectivity. The set of codes found in raw.BCCodes
// must equal the set of codes in labels, otherwise a LabelMismatchError is
// returned and no store is built.
func NewMeshStore(raw RawMesh, labels map[string]int, opts ...Option) (ms *MeshStore, err error) {
	st := &MeshStore{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(st)
	}
	if err = checkRaw(raw); err != nil {
		return
	}
	if err = checkLabels(raw.BCCodes, labels); err != nil {
		return
	}

	st.nVertices = len(raw.Vertices)
	st.nTets = len(raw.Tets)
	st.vertices = newVertexMatrix(raw.Vertices)
	st.tets = make([][4]int, st.nTets)
	copy(st.tets, raw.Tets)

	st.bcLabels = make(map[string]int, len(labels))
	st.bcTriangles = make(map[string][][3]int, len(labels))
	st.nBCTriangles = make(map[string]int, len(labels))
	codeToLabel := make(map[int]string, len(labels))
	for label, code := range labels {
		st.bcLabels[label] = code
		st.bcTriangles[label] = [][3]int{}
		codeToLabel[code] = label
	}
	for i, tri := range raw.BCTriangles {
		label := codeToLabel[raw.BCCodes[i]]
		st.bcTriangles[label] = append(st.bcTriangles[label], tri)
	}
	for label, tris := range st.bcTriangles {
		st.nBCTriangles[label] = len(tris)
	}

	if st.eToE, st.eToF, err = BuildConnectivity(st.tets); err != nil {
		return
	}
	st.nInteriorFaces = CountInterior(st.eToE)
	st.elementGraph = ElementGraph(st.eToE)

	st.logger.Debug("mesh store built",
		zap.Int("vertices", st.nVertices),
		zap.Int("dim", st.Dim()),
		zap.Int("tets", st.nTets),
		zap.Int("interiorFaces", st.nInteriorFaces/2),
		zap.Int("boundaryFaces", st.NumBoundaryFaces()),
		zap.Any("bcTriangles", st.nBCTriangles),
	)
	ms = st
	return
}

func newVertexMatrix(verts [][]float64) *mat.Dense {
	if len(verts) == 0 {
		return &mat.Dense{}
	}
	var (
		N = len(verts)
		M = len(verts[0])
		V = mat.NewDense(N, M, nil)
	)
	for i, row := range verts {
		V.SetRow(i, row)
	}
	return V
}

func checkRaw(raw RawMesh) error {
	var (
		NV = len(raw.Vertices)
		M  int
	)
	if len(raw.BCTriangles) != len(raw.BCCodes) {
		return invalidf("%d boundary triangles but %d boundary codes", len(raw.BCTriangles), len(raw.BCCodes))
	}
	if NV > 0 {
		M = len(raw.Vertices[0])
		if M == 0 {
			return invalidf("vertices have no coordinates")
		}
	}
	for i, row := range raw.Vertices {
		if len(row) != M {
			return invalidf("vertex %d has %d coordinates, expected %d", i, len(row), M)
		}
	}
	for k, tet := range raw.Tets {
		for _, v := range tet {
			if v < 0 || v >= NV {
				return invalidf("element %d references vertex %d, mesh has %d vertices", k, v, NV)
			}
		}
	}
	for i, tri := range raw.BCTriangles {
		for _, v := range tri {
			if v < 0 || v >= NV {
				return invalidf("boundary triangle %d references vertex %d, mesh has %d vertices", i, v, NV)
			}
		}
	}
	return nil
}

// checkLabels enforces that the codes present in the mesh and the declared
// codes are the same set
func checkLabels(codes []int, labels map[string]int) error {
	var (
		inMesh     = make(map[int]bool)
		declared   = make(map[int]int)
		mErr       = &LabelMismatchError{}
		mismatched bool
	)
	for _, c := range codes {
		inMesh[c] = true
	}
	for _, c := range labels {
		declared[c]++
	}
	for c, n := range declared {
		if !inMesh[c] {
			mErr.MissingInMesh = append(mErr.MissingInMesh, c)
			mismatched = true
		}
		if n > 1 {
			mErr.DuplicateCodes = append(mErr.DuplicateCodes, c)
			mismatched = true
		}
	}
	for c := range inMesh {
		if _, ok := declared[c]; !ok {
			mErr.MissingInLabels = append(mErr.MissingInLabels, c)
			mismatched = true
		}
	}
	if mismatched {
		sort.Ints(mErr.MissingInMesh)
		sort.Ints(mErr.MissingInLabels)
		sort.Ints(mErr.DuplicateCodes)
		return mErr
	}
	return nil
}

func (ms *MeshStore) NumVertices() int { return ms.nVertices }
func (ms *MeshStore) NumTets() int     { return ms.nTets }

// Dim returns the number of coordinates per vertex
func (ms *MeshStore) Dim() int {
	_, M := ms.vertices.Dims()
	return M
}

// Vertices returns the NVertices x M coordinate matrix. The matrix must not be
// modified by the caller.
func (ms *MeshStore) Vertices() mat.Matrix { return ms.vertices }

// Vertex returns a copy of the coordinates of vertex i
func (ms *MeshStore) Vertex(i int) []float64 {
	return mat.Row(nil, i, ms.vertices)
}

// Tets returns the element to vertex array, [NTets][4]
func (ms *MeshStore) Tets() [][4]int { return ms.tets }

// EToV is the element to vertex connectivity, the same data as Tets
func (ms *MeshStore) EToV() [][4]int { return ms.tets }

func (ms *MeshStore) EToE() FaceTable { return ms.eToE }
func (ms *MeshStore) EToF() FaceTable { return ms.eToF }

// ElementGraph returns the element dual graph, see ElementGraph
func (ms *MeshStore) ElementGraph() *sparse.CSR { return ms.elementGraph }

// NumInteriorFaces returns the number of distinct faces shared by two elements
func (ms *MeshStore) NumInteriorFaces() int { return ms.nInteriorFaces / 2 }

// NumBoundaryFaces returns the number of element faces without a neighbor
func (ms *MeshStore) NumBoundaryFaces() int {
	return NFacesTet*ms.nTets - ms.nInteriorFaces
}

// Labels returns the boundary label names in sorted order
func (ms *MeshStore) Labels() (labels []string) {
	labels = make([]string, 0, len(ms.bcLabels))
	for label := range ms.bcLabels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return
}

// BCLabels returns a copy of the label name to physical code map
func (ms *MeshStore) BCLabels() map[string]int {
	m := make(map[string]int, len(ms.bcLabels))
	for k, v := range ms.bcLabels {
		m[k] = v
	}
	return m
}

// NumBCTriangles returns a copy of the per label boundary triangle counts
func (ms *MeshStore) NumBCTriangles() map[string]int {
	m := make(map[string]int, len(ms.nBCTriangles))
	for k, v := range ms.nBCTriangles {
		m[k] = v
	}
	return m
}

func (ms *MeshStore) NumBCTrianglesFor(label string) int { return ms.nBCTriangles[label] }

// BCTriangles returns the boundary triangles carrying label, in file order.
// Returns nil for an unknown label.
func (ms *MeshStore) BCTriangles(label string) [][3]int { return ms.bcTriangles[label] }

// Equal compares the raw mesh content of two stores: counts, coordinates,
// elements and labeled boundary triangles. Connectivity is derived from the
// elements and is not compared.
func (ms *MeshStore) Equal(other *MeshStore) bool {
	if ms == nil || other == nil {
		return ms == other
	}
	if ms.nVertices != other.nVertices || ms.nTets != other.nTets {
		return false
	}
	if len(ms.nBCTriangles) != len(other.nBCTriangles) {
		return false
	}
	for label, n := range ms.nBCTriangles {
		if on, ok := other.nBCTriangles[label]; !ok || on != n {
			return false
		}
	}
	r1, c1 := ms.vertices.Dims()
	r2, c2 := other.vertices.Dims()
	if r1 != r2 || c1 != c2 {
		return false
	}
	if r1 > 0 && !mat.Equal(ms.vertices, other.vertices) {
		return false
	}
	for k := range ms.tets {
		if ms.tets[k] != other.tets[k] {
			return false
		}
	}
	for label, tris := range ms.bcTriangles {
		otris := other.bcTriangles[label]
		for i := range tris {
			if tris[i] != otris[i] {
				return false
			}
		}
	}
	return true
}
