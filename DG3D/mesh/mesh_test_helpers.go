package mesh

import (
	"fmt"
	"math"
)

// TestMeshes provides a collection of standard test meshes used by the mesh
// and reader tests
type TestMeshes struct {
	SingleTet TestMesh
	TwoTet    TestMesh
	Cube      TestMesh // Unit cube split into 6 tets around the 0-6 diagonal
}

// TestMesh is a raw mesh together with the boundary labels that match it
type TestMesh struct {
	Raw    RawMesh
	Labels map[string]int
}

// GetStandardTestMeshes returns the standard test meshes. Each call returns
// fresh copies.
func GetStandardTestMeshes() *TestMeshes {
	return &TestMeshes{
		SingleTet: createSingleTet(),
		TwoTet:    createTwoTet(),
		Cube:      createCube(),
	}
}

func createSingleTet() TestMesh {
	return TestMesh{
		Raw: RawMesh{
			Vertices: [][]float64{
				{0, 0, 0},
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
			Tets: [][4]int{
				{0, 1, 2, 3},
			},
			BCTriangles: [][3]int{
				{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3},
			},
			BCCodes: []int{1, 1, 2, 1},
		},
		Labels: map[string]int{"wall": 1, "slanted": 2},
	}
}

func createTwoTet() TestMesh {
	// Two tetrahedra sharing face {1,2,3}
	return TestMesh{
		Raw: RawMesh{
			Vertices: [][]float64{
				{0, 0, 0},
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
				{1, 1, 1},
			},
			Tets: [][4]int{
				{0, 1, 2, 3},
				{1, 2, 3, 4},
			},
			BCTriangles: [][3]int{
				{0, 1, 2}, {0, 1, 3}, {0, 2, 3},
				{1, 2, 4}, {1, 3, 4}, {2, 3, 4},
			},
			BCCodes: []int{11, 11, 11, 13, 13, 14},
		},
		Labels: map[string]int{"slip": 11, "impedance1": 13, "impedance2": 14},
	}
}

func createCube() TestMesh {
	raw, _ := NewBoxMesh(1, 1, 1)
	// Collapse the six sides into three labels
	remap := map[int]int{BoxXMin: 13, BoxXMax: 13, BoxYMin: 13, BoxYMax: 13, BoxZMin: 11, BoxZMax: 12}
	for i, c := range raw.BCCodes {
		raw.BCCodes[i] = remap[c]
	}
	return TestMesh{
		Raw:    raw,
		Labels: map[string]int{"floor": 11, "ceiling": 12, "walls": 13},
	}
}

// NewBoxTestMesh is NewBoxMesh paired with its labels
func NewBoxTestMesh(nx, ny, nz int) TestMesh {
	raw, labels := NewBoxMesh(nx, ny, nz)
	return TestMesh{Raw: raw, Labels: labels}
}

// PermuteVertices renumbers the vertices of raw with perm, where vertex v
// becomes perm[v], moving coordinates and rewriting every index.
func PermuteVertices(raw RawMesh, perm []int) (out RawMesh) {
	out.Vertices = make([][]float64, len(raw.Vertices))
	for v, xyz := range raw.Vertices {
		out.Vertices[perm[v]] = append([]float64(nil), xyz...)
	}
	out.Tets = make([][4]int, len(raw.Tets))
	for k, tet := range raw.Tets {
		for i, v := range tet {
			out.Tets[k][i] = perm[v]
		}
	}
	out.BCTriangles = make([][3]int, len(raw.BCTriangles))
	for t, tri := range raw.BCTriangles {
		for i, v := range tri {
			out.BCTriangles[t][i] = perm[v]
		}
	}
	out.BCCodes = append([]int(nil), raw.BCCodes...)
	return
}

// ValidateVertices compares vertex coordinates read back from a file with
// the ones written. A zero tolerance requires bit-exact coordinates.
func ValidateVertices(got, want [][]float64, tolerance float64) error {
	if len(got) != len(want) {
		return fmt.Errorf("have %d vertices, want %d", len(got), len(want))
	}
	for v := range got {
		if len(got[v]) != len(want[v]) {
			return fmt.Errorf("vertex %d has %d coordinates, want %d", v, len(got[v]), len(want[v]))
		}
		for d, x := range got[v] {
			if math.Abs(x-want[v][d]) > tolerance {
				return fmt.Errorf("vertex %d coordinate %d is %v, want %v within %v",
					v, d, x, want[v][d], tolerance)
			}
		}
	}
	return nil
}
