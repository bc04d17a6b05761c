package mesh

// Physical codes used by NewBoxMesh for the six sides of the box
const (
	BoxXMin = iota + 1
	BoxXMax
	BoxYMin
	BoxYMax
	BoxZMin
	BoxZMax
)

// Cube node ordering
//
//	0: origin, 1: x, 2: xy, 3: y, 4: z, 5: xz, 6: xyz, 7: yz
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cubeTets splits a cube into 6 tets sharing the 0-6 diagonal. Opposite cube
// faces are split along parallel diagonals, so stacked cubes are conforming.
var cubeTets = [6][4]int{
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
	{0, 5, 1, 6},
}

// NewBoxMesh builds a structured tetrahedral mesh of the box
// [0,nx] x [0,ny] x [0,nz] made of unit cubes each split into 6 tets, so the
// mesh has 6*nx*ny*nz elements. Boundary triangles are found geometrically and
// tagged BoxXMin..BoxZMax; the returned labels name the six sides.
func NewBoxMesh(nx, ny, nz int) (raw RawMesh, labels map[string]int) {
	var (
		NV    = (nx + 1) * (ny + 1) * (nz + 1)
		vid   = func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
		ijk   = make([][3]int, NV)
		sides = [6]struct {
			axis, val, code int
		}{
			{0, 0, BoxXMin}, {0, nx, BoxXMax},
			{1, 0, BoxYMin}, {1, ny, BoxYMax},
			{2, 0, BoxZMin}, {2, nz, BoxZMax},
		}
	)
	labels = map[string]int{
		"xmin": BoxXMin, "xmax": BoxXMax,
		"ymin": BoxYMin, "ymax": BoxYMax,
		"zmin": BoxZMin, "zmax": BoxZMax,
	}
	raw.Vertices = make([][]float64, NV)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				v := vid(i, j, k)
				raw.Vertices[v] = []float64{float64(i), float64(j), float64(k)}
				ijk[v] = [3]int{i, j, k}
			}
		}
	}
	raw.Tets = make([][4]int, 0, 6*nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var corner [8]int
				for c, off := range cubeCorners {
					corner[c] = vid(i+off[0], j+off[1], k+off[2])
				}
				for _, lt := range cubeTets {
					tet := [4]int{corner[lt[0]], corner[lt[1]], corner[lt[2]], corner[lt[3]]}
					raw.Tets = append(raw.Tets, tet)
					// A face lying in a side plane is on the boundary
					for _, fv := range TetFaceVertices {
						tri := [3]int{tet[fv[0]], tet[fv[1]], tet[fv[2]]}
						for _, s := range sides {
							if ijk[tri[0]][s.axis] == s.val &&
								ijk[tri[1]][s.axis] == s.val &&
								ijk[tri[2]][s.axis] == s.val {
								raw.BCTriangles = append(raw.BCTriangles, tri)
								raw.BCCodes = append(raw.BCCodes, s.code)
								break
							}
						}
					}
				}
			}
		}
	}
	return
}
