package mesh

// NFacesTet is the number of faces on a tetrahedron
const NFacesTet = 4

// TetFaceVertices defines the local face numbering of a tetrahedron in terms
// of its local vertices. Two elements sharing a face generally enumerate the
// face's vertices in different orders, so matching is done on sorted triples.
var TetFaceVertices = [NFacesTet][3]int{
	{0, 1, 2}, // Face 0
	{0, 1, 3}, // Face 1
	{1, 2, 3}, // Face 2
	{0, 2, 3}, // Face 3
}

// FaceTable is a per-face, per-element table with shape (4, K), addressed as
// T[f][e]. Linear face slot numbering follows the same layout: slot = f*K + e.
type FaceTable [NFacesTet][]int

// NewFaceTable allocates a zeroed table for K elements
func NewFaceTable(K int) (T FaceTable) {
	for f := range T {
		T[f] = make([]int, K)
	}
	return
}

// Len returns the number of elements (columns) in the table
func (T FaceTable) Len() int { return len(T[0]) }

// Slot returns the linear face slot of (f, e)
func (T FaceTable) Slot(f, e int) int { return f*T.Len() + e }

// Unslot decodes a linear face slot back into (f, e)
func (T FaceTable) Unslot(slot int) (f, e int) {
	K := T.Len()
	return slot / K, slot % K
}

// Column returns the four entries for element e
func (T FaceTable) Column(e int) (col [NFacesTet]int) {
	for f := range T {
		col[f] = T[f][e]
	}
	return
}

// Copy returns a deep copy of the table
func (T FaceTable) Copy() (R FaceTable) {
	for f := range T {
		R[f] = make([]int, len(T[f]))
		copy(R[f], T[f])
	}
	return
}

// IsBoundary reports whether face f of element e has no neighbor, using the
// self-referential marker written by BuildConnectivity.
func IsBoundary(EToE, EToF FaceTable, f, e int) bool {
	return EToE[f][e] == e && EToF[f][e] == f
}

// CountInterior returns the number of face slots with a neighbor. Each shared
// face is counted once per side, so a consistent table yields an even count.
func CountInterior(EToE FaceTable) (n int) {
	for f := range EToE {
		for e, nbr := range EToE[f] {
			if nbr != e {
				n++
			}
		}
	}
	return
}

// CountBoundary returns the number of self-referential face slots
func CountBoundary(EToE FaceTable) int {
	return NFacesTet*EToE.Len() - CountInterior(EToE)
}
