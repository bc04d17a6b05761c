package mesh

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// faceKey is the sorted vertex triple of a face. Two element faces are the
// same face iff their keys are equal, regardless of winding.
type faceKey [3]int

func newFaceKey(a, b, c int) faceKey {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return faceKey{a, b, c}
}

func (k faceKey) less(o faceKey) bool {
	if k[0] != o[0] {
		return k[0] < o[0]
	}
	if k[1] != o[1] {
		return k[1] < o[1]
	}
	return k[2] < o[2]
}

type faceEntry struct {
	key  faceKey
	slot int // f*K + k
}

// BuildConnectivity computes tetrahedral face connectivity from the element to
// vertex array. The result tables have shape (4, K):
//
//	EToE[f][k] - element sharing local face f of element k, or k on the boundary
//	EToF[f][k] - local face of that neighbor matching face f, or f on the boundary
//
// The faces of all elements are keyed by their sorted vertex triple and sorted
// lexicographically, so interior faces end up as adjacent pairs and a single
// scan recovers the pairing. A key appearing more than twice is reported as a
// MalformedTopologyError.
func BuildConnectivity(tets [][4]int) (EToE, EToF FaceTable, err error) {
	var (
		K     = len(tets)
		NF    = NFacesTet
		faces = make([]faceEntry, NF*K)
	)
	if err = checkTets(tets); err != nil {
		return
	}
	// Initialize with self connectivity, boundary faces keep this
	EToE, EToF = NewFaceTable(K), NewFaceTable(K)
	for f := 0; f < NF; f++ {
		for k := 0; k < K; k++ {
			EToE[f][k] = k
			EToF[f][k] = f
		}
	}
	if K == 0 {
		return
	}

	// Each local face fills its own slot range [f*K, (f+1)*K)
	var g errgroup.Group
	for f := 0; f < NF; f++ {
		f := f
		g.Go(func() error {
			fv := TetFaceVertices[f]
			for k, tet := range tets {
				slot := f*K + k
				faces[slot] = faceEntry{
					key:  newFaceKey(tet[fv[0]], tet[fv[1]], tet[fv[2]]),
					slot: slot,
				}
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return
	}

	// Ties are broken on slot so the pairing is independent of sort stability
	sort.Slice(faces, func(i, j int) bool {
		if faces[i].key != faces[j].key {
			return faces[i].key.less(faces[j].key)
		}
		return faces[i].slot < faces[j].slot
	})

	for i := 0; i < len(faces); {
		j := i + 1
		for j < len(faces) && faces[j].key == faces[i].key {
			j++
		}
		switch j - i {
		case 1: // Boundary face
		case 2:
			f1, k1 := EToE.Unslot(faces[i].slot)
			f2, k2 := EToE.Unslot(faces[i+1].slot)
			EToE[f1][k1], EToF[f1][k1] = k2, f2
			EToE[f2][k2], EToF[f2][k2] = k1, f1
		default:
			mErr := &MalformedTopologyError{FaceVertices: faces[i].key}
			for _, fe := range faces[i:j] {
				f, k := EToE.Unslot(fe.slot)
				mErr.Elements = append(mErr.Elements, k)
				mErr.LocalFaces = append(mErr.LocalFaces, f)
			}
			return FaceTable{}, FaceTable{}, mErr
		}
		i = j
	}
	return
}

// checkTets rejects negative vertex indices and degenerate elements, i.e.
// elements referencing the same vertex more than once.
func checkTets(tets [][4]int) error {
	for k, tet := range tets {
		for i, v := range tet {
			if v < 0 {
				return invalidf("element %d has negative vertex index %d", k, v)
			}
			for j := i + 1; j < 4; j++ {
				if tet[j] == v {
					return invalidf("element %d is degenerate, vertex %d appears more than once: %v", k, v, tet)
				}
			}
		}
	}
	return nil
}

// CheckConnectivity verifies the invariants of a connectivity pair: matching
// shapes, entries in range, EToF[f][k] == f wherever EToE[f][k] == k, and
// reciprocal neighbors for every interior face.
func CheckConnectivity(EToE, EToF FaceTable) error {
	K := EToE.Len()
	for f := 0; f < NFacesTet; f++ {
		if len(EToE[f]) != K || len(EToF[f]) != K {
			return fmt.Errorf("face %d: EToE has %d entries, EToF has %d, expected %d",
				f, len(EToE[f]), len(EToF[f]), K)
		}
	}
	for f := 0; f < NFacesTet; f++ {
		for k := 0; k < K; k++ {
			nbr, nf := EToE[f][k], EToF[f][k]
			if nbr < 0 || nbr >= K || nf < 0 || nf >= NFacesTet {
				return fmt.Errorf("element %d face %d: neighbor (%d, %d) out of range", k, f, nbr, nf)
			}
			// A neighbor may use the same local face number, so only the
			// self-referential direction is checked
			if nbr == k {
				if nf != f {
					return fmt.Errorf("element %d face %d: inconsistent boundary marker, EToE=%d EToF=%d",
						k, f, nbr, nf)
				}
				continue
			}
			if EToE[nf][nbr] != k || EToF[nf][nbr] != f {
				return fmt.Errorf("element %d face %d connects to element %d face %d, which connects back to element %d face %d (element %d has neighbors %v)",
					k, f, nbr, nf, EToE[nf][nbr], EToF[nf][nbr], nbr, EToE.Column(nbr))
			}
		}
	}
	return nil
}
