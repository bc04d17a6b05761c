package mesh

import (
	"github.com/james-bowman/sparse"
)

// ElementGraph assembles the element dual graph from EToE as a K x K sparse
// matrix with a 1 at (k, nbr) for every interior face of element k. The
// matrix is symmetric when the connectivity is. Returns nil for an empty mesh.
func ElementGraph(EToE FaceTable) *sparse.CSR {
	K := EToE.Len()
	if K == 0 {
		return nil
	}
	dok := sparse.NewDOK(K, K)
	for f := range EToE {
		for k, nbr := range EToE[f] {
			if nbr != k {
				dok.Set(k, nbr, 1)
			}
		}
	}
	return dok.ToCSR()
}

// ConnectedComponents labels each element of the graph from ElementGraph with
// the id of the face-connected piece of the mesh it belongs to. Ids are
// assigned in order of the lowest element index in each piece, starting from 0.
// The search walks the CSR row pointers directly. A nil graph has no elements.
func ConnectedComponents(G *sparse.CSR) (comp []int, nComp int) {
	if G == nil {
		return nil, 0
	}
	var (
		raw    = G.RawMatrix()
		K      = raw.I
		indptr = raw.Indptr
		ind    = raw.Ind
	)
	comp = make([]int, K)
	for k := range comp {
		comp[k] = -1
	}
	queue := make([]int, 0, K)
	for seed := 0; seed < K; seed++ {
		if comp[seed] >= 0 {
			continue
		}
		comp[seed] = nComp
		queue = append(queue[:0], seed)
		for len(queue) > 0 {
			k := queue[0]
			queue = queue[1:]
			for _, nbr := range ind[indptr[k]:indptr[k+1]] {
				if comp[nbr] < 0 {
					comp[nbr] = nComp
					queue = append(queue, nbr)
				}
			}
		}
		nComp++
	}
	return
}
