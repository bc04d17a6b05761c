package mesh

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// testReciprocity checks that if element A face f connects to element B
// face g, then element B face g connects back to element A face f
func testReciprocity(t *testing.T, EToE, EToF FaceTable) {
	t.Helper()
	K := EToE.Len()
	for k := 0; k < K; k++ {
		for f := 0; f < NFacesTet; f++ {
			nbr, nf := EToE[f][k], EToF[f][k]
			if nbr == k {
				if nf != f {
					t.Errorf("Element %d face %d: boundary face has EToF=%d", k, f, nf)
				}
				continue
			}
			if EToE[nf][nbr] != k || EToF[nf][nbr] != f {
				t.Errorf("Reciprocity failed: (%d,%d) -> (%d,%d) -> (%d,%d)",
					k, f, nbr, nf, EToE[nf][nbr], EToF[nf][nbr])
			}
		}
	}
}

func TestBuildConnectivity_SingleTet(t *testing.T) {
	tm := GetStandardTestMeshes()
	EToE, EToF, err := BuildConnectivity(tm.SingleTet.Raw.Tets)
	require.NoError(t, err)

	if diff := cmp.Diff(FaceTable{{0}, {0}, {0}, {0}}, EToE); diff != "" {
		t.Errorf("EToE mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(FaceTable{{0}, {1}, {2}, {3}}, EToF); diff != "" {
		t.Errorf("EToF mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, CountInterior(EToE))
	assert.Equal(t, 4, CountBoundary(EToE))
}

func TestBuildConnectivity_TwoTets(t *testing.T) {
	tm := GetStandardTestMeshes()
	EToE, EToF, err := BuildConnectivity(tm.TwoTet.Raw.Tets)
	require.NoError(t, err)

	// Tet 0 face 2 = {1,2,3} is tet 1 face 0
	wantE := FaceTable{
		{0, 0},
		{0, 1},
		{1, 1},
		{0, 1},
	}
	wantF := FaceTable{
		{0, 2},
		{1, 1},
		{0, 2},
		{3, 3},
	}
	if diff := cmp.Diff(wantE, EToE); diff != "" {
		t.Errorf("EToE mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantF, EToF); diff != "" {
		t.Errorf("EToF mismatch (-want +got):\n%s", diff)
	}

	sharedFaces, boundaryFaces := 0, 0
	for f := 0; f < NFacesTet; f++ {
		for k := 0; k < 2; k++ {
			if IsBoundary(EToE, EToF, f, k) {
				boundaryFaces++
			} else {
				sharedFaces++
			}
		}
	}
	assert.Equal(t, 2, sharedFaces, "one shared face seen from both sides")
	assert.Equal(t, 6, boundaryFaces)
	testReciprocity(t, EToE, EToF)
}

func TestBuildConnectivity_WindingIndependent(t *testing.T) {
	// The shared face {1,2,3} is listed with opposite orientations
	tets := [][4]int{
		{0, 1, 2, 3},
		{3, 2, 1, 4},
	}
	EToE, EToF, err := BuildConnectivity(tets)
	require.NoError(t, err)
	assert.Equal(t, 2, CountInterior(EToE))
	assert.Equal(t, 1, EToE[2][0])
	// {3,2,1} is local face 0 of the second tet
	assert.Equal(t, 0, EToF[2][0])
	testReciprocity(t, EToE, EToF)
}

func TestBuildConnectivity_Cube(t *testing.T) {
	tm := GetStandardTestMeshes()
	EToE, EToF, err := BuildConnectivity(tm.Cube.Raw.Tets)
	require.NoError(t, err)
	require.NoError(t, CheckConnectivity(EToE, EToF))

	// Each of the 6 tets has 2 faces on the cube surface and shares 2
	assert.Equal(t, 12, CountBoundary(EToE))
	assert.Equal(t, 12, CountInterior(EToE))
	assert.Equal(t, len(tm.Cube.Raw.BCTriangles), CountBoundary(EToE))
	for k := 0; k < 6; k++ {
		nbrs := 0
		for f := 0; f < NFacesTet; f++ {
			if EToE[f][k] != k {
				nbrs++
			}
		}
		assert.Equal(t, 2, nbrs, "element %d", k)
	}
}

func TestBuildConnectivity_BoxMesh(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name       string
		nx, ny, nz int
	}{
		{"1x1x1", 1, 1, 1},
		{"3x2x1", 3, 2, 1},
		{"12x12x12", 12, 12, 12}, // 10368 elements
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := NewBoxTestMesh(tt.nx, tt.ny, tt.nz)
			K := 6 * tt.nx * tt.ny * tt.nz
			require.Len(t, tm.Raw.Tets, K)

			EToE, EToF, err := BuildConnectivity(tm.Raw.Tets)
			require.NoError(t, err)
			require.NoError(t, CheckConnectivity(EToE, EToF))

			nInterior := CountInterior(EToE)
			assert.Equal(t, 0, nInterior%2, "interior face slots come in pairs")
			assert.Equal(t, NFacesTet*K, nInterior+CountBoundary(EToE))

			nBoundary := 4 * (tt.nx*tt.ny + tt.ny*tt.nz + tt.nx*tt.nz)
			assert.Equal(t, nBoundary, CountBoundary(EToE))
			assert.Equal(t, len(tm.Raw.BCTriangles), CountBoundary(EToE))
		})
	}
}

func TestBuildConnectivity_VertexRelabeling(t *testing.T) {
	tm := NewBoxTestMesh(4, 3, 2)
	EToE, EToF, err := BuildConnectivity(tm.Raw.Tets)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		perm := rng.Perm(len(tm.Raw.Vertices))
		relabeled := PermuteVertices(tm.Raw, perm)
		pEToE, pEToF, err := BuildConnectivity(relabeled.Tets)
		require.NoError(t, err)
		// Element ids and local face numbering do not depend on vertex ids
		if diff := cmp.Diff(EToE, pEToE); diff != "" {
			t.Fatalf("trial %d: EToE changed under relabeling (-orig +relabeled):\n%s", trial, diff)
		}
		if diff := cmp.Diff(EToF, pEToF); diff != "" {
			t.Fatalf("trial %d: EToF changed under relabeling (-orig +relabeled):\n%s", trial, diff)
		}
	}
}

func TestBuildConnectivity_ElementReordering(t *testing.T) {
	tm := NewBoxTestMesh(3, 3, 2)
	EToE, EToF, err := BuildConnectivity(tm.Raw.Tets)
	require.NoError(t, err)

	K := len(tm.Raw.Tets)
	perm := rand.New(rand.NewSource(7)).Perm(K) // old element k becomes perm[k]
	tets := make([][4]int, K)
	for k, tet := range tm.Raw.Tets {
		tets[perm[k]] = tet
	}
	pEToE, pEToF, err := BuildConnectivity(tets)
	require.NoError(t, err)
	for k := 0; k < K; k++ {
		for f := 0; f < NFacesTet; f++ {
			require.Equal(t, perm[EToE[f][k]], pEToE[f][perm[k]], "element %d face %d", k, f)
			require.Equal(t, EToF[f][k], pEToF[f][perm[k]], "element %d face %d", k, f)
		}
	}
}

func TestBuildConnectivity_Disconnected(t *testing.T) {
	tets := [][4]int{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{5, 6, 7, 8},
	}
	EToE, EToF, err := BuildConnectivity(tets)
	require.NoError(t, err)
	for f := 0; f < NFacesTet; f++ {
		assert.True(t, IsBoundary(EToE, EToF, f, 0), "isolated element face %d", f)
	}
	assert.Equal(t, 2, CountInterior(EToE))
	testReciprocity(t, EToE, EToF)

	comp, nComp := ConnectedComponents(ElementGraph(EToE))
	assert.Equal(t, 2, nComp)
	assert.Equal(t, []int{0, 1, 1}, comp)
}

func TestBuildConnectivity_Empty(t *testing.T) {
	EToE, EToF, err := BuildConnectivity(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, EToE.Len())
	assert.Equal(t, 0, EToF.Len())
	assert.NoError(t, CheckConnectivity(EToE, EToF))
}

func TestBuildConnectivity_NonManifold(t *testing.T) {
	// Three elements on face {0,1,2}
	tets := [][4]int{
		{0, 1, 2, 3},
		{0, 1, 2, 4},
		{2, 1, 0, 5},
	}
	_, _, err := BuildConnectivity(tets)
	require.Error(t, err)

	var mErr *MalformedTopologyError
	require.True(t, errors.As(err, &mErr), "expected MalformedTopologyError, got %T", err)
	assert.Equal(t, [3]int{0, 1, 2}, mErr.FaceVertices)
	assert.Equal(t, []int{0, 1, 2}, mErr.Elements)
	assert.Equal(t, []int{0, 0, 0}, mErr.LocalFaces)
}

func TestBuildConnectivity_InvalidElements(t *testing.T) {
	tests := []struct {
		name string
		tets [][4]int
	}{
		{"repeated vertex", [][4]int{{0, 1, 2, 3}, {4, 5, 5, 6}}},
		{"negative vertex", [][4]int{{0, 1, -2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildConnectivity(tt.tets)
			var iErr *InvalidMeshError
			assert.True(t, errors.As(err, &iErr), "expected InvalidMeshError, got %v", err)
		})
	}
}

func TestCheckConnectivity_DetectsErrors(t *testing.T) {
	tm := GetStandardTestMeshes()
	EToE, EToF, err := BuildConnectivity(tm.TwoTet.Raw.Tets)
	require.NoError(t, err)
	require.NoError(t, CheckConnectivity(EToE, EToF))

	t.Run("one sided", func(t *testing.T) {
		E, F := EToE.Copy(), EToF.Copy()
		E[0][1], F[0][1] = 1, 0 // Tet 1 no longer points back
		assert.Equal(t, [NFacesTet]int{1, 1, 1, 1}, E.Column(1))
		err := CheckConnectivity(E, F)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 0 face 2 connects to element 1 face 0")
		assert.Contains(t, err.Error(), "element 1 has neighbors [1 1 1 1]")
	})
	t.Run("boundary marker", func(t *testing.T) {
		E, F := EToE.Copy(), EToF.Copy()
		F[1][0] = 2
		assert.Error(t, CheckConnectivity(E, F))
	})
	t.Run("out of range", func(t *testing.T) {
		E, F := EToE.Copy(), EToF.Copy()
		E[3][1] = 7
		assert.Error(t, CheckConnectivity(E, F))
	})
}

func TestFaceTable_Slots(t *testing.T) {
	T := NewFaceTable(5)
	for f := 0; f < NFacesTet; f++ {
		for k := 0; k < 5; k++ {
			slot := T.Slot(f, k)
			assert.Equal(t, f*5+k, slot)
			ff, kk := T.Unslot(slot)
			assert.Equal(t, f, ff)
			assert.Equal(t, k, kk)
		}
	}
}

func BenchmarkBuildConnectivity(b *testing.B) {
	tm := NewBoxTestMesh(20, 20, 20) // 48000 elements
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := BuildConnectivity(tm.Raw.Tets); err != nil {
			b.Fatal(err)
		}
	}
}
