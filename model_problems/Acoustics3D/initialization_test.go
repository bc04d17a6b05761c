package Acoustics3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustics/DG3D/mesh"
	"github.com/notargets/dgacoustics/InputParameters"
)

func TestMonopole(t *testing.T) {
	m, err := NewMonopole([3]float64{1, 0, 0}, 0.5)
	require.NoError(t, err)

	// Three points along x in a single column, one in a second column
	xyz := [3]*mat.Dense{
		mat.NewDense(3, 2, []float64{1, 0, 1.5, 0, 2, 0}),
		mat.NewDense(3, 2, []float64{0, 0, 0, 0, 0, 0.5}),
		mat.NewDense(3, 2, nil),
	}
	P := m.Pinit(xyz)
	r, c := P.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, 1., P.At(0, 0), 1e-15, "peak at the source")
	assert.InDelta(t, 0.5, P.At(1, 0), 1e-15, "half amplitude one half width away")
	assert.InDelta(t, math.Pow(0.5, 4), P.At(2, 0), 1e-15)
	// |(0,0.5,0)-(1,0,0)|^2 = 1.25
	assert.InDelta(t, math.Exp(-math.Ln2*1.25/0.25), P.At(2, 1), 1e-15)

	for _, V := range []*mat.Dense{m.VXinit(xyz), m.VYinit(xyz), m.VZinit(xyz)} {
		vr, vc := V.Dims()
		assert.Equal(t, r, vr)
		assert.Equal(t, c, vc)
		assert.Equal(t, 0., mat.Norm(V, 1))
	}

	_, err = NewMonopole([3]float64{}, 0)
	assert.Error(t, err)
	_, err = NewMonopole([3]float64{}, math.NaN())
	assert.Error(t, err)
}

func TestNewInitialCondition(t *testing.T) {
	ip := &InputParameters.InputParametersAcoustics{
		InitType: "monopole",
		Source:   InputParameters.SourceParameters{Position: [3]float64{1, 2, 3}, HalfWidth: 0.1},
	}
	ic, err := NewInitialCondition(ip)
	require.NoError(t, err)
	m, ok := ic.(*Monopole)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, m.Source)
	assert.Equal(t, 0.1, m.HalfWidth)

	ip.InitType = ""
	_, err = NewInitialCondition(ip)
	assert.NoError(t, err)

	ip.InitType = "PlaneWave"
	_, err = NewInitialCondition(ip)
	assert.Error(t, err)

	assert.Equal(t, "Gaussian Monopole Pulse", MONOPOLE.Print())
}

func TestCornerCoordinates(t *testing.T) {
	tm := mesh.GetStandardTestMeshes().TwoTet
	ms, err := mesh.NewMeshStore(tm.Raw, tm.Labels)
	require.NoError(t, err)

	xyz, err := CornerCoordinates(ms)
	require.NoError(t, err)
	r, c := xyz[0].Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	for k, tet := range tm.Raw.Tets {
		for i, v := range tet {
			for d := 0; d < 3; d++ {
				assert.Equal(t, tm.Raw.Vertices[v][d], xyz[d].At(i, k))
			}
		}
	}

	// Monopole at a mesh vertex peaks there
	m, err := NewMonopole([3]float64{1, 1, 1}, 1)
	require.NoError(t, err)
	P := m.Pinit(xyz)
	assert.InDelta(t, 1., P.At(3, 1), 1e-15)
	assert.InDelta(t, 1., mat.Max(P), 1e-15)
}

func TestCornerCoordinatesRejects2D(t *testing.T) {
	raw := mesh.RawMesh{
		Vertices: [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}
	ms, err := mesh.NewMeshStore(raw, map[string]int{})
	require.NoError(t, err)
	_, err = CornerCoordinates(ms)
	assert.Error(t, err)
}
