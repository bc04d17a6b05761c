package Acoustics3D

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustics/DG3D/mesh"
	"github.com/notargets/dgacoustics/InputParameters"
)

// InitialCondition evaluates the initial acoustic state. Each coordinate
// array is (Np x K), one column per element, and every result has that shape.
type InitialCondition interface {
	Pinit(xyz [3]*mat.Dense) *mat.Dense
	VXinit(xyz [3]*mat.Dense) *mat.Dense
	VYinit(xyz [3]*mat.Dense) *mat.Dense
	VZinit(xyz [3]*mat.Dense) *mat.Dense
}

type InitType uint

const (
	MONOPOLE InitType = iota
)

var (
	InitNames = map[string]InitType{
		"monopole": MONOPOLE,
	}
	InitPrintNames = []string{"Gaussian Monopole Pulse"}
)

func (it InitType) Print() string { return InitPrintNames[it] }

// NewInitType maps a case-insensitive name to an InitType, empty means Monopole
func NewInitType(label string) (it InitType, err error) {
	if len(label) == 0 {
		return MONOPOLE, nil
	}
	var ok bool
	if it, ok = InitNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unable to use init type named %s", label)
	}
	return
}

// NewInitialCondition builds the initial condition named by ip.InitType
func NewInitialCondition(ip *InputParameters.InputParametersAcoustics) (ic InitialCondition, err error) {
	var it InitType
	if it, err = NewInitType(ip.InitType); err != nil {
		return
	}
	switch it {
	case MONOPOLE:
		ic, err = NewMonopole(ip.Source.Position, ip.Source.HalfWidth)
	}
	return
}

// Monopole is a Gaussian pressure pulse at rest,
//
//	p = exp(-ln2 |x - Source|^2 / HalfWidth^2)
type Monopole struct {
	Source    [3]float64
	HalfWidth float64
}

func NewMonopole(source [3]float64, halfWidth float64) (*Monopole, error) {
	if !(halfWidth > 0) {
		return nil, fmt.Errorf("monopole half width must be positive, have %v", halfWidth)
	}
	return &Monopole{Source: source, HalfWidth: halfWidth}, nil
}

func (m *Monopole) Pinit(xyz [3]*mat.Dense) *mat.Dense {
	var (
		Np, K = xyz[0].Dims()
		P     = mat.NewDense(Np, K, nil)
		fac   = -math.Ln2 / (m.HalfWidth * m.HalfWidth)
	)
	P.Apply(func(i, j int, _ float64) float64 {
		var r2 float64
		for d := 0; d < 3; d++ {
			dx := xyz[d].At(i, j) - m.Source[d]
			r2 += dx * dx
		}
		return math.Exp(fac * r2)
	}, P)
	return P
}

func (m *Monopole) VXinit(xyz [3]*mat.Dense) *mat.Dense { return zerosLike(xyz[0]) }
func (m *Monopole) VYinit(xyz [3]*mat.Dense) *mat.Dense { return zerosLike(xyz[0]) }
func (m *Monopole) VZinit(xyz [3]*mat.Dense) *mat.Dense { return zerosLike(xyz[0]) }

func zerosLike(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	return mat.NewDense(r, c, nil)
}

// CornerCoordinates returns the (4 x K) coordinates of the element vertices,
// the collocation points of a linear element.
func CornerCoordinates(ms *mesh.MeshStore) (xyz [3]*mat.Dense, err error) {
	if ms.Dim() != 3 {
		return xyz, fmt.Errorf("corner coordinates need a 3D mesh, have dimension %d", ms.Dim())
	}
	K := ms.NumTets()
	if K == 0 {
		return xyz, fmt.Errorf("mesh has no elements")
	}
	for d := range xyz {
		xyz[d] = mat.NewDense(4, K, nil)
	}
	V := ms.Vertices()
	for k, tet := range ms.EToV() {
		for i, v := range tet {
			for d := range xyz {
				xyz[d].Set(i, k, V.At(v, d))
			}
		}
	}
	return
}
