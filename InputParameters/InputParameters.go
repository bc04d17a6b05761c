package InputParameters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

// SourceParameters places the initial acoustic pulse
type SourceParameters struct {
	Position  [3]float64 `yaml:"Position"`
	HalfWidth float64    `yaml:"HalfWidth"` // Distance at which the pulse falls to half amplitude
}

// Parameters obtained from the YAML input file
type InputParametersAcoustics struct {
	Title           string           `yaml:"Title"`
	MeshFile        string           `yaml:"MeshFile"`
	CFL             float64          `yaml:"CFL"`
	InitType        string           `yaml:"InitType"`
	PolynomialOrder int              `yaml:"PolynomialOrder"`
	FinalTime       float64          `yaml:"FinalTime"`
	BCLabels        map[string]int   `yaml:"BCLabels"` // Boundary label name to the physical code used in the mesh file
	Source          SourceParameters `yaml:"Source"`
}

func (ip *InputParametersAcoustics) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the parameters that do not depend on the mesh
func (ip *InputParametersAcoustics) Validate() error {
	if len(ip.BCLabels) == 0 {
		return fmt.Errorf("no boundary labels given")
	}
	if ip.PolynomialOrder < 1 {
		return fmt.Errorf("polynomial order must be at least 1, have %d", ip.PolynomialOrder)
	}
	if ip.CFL < 0 || ip.FinalTime < 0 {
		return fmt.Errorf("CFL and FinalTime must be non-negative, have %v and %v", ip.CFL, ip.FinalTime)
	}
	switch strings.ToLower(ip.InitType) {
	case "", "monopole":
		if ip.Source.HalfWidth <= 0 {
			return fmt.Errorf("source half width must be positive, have %v", ip.Source.HalfWidth)
		}
	default:
		return fmt.Errorf("unknown InitType: %s", ip.InitType)
	}
	return nil
}

func (ip *InputParametersAcoustics) Print() {
	ip.Fprint(os.Stdout)
}

func (ip *InputParametersAcoustics) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t= MeshFile\n", ip.MeshFile)
	fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(w, "[%s]\t= InitType\n", ip.InitType)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Fprintf(w, "%v, %8.5f\t= Source Position, HalfWidth\n", ip.Source.Position, ip.Source.HalfWidth)
	keys := make([]string, len(ip.BCLabels))
	i := 0
	for k := range ip.BCLabels {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCLabels[%s] = %d\n", key, ip.BCLabels[key])
	}
}
