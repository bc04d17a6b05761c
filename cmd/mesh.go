/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgacoustics/DG3D/mesh"
	"github.com/notargets/dgacoustics/DG3D/mesh/readers"
	"github.com/notargets/dgacoustics/InputParameters"
	"github.com/notargets/dgacoustics/model_problems/Acoustics3D"
)

type MeshModel struct {
	GridFile string
	ICFile   string
	Profile  string
}

const exampleInputFile = `
########################################
Title: "Test Case"
MeshFile: room.msh # Overridden by -F
PolynomialOrder: 4
CFL: 0.5
FinalTime: 0.1
InitType: Monopole
BCLabels:
  floor: 11
  ceiling: 12
  walls: 13
Source:
  Position: [1.0, 1.0, 1.0]
  HalfWidth: 0.2
########################################
`

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Read a tetrahedral mesh, check its boundary labels and report its connectivity",
	Long: `Reads a Gmsh (.msh) tetrahedral mesh, checks that its boundary codes match the
BCLabels of the input parameters file one to one, builds the element face
connectivity and evaluates the initial condition at the element vertices.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mm := &MeshModel{
			GridFile: viper.GetString("gridFile"),
			ICFile:   viper.GetString("inputConditionsFile"),
			Profile:  viper.GetString("profile"),
		}
		switch mm.Profile {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		default:
			return fmt.Errorf("unknown profile type %q, must be cpu or mem", mm.Profile)
		}
		return RunMesh(cmd.OutOrStdout(), mm, logger)
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gmsh (.msh) format, overrides MeshFile from the input file")
	MeshCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- BCLabels\n\t- Source")
	MeshCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"gridFile", "inputConditionsFile", "profile"} {
		_ = viper.BindPFlag(name, MeshCmd.Flags().Lookup(name))
	}
}

func processInput(mm *MeshModel) (ip *InputParameters.InputParametersAcoustics, err error) {
	if len(mm.ICFile) == 0 {
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile), example file:%s",
			exampleInputFile)
	}
	var data []byte
	if data, err = os.ReadFile(mm.ICFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersAcoustics{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", mm.ICFile, err)
	}
	if len(mm.GridFile) != 0 {
		ip.MeshFile = mm.GridFile
	}
	if len(ip.MeshFile) == 0 {
		return nil, fmt.Errorf("must supply a grid file (-F, --gridFile) or MeshFile in %s", mm.ICFile)
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", mm.ICFile, err)
	}
	return
}

// RunMesh loads the mesh named by the model and writes a report to w
func RunMesh(w io.Writer, mm *MeshModel, logger *zap.Logger) (err error) {
	var (
		ip  *InputParameters.InputParametersAcoustics
		raw mesh.RawMesh
		ms  *mesh.MeshStore
	)
	if ip, err = processInput(mm); err != nil {
		return
	}
	if raw, err = readers.ReadMeshFile(ip.MeshFile); err != nil {
		return
	}
	logger.Debug("mesh file read",
		zap.String("file", ip.MeshFile),
		zap.Int("vertices", len(raw.Vertices)),
		zap.Int("tets", len(raw.Tets)),
		zap.Int("bcTriangles", len(raw.BCTriangles)))

	if ms, err = mesh.NewMeshStore(raw, ip.BCLabels, mesh.WithLogger(logger)); err != nil {
		var lErr *mesh.LabelMismatchError
		if errors.As(err, &lErr) {
			// The file's own names are usually what the labels should be
			logger.Error("boundary labels do not match the mesh",
				zap.Ints("missingInMesh", lErr.MissingInMesh),
				zap.Ints("missingInLabels", lErr.MissingInLabels),
				zap.Any("physicalNames", raw.PhysicalNames))
		}
		return fmt.Errorf("%s: %w", ip.MeshFile, err)
	}

	ip.Fprint(w)
	printMeshStats(w, ms)

	var (
		ic  Acoustics3D.InitialCondition
		xyz [3]*mat.Dense
	)
	if ic, err = Acoustics3D.NewInitialCondition(ip); err != nil {
		return
	}
	if xyz, err = Acoustics3D.CornerCoordinates(ms); err != nil {
		return
	}
	P := ic.Pinit(xyz)
	fmt.Fprintf(w, "[%8.5f, %8.5f]\t= Initial Pressure Range\n", mat.Min(P), mat.Max(P))
	return
}

func printMeshStats(w io.Writer, ms *mesh.MeshStore) {
	_, nComp := mesh.ConnectedComponents(ms.ElementGraph())
	fmt.Fprintf(w, "%d\t\t\t\t= Vertices\n", ms.NumVertices())
	fmt.Fprintf(w, "%d\t\t\t\t= Tetrahedra\n", ms.NumTets())
	fmt.Fprintf(w, "%d\t\t\t\t= Interior Faces\n", ms.NumInteriorFaces())
	fmt.Fprintf(w, "%d\t\t\t\t= Boundary Faces\n", ms.NumBoundaryFaces())
	fmt.Fprintf(w, "%d\t\t\t\t= Connected Components\n", nComp)
	for _, label := range ms.Labels() {
		fmt.Fprintf(w, "Triangles[%s] = %d\n", label, ms.NumBCTrianglesFor(label))
	}
}
