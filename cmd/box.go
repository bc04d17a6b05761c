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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/dgacoustics/DG3D/mesh"
	"github.com/notargets/dgacoustics/DG3D/mesh/readers"
)

type BoxModel struct {
	NX, NY, NZ int
	OutFile    string
	Version    string
}

// BoxCmd represents the box command
var BoxCmd = &cobra.Command{
	Use:   "box",
	Short: "Write a structured tetrahedral box mesh in Gmsh format",
	Long: `Writes the box [0,nx] x [0,ny] x [0,nz] split into 6 tetrahedra per unit cube.
The sides carry physical codes 1 to 6 named xmin, xmax, ymin, ymax, zmin, zmax.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bm := &BoxModel{}
		bm.NX, _ = cmd.Flags().GetInt("nx")
		bm.NY, _ = cmd.Flags().GetInt("ny")
		bm.NZ, _ = cmd.Flags().GetInt("nz")
		bm.OutFile, _ = cmd.Flags().GetString("output")
		bm.Version, _ = cmd.Flags().GetString("format")
		return RunBox(bm, logger)
	},
}

func init() {
	rootCmd.AddCommand(BoxCmd)
	BoxCmd.Flags().Int("nx", 4, "number of unit cubes in x")
	BoxCmd.Flags().Int("ny", 4, "number of unit cubes in y")
	BoxCmd.Flags().Int("nz", 4, "number of unit cubes in z")
	BoxCmd.Flags().StringP("output", "o", "box.msh", "output file")
	BoxCmd.Flags().String("format", "4.1", "Gmsh format version, 2.2 or 4.1")
}

// RunBox writes the box mesh described by bm
func RunBox(bm *BoxModel, logger *zap.Logger) (err error) {
	if bm.NX < 1 || bm.NY < 1 || bm.NZ < 1 {
		return fmt.Errorf("box dimensions must be positive, have %d x %d x %d", bm.NX, bm.NY, bm.NZ)
	}
	var write func(f *os.File) error
	switch bm.Version {
	case "2.2":
		write = func(f *os.File) error { return readers.WriteGmsh22(f, boxRaw(bm)) }
	case "4.1":
		write = func(f *os.File) error { return readers.WriteGmsh41(f, boxRaw(bm)) }
	default:
		return fmt.Errorf("unsupported Gmsh format version %q, must be 2.2 or 4.1", bm.Version)
	}
	f, err := os.Create(bm.OutFile)
	if err != nil {
		return
	}
	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", bm.OutFile, err)
	}
	if err = f.Close(); err != nil {
		return
	}
	logger.Info("box mesh written",
		zap.String("file", bm.OutFile),
		zap.String("format", bm.Version),
		zap.Int("tets", 6*bm.NX*bm.NY*bm.NZ))
	return
}

func boxRaw(bm *BoxModel) mesh.RawMesh {
	raw, labels := mesh.NewBoxMesh(bm.NX, bm.NY, bm.NZ)
	raw.PhysicalNames = make(map[int]string, len(labels))
	for name, code := range labels {
		raw.PhysicalNames[code] = name
	}
	return raw
}
