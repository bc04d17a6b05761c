package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/dgacoustics/DG3D/mesh"
)

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (mesh.RawMesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".msh":
		return ReadGmshRaw(filename)
	default:
		return mesh.RawMesh{}, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
