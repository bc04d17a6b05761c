package mesh

import (
	"fmt"
	"strings"
)

// LabelMismatchError is returned when the boundary label codes present in
// the mesh and the codes declared by the caller are not the same set.
type LabelMismatchError struct {
	MissingInMesh   []int // Declared by the caller, absent from the mesh
	MissingInLabels []int // Present in the mesh, not declared by the caller
	DuplicateCodes  []int // Declared under more than one label name
}

func (e *LabelMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("boundary labels must all be present in the mesh and every mesh label must be declared")
	if len(e.MissingInMesh) > 0 {
		fmt.Fprintf(&b, ": declared but not in mesh %v", e.MissingInMesh)
	}
	if len(e.MissingInLabels) > 0 {
		if len(e.MissingInMesh) > 0 {
			b.WriteString(",")
		} else {
			b.WriteString(":")
		}
		fmt.Fprintf(&b, " in mesh but not declared %v", e.MissingInLabels)
	}
	if len(e.DuplicateCodes) > 0 {
		fmt.Fprintf(&b, " (codes declared under more than one label %v)", e.DuplicateCodes)
	}
	return b.String()
}

// MalformedTopologyError is returned when more than two element faces share
// the same three vertices, which happens with non-manifold or overlapping
// meshes.
type MalformedTopologyError struct {
	FaceVertices [3]int
	Elements     []int // Element of each occurrence
	LocalFaces   []int // Local face of each occurrence
}

func (e *MalformedTopologyError) Error() string {
	return fmt.Sprintf("face %v is shared by %d element faces (elements %v, local faces %v), at most 2 allowed",
		e.FaceVertices, len(e.Elements), e.Elements, e.LocalFaces)
}

// InvalidMeshError reports raw mesh arrays that are structurally unusable,
// such as out of range vertex indices.
type InvalidMeshError struct {
	Reason string
}

func (e *InvalidMeshError) Error() string {
	return "invalid mesh: " + e.Reason
}

func invalidf(format string, args ...interface{}) error {
	return &InvalidMeshError{Reason: fmt.Sprintf(format, args...)}
}
