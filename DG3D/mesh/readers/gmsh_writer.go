package readers

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/notargets/dgacoustics/DG3D/mesh"
)

// WriteGmsh22 writes raw as an ASCII Gmsh 2.2 file. Node tags are the 1-based
// vertex indices; boundary triangles are written first with their code as the
// physical and elementary tag, followed by the tets.
func WriteGmsh22(w io.Writer, raw mesh.RawMesh) error {
	if err := checkWritable(raw); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat")
	writePhysicalNames(bw, raw)

	fmt.Fprintf(bw, "$Nodes\n%d\n", len(raw.Vertices))
	for i, xyz := range raw.Vertices {
		fmt.Fprintf(bw, "%d %s\n", i+1, formatCoords(xyz))
	}
	fmt.Fprintln(bw, "$EndNodes")

	fmt.Fprintf(bw, "$Elements\n%d\n", len(raw.BCTriangles)+len(raw.Tets))
	elemID := 1
	for t, tri := range raw.BCTriangles {
		code := raw.BCCodes[t]
		fmt.Fprintf(bw, "%d %d 2 %d %d %d %d %d\n",
			elemID, gmshTriangle, code, code, tri[0]+1, tri[1]+1, tri[2]+1)
		elemID++
	}
	for _, tet := range raw.Tets {
		fmt.Fprintf(bw, "%d %d 2 0 1 %d %d %d %d\n",
			elemID, gmshTet, tet[0]+1, tet[1]+1, tet[2]+1, tet[3]+1)
		elemID++
	}
	fmt.Fprintln(bw, "$EndElements")
	return bw.Flush()
}

// WriteGmsh41 writes raw as an ASCII Gmsh 4.1 file with one surface entity
// per boundary code, carrying that code as its physical tag, and a single
// volume entity holding all tets.
func WriteGmsh41(w io.Writer, raw mesh.RawMesh) error {
	if err := checkWritable(raw); err != nil {
		return err
	}
	var (
		bw    = bufio.NewWriter(w)
		codes = distinctCodes(raw.BCCodes)
		byTag = make(map[int][]int, len(codes))
	)
	for t, c := range raw.BCCodes {
		byTag[c] = append(byTag[c], t)
	}
	lo, hi := boundingBox(raw.Vertices)

	fmt.Fprintln(bw, "$MeshFormat\n4.1 0 8\n$EndMeshFormat")
	writePhysicalNames(bw, raw)

	// Surface entity tags are 1..len(codes) in code order, the volume is 1
	fmt.Fprintln(bw, "$Entities")
	fmt.Fprintf(bw, "0 0 %d 1\n", len(codes))
	box := fmt.Sprintf("%s %s", formatCoords(lo[:]), formatCoords(hi[:]))
	for s, c := range codes {
		fmt.Fprintf(bw, "%d %s 1 %d 0\n", s+1, box, c)
	}
	fmt.Fprintf(bw, "1 %s 0 0\n", box)
	fmt.Fprintln(bw, "$EndEntities")

	nv := len(raw.Vertices)
	fmt.Fprintln(bw, "$Nodes")
	if nv == 0 {
		fmt.Fprintln(bw, "0 0 0 0")
	} else {
		fmt.Fprintf(bw, "1 %d 1 %d\n", nv, nv)
		fmt.Fprintf(bw, "3 1 0 %d\n", nv)
		for i := 1; i <= nv; i++ {
			fmt.Fprintln(bw, i)
		}
		for _, xyz := range raw.Vertices {
			fmt.Fprintln(bw, formatCoords(xyz))
		}
	}
	fmt.Fprintln(bw, "$EndNodes")

	var (
		numBlocks = len(codes)
		numElems  = len(raw.BCTriangles) + len(raw.Tets)
	)
	if len(raw.Tets) > 0 {
		numBlocks++
	}
	fmt.Fprintln(bw, "$Elements")
	fmt.Fprintf(bw, "%d %d 1 %d\n", numBlocks, numElems, numElems)
	elemTag := 1
	for s, c := range codes {
		fmt.Fprintf(bw, "2 %d %d %d\n", s+1, gmshTriangle, len(byTag[c]))
		for _, t := range byTag[c] {
			tri := raw.BCTriangles[t]
			fmt.Fprintf(bw, "%d %d %d %d\n", elemTag, tri[0]+1, tri[1]+1, tri[2]+1)
			elemTag++
		}
	}
	if len(raw.Tets) > 0 {
		fmt.Fprintf(bw, "3 1 %d %d\n", gmshTet, len(raw.Tets))
		for _, tet := range raw.Tets {
			fmt.Fprintf(bw, "%d %d %d %d %d\n", elemTag, tet[0]+1, tet[1]+1, tet[2]+1, tet[3]+1)
			elemTag++
		}
	}
	fmt.Fprintln(bw, "$EndElements")
	return bw.Flush()
}

func checkWritable(raw mesh.RawMesh) error {
	if len(raw.BCTriangles) != len(raw.BCCodes) {
		return fmt.Errorf("%d boundary triangles but %d codes", len(raw.BCTriangles), len(raw.BCCodes))
	}
	for i, xyz := range raw.Vertices {
		if len(xyz) < 1 || len(xyz) > 3 {
			return fmt.Errorf("vertex %d has %d coordinates, Gmsh needs 1 to 3", i, len(xyz))
		}
	}
	return nil
}

func writePhysicalNames(bw *bufio.Writer, raw mesh.RawMesh) {
	if len(raw.PhysicalNames) == 0 {
		return
	}
	tags := make([]int, 0, len(raw.PhysicalNames))
	for tag := range raw.PhysicalNames {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	fmt.Fprintf(bw, "$PhysicalNames\n%d\n", len(tags))
	for _, tag := range tags {
		fmt.Fprintf(bw, "2 %d %q\n", tag, raw.PhysicalNames[tag])
	}
	fmt.Fprintln(bw, "$EndPhysicalNames")
}

// formatCoords pads to three coordinates using the shortest exact representation
func formatCoords(xyz []float64) string {
	var c [3]float64
	copy(c[:], xyz)
	return strconv.FormatFloat(c[0], 'g', -1, 64) + " " +
		strconv.FormatFloat(c[1], 'g', -1, 64) + " " +
		strconv.FormatFloat(c[2], 'g', -1, 64)
}

func distinctCodes(codes []int) (out []int) {
	seen := make(map[int]bool)
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return
}

func boundingBox(verts [][]float64) (lo, hi [3]float64) {
	for i, xyz := range verts {
		var c [3]float64
		copy(c[:], xyz)
		for d := 0; d < 3; d++ {
			if i == 0 || c[d] < lo[d] {
				lo[d] = c[d]
			}
			if i == 0 || c[d] > hi[d] {
				hi[d] = c[d]
			}
		}
	}
	return
}
