package fem

import (
	"fmt"
	"strings"

	"github.com/notargets/fetransfer/utils"
)

type MeshKind uint8

const (
	Triangles MeshKind = iota
	Quadrilaterals
	Mixed // alternating columns of quadrilaterals and triangle pairs
)

var (
	MeshKindNames = map[string]MeshKind{
		"triangles":      Triangles,
		"quadrilaterals": Quadrilaterals,
		"quads":          Quadrilaterals,
		"mixed":          Mixed,
	}
)

func NewMeshKind(label string) (mk MeshKind, err error) {
	var (
		ok bool
	)
	if mk, ok = MeshKindNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unable to use mesh kind named %s", label)
	}
	return
}

// NewSegmentMesh divides [x0,x1] into K equal segments. When periodic, the
// vertex at x1 is identified with the vertex at x0.
func NewSegmentMesh(x0, x1 float64, K int, periodic bool) (m *Mesh, err error) {
	if K < 1 {
		err = fmt.Errorf("need at least one element, have %d", K)
		return
	}
	var (
		vertices = make([][]float64, K+1)
		elements = make([]Element, K)
	)
	for i := range vertices {
		vertices[i] = []float64{x0 + (x1-x0)*float64(i)/float64(K)}
	}
	for k := range elements {
		elements[k] = Element{Geometry: Segment, Vertices: utils.Index{k, k + 1}}
	}
	if m, err = NewMesh(1, vertices, elements); err != nil {
		return
	}
	if periodic {
		m.Periodic[K] = 0
	}
	return
}

// NewRectangleMesh covers [0,sx]x[0,sy] with nx by ny cells. Triangle cells
// are split along the diagonal from the lower left corner. With periodicX the
// right column of vertices is identified with the left one.
func NewRectangleMesh(nx, ny int, sx, sy float64, kind MeshKind, periodicX bool) (m *Mesh, err error) {
	if nx < 1 || ny < 1 {
		err = fmt.Errorf("need at least one cell in each direction, have %d x %d", nx, ny)
		return
	}
	// Edges are identified by their end vertices, so a periodic strip two
	// cells wide would merge distinct edges.
	if periodicX && nx < 3 {
		err = fmt.Errorf("periodic meshes need at least three cells across, have %d", nx)
		return
	}
	var (
		vertices = make([][]float64, 0, (nx+1)*(ny+1))
		elements []Element
		vid      = func(i, j int) int { return i + j*(nx+1) }
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			vertices = append(vertices, []float64{sx * float64(i) / float64(nx), sy * float64(j) / float64(ny)})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10, v11, v01 := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			quad := kind == Quadrilaterals || (kind == Mixed && i%2 == 0)
			if quad {
				elements = append(elements, Element{Geometry: Quadrilateral, Vertices: utils.Index{v00, v10, v11, v01}})
				continue
			}
			elements = append(elements,
				Element{Geometry: Triangle, Vertices: utils.Index{v00, v10, v11}},
				Element{Geometry: Triangle, Vertices: utils.Index{v00, v11, v01}},
			)
		}
	}
	if m, err = NewMesh(2, vertices, elements); err != nil {
		return
	}
	if periodicX {
		for j := 0; j <= ny; j++ {
			m.Periodic[vid(nx, j)] = vid(0, j)
		}
	}
	return
}
