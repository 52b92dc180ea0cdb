package fem

import (
	"fmt"

	"github.com/notargets/fetransfer/utils"
)

type Element struct {
	Geometry Geometry
	Vertices utils.Index
}

// Embedding places a refined element inside its parent: Transformation maps
// the child's reference coordinates into the parent's.
type Embedding struct {
	Parent         int
	Transformation *AffineTransformation
}

// Mesh is an unstructured, possibly mixed, conforming mesh. Periodic maps a
// vertex onto the vertex it is identified with; both keep their own local
// dofs, and share one true dof.
type Mesh struct {
	Dim        int
	Vertices   [][]float64
	Elements   []Element
	Periodic   map[int]int
	parent     *Mesh
	embeddings []Embedding
}

func NewMesh(dim int, vertices [][]float64, elements []Element) (m *Mesh, err error) {
	for k, el := range elements {
		switch {
		case el.Geometry.Dim() != dim:
			err = fmt.Errorf("element %d: geometry %s in a %dD mesh", k, el.Geometry, dim)
			return
		case len(el.Vertices) != el.Geometry.NumVertices():
			err = fmt.Errorf("element %d: %s needs %d vertices, have %d",
				k, el.Geometry, el.Geometry.NumVertices(), len(el.Vertices))
			return
		}
		for _, v := range el.Vertices {
			if v < 0 || v >= len(vertices) {
				err = fmt.Errorf("element %d: vertex %d out of range [0,%d)", k, v, len(vertices))
				return
			}
		}
	}
	m = &Mesh{
		Dim:      dim,
		Vertices: vertices,
		Elements: elements,
		Periodic: make(map[int]int),
	}
	return
}

func (m *Mesh) NumElements() int               { return len(m.Elements) }
func (m *Mesh) NumVertices() int               { return len(m.Vertices) }
func (m *Mesh) ElementGeometry(i int) Geometry { return m.Elements[i].Geometry }
func (m *Mesh) Parent() *Mesh                  { return m.parent }

// CanonicalVertex resolves periodic identification.
func (m *Mesh) CanonicalVertex(v int) int {
	if img, ok := m.Periodic[v]; ok {
		return img
	}
	return v
}

// IsRefinementOf reports whether coarse is a strict ancestor of m.
func (m *Mesh) IsRefinementOf(coarse *Mesh) bool {
	for p := m.parent; p != nil; p = p.parent {
		if p == coarse {
			return true
		}
	}
	return false
}

// AncestorEmbedding locates fine element i inside ancestor, composing the
// embeddings of every intermediate refinement.
func (m *Mesh) AncestorEmbedding(i int, ancestor *Mesh) (emb Embedding, err error) {
	var (
		cur = m
		k   = i
		T   *AffineTransformation
	)
	for cur != ancestor {
		if cur.parent == nil {
			err = fmt.Errorf("%w: element %d has no ancestor in the requested mesh", ErrNotRefinement, i)
			return
		}
		e := cur.embeddings[k]
		if T == nil {
			T = e.Transformation
		} else {
			T = e.Transformation.Compose(T)
		}
		k = e.Parent
		cur = cur.parent
	}
	if T == nil {
		T = NewIdentityTransformation(m.ElementGeometry(i))
	}
	emb = Embedding{Parent: k, Transformation: T}
	return
}

// MapToPhysical evaluates the linear (bilinear on quadrilaterals) geometry
// map of element i at reference point ip.
func (m *Mesh) MapToPhysical(i int, ip, x []float64) {
	var (
		el = m.Elements[i]
		N  []float64
	)
	switch el.Geometry {
	case Segment:
		N = []float64{1 - ip[0], ip[0]}
	case Triangle:
		N = []float64{1 - ip[0] - ip[1], ip[0], ip[1]}
	case Quadrilateral:
		r, s := ip[0], ip[1]
		N = []float64{(1 - r) * (1 - s), r * (1 - s), r * s, (1 - r) * s}
	}
	for d := range x {
		x[d] = 0
		for k, v := range el.Vertices {
			x[d] += N[k] * m.Vertices[v][d]
		}
	}
}

// Permute returns a mesh sharing m's vertices with its elements visited in
// the order perm. Refinement history is not carried over.
func (m *Mesh) Permute(perm []int) (pm *Mesh, err error) {
	if len(perm) != len(m.Elements) {
		err = fmt.Errorf("permutation has %d entries, mesh has %d elements", len(perm), len(m.Elements))
		return
	}
	seen := make([]bool, len(perm))
	elements := make([]Element, len(perm))
	for k, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			err = fmt.Errorf("invalid permutation entry %d at %d", p, k)
			return
		}
		seen[p] = true
		elements[k] = m.Elements[p]
	}
	if pm, err = NewMesh(m.Dim, m.Vertices, elements); err != nil {
		return
	}
	for v, img := range m.Periodic {
		pm.Periodic[v] = img
	}
	return
}
