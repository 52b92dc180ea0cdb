package fem

import (
	"github.com/notargets/fetransfer/utils"
)

type edgeKey [2]int

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// UniformRefinement splits every segment in two and every triangle and
// quadrilateral in four. The new mesh records each child's parent and the
// affine embedding of the child in the parent's reference element.
func (m *Mesh) UniformRefinement() (fine *Mesh) {
	var (
		vertices = make([][]float64, len(m.Vertices))
		midpoint = make(map[edgeKey]int)
		elements []Element
		embs     []Embedding
	)
	copy(vertices, m.Vertices)
	newVertex := func(x []float64) int {
		vertices = append(vertices, x)
		return len(vertices) - 1
	}
	mid := func(a, b int) int {
		k := newEdgeKey(a, b)
		if v, ok := midpoint[k]; ok {
			return v
		}
		x := make([]float64, m.Dim)
		for d := range x {
			x[d] = 0.5 * (m.Vertices[a][d] + m.Vertices[b][d])
		}
		midpoint[k] = newVertex(x)
		return midpoint[k]
	}
	for k, el := range m.Elements {
		var (
			g     = el.Geometry
			v     = el.Vertices
			ref   = g.ReferenceVertices()
			local [][]int // children as indices into the extended vertex list
			pts   [][]float64
			ids   []int
		)
		// Extended local vertex list: element vertices, edge midpoints, center
		pts = append(pts, ref...)
		ids = append(ids, v...)
		switch g {
		case Segment:
			pts = append(pts, []float64{0.5})
			ids = append(ids, mid(v[0], v[1]))
			local = [][]int{{0, 2}, {2, 1}}
		case Triangle:
			for _, e := range g.Edges() {
				a, b := ref[e[0]], ref[e[1]]
				pts = append(pts, []float64{0.5 * (a[0] + b[0]), 0.5 * (a[1] + b[1])})
				ids = append(ids, mid(v[e[0]], v[e[1]]))
			}
			// 3 = m01, 4 = m12, 5 = m20
			local = [][]int{{0, 3, 5}, {3, 1, 4}, {5, 4, 2}, {4, 5, 3}}
		case Quadrilateral:
			for _, e := range g.Edges() {
				a, b := ref[e[0]], ref[e[1]]
				pts = append(pts, []float64{0.5 * (a[0] + b[0]), 0.5 * (a[1] + b[1])})
				ids = append(ids, mid(v[e[0]], v[e[1]]))
			}
			center := make([]float64, m.Dim)
			for _, iv := range v {
				for d := range center {
					center[d] += 0.25 * m.Vertices[iv][d]
				}
			}
			pts = append(pts, []float64{0.5, 0.5})
			ids = append(ids, newVertex(center))
			// 4 = m01, 5 = m12, 6 = m23, 7 = m30, 8 = center
			local = [][]int{{0, 4, 8, 7}, {4, 1, 5, 8}, {8, 5, 2, 6}, {7, 8, 6, 3}}
		}
		for _, child := range local {
			cv := make(utils.Index, len(child))
			cref := make([][]float64, len(child))
			for n, c := range child {
				cv[n] = ids[c]
				cref[n] = pts[c]
			}
			elements = append(elements, Element{Geometry: g, Vertices: cv})
			embs = append(embs, Embedding{Parent: k, Transformation: newVertexTransformation(g, cref)})
		}
	}
	fine = &Mesh{
		Dim:        m.Dim,
		Vertices:   vertices,
		Elements:   elements,
		Periodic:   make(map[int]int),
		parent:     m,
		embeddings: embs,
	}
	for v, img := range m.Periodic {
		fine.Periodic[v] = img
	}
	// Midpoints of identified edges are identified as well
	for k, v := range midpoint {
		ca, cb := m.CanonicalVertex(k[0]), m.CanonicalVertex(k[1])
		if ca == k[0] && cb == k[1] {
			continue
		}
		if img, ok := midpoint[newEdgeKey(ca, cb)]; ok && img != v {
			fine.Periodic[v] = img
		}
	}
	return
}
