package fem

import (
	"fmt"
	"math"

	"github.com/notargets/fetransfer/utils"
)

// FiniteElement is a local basis on a reference element.
type FiniteElement interface {
	Geometry() Geometry
	Order() int
	Dof() int
	// Nodes returns the reference coordinates of the nodes, one per dof.
	Nodes() [][]float64
	// NodeCounts splits Dof() into the nodes owned by each vertex, each edge
	// and the element interior, in that order.
	NodeCounts() (perVertex, perEdge, interior int)
	CalcShape(ip, shape []float64)
	// Project returns the Dof() x from.Dof() matrix interpolating the basis of
	// from, evaluated through T, at the nodes of the receiver.
	Project(from FiniteElement, T Transformation) utils.Matrix
}

// LagrangeElement is a nodal basis of complete (P_p) polynomials on simplices
// and tensor (Q_p) polynomials on quadrilaterals. Nodes are ordered vertices
// first, then each edge interior from the edge's first to second vertex, then
// the element interior.
type LagrangeElement struct {
	geom     Geometry
	N, Np    int
	NodeType NodeType
	R        [][]float64
	modes    [][2]int
	Vinv     utils.Matrix
}

func NewLagrangeElement(g Geometry, N int, nodeType NodeType) (el *LagrangeElement, err error) {
	if !g.Valid() {
		err = fmt.Errorf("unable to build a Lagrange element on geometry %s", g)
		return
	}
	if N < 1 {
		err = fmt.Errorf("polynomial order must be >= 1, have %d", N)
		return
	}
	el = &LagrangeElement{
		geom:     g,
		N:        N,
		NodeType: nodeType,
	}
	el.R = referenceNodes(g, Points1D(N, nodeType))
	el.modes = modeIndices(g, N)
	el.Np = len(el.R)
	if el.Np != len(el.modes) {
		panic(fmt.Errorf("node count %d does not match basis size %d on %s", el.Np, len(el.modes), g))
	}
	// Vandermonde of the orthonormal modal basis at the nodes
	V := utils.NewMatrix(el.Np, el.Np)
	psi := make([]float64, el.Np)
	for i, r := range el.R {
		el.modal(r, psi)
		V.SetRow(i, psi)
	}
	if el.Vinv, err = V.Inverse(); err != nil {
		err = fmt.Errorf("singular Vandermonde on %s order %d: %w", g, N, err)
		return
	}
	el.Vinv.SetReadOnly("Vinv")
	return
}

func (el *LagrangeElement) Geometry() Geometry { return el.geom }
func (el *LagrangeElement) Order() int         { return el.N }
func (el *LagrangeElement) Dof() int           { return el.Np }
func (el *LagrangeElement) Nodes() [][]float64 { return el.R }

func (el *LagrangeElement) NodeCounts() (perVertex, perEdge, interior int) {
	var (
		p = el.N
	)
	perVertex = 1
	switch el.geom {
	case Segment:
		interior = p - 1
	case Triangle:
		perEdge = p - 1
		interior = (p - 1) * (p - 2) / 2
	case Quadrilateral:
		perEdge = p - 1
		interior = (p - 1) * (p - 1)
	}
	return
}

func (el *LagrangeElement) CalcShape(ip, shape []float64) {
	psi := make([]float64, el.Np)
	el.modal(ip, psi)
	el.Vinv.MulVecTrans(psi, shape)
}

func (el *LagrangeElement) Project(from FiniteElement, T Transformation) (P utils.Matrix) {
	var (
		dim = from.Geometry().Dim()
		x   = make([]float64, dim)
		row = make([]float64, from.Dof())
	)
	P = utils.NewMatrix(el.Np, from.Dof())
	for i, r := range el.R {
		T.Transform(r, x)
		from.CalcShape(x, row)
		P.SetRow(i, row)
	}
	return
}

// modal evaluates the orthonormal basis at the reference point r. Reference
// coordinates on [0,1] are mapped to [-1,1] first; the triangle uses the
// collapsed coordinates of Simplex2DP.
func (el *LagrangeElement) modal(r, psi []float64) {
	switch el.geom {
	case Segment:
		x := 2*r[0] - 1
		for j, m := range el.modes {
			psi[j] = JacobiP(x, 0, 0, m[0])
		}
	case Quadrilateral:
		x, y := 2*r[0]-1, 2*r[1]-1
		for j, m := range el.modes {
			psi[j] = JacobiP(x, 0, 0, m[0]) * JacobiP(y, 0, 0, m[1])
		}
	case Triangle:
		a, b := collapse(2*r[0]-1, 2*r[1]-1)
		for j, m := range el.modes {
			psi[j] = math.Sqrt2 * JacobiP(a, 0, 0, m[0]) *
				JacobiP(b, float64(2*m[0]+1), 0, m[1]) * math.Pow(1-b, float64(m[0]))
		}
	}
}

// collapse maps the triangle (-1,-1),(1,-1),(-1,1) onto the square, sending
// the top vertex to a = -1.
func collapse(r, s float64) (a, b float64) {
	if 1-s > 1.e-12 {
		a = 2*(1+r)/(1-s) - 1
	} else {
		a = -1
	}
	b = s
	return
}

func modeIndices(g Geometry, N int) (modes [][2]int) {
	switch g {
	case Segment:
		for i := 0; i <= N; i++ {
			modes = append(modes, [2]int{i, 0})
		}
	case Triangle:
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				modes = append(modes, [2]int{i, j})
			}
		}
	case Quadrilateral:
		for j := 0; j <= N; j++ {
			for i := 0; i <= N; i++ {
				modes = append(modes, [2]int{i, j})
			}
		}
	}
	return
}

// referenceNodes lays out the nodal set from the 1D points v. Triangle
// interior nodes use the barycentric blend x_i = (1 + 2v_i - v_j - v_k)/3,
// which reduces to v on every edge.
func referenceNodes(g Geometry, v []float64) (R [][]float64) {
	var (
		p     = len(v) - 1
		verts = g.ReferenceVertices()
	)
	for _, vert := range verts {
		R = append(R, append([]float64{}, vert...))
	}
	for _, e := range g.Edges() {
		a, b := verts[e[0]], verts[e[1]]
		for i := 1; i < p; i++ {
			R = append(R, []float64{a[0] + v[i]*(b[0]-a[0]), a[1] + v[i]*(b[1]-a[1])})
		}
	}
	switch g {
	case Segment:
		for i := 1; i < p; i++ {
			R = append(R, []float64{v[i]})
		}
	case Triangle:
		for j := 1; j < p; j++ {
			for i := 1; i < p-j; i++ {
				k := p - i - j
				R = append(R, []float64{
					(1 + 2*v[i] - v[j] - v[k]) / 3,
					(1 + 2*v[j] - v[i] - v[k]) / 3,
				})
			}
		}
	case Quadrilateral:
		for j := 1; j < p; j++ {
			for i := 1; i < p; i++ {
				R = append(R, []float64{v[i], v[j]})
			}
		}
	}
	return
}
