package fem

import (
	"errors"
	"fmt"

	"github.com/notargets/fetransfer/utils"
)

var ErrNotRefinement = errors.New("fine mesh is not a refinement of the coarse mesh")

// DiscreteSpace is the view of a finite element space consumed by operators
// that work element by element.
type DiscreteSpace interface {
	// Size is the number of local dofs, TrueSize the number of true dofs.
	Size() int
	TrueSize() int
	Mesh() *Mesh
	Collection() *Collection
	// ElementDofs fills dofs with the global dofs of element i in the
	// element's local node order and returns it.
	ElementDofs(i int, dofs utils.Index) utils.Index
	FiniteElement(i int) FiniteElement
	RestrictionMatrix() utils.Operator
	ProlongationMatrix() utils.Operator
	TransferOperator(coarse DiscreteSpace, kind OperatorKind) (utils.Operator, error)
}

// Space is an H1-conforming space: vertex, edge and interior nodes of the
// collection's elements are numbered once and shared by every element
// touching them.
type Space struct {
	mesh        *Mesh
	coll        *Collection
	elemDofs    []utils.Index
	size        int
	trueSize    int
	localToTrue []int
	R, P        utils.CSR
}

func NewSpace(mesh *Mesh, coll *Collection) (s *Space) {
	s = &Space{
		mesh: mesh,
		coll: coll,
	}
	s.elemDofs, s.size = s.number(func(v int) int { return v })
	trueDofs, trueSize := s.number(mesh.CanonicalVertex)
	s.trueSize = trueSize
	s.localToTrue = make([]int, s.size)
	for k, ldofs := range s.elemDofs {
		for n, ld := range ldofs {
			s.localToTrue[ld] = trueDofs[k][n]
		}
	}
	s.buildTrueDofLayer()
	return
}

func (s *Space) Size() int               { return s.size }
func (s *Space) TrueSize() int           { return s.trueSize }
func (s *Space) Mesh() *Mesh             { return s.mesh }
func (s *Space) Collection() *Collection { return s.coll }
func (s *Space) LocalToTrue(ld int) int  { return s.localToTrue[ld] }
func (s *Space) FiniteElement(i int) FiniteElement {
	return s.coll.FiniteElement(s.mesh.ElementGeometry(i))
}

func (s *Space) ElementDofs(i int, dofs utils.Index) utils.Index {
	src := s.elemDofs[i]
	if cap(dofs) < len(src) {
		dofs = make(utils.Index, len(src))
	}
	dofs = dofs[:len(src)]
	copy(dofs, src)
	return dofs
}

// RestrictionMatrix picks one local copy of each true dof; ProlongationMatrix
// copies each true dof to all of its local copies. R P = I.
func (s *Space) RestrictionMatrix() utils.Operator  { return s.R }
func (s *Space) ProlongationMatrix() utils.Operator { return s.P }

// DofCoordinates returns the physical location of every local dof.
func (s *Space) DofCoordinates() (X [][]float64) {
	X = make([][]float64, s.size)
	for i := range s.elemDofs {
		fe := s.FiniteElement(i)
		for n, r := range fe.Nodes() {
			ld := s.elemDofs[i][n]
			if X[ld] != nil {
				continue
			}
			X[ld] = make([]float64, s.mesh.Dim)
			s.mesh.MapToPhysical(i, r, X[ld])
		}
	}
	return
}

// Interpolate evaluates f at every local dof.
func (s *Space) Interpolate(f func(x []float64) float64) (u []float64) {
	X := s.DofCoordinates()
	u = make([]float64, s.size)
	for i, x := range X {
		u[i] = f(x)
	}
	return
}

// number assigns dofs to vertices first, then edges, then element interiors,
// each in order of first appearance. vid resolves vertex identity.
func (s *Space) number(vid func(int) int) (dofs []utils.Index, n int) {
	var (
		mesh         = s.mesh
		vmap         = make(map[int]int)
		emap         = make(map[edgeKey]int)
		interiorBase = make([]int, mesh.NumElements())
	)
	for _, el := range mesh.Elements {
		for _, v := range el.Vertices {
			if _, ok := vmap[vid(v)]; !ok {
				vmap[vid(v)] = n
				n++
			}
		}
	}
	for k, el := range mesh.Elements {
		_, perEdge, _ := s.FiniteElement(k).NodeCounts()
		if perEdge == 0 {
			continue
		}
		for _, e := range el.Geometry.Edges() {
			key := newEdgeKey(vid(el.Vertices[e[0]]), vid(el.Vertices[e[1]]))
			if _, ok := emap[key]; !ok {
				emap[key] = n
				n += perEdge
			}
		}
	}
	for k := range mesh.Elements {
		_, _, interior := s.FiniteElement(k).NodeCounts()
		interiorBase[k] = n
		n += interior
	}
	dofs = make([]utils.Index, mesh.NumElements())
	for k, el := range mesh.Elements {
		var (
			fe                   = s.FiniteElement(k)
			_, perEdge, interior = fe.NodeCounts()
			I                    = make(utils.Index, 0, fe.Dof())
		)
		for _, v := range el.Vertices {
			I = append(I, vmap[vid(v)])
		}
		for _, e := range el.Geometry.Edges() {
			a, b := vid(el.Vertices[e[0]]), vid(el.Vertices[e[1]])
			base := emap[newEdgeKey(a, b)]
			for i := 0; i < perEdge; i++ {
				if a < b {
					I = append(I, base+i)
				} else {
					I = append(I, base+perEdge-1-i)
				}
			}
		}
		for i := 0; i < interior; i++ {
			I = append(I, interiorBase[k]+i)
		}
		if len(I) != fe.Dof() {
			panic(fmt.Errorf("element %d: numbered %d dofs, element has %d", k, len(I), fe.Dof()))
		}
		dofs[k] = I
	}
	return
}

func (s *Space) buildTrueDofLayer() {
	var (
		R     = utils.NewDOK(s.trueSize, s.size, "R")
		P     = utils.NewDOK(s.size, s.trueSize, "P")
		owner = make([]int, s.trueSize)
	)
	for t := range owner {
		owner[t] = -1
	}
	for ld, td := range s.localToTrue {
		P.Set(ld, td, 1)
		if owner[td] < 0 {
			owner[td] = ld
			R.Set(td, ld, 1)
		}
	}
	s.R, s.P = R.ToCSR(), P.ToCSR()
}
