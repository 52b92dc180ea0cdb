package fem

import (
	"fmt"
	"math"

	"github.com/notargets/fetransfer/utils"
)

// OperatorKind selects how TransferOperator represents the refinement map.
type OperatorKind uint8

const (
	AnyType          OperatorKind = iota // matrix-free, element by element
	SparseMatrixType                     // assembled CSR
)

func (kind OperatorKind) String() string {
	switch kind {
	case AnyType:
		return "AnyType"
	case SparseMatrixType:
		return "SparseMatrixType"
	}
	return fmt.Sprintf("OperatorKind(%d)", uint8(kind))
}

// TransferOperator returns the interpolation from coarse, whose mesh must be
// s's mesh or one of its ancestors and which must use the same collection.
func (s *Space) TransferOperator(coarse DiscreteSpace, kind OperatorKind) (op utils.Operator, err error) {
	var (
		ro *RefinementOperator
	)
	if ro, err = NewRefinementOperator(coarse, s); err != nil {
		return
	}
	switch kind {
	case SparseMatrixType:
		op = ro.Assemble()
	default:
		op = ro
	}
	return
}

// RefinementOperator interpolates a coarse field at the nodes of every fine
// element, using the embedding of the fine element in its coarse ancestor.
type RefinementOperator struct {
	coarse, fine DiscreteSpace
	embeddings   []Embedding
	local        map[embeddingKey]utils.Matrix
	claimed      *utils.ClaimSet
	cDofs, fDofs utils.Index
	subX, subY   []float64
}

func NewRefinementOperator(coarse, fine DiscreteSpace) (ro *RefinementOperator, err error) {
	var (
		fm = fine.Mesh()
	)
	if coarse.Collection() != fine.Collection() {
		err = fmt.Errorf("%w: spaces use collections %s and %s",
			ErrNotRefinement, coarse.Collection().Name, fine.Collection().Name)
		return
	}
	if fm != coarse.Mesh() && !fm.IsRefinementOf(coarse.Mesh()) {
		err = ErrNotRefinement
		return
	}
	ro = &RefinementOperator{
		coarse:     coarse,
		fine:       fine,
		embeddings: make([]Embedding, fm.NumElements()),
		local:      make(map[embeddingKey]utils.Matrix),
		claimed:    utils.NewClaimSet(fine.Size()),
	}
	for i := range ro.embeddings {
		if ro.embeddings[i], err = fm.AncestorEmbedding(i, coarse.Mesh()); err != nil {
			return nil, err
		}
	}
	return
}

func (ro *RefinementOperator) Dims() (r, c int) {
	return ro.fine.Size(), ro.coarse.Size()
}

// localMatrix is cached per fine geometry and embedding.
func (ro *RefinementOperator) localMatrix(i int) (P utils.Matrix) {
	var (
		emb = ro.embeddings[i]
		key = emb.Transformation.key(ro.fine.Mesh().ElementGeometry(i))
		ok  bool
	)
	if P, ok = ro.local[key]; !ok {
		P = ro.fine.FiniteElement(i).Project(ro.coarse.FiniteElement(emb.Parent), emb.Transformation)
		P.SetReadOnly("refinement")
		ro.local[key] = P
	}
	return
}

func (ro *RefinementOperator) Mult(x, y []float64) {
	utils.CheckMult(ro, x, y)
	for i, emb := range ro.embeddings {
		P := ro.localMatrix(i)
		ro.fDofs = ro.fine.ElementDofs(i, ro.fDofs)
		ro.cDofs = ro.coarse.ElementDofs(emb.Parent, ro.cDofs)
		ro.subX = ro.cDofs.Gather(x, ro.subX)
		ro.subY = resize(ro.subY, len(ro.fDofs))
		P.MulVec(ro.subX, ro.subY)
		ro.fDofs.Scatter(ro.subY, y)
	}
}

func (ro *RefinementOperator) MultTranspose(x, y []float64) {
	utils.CheckMultTranspose(ro, x, y)
	for i := range y {
		y[i] = 0
	}
	ro.claimed.Reset()
	for i, emb := range ro.embeddings {
		P := ro.localMatrix(i)
		ro.fDofs = ro.fine.ElementDofs(i, ro.fDofs)
		ro.cDofs = ro.coarse.ElementDofs(emb.Parent, ro.cDofs)
		ro.subX = ro.fDofs.Gather(x, ro.subX)
		ro.claimed.Suppress(ro.fDofs, ro.subX)
		ro.subY = resize(ro.subY, len(ro.cDofs))
		P.MulVecTrans(ro.subX, ro.subY)
		ro.cDofs.ScatterAdd(ro.subY, y)
	}
}

// Assemble builds the sparse matrix of the operator; each fine dof row is
// taken from the first element containing it.
func (ro *RefinementOperator) Assemble() (A utils.CSR) {
	var (
		nr, nc = ro.Dims()
		dok    = utils.NewDOK(nr, nc, "refinement")
	)
	ro.claimed.Reset()
	for i, emb := range ro.embeddings {
		P := ro.localMatrix(i)
		ro.fDofs = ro.fine.ElementDofs(i, ro.fDofs)
		ro.cDofs = ro.coarse.ElementDofs(emb.Parent, ro.cDofs)
		for r, fd := range ro.fDofs {
			if !ro.claimed.Claim(fd) {
				continue
			}
			for c, cd := range ro.cDofs {
				if val := P.At(r, c); math.Abs(val) > utils.NODETOL {
					dok.Set(fd, cd, val)
				}
			}
		}
	}
	return dok.ToCSR()
}

func resize(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	return v[:n]
}
