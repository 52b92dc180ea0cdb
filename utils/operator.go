package utils

import (
	"errors"
	"fmt"
)

var ErrDimensionMismatch = errors.New("incompatible operator dimensions")

// Operator is a linear map with a fixed output (r) and input (c) size.
// Mult computes y = A x; MultTranspose computes y = A^T x. Both overwrite y.
type Operator interface {
	Dims() (r, c int)
	Mult(x, y []float64)
	MultTranspose(x, y []float64)
}

func CheckMult(op Operator, x, y []float64) {
	var (
		r, c = op.Dims()
	)
	if len(x) != c {
		panic(fmt.Errorf("incorrect input vector size: have %d, operator width %d", len(x), c))
	}
	if len(y) != r {
		panic(fmt.Errorf("incorrect output vector size: have %d, operator height %d", len(y), r))
	}
}

func CheckMultTranspose(op Operator, x, y []float64) {
	var (
		r, c = op.Dims()
	)
	if len(x) != r {
		panic(fmt.Errorf("incorrect input vector size: have %d, operator height %d", len(x), r))
	}
	if len(y) != c {
		panic(fmt.Errorf("incorrect output vector size: have %d, operator width %d", len(y), c))
	}
}

// TripleProduct applies A*B*C right to left. The three operands are
// referenced, never copied.
type TripleProduct struct {
	A, B, C    Operator
	tmp1, tmp2 []float64
}

func NewTripleProduct(A, B, C Operator) (tp *TripleProduct, err error) {
	var (
		_, ca  = A.Dims()
		rb, cb = B.Dims()
		rc, _  = C.Dims()
	)
	if ca != rb || cb != rc {
		err = fmt.Errorf("%w: A width %d, B %dx%d, C height %d", ErrDimensionMismatch, ca, rb, cb, rc)
		return
	}
	tp = &TripleProduct{
		A:    A,
		B:    B,
		C:    C,
		tmp1: make([]float64, rc),
		tmp2: make([]float64, rb),
	}
	return
}

func (tp *TripleProduct) Dims() (r, c int) {
	r, _ = tp.A.Dims()
	_, c = tp.C.Dims()
	return
}

func (tp *TripleProduct) Mult(x, y []float64) {
	CheckMult(tp, x, y)
	tp.C.Mult(x, tp.tmp1)
	tp.B.Mult(tp.tmp1, tp.tmp2)
	tp.A.Mult(tp.tmp2, y)
}

func (tp *TripleProduct) MultTranspose(x, y []float64) {
	CheckMultTranspose(tp, x, y)
	tp.A.MultTranspose(x, tp.tmp2)
	tp.B.MultTranspose(tp.tmp2, tp.tmp1)
	tp.C.MultTranspose(tp.tmp1, y)
}

// Transposed swaps the roles of Mult and MultTranspose of the wrapped operator.
type Transposed struct {
	Op Operator
}

func (t Transposed) Dims() (r, c int) {
	c, r = t.Op.Dims()
	return
}

func (t Transposed) Mult(x, y []float64)          { t.Op.MultTranspose(x, y) }
func (t Transposed) MultTranspose(x, y []float64) { t.Op.Mult(x, y) }
