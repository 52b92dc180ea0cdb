package transfer

import (
	"fmt"

	"github.com/notargets/fetransfer/utils"
)

// VectorTransfer applies one scalar transfer to each component of a
// vector-valued field stored component by component:
//
//	[u_0 ... u_0 | u_1 ... u_1 | ...]
type VectorTransfer struct {
	Scalar utils.Operator
	VDim   int
	block  *utils.BlockOperator
}

func NewVectorTransfer(scalar utils.Operator, vdim int) (vt *VectorTransfer, err error) {
	if vdim < 1 {
		err = fmt.Errorf("vector dimension must be >= 1, have %d", vdim)
		return
	}
	var (
		r, c       = scalar.Dims()
		rowOffsets = make([]int, vdim+1)
		colOffsets = make([]int, vdim+1)
	)
	for n := 1; n <= vdim; n++ {
		rowOffsets[n] = rowOffsets[n-1] + r
		colOffsets[n] = colOffsets[n-1] + c
	}
	vt = &VectorTransfer{
		Scalar: scalar,
		VDim:   vdim,
		block:  utils.NewBlockOperator(rowOffsets, colOffsets),
	}
	for n := 0; n < vdim; n++ {
		if err = vt.block.SetDiagonalBlock(n, scalar, 1); err != nil {
			return nil, err
		}
	}
	return
}

func (vt *VectorTransfer) Dims() (r, c int) { return vt.block.Dims() }

func (vt *VectorTransfer) Mult(x, y []float64) { vt.block.Mult(x, y) }

func (vt *VectorTransfer) MultTranspose(x, y []float64) { vt.block.MultTranspose(x, y) }
