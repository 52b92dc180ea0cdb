package transfer

import (
	"fmt"

	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/utils"
)

// TrueSpaceTransfer acts on true-dof vectors:
//
//	y = R_high * SpaceTransfer * P_low * x
//
// The restriction and prolongation belong to the spaces and are only
// referenced; the inner SpaceTransfer is built and held here.
type TrueSpaceTransfer struct {
	local *SpaceTransfer
	op    *utils.TripleProduct
}

func NewTrueSpaceTransfer(low, high fem.DiscreteSpace, opts ...Option) (tt *TrueSpaceTransfer, err error) {
	tt = &TrueSpaceTransfer{}
	if tt.local, err = NewSpaceTransfer(low, high, opts...); err != nil {
		return nil, err
	}
	tt.op, err = utils.NewTripleProduct(high.RestrictionMatrix(), tt.local, low.ProlongationMatrix())
	if err != nil {
		return nil, fmt.Errorf("true dof layer does not match the spaces: %w", err)
	}
	return
}

// Local returns the inner operator acting on local dofs.
func (tt *TrueSpaceTransfer) Local() *SpaceTransfer { return tt.local }

func (tt *TrueSpaceTransfer) Dims() (r, c int) { return tt.op.Dims() }

func (tt *TrueSpaceTransfer) Mult(x, y []float64) { tt.op.Mult(x, y) }

func (tt *TrueSpaceTransfer) MultTranspose(x, y []float64) { tt.op.MultTranspose(x, y) }
