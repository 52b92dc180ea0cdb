package transfer

import (
	"errors"
	"fmt"

	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/utils"
)

var ErrIncompatibleSpaces = errors.New("spaces share neither a basis family nor a mesh")

type Strategy uint8

const (
	RefinementStrategy Strategy = iota
	OrderStrategy
)

func (s Strategy) String() string {
	switch s {
	case RefinementStrategy:
		return "refinement"
	case OrderStrategy:
		return "order"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// SpaceTransfer maps low space coefficients onto the high space. The
// strategy is fixed at construction:
//   - same collection: the high space's refinement operator, which requires
//     the high mesh to be the low mesh or to descend from it
//   - same mesh: OrderTransfer
//
// Any other pair is rejected with ErrIncompatibleSpaces.
type SpaceTransfer struct {
	strategy Strategy
	op       utils.Operator // owned exclusively
	metrics  *Metrics
}

func NewSpaceTransfer(low, high fem.DiscreteSpace, opts ...Option) (st *SpaceTransfer, err error) {
	var (
		cfg = newConfig(opts)
	)
	st = &SpaceTransfer{metrics: cfg.metrics}
	switch {
	case low.Collection() == high.Collection():
		st.strategy = RefinementStrategy
		if st.op, err = high.TransferOperator(low, cfg.kind); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompatibleSpaces, err)
		}
	case low.Mesh() == high.Mesh():
		st.strategy = OrderStrategy
		if st.op, err = NewOrderTransfer(low, high, opts...); err != nil {
			return nil, err
		}
	default:
		return nil, ErrIncompatibleSpaces
	}
	return
}

func (st *SpaceTransfer) Strategy() Strategy { return st.strategy }

// Operator returns the inner operator, which stays owned by st.
func (st *SpaceTransfer) Operator() utils.Operator { return st.op }

func (st *SpaceTransfer) Dims() (r, c int) { return st.op.Dims() }

func (st *SpaceTransfer) Mult(x, y []float64) {
	utils.CheckMult(st, x, y)
	st.metrics.applied(st.strategy, "forward")
	st.op.Mult(x, y)
}

func (st *SpaceTransfer) MultTranspose(x, y []float64) {
	utils.CheckMultTranspose(st, x, y)
	st.metrics.applied(st.strategy, "transpose")
	st.op.MultTranspose(x, y)
}
