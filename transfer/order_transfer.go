package transfer

import (
	"fmt"

	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/utils"
)

// localProjection holds the interpolation matrix for the geometry of the most
// recently visited element. It is rebuilt whenever the geometry changes from
// one element to the next.
type localProjection struct {
	geom     fem.Geometry
	P        utils.Matrix
	out      []float64
	rebuilds int
}

func newLocalProjection() localProjection {
	return localProjection{geom: fem.InvalidGeometry}
}

// refresh reports whether the matrix was rebuilt for element i. The output
// scratch is sized to the rows of P, or to its columns when transpose is set.
func (lp *localProjection) refresh(i int, low, high fem.DiscreteSpace, transpose bool) bool {
	var (
		geom = high.Mesh().ElementGeometry(i)
	)
	if geom == lp.geom {
		return false
	}
	hFE, lFE := high.FiniteElement(i), low.FiniteElement(i)
	T := fem.NewIdentityTransformation(hFE.Geometry())
	lp.P = hFE.Project(lFE, T)
	lp.P.SetReadOnly("local projection " + geom.String())
	nr, nc := lp.P.Dims()
	if transpose {
		lp.out = resize(lp.out, nc)
	} else {
		lp.out = resize(lp.out, nr)
	}
	lp.geom = geom
	lp.rebuilds++
	return true
}

// OrderTransfer maps between two spaces on the same mesh that differ in
// polynomial order. Mult interpolates low to high; MultTranspose is its
// exact adjoint.
type OrderTransfer struct {
	low, high    fem.DiscreteSpace
	fwd, adj     localProjection
	processed    *utils.ClaimSet
	lDofs, hDofs utils.Index
	subX         []float64
	metrics      *Metrics
}

func NewOrderTransfer(low, high fem.DiscreteSpace, opts ...Option) (ot *OrderTransfer, err error) {
	var (
		cfg = newConfig(opts)
	)
	if low.Mesh() != high.Mesh() {
		err = fmt.Errorf("%w: order transfer needs both spaces on one mesh", ErrIncompatibleSpaces)
		return
	}
	ot = &OrderTransfer{
		low:       low,
		high:      high,
		fwd:       newLocalProjection(),
		adj:       newLocalProjection(),
		processed: utils.NewClaimSet(high.Size()),
		metrics:   cfg.metrics,
	}
	return
}

func (ot *OrderTransfer) Dims() (r, c int) {
	return ot.high.Size(), ot.low.Size()
}

// Rebuilds reports how many times the forward and adjoint local matrices
// were computed.
func (ot *OrderTransfer) Rebuilds() (forward, adjoint int) {
	return ot.fwd.rebuilds, ot.adj.rebuilds
}

// Mult overwrites shared high dofs; every element touching a dof computes the
// same value there.
func (ot *OrderTransfer) Mult(x, y []float64) {
	utils.CheckMult(ot, x, y)
	var (
		mesh = ot.high.Mesh()
	)
	for i := 0; i < mesh.NumElements(); i++ {
		ot.hDofs = ot.high.ElementDofs(i, ot.hDofs)
		ot.lDofs = ot.low.ElementDofs(i, ot.lDofs)
		if ot.fwd.refresh(i, ot.low, ot.high, false) {
			ot.metrics.rebuilt(ot.fwd.geom.String())
		}
		ot.subX = ot.lDofs.Gather(x, ot.subX)
		ot.fwd.P.MulVec(ot.subX, ot.fwd.out)
		ot.hDofs.Scatter(ot.fwd.out, y)
	}
}

// MultTranspose credits each high dof to the first element, in element
// order, that contains it; later elements see a zero there.
func (ot *OrderTransfer) MultTranspose(x, y []float64) {
	utils.CheckMultTranspose(ot, x, y)
	var (
		mesh = ot.high.Mesh()
	)
	for i := range y {
		y[i] = 0
	}
	ot.processed.Reset()
	for i := 0; i < mesh.NumElements(); i++ {
		ot.hDofs = ot.high.ElementDofs(i, ot.hDofs)
		ot.lDofs = ot.low.ElementDofs(i, ot.lDofs)
		if ot.adj.refresh(i, ot.low, ot.high, true) {
			ot.metrics.rebuilt(ot.adj.geom.String())
		}
		ot.subX = ot.hDofs.Gather(x, ot.subX)
		ot.processed.Suppress(ot.hDofs, ot.subX)
		ot.adj.P.MulVecTrans(ot.subX, ot.adj.out)
		ot.lDofs.ScatterAdd(ot.adj.out, y)
	}
}

func resize(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	return v[:n]
}
