package transfer

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransferExactness(t *testing.T) {
	for _, kind := range []string{"segments", "triangles", "quadrilaterals", "mixed"} {
		for _, orders := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 3}} {
			for _, nt := range []fem.NodeType{fem.Equispaced, fem.GaussLobatto} {
				var (
					m    = newMesh(t, kind, 3, false)
					low  = newSpace(t, m, orders[0], nt)
					high = newSpace(t, m, orders[1], fem.Equispaced)
					p    = float64(orders[0])
					f    = func(x []float64) float64 {
						s := 0.5 + x[0]
						if len(x) > 1 {
							s -= 2 * x[1]
						}
						return math.Pow(s, p)
					}
				)
				ot, err := NewOrderTransfer(low, high)
				require.NoError(t, err)
				r, c := ot.Dims()
				assert.Equal(t, high.Size(), r)
				assert.Equal(t, low.Size(), c)
				y := make([]float64, r)
				ot.Mult(low.Interpolate(f), y)
				assert.InDeltaSlice(t, high.Interpolate(f), y, 1.e-10, "%s %v %s", kind, orders, nt)
				checkAdjoint(t, ot, "%s %v %s", kind, orders, nt)
			}
		}
	}
}

// denseTransfer assembles the operator column by column from Mult.
func denseTransfer(op utils.Operator) utils.Matrix {
	var (
		nr, nc = op.Dims()
		A      = utils.NewMatrix(nr, nc)
		e      = make([]float64, nc)
		col    = make([]float64, nr)
	)
	for j := 0; j < nc; j++ {
		e[j] = 1
		op.Mult(e, col)
		for i, v := range col {
			A.Set(i, j, v)
		}
		e[j] = 0
	}
	return A
}

func TestOrderTransferTranspose(t *testing.T) {
	var (
		m    = newMesh(t, "mixed", 3, false)
		low  = newSpace(t, m, 1, fem.Equispaced)
		high = newSpace(t, m, 2, fem.Equispaced)
	)
	ot, err := NewOrderTransfer(low, high)
	require.NoError(t, err)
	A := denseTransfer(ot)
	x := testVector(high.Size(), 2.1)
	y := make([]float64, low.Size())
	yy := make([]float64, low.Size())
	ot.MultTranspose(x, y)
	A.MulVecTrans(x, yy)
	assert.InDeltaSlice(t, yy, y, 1.e-12)

	// Accumulating every element's local transpose without suppressing
	// shared dofs counts them once per element
	naive := make([]float64, low.Size())
	var lDofs, hDofs utils.Index
	for i := 0; i < m.NumElements(); i++ {
		lDofs = low.ElementDofs(i, lDofs)
		hDofs = high.ElementDofs(i, hDofs)
		hFE := high.FiniteElement(i)
		P := hFE.Project(low.FiniteElement(i), fem.NewIdentityTransformation(hFE.Geometry()))
		_, nc := P.Dims()
		out := make([]float64, nc)
		P.MulVecTrans(hDofs.Gather(x, nil), out)
		lDofs.ScatterAdd(out, naive)
	}
	diff := 0.
	for i := range naive {
		diff = math.Max(diff, math.Abs(naive[i]-y[i]))
	}
	assert.Greater(t, diff, 1.e-3)
}

func TestOrderTransferElementOrder(t *testing.T) {
	var (
		m        = newMesh(t, "mixed", 3, false)
		pm, err  = m.Permute([]int{0, 3, 4, 7, 1, 2, 5, 6}) // quadrilaterals first
		f        = func(x []float64) float64 { return math.Sin(7*x[0]) + math.Cos(5*x[1]) }
		results  []map[string]float64
		rebuilds [][2]int
	)
	require.NoError(t, err)
	for _, mesh := range []*fem.Mesh{m, pm} {
		var (
			low  = newSpace(t, mesh, 2, fem.GaussLobatto)
			high = newSpace(t, mesh, 3, fem.GaussLobatto)
		)
		ot, err := NewOrderTransfer(low, high)
		require.NoError(t, err)
		y := make([]float64, high.Size())
		ot.Mult(low.Interpolate(f), y)
		ot.Mult(low.Interpolate(f), y)
		results = append(results, byCoordinate(high, y))
		fwd, adj := ot.Rebuilds()
		rebuilds = append(rebuilds, [2]int{fwd, adj})
	}
	require.Equal(t, len(results[0]), len(results[1]))
	for key, v := range results[0] {
		assert.InDelta(t, v, results[1][key], 1.e-12, key)
	}
	// Rows alternate Q T T Q: the matrix is rebuilt on every geometry change,
	// and the second pass starts from the geometry of the last element
	assert.Equal(t, [2]int{5 + 4, 0}, rebuilds[0])
	// Q Q Q Q T T T T
	assert.Equal(t, [2]int{2 + 2, 0}, rebuilds[1])
}

func TestOrderTransferErrors(t *testing.T) {
	var (
		m1 = newMesh(t, "triangles", 3, false)
		m2 = newMesh(t, "triangles", 3, false)
	)
	_, err := NewOrderTransfer(newSpace(t, m1, 1, fem.Equispaced), newSpace(t, m2, 2, fem.Equispaced))
	assert.True(t, errors.Is(err, ErrIncompatibleSpaces))

	ot, err := NewOrderTransfer(newSpace(t, m1, 1, fem.Equispaced), newSpace(t, m1, 2, fem.Equispaced))
	require.NoError(t, err)
	r, c := ot.Dims()
	assert.Panics(t, func() { ot.Mult(make([]float64, c+1), make([]float64, r)) })
	assert.Panics(t, func() { ot.Mult(make([]float64, c), make([]float64, r-1)) })
	assert.Panics(t, func() { ot.MultTranspose(make([]float64, c), make([]float64, c)) })
}

func TestOrderTransferSharedDofsAgree(t *testing.T) {
	// Every element touching a high dof computes the same local value, so the
	// overwriting scatter does not depend on which element writes last
	for _, periodic := range []bool{false, true} {
		var (
			m     = newMesh(t, "mixed", 3, periodic)
			low   = newSpace(t, m, 2, fem.GaussLobatto)
			high  = newSpace(t, m, 4, fem.Equispaced)
			xLow  = testVector(low.Size(), 1.3)
			seen  = make(map[int]float64)
			lDofs utils.Index
			hDofs utils.Index
			sub   []float64
		)
		for i := 0; i < m.NumElements(); i++ {
			hFE, lFE := high.FiniteElement(i), low.FiniteElement(i)
			P := hFE.Project(lFE, fem.NewIdentityTransformation(hFE.Geometry()))
			lDofs = low.ElementDofs(i, lDofs)
			hDofs = high.ElementDofs(i, hDofs)
			sub = lDofs.Gather(xLow, sub)
			local := make([]float64, hFE.Dof())
			P.MulVec(sub, local)
			for k, d := range hDofs {
				if v, ok := seen[d]; ok {
					assert.InDelta(t, v, local[k], 1.e-12, "periodic %v element %d dof %d", periodic, i, d)
				} else {
					seen[d] = local[k]
				}
			}
		}
		assert.Equal(t, high.Size(), len(seen))
		// The assembled result is the shared value
		ot, err := NewOrderTransfer(low, high)
		require.NoError(t, err)
		y := make([]float64, high.Size())
		ot.Mult(xLow, y)
		for d, v := range seen {
			assert.InDelta(t, v, y[d], 1.e-12)
		}
	}
}

func TestOrderTransferHighOrderExactness(t *testing.T) {
	for _, kind := range []string{"segments", "triangles", "quadrilaterals"} {
		for n := 6; n <= 8; n++ {
			var (
				m    = newMesh(t, kind, 3, false)
				low  = newSpace(t, m, n-1, fem.GaussLobatto)
				high = newSpace(t, m, n, fem.GaussLobatto)
				p    = float64(n - 1)
				f    = func(x []float64) float64 {
					s := 0.3 + 0.8*x[0]
					if len(x) > 1 {
						s -= 0.6 * x[1]
					}
					return math.Pow(s, p)
				}
			)
			ot, err := NewOrderTransfer(low, high)
			require.NoError(t, err)
			y := make([]float64, high.Size())
			ot.Mult(low.Interpolate(f), y)
			assert.InDeltaSlice(t, high.Interpolate(f), y, 1.e-11, "%s P%d->P%d", kind, n-1, n)
		}
	}
}
