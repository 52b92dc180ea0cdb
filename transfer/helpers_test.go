package transfer

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func newMesh(t *testing.T, kind string, nx int, periodic bool) *fem.Mesh {
	var (
		m   *fem.Mesh
		err error
	)
	if kind == "segments" {
		m, err = fem.NewSegmentMesh(0, 1, nx, periodic)
	} else {
		var mk fem.MeshKind
		mk, err = fem.NewMeshKind(kind)
		require.NoError(t, err)
		m, err = fem.NewRectangleMesh(nx, 2, 1, 0.5, mk, periodic)
	}
	require.NoError(t, err)
	return m
}

func newSpace(t *testing.T, m *fem.Mesh, order int, nt fem.NodeType) *fem.Space {
	coll, err := fem.NewH1Collection(order, nt)
	require.NoError(t, err)
	return fem.NewSpace(m, coll)
}

func testVector(n int, seed float64) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = math.Sin(seed*float64(i+1) + 0.3)
	}
	return
}

// checkAdjoint verifies <A x, y> = <x, A^T y> for a pair of test vectors.
func checkAdjoint(t *testing.T, op utils.Operator, msgAndArgs ...interface{}) {
	var (
		nr, nc = op.Dims()
		x      = testVector(nc, 1.7)
		y      = testVector(nr, 0.9)
		Ax     = make([]float64, nr)
		Aty    = make([]float64, nc)
	)
	op.Mult(x, Ax)
	op.MultTranspose(y, Aty)
	lhs, rhs := floats.Dot(Ax, y), floats.Dot(x, Aty)
	assert.InDelta(t, lhs, rhs, 1.e-10*math.Max(1, math.Abs(lhs)), msgAndArgs...)
}

// coordinateKey identifies a dof across spaces numbered differently.
func coordinateKey(x []float64) string {
	key := ""
	for _, v := range x {
		key += fmt.Sprintf("%.9f,", v)
	}
	return key
}

func byCoordinate(s *fem.Space, u []float64) map[string]float64 {
	var (
		X = s.DofCoordinates()
		m = make(map[string]float64, len(u))
	)
	for i, x := range X {
		m[coordinateKey(x)] = u[i]
	}
	return m
}
