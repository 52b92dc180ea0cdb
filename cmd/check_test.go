package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/fetransfer/InputParameters"
	"github.com/notargets/fetransfer/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseParameters(t *testing.T, data string) *InputParameters.TransferParameters {
	ip := InputParameters.NewTransferParameters()
	require.NoError(t, ip.Parse([]byte(data)))
	return ip
}

func TestRunCheck(t *testing.T) {
	var (
		tol = 1.e-10
	)
	cases := []struct {
		name, input string
		strategy    transfer.Strategy
	}{
		{"order segments", "MeshKind: Segments\nNx: 5\nLowOrder: 2\nHighOrder: 4\n", transfer.OrderStrategy},
		{"order mixed periodic", "MeshKind: Mixed\nNx: 4\nNy: 2\nPeriodic: true\nLowOrder: 1\nHighOrder: 3\nVectorDim: 2\n", transfer.OrderStrategy},
		{"order gauss lobatto", "MeshKind: Quadrilaterals\nNx: 2\nLowOrder: 2\nHighOrder: 3\nNodeType: GaussLobatto\n", transfer.OrderStrategy},
		{"refinement triangles", "MeshKind: Triangles\nNx: 2\nLowOrder: 2\nRefinements: 1\n", transfer.RefinementStrategy},
		{"refinement sparse periodic", "MeshKind: Mixed\nNx: 3\nNy: 2\nPeriodic: true\nLowOrder: 1\nRefinements: 2\nOperatorKind: Sparse\n", transfer.RefinementStrategy},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rep, err := RunCheck(parseParameters(t, c.input))
			require.NoError(t, err)
			assert.Equal(t, c.strategy, rep.Strategy)
			assert.NotEmpty(t, rep.RunID)
			assert.Less(t, rep.AdjointDefect, tol)
			assert.Less(t, rep.TrueAdjointDefect, tol)
			assert.Less(t, rep.VectorAdjointDefect, tol)
			assert.Less(t, rep.CompositionDefect, tol)
			assert.Less(t, rep.ExactnessError, tol)
			assert.Greater(t, rep.HighSize, rep.LowSize)
			assert.LessOrEqual(t, rep.LowTrue, rep.LowSize)
			assert.LessOrEqual(t, rep.HighTrue, rep.HighSize)
			rep.Print()
		})
	}
}

func TestReadParameters(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(exampleFile), 0o644))
	ip, err := readParameters(fileName)
	require.NoError(t, err)
	assert.Equal(t, "Mixed", ip.MeshKind)
	assert.Equal(t, 3, ip.HighOrder)
	assert.Equal(t, 2, ip.VectorDim)

	_, err = readParameters(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunBench(t *testing.T) {
	ip := parseParameters(t, "MeshKind: Mixed\nNx: 2\nLowOrder: 1\nHighOrder: 2\n")
	res, err := RunBench(ip, 3)
	require.NoError(t, err)
	assert.Equal(t, transfer.OrderStrategy, res.Strategy)
	assert.Equal(t, 3., res.Counters["fetransfer_applications_total{direction=forward,strategy=order}"])
	assert.Equal(t, 3., res.Counters["fetransfer_applications_total{direction=transpose,strategy=order}"])
	// Mixed mesh alternates quadrilaterals and triangles
	assert.Greater(t, res.Counters["fetransfer_local_matrix_rebuilds_total{geometry=Triangle}"], 0.)
	res.Print()

	_, err = RunBench(ip, 0)
	assert.Error(t, err)
}
