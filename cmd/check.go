/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/notargets/fetransfer/InputParameters"
	"github.com/notargets/fetransfer/transfer"
	"github.com/notargets/fetransfer/utils"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// CheckReport collects the defects measured for one transfer case. Every
// defect is zero up to round off for a correct transfer.
type CheckReport struct {
	RunID               string
	Strategy            transfer.Strategy
	LowSize, HighSize   int
	LowTrue, HighTrue   int
	AdjointDefect       float64 // |<Tx,y> - <x,T'y>| relative to |<Tx,y>|
	TrueAdjointDefect   float64
	VectorAdjointDefect float64
	CompositionDefect   float64 // max |R T P x - T_true x|
	ExactnessError      float64 // max error transferring a degree LowOrder polynomial
	ForwardRebuilds     int
	AdjointRebuilds     int
	rebuildsKnown       bool
}

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Build the transfers for a parameter file and verify their properties",
	Long: `Builds the local, true dof and vector transfers between the spaces described
by the input parameters file and reports adjointness, composition and exactness defects`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := processInput()
		ip.Print()
		rep, err := RunCheck(ip)
		if err != nil {
			panic(err)
		}
		rep.Print()
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
}

func RunCheck(ip *InputParameters.TransferParameters) (rep *CheckReport, err error) {
	var (
		tc  *transferCase
		st  *transfer.SpaceTransfer
		tt  *transfer.TrueSpaceTransfer
		vt  *transfer.VectorTransfer
		rng = rand.New(rand.NewPCG(ip.Seed, ip.Seed))
	)
	if tc, err = buildCase(ip); err != nil {
		return
	}
	if st, err = transfer.NewSpaceTransfer(tc.low, tc.high, tc.opts...); err != nil {
		return
	}
	if tt, err = transfer.NewTrueSpaceTransfer(tc.low, tc.high, tc.opts...); err != nil {
		return
	}
	if vt, err = transfer.NewVectorTransfer(st, ip.VectorDim); err != nil {
		return
	}
	rep = &CheckReport{
		RunID:    uuid.NewString(),
		Strategy: st.Strategy(),
		LowSize:  tc.low.Size(),
		HighSize: tc.high.Size(),
		LowTrue:  tc.low.TrueSize(),
		HighTrue: tc.high.TrueSize(),
	}
	rep.AdjointDefect = adjointDefect(st, rng)
	rep.TrueAdjointDefect = adjointDefect(tt, rng)
	rep.VectorAdjointDefect = adjointDefect(vt, rng)
	rep.CompositionDefect = compositionDefect(tc, st, tt, rng)
	rep.ExactnessError = exactnessError(tc, st, ip.LowOrder)
	if ot, ok := st.Operator().(*transfer.OrderTransfer); ok {
		rep.ForwardRebuilds, rep.AdjointRebuilds = ot.Rebuilds()
		rep.rebuildsKnown = true
	}
	return
}

func randomVector(n int, rng *rand.Rand) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = 2*rng.Float64() - 1
	}
	return
}

func adjointDefect(op utils.Operator, rng *rand.Rand) float64 {
	var (
		nr, nc = op.Dims()
		x      = randomVector(nc, rng)
		y      = randomVector(nr, rng)
		Tx     = make([]float64, nr)
		Tty    = make([]float64, nc)
	)
	op.Mult(x, Tx)
	op.MultTranspose(y, Tty)
	lhs, rhs := floats.Dot(Tx, y), floats.Dot(x, Tty)
	return math.Abs(lhs-rhs) / math.Max(1, math.Abs(lhs))
}

func compositionDefect(tc *transferCase, st *transfer.SpaceTransfer, tt *transfer.TrueSpaceTransfer,
	rng *rand.Rand) float64 {
	var (
		x       = randomVector(tc.low.TrueSize(), rng)
		xl      = make([]float64, tc.low.Size())
		yl      = make([]float64, tc.high.Size())
		yTrue   = make([]float64, tc.high.TrueSize())
		yManual = make([]float64, tc.high.TrueSize())
	)
	tt.Mult(x, yTrue)
	tc.low.ProlongationMatrix().Mult(x, xl)
	st.Mult(xl, yl)
	tc.high.RestrictionMatrix().Mult(yl, yManual)
	return floats.Distance(yTrue, yManual, math.Inf(1))
}

func exactnessError(tc *transferCase, st *transfer.SpaceTransfer, p int) float64 {
	var (
		f = func(x []float64) float64 {
			s := 1 + x[0]
			if len(x) > 1 {
				s += 0.5 * x[1]
			}
			return math.Pow(s, float64(p))
		}
		uLow  = tc.low.Interpolate(f)
		uHigh = tc.high.Interpolate(f)
		y     = make([]float64, tc.high.Size())
	)
	st.Mult(uLow, y)
	return floats.Distance(y, uHigh, math.Inf(1))
}

func (rep *CheckReport) Print() {
	fmt.Printf("Run ID: %s\n", rep.RunID)
	fmt.Printf("[%s]\t\t= Strategy\n", rep.Strategy)
	fmt.Printf("[%d -> %d]\t\t= Local Sizes\n", rep.LowSize, rep.HighSize)
	fmt.Printf("[%d -> %d]\t\t= True Sizes\n", rep.LowTrue, rep.HighTrue)
	fmt.Printf("%10.3e\t\t= Adjoint Defect\n", rep.AdjointDefect)
	fmt.Printf("%10.3e\t\t= True Dof Adjoint Defect\n", rep.TrueAdjointDefect)
	fmt.Printf("%10.3e\t\t= Vector Adjoint Defect\n", rep.VectorAdjointDefect)
	fmt.Printf("%10.3e\t\t= Composition Defect\n", rep.CompositionDefect)
	fmt.Printf("%10.3e\t\t= Polynomial Exactness Error\n", rep.ExactnessError)
	if rep.rebuildsKnown {
		fmt.Printf("[%d, %d]\t\t= Local Matrix Rebuilds (forward, adjoint)\n", rep.ForwardRebuilds, rep.AdjointRebuilds)
	}
}
