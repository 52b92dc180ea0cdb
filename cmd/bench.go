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
	"sort"
	"strings"
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/notargets/fetransfer/InputParameters"
	"github.com/notargets/fetransfer/transfer"
	"github.com/notargets/fetransfer/utils"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type BenchResult struct {
	Strategy          transfer.Strategy
	Iterations        int
	MultTime          time.Duration
	MultTransposeTime time.Duration
	Instructions      uint64
	InstructionsErr   error              // hardware counters are often unavailable in containers
	Counters          map[string]float64 // gathered after the timed loops
}

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated transfer applications for a parameter file",
	Long: `Applies the local transfer and its transpose repeatedly, reporting wall time,
retired CPU instructions where perf counters are available, and operator counters`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		ip := processInput()
		ip.Print()
		iters, _ := cmd.Flags().GetInt("iterations")
		prof, _ := cmd.Flags().GetString("profile")
		switch strings.ToLower(prof) {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		case "":
		default:
			panic(fmt.Errorf("unknown profile type %q, use cpu or mem", prof))
		}
		var res *BenchResult
		if res, err = RunBench(ip, iters); err != nil {
			panic(err)
		}
		res.Print()
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().IntP("iterations", "n", 100, "number of forward and transpose applications")
	BenchCmd.Flags().StringP("profile", "p", "", "write a pprof profile: cpu or mem")
}

func RunBench(ip *InputParameters.TransferParameters, iters int) (res *BenchResult, err error) {
	var (
		reg     = prometheus.NewRegistry()
		metrics *transfer.Metrics
		tc      *transferCase
		st      *transfer.SpaceTransfer
	)
	if iters < 1 {
		err = fmt.Errorf("iterations must be >= 1, have %d", iters)
		return
	}
	if metrics, err = transfer.NewMetrics(reg); err != nil {
		return
	}
	if tc, err = buildCase(ip, transfer.WithMetrics(metrics)); err != nil {
		return
	}
	if st, err = transfer.NewSpaceTransfer(tc.low, tc.high, tc.opts...); err != nil {
		return
	}
	var (
		nr, nc = st.Dims()
		x      = tc.low.Interpolate(func(x []float64) float64 { return x[0] })
		y      = make([]float64, nr)
		z      = make([]float64, nc)
	)
	res = &BenchResult{Strategy: st.Strategy(), Iterations: iters}
	start := time.Now()
	for i := 0; i < iters; i++ {
		st.Mult(x, y)
	}
	res.MultTime = time.Since(start)
	start = time.Now()
	for i := 0; i < iters; i++ {
		st.MultTranspose(y, z)
	}
	res.MultTransposeTime = time.Since(start)

	if res.Counters, err = gatherCounters(reg); err != nil {
		return
	}

	pv, perr := perf.CPUInstructions(func() error {
		st.Mult(x, y)
		st.MultTranspose(y, z)
		return nil
	})
	if perr != nil {
		res.InstructionsErr = perr
	} else {
		res.Instructions = pv.Value
	}
	return
}

// gatherCounters flattens every counter in reg to name{label=value,...}.
func gatherCounters(reg *prometheus.Registry) (counters map[string]float64, err error) {
	families, err := reg.Gather()
	if err != nil {
		return
	}
	counters = make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			key := mf.GetName() + "{" + strings.Join(labels, ",") + "}"
			counters[key] = m.GetCounter().GetValue()
		}
	}
	return
}

func (res *BenchResult) Print() {
	perIter := func(d time.Duration) time.Duration { return d / time.Duration(res.Iterations) }
	fmt.Printf("[%s]\t\t= Strategy\n", res.Strategy)
	fmt.Printf("[%d]\t\t\t= Iterations\n", res.Iterations)
	fmt.Printf("%v\t\t= Mult per iteration\n", perIter(res.MultTime))
	fmt.Printf("%v\t\t= MultTranspose per iteration\n", perIter(res.MultTransposeTime))
	if res.InstructionsErr != nil {
		fmt.Printf("CPU instructions unavailable: %v\n", res.InstructionsErr)
	} else {
		fmt.Printf("%d\t\t= CPU instructions, one Mult and MultTranspose\n", res.Instructions)
	}
	fmt.Printf("%s\n", utils.GetMemUsage())
	keys := make([]string, 0, len(res.Counters))
	for k := range res.Counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s = %v\n", key, res.Counters[key])
	}
}
