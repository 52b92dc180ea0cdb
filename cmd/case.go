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
	"os"
	"strings"

	"github.com/notargets/fetransfer/InputParameters"
	"github.com/notargets/fetransfer/fem"
	"github.com/notargets/fetransfer/transfer"
	"github.com/spf13/viper"
)

const exampleFile = `
########################################
Title: "Order transfer on a mixed mesh"
MeshKind: Mixed # Segments, Triangles, Quadrilaterals or Mixed
Nx: 4
Ny: 4
Periodic: true
LowOrder: 1
HighOrder: 3
Refinements: 0 # > 0 transfers LowOrder fields to a refined mesh
NodeType: GaussLobatto
VectorDim: 2
OperatorKind: Any # Sparse assembles refinement transfers
########################################
`

// transferCase holds the pair of spaces described by a parameter file.
type transferCase struct {
	low, high *fem.Space
	opts      []transfer.Option
}

func processInput() (ip *InputParameters.TransferParameters) {
	var (
		err    error
		ICFile = viper.GetString("inputConditionsFile")
	)
	if len(ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if ip, err = readParameters(ICFile); err != nil {
		panic(err)
	}
	return
}

func readParameters(fileName string) (ip *InputParameters.TransferParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = InputParameters.NewTransferParameters()
	if err = ip.Parse(data); err != nil {
		ip = nil
	}
	return
}

func buildMesh(ip *InputParameters.TransferParameters) (m *fem.Mesh, err error) {
	if strings.EqualFold(ip.MeshKind, "segments") {
		return fem.NewSegmentMesh(0, ip.Lx, ip.Nx, ip.Periodic)
	}
	var kind fem.MeshKind
	if kind, err = fem.NewMeshKind(ip.MeshKind); err != nil {
		return
	}
	return fem.NewRectangleMesh(ip.Nx, ip.Ny, ip.Lx, ip.Ly, kind, ip.Periodic)
}

func buildCase(ip *InputParameters.TransferParameters, opts ...transfer.Option) (tc *transferCase, err error) {
	var (
		mesh     *fem.Mesh
		nt       fem.NodeType
		lowColl  *fem.Collection
		highColl *fem.Collection
	)
	if mesh, err = buildMesh(ip); err != nil {
		return
	}
	if nt, err = fem.NewNodeType(ip.NodeType); err != nil {
		return
	}
	if lowColl, err = fem.NewH1Collection(ip.LowOrder, nt); err != nil {
		return
	}
	tc = &transferCase{
		low:  fem.NewSpace(mesh, lowColl),
		opts: opts,
	}
	if ip.IsRefinement() {
		fine := mesh
		for i := 0; i < ip.Refinements; i++ {
			fine = fine.UniformRefinement()
		}
		tc.high = fem.NewSpace(fine, lowColl)
		if strings.EqualFold(ip.OperatorKind, "sparse") {
			tc.opts = append(tc.opts, transfer.WithOperatorKind(fem.SparseMatrixType))
		}
		return
	}
	if highColl, err = fem.NewH1Collection(ip.HighOrder, nt); err != nil {
		tc = nil
		return
	}
	tc.high = fem.NewSpace(mesh, highColl)
	return
}
