package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type TransferParameters struct {
	Title        string  `json:"Title"`
	MeshKind     string  `json:"MeshKind"` // Segments, Triangles, Quadrilaterals or Mixed
	Nx           int     `json:"Nx"`
	Ny           int     `json:"Ny"`
	Lx           float64 `json:"Lx"`
	Ly           float64 `json:"Ly"`
	Periodic     bool    `json:"Periodic"` // periodic in x
	LowOrder     int     `json:"LowOrder"`
	HighOrder    int     `json:"HighOrder"`
	Refinements  int     `json:"Refinements"` // > 0 selects a refinement transfer at LowOrder
	NodeType     string  `json:"NodeType"`
	VectorDim    int     `json:"VectorDim"`
	OperatorKind string  `json:"OperatorKind"` // Any or Sparse, refinement transfers only
	Seed         uint64  `json:"Seed"`
}

func NewTransferParameters() *TransferParameters {
	ip := &TransferParameters{}
	ip.applyDefaults()
	return ip
}

func (ip *TransferParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.applyDefaults()
	return ip.Validate()
}

func (ip *TransferParameters) applyDefaults() {
	if ip.MeshKind == "" {
		ip.MeshKind = "Triangles"
	}
	if ip.Nx == 0 {
		ip.Nx = 4
	}
	if ip.Ny == 0 {
		ip.Ny = ip.Nx
	}
	if ip.Lx == 0 {
		ip.Lx = 1
	}
	if ip.Ly == 0 {
		ip.Ly = 1
	}
	if ip.LowOrder == 0 {
		ip.LowOrder = 1
	}
	if ip.HighOrder == 0 {
		ip.HighOrder = ip.LowOrder + 1
	}
	if ip.NodeType == "" {
		ip.NodeType = "Equispaced"
	}
	if ip.VectorDim == 0 {
		ip.VectorDim = 1
	}
	if ip.OperatorKind == "" {
		ip.OperatorKind = "Any"
	}
	if ip.Seed == 0 {
		ip.Seed = 1
	}
}

func (ip *TransferParameters) Validate() error {
	switch {
	case ip.Nx < 1 || ip.Ny < 1:
		return fmt.Errorf("element counts must be positive, have Nx = %d, Ny = %d", ip.Nx, ip.Ny)
	case ip.LowOrder < 1:
		return fmt.Errorf("LowOrder must be >= 1, have %d", ip.LowOrder)
	case ip.Refinements < 0:
		return fmt.Errorf("Refinements must be >= 0, have %d", ip.Refinements)
	case ip.Refinements == 0 && ip.HighOrder < 1:
		return fmt.Errorf("HighOrder must be >= 1, have %d", ip.HighOrder)
	case ip.Refinements == 0 && ip.HighOrder < ip.LowOrder:
		return fmt.Errorf("HighOrder must be >= LowOrder, have %d < %d", ip.HighOrder, ip.LowOrder)
	case ip.VectorDim < 1:
		return fmt.Errorf("VectorDim must be >= 1, have %d", ip.VectorDim)
	}
	switch strings.ToLower(ip.OperatorKind) {
	case "any", "sparse":
	default:
		return fmt.Errorf("OperatorKind must be Any or Sparse, have %q", ip.OperatorKind)
	}
	return nil
}

func (ip *TransferParameters) IsRefinement() bool { return ip.Refinements > 0 }

func (ip *TransferParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Mesh Kind\n", ip.MeshKind)
	fmt.Printf("[%d x %d]\t\t= Cells\n", ip.Nx, ip.Ny)
	fmt.Printf("[%8.5f x %8.5f]\t= Domain\n", ip.Lx, ip.Ly)
	fmt.Printf("[%v]\t\t\t= Periodic\n", ip.Periodic)
	if ip.IsRefinement() {
		fmt.Printf("[%d]\t\t\t= Polynomial Order\n", ip.LowOrder)
		fmt.Printf("[%d]\t\t\t= Refinements\n", ip.Refinements)
		fmt.Printf("[%s]\t\t\t= Operator Kind\n", ip.OperatorKind)
	} else {
		fmt.Printf("[%d -> %d]\t\t= Polynomial Orders\n", ip.LowOrder, ip.HighOrder)
	}
	fmt.Printf("[%s]\t\t= Node Type\n", ip.NodeType)
	fmt.Printf("[%d]\t\t\t= Vector Dimension\n", ip.VectorDim)
}
