package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BlockOperator is a grid of operators addressed by row and column offsets
// into the global vectors. Empty cells contribute nothing.
type BlockOperator struct {
	RowOffsets, ColOffsets []int
	Nr, Nc                 int // number of row, column blocks
	op                     [][]Operator
	coef                   [][]float64
	tmp                    []float64
}

// NewBlockOperator expects offsets starting at zero; the last entry is the
// total size. Passing a single slice gives a square block layout.
func NewBlockOperator(rowOffsets []int, colOffsetsO ...[]int) (bo *BlockOperator) {
	var (
		colOffsets = rowOffsets
	)
	if len(colOffsetsO) != 0 {
		colOffsets = colOffsetsO[0]
	}
	if len(rowOffsets) < 2 || len(colOffsets) < 2 {
		panic(fmt.Errorf("block offsets need at least two entries, have %d, %d", len(rowOffsets), len(colOffsets)))
	}
	bo = &BlockOperator{
		RowOffsets: rowOffsets,
		ColOffsets: colOffsets,
		Nr:         len(rowOffsets) - 1,
		Nc:         len(colOffsets) - 1,
	}
	bo.op = make([][]Operator, bo.Nr)
	bo.coef = make([][]float64, bo.Nr)
	for n := range bo.op {
		bo.op[n] = make([]Operator, bo.Nc)
		bo.coef[n] = make([]float64, bo.Nc)
	}
	return
}

func (bo *BlockOperator) Dims() (r, c int) {
	return bo.RowOffsets[bo.Nr], bo.ColOffsets[bo.Nc]
}

func (bo *BlockOperator) SetBlock(iRow, iCol int, op Operator, c float64) (err error) {
	var (
		r, cc = op.Dims()
		nr    = bo.RowOffsets[iRow+1] - bo.RowOffsets[iRow]
		nc    = bo.ColOffsets[iCol+1] - bo.ColOffsets[iCol]
	)
	if r != nr || cc != nc {
		err = fmt.Errorf("%w: block [%d:%d] is %dx%d, operator is %dx%d",
			ErrDimensionMismatch, iRow, iCol, nr, nc, r, cc)
		return
	}
	bo.op[iRow][iCol] = op
	bo.coef[iRow][iCol] = c
	return
}

func (bo *BlockOperator) SetDiagonalBlock(iblock int, op Operator, c float64) error {
	return bo.SetBlock(iblock, iblock, op, c)
}

func (bo *BlockOperator) Block(iRow, iCol int) Operator { return bo.op[iRow][iCol] }

func (bo *BlockOperator) Mult(x, y []float64) {
	CheckMult(bo, x, y)
	for i := range y {
		y[i] = 0
	}
	for iRow := 0; iRow < bo.Nr; iRow++ {
		yBlock := y[bo.RowOffsets[iRow]:bo.RowOffsets[iRow+1]]
		tmp := bo.scratch(len(yBlock))
		for jCol := 0; jCol < bo.Nc; jCol++ {
			if bo.op[iRow][jCol] == nil {
				continue
			}
			bo.op[iRow][jCol].Mult(x[bo.ColOffsets[jCol]:bo.ColOffsets[jCol+1]], tmp)
			floats.AddScaled(yBlock, bo.coef[iRow][jCol], tmp)
		}
	}
}

func (bo *BlockOperator) MultTranspose(x, y []float64) {
	CheckMultTranspose(bo, x, y)
	for i := range y {
		y[i] = 0
	}
	for iCol := 0; iCol < bo.Nc; iCol++ {
		yBlock := y[bo.ColOffsets[iCol]:bo.ColOffsets[iCol+1]]
		tmp := bo.scratch(len(yBlock))
		for jRow := 0; jRow < bo.Nr; jRow++ {
			if bo.op[jRow][iCol] == nil {
				continue
			}
			bo.op[jRow][iCol].MultTranspose(x[bo.RowOffsets[jRow]:bo.RowOffsets[jRow+1]], tmp)
			floats.AddScaled(yBlock, bo.coef[jRow][iCol], tmp)
		}
	}
}

func (bo *BlockOperator) scratch(n int) []float64 {
	if cap(bo.tmp) < n {
		bo.tmp = make([]float64, n)
	}
	return bo.tmp[:n]
}
