package utils

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense matrix used for element local operators. Data passed to
// NewMatrix is row-major, as with mat.NewDense.
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, nil)
	}
	R = Matrix{
		M:    m,
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }

func (m Matrix) IsEmpty() bool { return m.M == nil }

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	R.M.Copy(m.M)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	R.M.Copy(m.M.T())
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.Dims()
		_, ncA = A.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) Inverse() (R Matrix, err error) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert non-square matrix: nr, nc = %v, %v", nr, nc)
		return
	}
	R = NewMatrix(nr, nc)
	if err = R.M.Inverse(m.M); err != nil {
		err = fmt.Errorf("unable to invert matrix %q: %w", m.name, err)
		return
	}
	if IsNan(R) {
		err = fmt.Errorf("NaN in inverse of matrix %q", m.name)
	}
	return
}

// MulVec computes y = M x into the caller's storage.
func (m Matrix) MulVec(x, y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc || len(y) != nr {
		panic(fmt.Errorf("dimension mismatch in MulVec: matrix %dx%d, len(x) = %d, len(y) = %d",
			nr, nc, len(x), len(y)))
	}
	yv := mat.NewVecDense(nr, y)
	yv.MulVec(m.M, mat.NewVecDense(nc, x))
}

// MulVecTrans computes y = M^T x into the caller's storage.
func (m Matrix) MulVecTrans(x, y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nr || len(y) != nc {
		panic(fmt.Errorf("dimension mismatch in MulVecTrans: matrix %dx%d, len(x) = %d, len(y) = %d",
			nr, nc, len(x), len(y)))
	}
	yv := mat.NewVecDense(nc, y)
	yv.MulVec(m.M.T(), mat.NewVecDense(nr, x))
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = ""
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	buf := bytes.Buffer{}
	fmt.Fprintf(&buf, "%s = \n%v\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return buf.String()
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
