package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.M.RawMatrix().Data, []float64{1, 4, 2, 5, 3, 6})
	}
	// MulVec and MulVecTrans
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		y := make([]float64, 2)
		M.MulVec([]float64{1, 1, 1}, y)
		assert.Equal(t, []float64{6, 15}, y)
		z := make([]float64, 3)
		M.MulVecTrans([]float64{1, -1}, z)
		assert.Equal(t, []float64{-3, -3, -3}, z)
		assert.Panics(t, func() { M.MulVec([]float64{1, 1}, y) })
		assert.Panics(t, func() { M.MulVecTrans([]float64{1, 1}, y) })
	}
	// Inverse
	{
		M := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Minv, err := M.Inverse()
		require.NoError(t, err)
		I := M.Mul(Minv)
		assert.True(t, floats.EqualApprox(I.M.RawMatrix().Data, []float64{1, 0, 0, 1}, 1.e-12))
		_, err = NewMatrix(2, 3).Inverse()
		assert.Error(t, err)
		_, err = NewMatrix(2, 2, []float64{1, 2, 2, 4}).Inverse()
		assert.Error(t, err)
	}
	// Read only
	{
		M := NewMatrix(2, 2)
		M.Set(0, 1, 3)
		assert.Equal(t, 3., M.At(0, 1))
		R := M.Copy()
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		assert.Panics(t, func() { M.SetRow(0, []float64{1, 1}) })
		R.Set(0, 0, 1)
		assert.Equal(t, 1., R.At(0, 0))
		assert.Equal(t, 0., M.At(0, 0))
		assert.Contains(t, M.Print("M"), "M = ")
	}
	// NaN detection
	{
		assert.False(t, IsNan(NewMatrix(2, 2)))
		assert.True(t, IsNan([]float64{0, nan()}))
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
