package utils

import (
	"fmt"
)

// Index is a list of integer offsets, most often the global DOF numbers of
// one element in element-local order.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) Max() (imax int) {
	imax = -1
	for _, val := range I {
		if val > imax {
			imax = val
		}
	}
	return
}

// Gather copies x[I[k]] into sub[k], growing sub when needed.
func (I Index) Gather(x, sub []float64) []float64 {
	if cap(sub) < len(I) {
		sub = make([]float64, len(I))
	}
	sub = sub[:len(I)]
	for k, ind := range I {
		sub[k] = x[ind]
	}
	return sub
}

// Scatter overwrites y[I[k]] with sub[k].
func (I Index) Scatter(sub, y []float64) {
	I.checkLen(sub)
	for k, ind := range I {
		y[ind] = sub[k]
	}
}

// ScatterAdd accumulates sub[k] into y[I[k]].
func (I Index) ScatterAdd(sub, y []float64) {
	I.checkLen(sub)
	for k, ind := range I {
		y[ind] += sub[k]
	}
}

func (I Index) checkLen(sub []float64) {
	if len(sub) != len(I) {
		panic(fmt.Errorf("length of index and values are not equal: len(I) = %v, len(Val) = %v", len(I), len(sub)))
	}
}
