package utils

import (
	"github.com/bits-and-blooms/bitset"
)

// ClaimSet records which global indices have already been written during one
// adjoint pass. Only the first claimant of an index keeps its value.
type ClaimSet struct {
	bits *bitset.BitSet
	n    int
}

func NewClaimSet(n int) *ClaimSet {
	return &ClaimSet{
		bits: bitset.New(uint(n)),
		n:    n,
	}
}

func (cs *ClaimSet) Len() int { return cs.n }

func (cs *ClaimSet) Reset() { cs.bits.ClearAll() }

func (cs *ClaimSet) Claimed(ind int) bool { return cs.bits.Test(uint(ind)) }

// Claim marks ind and reports whether this call was the first to do so.
func (cs *ClaimSet) Claim(ind int) bool {
	if cs.bits.Test(uint(ind)) {
		return false
	}
	cs.bits.Set(uint(ind))
	return true
}

// Suppress zeroes every entry of sub whose index in I was claimed earlier and
// claims the rest.
func (cs *ClaimSet) Suppress(I Index, sub []float64) {
	for p, ind := range I {
		if !cs.Claim(ind) {
			sub[p] = 0
		}
	}
}
