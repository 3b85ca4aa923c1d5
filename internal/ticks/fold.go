package ticks

import (
	"github.com/luck-28/FullSail-CLMM-SC/internal/i128"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// foldSigned applies a tick's signed net delta to an unsigned running
// liquidity total: subtract on a2b crossings, add otherwise (spec.md
// section 4.1's cross_by_swap direction convention). Returns (result,
// false) if the fold would drive the total negative or overflow u128.
func foldSigned(base u128.U128, delta i128.I128, a2b bool) (u128.U128, bool) {
	effective := delta
	if a2b {
		effective = delta.Neg()
	}

	if effective.IsNegative() {
		mag := effective.Magnitude()
		return u128.CheckedSub(base, mag)
	}
	return u128.CheckedAdd(base, effective.Magnitude())
}
