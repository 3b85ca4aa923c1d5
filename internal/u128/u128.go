// Package u128 provides the unsigned 128-bit fixed-point arithmetic the
// pool core runs on: sqrt_price, liquidity and the four growth
// accumulators are all U128 values in Q64.64.
//
// The underlying representation is lukechampine.com/uint128, the same
// 128-bit type the Solana CLMM ports in the example pack (SqrtPriceX64,
// FeeGrowthGlobal) store their on-chain state in. Growth accumulators
// wrap at 2^128 on overflow per the spec; token-side helpers are layered
// on top with explicit overflow checks where the spec requires them.
package u128

import (
	"math/big"
	"math/bits"

	"lukechampine.com/uint128"
)

// U128 is an unsigned 128-bit integer, Lo/Hi little-endian words.
type U128 = uint128.Uint128

// Q64 is 2^64, the Q64.64 fixed-point scale factor.
var Q64 = uint128.New(0, 1)

// Zero is the additive identity.
var Zero = uint128.Zero

// One is the multiplicative identity.
var One = uint128.From64(1)

// From64 lifts a uint64 into U128.
func From64(v uint64) U128 { return uint128.From64(v) }

// FromBig converts a big.Int (must be in [0, 2^128)) to U128.
func FromBig(i *big.Int) U128 { return uint128.FromBig(new(big.Int).Set(i)) }

// WrappingAdd computes (a + b) mod 2^128. Growth accumulators use this
// exclusively: overflow over the pool's lifetime is harmless because a
// position only ever observes the delta since its last snapshot.
func WrappingAdd(a, b U128) U128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, _ := bits.Add64(a.Hi, b.Hi, carry)
	return uint128.New(lo, hi)
}

// WrappingSub computes (a - b) mod 2^128.
func WrappingSub(a, b U128) U128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, _ := bits.Sub64(a.Hi, b.Hi, borrow)
	return uint128.New(lo, hi)
}

// CheckedAdd returns (a + b, true) unless the sum overflows 2^128, in
// which case it returns (undefined, false). Token-side amounts and
// liquidity must never be allowed to wrap silently.
func CheckedAdd(a, b U128) (U128, bool) {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, carryHi := bits.Add64(a.Hi, b.Hi, carry)
	if carryHi != 0 {
		return Zero, false
	}
	return uint128.New(lo, hi), true
}

// CheckedSub returns (a - b, true) unless b > a, in which case it
// returns (undefined, false).
func CheckedSub(a, b U128) (U128, bool) {
	if a.Cmp(b) < 0 {
		return Zero, false
	}
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, _ := bits.Sub64(a.Hi, b.Hi, borrow)
	return uint128.New(lo, hi), true
}

// MulDivFloor computes floor(a*b/denom) using 256-bit intermediate
// precision via math/big, matching the spec's "floor is used for growth
// accrual and amount-out" rounding rule.
func MulDivFloor(a, b, denom U128) U128 {
	prod := new(big.Int).Mul(a.Big(), b.Big())
	prod.Div(prod, denom.Big())
	return FromBig(prod)
}

// MulDivCeil computes ceil(a*b/denom), matching the spec's "ceil is used
// for fees ... and for amount-in when rounding against the user" rule.
func MulDivCeil(a, b, denom U128) U128 {
	prod := new(big.Int).Mul(a.Big(), b.Big())
	q, r := new(big.Int).QuoRem(prod, denom.Big(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return FromBig(q)
}

// Min returns the smaller of a, b.
func Min(a, b U128) U128 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a, b.
func Max(a, b U128) U128 {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// ToUint64Checked narrows a U128 to a uint64, returning (0, false) if the
// value does not fit. Token amounts, fees and liquidity deltas that cross
// the u64/u128 boundary always go through this.
func ToUint64Checked(v U128) (uint64, bool) {
	if v.Hi != 0 {
		return 0, false
	}
	return v.Lo, true
}
