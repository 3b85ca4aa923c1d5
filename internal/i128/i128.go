// Package i128 implements a signed 128-bit integer for liquidity_net and
// staked_liquidity_net, the two quantities in the pool core that need a
// sign but must still fit in a single 128-bit word. lukechampine.com/uint128
// (already used by internal/u128) is unsigned only, so this package layers
// a sign bit on top, mirroring the overflow-checked-add pattern the
// example pack's CoinSummer-uniswap-v3-simulator tick manager uses for
// LiquidityAddDelta (MaxInt128/MinInt128 bounds, explicit overflow error).
package i128

import (
	"errors"
	"math/big"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// ErrOverflow is returned when a signed 128-bit addition would leave the
// representable range [-(2^127), 2^127-1].
var ErrOverflow = errors.New("i128: overflow")

// I128 is a sign-magnitude signed 128-bit integer. Magnitude is always a
// valid u128.U128; zero is represented with neg=false.
type I128 struct {
	neg bool
	mag u128.U128
}

// Zero is the additive identity.
var Zero = I128{}

// FromInt64 builds an I128 from a plain int64.
func FromInt64(v int64) I128 {
	if v < 0 {
		return I128{neg: true, mag: u128.From64(uint64(-v))}
	}
	return I128{mag: u128.From64(uint64(v))}
}

// FromMagnitude builds a non-negative I128 from a u128 magnitude, or its
// negation when neg is true and mag is non-zero.
func FromMagnitude(mag u128.U128, neg bool) I128 {
	if mag.IsZero() {
		neg = false
	}
	return I128{neg: neg, mag: mag}
}

// IsNegative reports whether the value is strictly less than zero.
func (a I128) IsNegative() bool { return a.neg && !a.mag.IsZero() }

// IsZero reports whether the value is exactly zero.
func (a I128) IsZero() bool { return a.mag.IsZero() }

// Magnitude returns |a| as a u128.U128.
func (a I128) Magnitude() u128.U128 { return a.mag }

// Neg returns -a.
func (a I128) Neg() I128 {
	return FromMagnitude(a.mag, !a.neg)
}

// Add returns (a+b, ok). ok is false if the true sum does not fit in the
// signed 128-bit range, mirroring math_u128::add_check's explicit
// overflow/underflow detection.
func (a I128) Add(b I128) (I128, bool) {
	ab := a.Big()
	bb := b.Big()
	sum := new(big.Int).Add(ab, bb)
	return fromBig(sum)
}

// Sub returns (a-b, ok), same overflow semantics as Add.
func (a I128) Sub(b I128) (I128, bool) {
	return a.Add(b.Neg())
}

// Cmp returns -1, 0 or 1 as a is less than, equal to, or greater than b.
func (a I128) Cmp(b I128) int {
	return a.Big().Cmp(b.Big())
}

// Big converts to a math/big.Int for overflow checking and display.
func (a I128) Big() *big.Int {
	m := a.mag.Big()
	if a.neg {
		return m.Neg(m)
	}
	return m
}

// String renders the signed decimal value.
func (a I128) String() string { return a.Big().String() }

var minI128 = func() *big.Int {
	// -(2^127)
	v := new(big.Int).Lsh(big.NewInt(1), 127)
	return v.Neg(v)
}()

var maxI128 = func() *big.Int {
	// 2^127 - 1
	v := new(big.Int).Lsh(big.NewInt(1), 127)
	return v.Sub(v, big.NewInt(1))
}()

func fromBig(v *big.Int) (I128, bool) {
	if v.Cmp(minI128) < 0 || v.Cmp(maxI128) > 0 {
		return Zero, false
	}
	neg := v.Sign() < 0
	mag := new(big.Int).Abs(v)
	return FromMagnitude(u128.FromBig(mag), neg), true
}
