// Package tickmath implements the tick-index <-> sqrt_price bijection the
// swap engine and tick grid both depend on. It is a Q64.64 adaptation of
// the Uniswap V3 TickMath bit-ladder the teacher repo ports at
// internal/pricing/uniswapv3/tick_math.go: the same magic-constant table
// (each entry is 2^128 / sqrt(1.0001^(2^i)) for i = 0..19) is reused, only
// the final right-shift changes (64 bits here instead of 32) because this
// pool stores sqrt_price in Q64.64 rather than Uniswap's Q96.
package tickmath

import (
	"errors"
	"math/big"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// MinTick and MaxTick bound the pool's tick grid. FullSail/Cetus-style
// Sui Move CLMMs use a narrower range than Uniswap v3's +-887272 because
// their sqrt_price is Q64.64, not Uniswap's Q64.96; +-443636 is the largest tick
// whose sqrt ratio still fits that narrower fixed-point domain.
const (
	MinTick int32 = -443636
	MaxTick int32 = 443636
)

var (
	// ErrTickOutOfBounds is returned by GetSqrtPriceAtTick for a tick
	// outside [MinTick, MaxTick].
	ErrTickOutOfBounds = errors.New("tickmath: tick out of bounds")
	// ErrSqrtPriceOutOfBounds is returned by TickAtSqrtPrice for a price
	// outside [MinSqrtPrice, MaxSqrtPrice].
	ErrSqrtPriceOutOfBounds = errors.New("tickmath: sqrt price out of bounds")
)

// MinSqrtPrice and MaxSqrtPrice are the sqrt-price bounds at MinTick and
// MaxTick respectively, computed once at init.
var (
	MinSqrtPrice u128.U128
	MaxSqrtPrice u128.U128
)

func init() {
	MinSqrtPrice, _ = GetSqrtPriceAtTick(MinTick)
	MaxSqrtPrice, _ = GetSqrtPriceAtTick(MaxTick)
}

// ratioConsts[0] seeds the ladder when the lowest bit of |tick| is set
// (seedEven, 2^128, seeds it otherwise); ratioConsts[1..19] are
// multiplied in as each higher bit of |tick| is set. Identical
// hex constants to Uniswap V3's TickMath.sol bit ladder.
var ratioConsts = [20]*big.Int{
	mustHex("0xfffcb933bd6fad37aa2d162d1a594001"),
	mustHex("0xfff97272373d413259a46990580e213a"),
	mustHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	mustHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	mustHex("0xffcb9843d60f6159c9db58835c926644"),
	mustHex("0xff973b41fa98c081472e6896dfb254c0"),
	mustHex("0xff2ea16466c96a3843ec78b326b52861"),
	mustHex("0xfe5dee046a99a2a811c461f1969c3053"),
	mustHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	mustHex("0xf987a7253ac413176f2b074cf7815e54"),
	mustHex("0xf3392b0822b70005940c7a398e4b70f3"),
	mustHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	mustHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	mustHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	mustHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	mustHex("0x31be135f97d08fd981231505542fcfa6"),
	mustHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	mustHex("0x5d6af8dedb81196699c329225ee604"),
	mustHex("0x2216e584f5fa1ea926041bedfe98"),
	mustHex("0x48a170391f7dc42444e8fa2"),
}

var seedEven = mustHex("0x100000000000000000000000000000000")

func mustHex(s string) *big.Int {
	n := new(big.Int)
	n.SetString(s, 0)
	return n
}

// GetSqrtPriceAtTick returns sqrt(1.0001^tick) in Q64.64.
func GetSqrtPriceAtTick(tick int32) (u128.U128, error) {
	if tick < MinTick || tick > MaxTick {
		return u128.Zero, ErrTickOutOfBounds
	}

	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	var ratio *big.Int
	if absTick&0x1 != 0 {
		ratio = new(big.Int).Set(ratioConsts[0])
	} else {
		ratio = new(big.Int).Set(seedEven)
	}
	for i := 1; i < 20; i++ {
		if absTick&(1<<uint(i)) != 0 {
			ratio.Mul(ratio, ratioConsts[i])
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
		ratio = new(big.Int).Div(maxUint256, ratio)
	}
	// ratio is Q128.128 here; shift to Q64.64, rounding up on any
	// truncated remainder (matches TickMath.sol's rounding rule).
	rem := new(big.Int)
	ratio.DivMod(ratio, new(big.Int).Lsh(big.NewInt(1), 64), rem)
	if rem.Sign() != 0 {
		ratio.Add(ratio, big.NewInt(1))
	}

	return u128.FromBig(ratio), nil
}

// TickAtSqrtPrice returns the largest tick whose sqrt price is <= the
// given price, via binary search over GetSqrtPriceAtTick (the bit ladder
// has no closed-form inverse). Mirrors the teacher's
// GetTickAtSqrtRatio binary search in internal/pricing/uniswapv3/tick_math.go.
func TickAtSqrtPrice(sqrtPrice u128.U128) (int32, error) {
	if sqrtPrice.Cmp(MinSqrtPrice) < 0 || sqrtPrice.Cmp(MaxSqrtPrice) > 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ratio, _ := GetSqrtPriceAtTick(mid)
		if ratio.Cmp(sqrtPrice) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}
