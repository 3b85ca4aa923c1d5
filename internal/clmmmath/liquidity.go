package clmmmath

import (
	"math/big"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// AmountsForLiquidity derives (amountA, amountB) for a given liquidity
// over [sqrtLower, sqrtUpper] at the pool's current sqrt price, the
// "fixed-liquidity" branch of add_liquidity/remove_liquidity (spec.md
// section 4.3). roundUp controls whether fractional token amounts round
// up (add_liquidity: true) or down (remove_liquidity: false), in the pool's favor either way,
// mirroring the bracket logic cpucorecore-uniswapv3-tick-state's
// CalcAmount walks per-tick-range.
func AmountsForLiquidity(currentSqrtPrice, sqrtLower, sqrtUpper, liquidity u128.U128, roundUp bool) (amountA, amountB uint64, err error) {
	switch {
	case currentSqrtPrice.Cmp(sqrtLower) <= 0:
		amountA, err = GetAmountADelta(sqrtLower, sqrtUpper, liquidity, roundUp)
		return amountA, 0, err
	case currentSqrtPrice.Cmp(sqrtUpper) >= 0:
		amountB, err = GetAmountBDelta(sqrtLower, sqrtUpper, liquidity, roundUp)
		return 0, amountB, err
	default:
		amountA, err = GetAmountADelta(currentSqrtPrice, sqrtUpper, liquidity, roundUp)
		if err != nil {
			return 0, 0, err
		}
		amountB, err = GetAmountBDelta(sqrtLower, currentSqrtPrice, liquidity, roundUp)
		if err != nil {
			return 0, 0, err
		}
		return amountA, amountB, nil
	}
}

// LiquidityForAmountA solves liquidity from a fixed amount of token A,
// the "fixed-amount" branch used when a caller pins side A.
func LiquidityForAmountA(sqrtLower, sqrtUpper u128.U128, amountA uint64) (u128.U128, error) {
	if sqrtLower.Cmp(sqrtUpper) > 0 {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	intermediate := new(big.Int).Mul(sqrtLower.Big(), sqrtUpper.Big())
	intermediate.Rsh(intermediate, q64Shift)
	diff := new(big.Int).Sub(sqrtUpper.Big(), sqrtLower.Big())
	if diff.Sign() == 0 {
		return u128.Zero, ErrZeroLiquidity
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(amountA), intermediate)
	return u128.FromBig(divRound(num, diff, false)), nil
}

// LiquidityForAmountB solves liquidity from a fixed amount of token B.
func LiquidityForAmountB(sqrtLower, sqrtUpper u128.U128, amountB uint64) (u128.U128, error) {
	if sqrtLower.Cmp(sqrtUpper) > 0 {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	diff := new(big.Int).Sub(sqrtUpper.Big(), sqrtLower.Big())
	if diff.Sign() == 0 {
		return u128.Zero, ErrZeroLiquidity
	}
	num := new(big.Int).Lsh(new(big.Int).SetUint64(amountB), q64Shift)
	return u128.FromBig(divRound(num, diff, false)), nil
}

// LiquidityForAmounts solves the maximal liquidity obtainable given a
// budget of both sides (amountA, amountB) at the pool's current price,
// picking whichever side binds first. Used by add_liquidity_fix_coin.
func LiquidityForAmounts(currentSqrtPrice, sqrtLower, sqrtUpper u128.U128, amountA, amountB uint64) (u128.U128, error) {
	switch {
	case currentSqrtPrice.Cmp(sqrtLower) <= 0:
		return LiquidityForAmountA(sqrtLower, sqrtUpper, amountA)
	case currentSqrtPrice.Cmp(sqrtUpper) >= 0:
		return LiquidityForAmountB(sqrtLower, sqrtUpper, amountB)
	default:
		la, err := LiquidityForAmountA(currentSqrtPrice, sqrtUpper, amountA)
		if err != nil {
			return u128.Zero, err
		}
		lb, err := LiquidityForAmountB(sqrtLower, currentSqrtPrice, amountB)
		if err != nil {
			return u128.Zero, err
		}
		return u128.Min(la, lb), nil
	}
}
