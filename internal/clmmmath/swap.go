// Package clmmmath implements the per-step swap arithmetic and the
// liquidity<->amount conversions the pool's swap engine and liquidity
// operations both depend on. It generalizes the teacher repo's
// internal/pricing/uniswapv3/{sqrt_price_math,swap_math}.go from Q96
// sqrt-price-X96 token amounts to this pool's Q64.64 sqrt_price with u64
// checked token amounts, and corrects the teacher's fee computation (a
// plain subtraction, adequate for a read-only quote) to the spec's
// ceil-on-gross-input rule.
package clmmmath

import (
	"errors"
	"math/big"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

var (
	// ErrZeroLiquidity is returned when a delta is requested against zero
	// active liquidity.
	ErrZeroLiquidity = errors.New("clmmmath: liquidity must be positive")
	// ErrInsufficientLiquidity is returned when removing an amount would
	// drive the implied liquidity below zero.
	ErrInsufficientLiquidity = errors.New("clmmmath: insufficient liquidity for price move")
	// ErrAmountOverflow is returned when a computed token amount does not
	// fit in a u64.
	ErrAmountOverflow = errors.New("clmmmath: amount overflow")
)

const q64Shift = 64

var q64Big = new(big.Int).Lsh(big.NewInt(1), q64Shift)

// GetAmountADelta computes the token-A (amount0-equivalent) delta for a
// liquidity L held between sqrtLower and sqrtUpper:
//
//	amountA = L<<64 * (sqrtUpper - sqrtLower) / (sqrtUpper * sqrtLower)
func GetAmountADelta(sqrtLower, sqrtUpper, liquidity u128.U128, roundUp bool) (uint64, error) {
	if sqrtLower.Cmp(sqrtUpper) > 0 {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	numerator1 := new(big.Int).Lsh(liquidity.Big(), q64Shift)
	numerator2 := new(big.Int).Sub(sqrtUpper.Big(), sqrtLower.Big())
	numerator := new(big.Int).Mul(numerator1, numerator2)
	denom := new(big.Int).Mul(sqrtUpper.Big(), sqrtLower.Big())
	if denom.Sign() == 0 {
		return 0, ErrZeroLiquidity
	}
	return bigToU64(divRound(numerator, denom, roundUp))
}

// GetAmountBDelta computes the token-B (amount1-equivalent) delta:
//
//	amountB = L * (sqrtUpper - sqrtLower) / 2^64
func GetAmountBDelta(sqrtLower, sqrtUpper, liquidity u128.U128, roundUp bool) (uint64, error) {
	if sqrtLower.Cmp(sqrtUpper) > 0 {
		sqrtLower, sqrtUpper = sqrtUpper, sqrtLower
	}
	diff := new(big.Int).Sub(sqrtUpper.Big(), sqrtLower.Big())
	numerator := new(big.Int).Mul(liquidity.Big(), diff)
	return bigToU64(divRound(numerator, q64Big, roundUp))
}

// GetNextSqrtPriceFromAmountARoundingUp solves the next sqrt price after
// adding/removing amount of token A at constant liquidity.
func GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity u128.U128, amount uint64, add bool) (u128.U128, error) {
	if amount == 0 {
		return sqrtPrice, nil
	}
	numerator1 := new(big.Int).Lsh(liquidity.Big(), q64Shift)
	amt := new(big.Int).SetUint64(amount)

	if add {
		denom := new(big.Int).Add(numerator1, new(big.Int).Mul(amt, sqrtPrice.Big()))
		if denom.Sign() == 0 {
			return u128.Zero, ErrZeroLiquidity
		}
		return u128.FromBig(divRound(new(big.Int).Mul(numerator1, sqrtPrice.Big()), denom, true)), nil
	}

	product := new(big.Int).Mul(amt, sqrtPrice.Big())
	denom := new(big.Int).Sub(numerator1, product)
	if denom.Sign() <= 0 {
		return u128.Zero, ErrInsufficientLiquidity
	}
	return u128.FromBig(divRound(new(big.Int).Mul(numerator1, sqrtPrice.Big()), denom, true)), nil
}

// GetNextSqrtPriceFromAmountBRoundingDown solves the next sqrt price
// after adding/removing amount of token B at constant liquidity.
func GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity u128.U128, amount uint64, add bool) (u128.U128, error) {
	amt := new(big.Int).SetUint64(amount)
	if add {
		quotient := divRound(new(big.Int).Lsh(amt, q64Shift), liquidity.Big(), false)
		return u128.FromBig(new(big.Int).Add(sqrtPrice.Big(), quotient)), nil
	}
	quotient := divRound(new(big.Int).Lsh(amt, q64Shift), liquidity.Big(), true)
	result := new(big.Int).Sub(sqrtPrice.Big(), quotient)
	if result.Sign() < 0 {
		return u128.Zero, ErrInsufficientLiquidity
	}
	return u128.FromBig(result), nil
}

// GetNextSqrtPriceFromInput computes the next sqrt price for a given
// input amount, direction a2b (token A in, token B out).
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity u128.U128, amountIn uint64, a2b bool) (u128.U128, error) {
	if liquidity.IsZero() {
		return u128.Zero, ErrZeroLiquidity
	}
	if a2b {
		return GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountIn, true)
	}
	return GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput computes the next sqrt price for a given
// output amount, direction a2b.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity u128.U128, amountOut uint64, a2b bool) (u128.U128, error) {
	if liquidity.IsZero() {
		return u128.Zero, ErrZeroLiquidity
	}
	if a2b {
		return GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountOut, false)
	}
	return GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountOut, false)
}

// SwapStep is the result of one compute_swap_step call.
type SwapStep struct {
	AmountIn      uint64
	AmountOut     uint64
	NextSqrtPrice u128.U128
	FeeAmount     uint64
}

// FeeRateDenom is the protocol-wide denominator fee rates (base fee rate,
// protocol fee rate, referral fee rate) are expressed over.
const FeeRateDenom uint64 = 1_000_000

// ComputeSwapStep is the per-step solver described in spec.md section
// 4.2: it picks the smaller of "reach target" and "consume remaining",
// then derives the fee on gross input (ceil) or on computed input,
// matching the spec's rounding rules exactly (the teacher's ComputeSwapStep
// instead derives fee as amountRemaining-amountIn, which is only correct
// when by_amount_in already reserved the fee budget up front).
func ComputeSwapStep(
	currentSqrtPrice, targetSqrtPrice, liquidity u128.U128,
	amountRemaining uint64,
	feeRate uint64,
	a2b bool,
	byAmountIn bool,
) (SwapStep, error) {
	var step SwapStep

	if byAmountIn {
		amountRemainingLessFee, err := mulDivFloorU64(amountRemaining, FeeRateDenom-feeRate, FeeRateDenom)
		if err != nil {
			return step, err
		}

		var amountIn uint64
		var err2 error
		if a2b {
			amountIn, err2 = GetAmountADelta(targetSqrtPrice, currentSqrtPrice, liquidity, true)
		} else {
			amountIn, err2 = GetAmountBDelta(currentSqrtPrice, targetSqrtPrice, liquidity, true)
		}
		if err2 != nil {
			return step, err2
		}

		if amountRemainingLessFee >= amountIn {
			step.NextSqrtPrice = targetSqrtPrice
			step.AmountIn = amountIn
		} else {
			next, err3 := GetNextSqrtPriceFromInput(currentSqrtPrice, liquidity, amountRemainingLessFee, a2b)
			if err3 != nil {
				return step, err3
			}
			step.NextSqrtPrice = next
			step.AmountIn = amountRemainingLessFee
		}
	} else {
		var amountOut uint64
		var err2 error
		if a2b {
			amountOut, err2 = GetAmountBDelta(targetSqrtPrice, currentSqrtPrice, liquidity, false)
		} else {
			amountOut, err2 = GetAmountADelta(currentSqrtPrice, targetSqrtPrice, liquidity, false)
		}
		if err2 != nil {
			return step, err2
		}

		if amountRemaining >= amountOut {
			step.NextSqrtPrice = targetSqrtPrice
			step.AmountOut = amountOut
		} else {
			next, err3 := GetNextSqrtPriceFromOutput(currentSqrtPrice, liquidity, amountRemaining, a2b)
			if err3 != nil {
				return step, err3
			}
			step.NextSqrtPrice = next
			step.AmountOut = amountRemaining
		}
	}

	// Derive the leg we didn't just solve directly, at the resolved
	// NextSqrtPrice (whether or not we reached target).
	if byAmountIn {
		if a2b {
			out, err := GetAmountBDelta(step.NextSqrtPrice, currentSqrtPrice, liquidity, false)
			if err != nil {
				return step, err
			}
			step.AmountOut = out
		} else {
			out, err := GetAmountADelta(currentSqrtPrice, step.NextSqrtPrice, liquidity, false)
			if err != nil {
				return step, err
			}
			step.AmountOut = out
		}
		fee, err := mulDivCeilU64(step.AmountIn, feeRate, FeeRateDenom-feeRate)
		if err != nil {
			return step, err
		}
		step.FeeAmount = fee
	} else {
		if a2b {
			in, err := GetAmountADelta(step.NextSqrtPrice, currentSqrtPrice, liquidity, true)
			if err != nil {
				return step, err
			}
			step.AmountIn = in
		} else {
			in, err := GetAmountBDelta(currentSqrtPrice, step.NextSqrtPrice, liquidity, true)
			if err != nil {
				return step, err
			}
			step.AmountIn = in
		}
		fee, err := mulDivCeilU64(step.AmountIn, feeRate, FeeRateDenom-feeRate)
		if err != nil {
			return step, err
		}
		step.FeeAmount = fee
	}

	return step, nil
}

func divRound(num, denom *big.Int, roundUp bool) *big.Int {
	q, r := new(big.Int).QuoRem(num, denom, new(big.Int))
	if roundUp && r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func bigToU64(v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return v.Uint64(), nil
}

func mulDivFloorU64(a, b, denom uint64) (uint64, error) {
	return MulDivFloorU64(a, b, denom)
}

func mulDivCeilU64(a, b, denom uint64) (uint64, error) {
	return MulDivCeilU64(a, b, denom)
}

// MulDivFloorU64 computes floor(a*b/denom) over u64 operands with a
// big.Int intermediate product, used throughout the fee-distribution
// pipeline (spec.md section 4.2 step 5) where a*b can exceed 64 bits.
func MulDivFloorU64(a, b, denom uint64) (uint64, error) {
	if denom == 0 {
		return 0, ErrZeroLiquidity
	}
	prod := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	return bigToU64(divRound(prod, new(big.Int).SetUint64(denom), false))
}

// MulDivCeilU64 computes ceil(a*b/denom) over u64 operands.
func MulDivCeilU64(a, b, denom uint64) (uint64, error) {
	if denom == 0 {
		return 0, ErrZeroLiquidity
	}
	prod := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	return bigToU64(divRound(prod, new(big.Int).SetUint64(denom), true))
}
