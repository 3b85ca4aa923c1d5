package pool

import (
	"context"
	"errors"
	"math/big"

	"github.com/luck-28/FullSail-CLMM-SC/internal/clmmmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/ticks"
	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// SwapResult is the accumulated outcome of swap_in_pool (spec.md
// section 4.2's contract).
type SwapResult struct {
	AmountIn     uint64
	AmountOut    uint64
	FeeAmount    uint64
	ProtocolFee  uint64
	RefFee       uint64
	GaugeFee     uint64
	Steps        int
	IsExceed     bool // set by calculate_swap_result* previews, never by swap_in_pool
}

func checkedSubU64(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

func checkedAddU64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// swapPreconditions validates spec.md section 4.2's pre-conditions.
func (p *Pool) swapPreconditions(a2b bool, amount uint64, sqrtPriceLimit u128.U128, refFeeRate uint64) error {
	if p.Paused {
		return newErr(KindPoolPaused)
	}
	if amount == 0 {
		return newErr(KindZeroAmount)
	}
	if refFeeRate > clmmmath.FeeRateDenom {
		return newErr(KindInvalidRefFeeRate)
	}
	if a2b {
		if !(p.CurrentSqrtPrice.Cmp(sqrtPriceLimit) > 0 && sqrtPriceLimit.Cmp(tickmath.MinSqrtPrice) >= 0) {
			return newErr(KindInvalidPriceLimit)
		}
	} else {
		if !(p.CurrentSqrtPrice.Cmp(sqrtPriceLimit) < 0 && sqrtPriceLimit.Cmp(tickmath.MaxSqrtPrice) <= 0) {
			return newErr(KindInvalidPriceLimit)
		}
	}
	return nil
}

// SwapInPool executes swap_in_pool (spec.md section 4.2) against live
// pool state. now is unix seconds, used to advance emission growth on
// every tick cross.
func (p *Pool) SwapInPool(
	ctx context.Context,
	a2b, byAmountIn bool,
	sqrtPriceLimit u128.U128,
	amount uint64,
	refFeeRate uint64,
	now int64,
) (SwapResult, error) {
	ctx, end := p.startSpan(ctx, "pool.SwapInPool")
	var err error
	defer func() { end(err) }()

	if err = p.swapPreconditions(a2b, amount, sqrtPriceLimit, refFeeRate); err != nil {
		return SwapResult{}, err
	}

	var result SwapResult
	result, err = p.runSwap(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate, now, false)
	if err != nil {
		return SwapResult{}, err
	}
	if result.AmountOut == 0 {
		err = newErr(KindZeroOutputAmount)
		return SwapResult{}, err
	}

	p.ProtocolFeeA, p.ProtocolFeeB = creditFee(a2b, p.ProtocolFeeA, p.ProtocolFeeB, result.ProtocolFee)
	p.GaugeFeeA, p.GaugeFeeB = creditFee(a2b, p.GaugeFeeA, p.GaugeFeeB, result.GaugeFee)
	if a2b {
		p.ReserveA += result.AmountIn
		p.ReserveB -= result.AmountOut
	} else {
		p.ReserveB += result.AmountIn
		p.ReserveA -= result.AmountOut
	}

	p.emit(ctx, SwapEvent{
		PoolID:         p.ID,
		A2B:            a2b,
		ByAmountIn:     byAmountIn,
		AmountIn:       result.AmountIn,
		AmountOut:      result.AmountOut,
		FeeAmount:      result.FeeAmount,
		ProtocolFee:    result.ProtocolFee,
		RefFee:         result.RefFee,
		GaugeFee:       result.GaugeFee,
		AfterSqrtPrice: p.CurrentSqrtPrice.String(),
		AfterTickIndex: p.CurrentTickIndex,
		Steps:          result.Steps,
	})
	if result.FeeAmount > 0 {
		p.emit(ctx, UpdateFeeGrowthEvent{
			PoolID:           p.ID,
			FeeGrowthGlobalA: p.FeeGrowthGlobalA.String(),
			FeeGrowthGlobalB: p.FeeGrowthGlobalB.String(),
		})
	}
	if p.metrics != nil {
		p.metrics.RecordSwap(a2b, result.AmountIn, result.AmountOut, result.Steps)
		p.metrics.RecordGaugeFee(result.GaugeFee)
		activeF, _ := new(big.Float).SetInt(p.ActiveLiquidity.Big()).Float64()
		stakedF, _ := new(big.Float).SetInt(p.StakedLiquidity.Big()).Float64()
		p.metrics.SetLiquidity(activeF, stakedF)
	}
	if p.logger != nil {
		p.logger.Info("swap", "pool_id", p.ID, "a2b", a2b, "amount_in", result.AmountIn, "amount_out", result.AmountOut, "steps", result.Steps)
	}

	return result, nil
}

// creditFee adds amount to the A or B side depending on which side the
// pool received it on ("post-loop, credit ... the side the pool
// received (input side)").
func creditFee(a2b bool, a, b, amount uint64) (uint64, uint64) {
	if a2b {
		return a + amount, b
	}
	return a, b + amount
}

// CalculateSwapResult is the read-only preview (spec.md section 4.2:
// "calculate_swap_result* is a read-only simulation of the same
// algorithm against a cloned copy of the mutable state"). It never
// mutates p.
func (p *Pool) CalculateSwapResult(
	a2b, byAmountIn bool,
	sqrtPriceLimit u128.U128,
	amount uint64,
	refFeeRate uint64,
	now int64,
) (SwapResult, error) {
	if err := p.swapPreconditions(a2b, amount, sqrtPriceLimit, refFeeRate); err != nil {
		return SwapResult{}, err
	}
	clone := p.clone()
	return clone.runSwap(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate, now, true)
}

// runSwap implements the 9-step loop of spec.md section 4.2.
// preview=true makes step 1's "no next tick" condition set IsExceed and
// return the partial result instead of erroring, matching
// calculate_swap_result*'s contract.
func (p *Pool) runSwap(
	a2b, byAmountIn bool,
	sqrtPriceLimit u128.U128,
	amount uint64,
	refFeeRate uint64,
	now int64,
	preview bool,
) (SwapResult, error) {
	var result SwapResult
	remaining := amount
	protocolFeeRate := p.Config.ProtocolFeeRate()
	protocolFeeDenom := p.Config.ProtocolFeeRateDenom()
	unstakedFeeRate := p.unstakedFeeRate()
	unstakedFeeDenom := p.Config.UnstakedLiquidityFeeRateDenom()

	for remaining > 0 && p.CurrentSqrtPrice.Cmp(sqrtPriceLimit) != 0 {
		// Step 1: locate the next crossable tick.
		nextIndex, ok := p.Ticks.FirstScoreForSwap(p.CurrentTickIndex, a2b)
		if !ok {
			if preview {
				result.IsExceed = true
				return result, nil
			}
			return result, newErr(KindNextTickNotFound)
		}
		tick, ok := p.Ticks.BorrowForSwap(nextIndex)
		if !ok {
			return result, newErr(KindNextTickNotFound)
		}
		tickSqrtPrice, err := tickmath.GetSqrtPriceAtTick(tick.Index)
		if err != nil {
			return result, wrapErr(KindInvalidPriceLimit, err)
		}

		// Step 2: clamp target to the price limit.
		var target u128.U128
		if a2b {
			target = u128.Max(sqrtPriceLimit, tickSqrtPrice)
		} else {
			target = u128.Min(sqrtPriceLimit, tickSqrtPrice)
		}

		// Step 3: solve the step.
		step, err := clmmmath.ComputeSwapStep(p.CurrentSqrtPrice, target, p.ActiveLiquidity, remaining, p.FeeRate, a2b, byAmountIn)
		if err != nil {
			return result, wrapErr(KindAmountInOverflow, err)
		}

		// Step 4: decrement remaining.
		var consumed uint64
		if byAmountIn {
			consumed, ok = checkedAddU64(step.AmountIn, step.FeeAmount)
			if !ok {
				return result, newErr(KindAmountInOverflow)
			}
		} else {
			consumed = step.AmountOut
		}
		remaining, ok = checkedSubU64(remaining, consumed)
		if !ok {
			return result, newErr(KindInsufficientAmount)
		}

		// Step 5: fee distribution.
		ref, err := clmmmath.MulDivCeilU64(step.FeeAmount, refFeeRate, clmmmath.FeeRateDenom)
		if err != nil {
			return result, wrapErr(KindFeeAmountOverflow, err)
		}
		remainingFee, ok := checkedSubU64(step.FeeAmount, ref)
		if !ok {
			return result, newErr(KindInvalidRefFeeAmount)
		}
		protocolFee, err := clmmmath.MulDivCeilU64(remainingFee, protocolFeeRate, protocolFeeDenom)
		if err != nil {
			return result, wrapErr(KindFeeAmountOverflow, err)
		}
		afterProtocol, ok := checkedSubU64(remainingFee, protocolFee)
		if !ok {
			return result, newErr(KindFeeAmountOverflow)
		}

		gauge, err := gaugeSplit(afterProtocol, p.StakedLiquidity, p.ActiveLiquidity, unstakedFeeRate, unstakedFeeDenom)
		if err != nil {
			return result, wrapErr(KindFeeAmountOverflow, err)
		}
		lpFee, ok := checkedSubU64(afterProtocol, gauge)
		if !ok {
			return result, newErr(KindFeeAmountOverflow)
		}

		// Step 6: lp fee growth.
		if !p.ActiveLiquidity.IsZero() {
			delta := u128.MulDivFloor(u128.From64(lpFee), u128.Q64, p.ActiveLiquidity)
			if a2b {
				p.FeeGrowthGlobalA = u128.WrappingAdd(p.FeeGrowthGlobalA, delta)
			} else {
				p.FeeGrowthGlobalB = u128.WrappingAdd(p.FeeGrowthGlobalB, delta)
			}
		}

		reachedTick := step.NextSqrtPrice.Cmp(tickSqrtPrice) == 0 && target.Cmp(tickSqrtPrice) == 0

		if reachedTick {
			// Step 7.
			p.CurrentSqrtPrice = target
			if a2b {
				p.CurrentTickIndex = tick.Index - 1
			} else {
				p.CurrentTickIndex = tick.Index
			}

			p.Emission.SetStakedLiquidity(p.StakedLiquidity)
			p.Emission.UpdateGrowthGlobal(now)

			cross, err := p.Ticks.CrossBySwap(tick.Index, a2b, p.ActiveLiquidity, p.StakedLiquidity, p.growthSnapshot())
			if err != nil {
				if errors.Is(err, ticks.ErrInsufficientLiquidity) {
					return result, newErr(KindInsufficientLiquidity)
				}
				return result, newErr(KindInsufficientStakedLiquidity)
			}
			p.ActiveLiquidity = cross.ActiveLiquidity
			p.StakedLiquidity = cross.StakedLiquidity
		} else if step.NextSqrtPrice.Cmp(p.CurrentSqrtPrice) != 0 {
			// Step 8.
			p.CurrentSqrtPrice = step.NextSqrtPrice
			newTick, err := tickmath.TickAtSqrtPrice(step.NextSqrtPrice)
			if err != nil {
				return result, wrapErr(KindInvalidPriceLimit, err)
			}
			p.CurrentTickIndex = newTick
		}

		// Step 9: accumulate.
		result.AmountIn, ok = checkedAddU64(result.AmountIn, step.AmountIn)
		if !ok {
			return result, newErr(KindAmountInOverflow)
		}
		result.AmountOut, ok = checkedAddU64(result.AmountOut, step.AmountOut)
		if !ok {
			return result, newErr(KindAmountOutOverflow)
		}
		result.FeeAmount, ok = checkedAddU64(result.FeeAmount, step.FeeAmount)
		if !ok {
			return result, newErr(KindFeeAmountOverflow)
		}
		result.ProtocolFee += protocolFee
		result.RefFee += ref
		result.GaugeFee += gauge
		result.Steps++
	}

	return result, nil
}

// gaugeSplit implements spec.md section 4.2 step 5's gauge split.
func gaugeSplit(afterProtocol uint64, stakedLiquidity, activeLiquidity u128.U128, unstakedFeeRate, unstakedFeeDenom uint64) (uint64, error) {
	if activeLiquidity.IsZero() {
		return 0, nil
	}
	if stakedLiquidity.Cmp(activeLiquidity) >= 0 {
		return afterProtocol, nil
	}
	if stakedLiquidity.IsZero() {
		return clmmmath.MulDivCeilU64(afterProtocol, unstakedFeeRate, unstakedFeeDenom)
	}
	stakedAttributable := u128.MulDivCeil(u128.From64(afterProtocol), stakedLiquidity, activeLiquidity)
	stakedAttributableU64, ok := u128.ToUint64Checked(stakedAttributable)
	if !ok {
		return 0, newErr(KindFeeAmountOverflow)
	}
	return clmmmath.MulDivCeilU64(stakedAttributableU64, unstakedFeeRate, unstakedFeeDenom)
}
