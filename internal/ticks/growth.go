package ticks

import (
	"errors"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

var (
	// ErrInsufficientLiquidity mirrors the core's EInsufficientLiquidity:
	// crossing a tick a2b must not drive active liquidity negative.
	ErrInsufficientLiquidity = errors.New("ticks: crossing would make active liquidity negative")
	// ErrInsufficientStakedLiquidity mirrors EInsufficientStakedLiquidity.
	ErrInsufficientStakedLiquidity = errors.New("ticks: crossing would make staked liquidity negative")
)

// GrowthInside implements get_*_in_range (spec.md section 4.1): growth
// accrued strictly between tickLower and tickUpper, viewed from the
// current tick. Generalizes CoinSummer-uniswap-v3-simulator's
// getFeeGrowthInside from the two fee dimensions to all four scalar
// growth accumulators plus the reward-growth vector.
type RangeGrowth struct {
	FeeA, FeeB       u128.U128
	Points           u128.U128
	Emission         u128.U128
	Rewards          [MaxRewarders]u128.U128
}

func (m *Manager) GrowthInside(currentTick, tickLower, tickUpper int32, global GrowthSnapshot) RangeGrowth {
	lower, lok := m.byIndex[tickLower]
	upper, uok := m.byIndex[tickUpper]

	var lowFeeA, lowFeeB, lowPts, lowEm u128.U128
	var lowRw [MaxRewarders]u128.U128
	if lok {
		lowFeeA, lowFeeB, lowPts, lowEm, lowRw = lower.FeeGrowthOutsideA, lower.FeeGrowthOutsideB, lower.PointsGrowthOutside, lower.EmissionGrowthOutside, lower.RewardGrowthsOutside
	}
	var upFeeA, upFeeB, upPts, upEm u128.U128
	var upRw [MaxRewarders]u128.U128
	if uok {
		upFeeA, upFeeB, upPts, upEm, upRw = upper.FeeGrowthOutsideA, upper.FeeGrowthOutsideB, upper.PointsGrowthOutside, upper.EmissionGrowthOutside, upper.RewardGrowthsOutside
	}

	belowOrAbove := func(outside, glob u128.U128, belowSide bool) u128.U128 {
		if belowSide {
			return outside
		}
		return u128.WrappingSub(glob, outside)
	}

	belowLowerIsInside := currentTick >= tickLower
	aboveUpperIsInside := currentTick < tickUpper

	var out RangeGrowth
	belowA := belowOrAbove(lowFeeA, global.FeeGrowthGlobalA, belowLowerIsInside)
	aboveA := belowOrAbove(upFeeA, global.FeeGrowthGlobalA, aboveUpperIsInside)
	out.FeeA = u128.WrappingSub(u128.WrappingSub(global.FeeGrowthGlobalA, belowA), aboveA)

	belowB := belowOrAbove(lowFeeB, global.FeeGrowthGlobalB, belowLowerIsInside)
	aboveB := belowOrAbove(upFeeB, global.FeeGrowthGlobalB, aboveUpperIsInside)
	out.FeeB = u128.WrappingSub(u128.WrappingSub(global.FeeGrowthGlobalB, belowB), aboveB)

	belowPts := belowOrAbove(lowPts, global.PointsGrowthGlobal, belowLowerIsInside)
	abovePts := belowOrAbove(upPts, global.PointsGrowthGlobal, aboveUpperIsInside)
	out.Points = u128.WrappingSub(u128.WrappingSub(global.PointsGrowthGlobal, belowPts), abovePts)

	belowEm := belowOrAbove(lowEm, global.EmissionGrowthGlobal, belowLowerIsInside)
	aboveEm := belowOrAbove(upEm, global.EmissionGrowthGlobal, aboveUpperIsInside)
	out.Emission = u128.WrappingSub(u128.WrappingSub(global.EmissionGrowthGlobal, belowEm), aboveEm)

	for i := 0; i < len(global.RewardGrowthsGlobal) && i < MaxRewarders; i++ {
		gl := global.RewardGrowthsGlobal[i]
		belowR := belowOrAbove(lowRw[i], gl, belowLowerIsInside)
		aboveR := belowOrAbove(upRw[i], gl, aboveUpperIsInside)
		out.Rewards[i] = u128.WrappingSub(u128.WrappingSub(gl, belowR), aboveR)
	}

	return out
}

// CrossResult carries the updated active/staked liquidity after a cross.
type CrossResult struct {
	ActiveLiquidity u128.U128
	StakedLiquidity u128.U128
}

// CrossBySwap implements cross_by_swap (spec.md section 4.1): flips the
// tick's growth-outside to global-minus-outside, then folds its signed
// liquidity deltas into the running active/staked liquidity.
func (m *Manager) CrossBySwap(index int32, a2b bool, activeLiquidity, stakedLiquidity u128.U128, global GrowthSnapshot) (CrossResult, error) {
	t, ok := m.byIndex[index]
	if !ok {
		return CrossResult{}, ErrInsufficientLiquidity
	}

	t.Cross(global.FeeGrowthGlobalA, global.FeeGrowthGlobalB, global.PointsGrowthGlobal, global.EmissionGrowthGlobal, global.RewardGrowthsGlobal)

	newActive, ok := foldSigned(activeLiquidity, t.LiquidityNet, a2b)
	if !ok {
		return CrossResult{}, ErrInsufficientLiquidity
	}
	newStaked, ok := foldSigned(stakedLiquidity, t.StakedLiquidityNet, a2b)
	if !ok {
		return CrossResult{}, ErrInsufficientStakedLiquidity
	}

	return CrossResult{ActiveLiquidity: newActive, StakedLiquidity: newStaked}, nil
}
