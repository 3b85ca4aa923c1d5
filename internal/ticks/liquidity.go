package ticks

import (
	"errors"

	"github.com/luck-28/FullSail-CLMM-SC/internal/i128"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

var (
	// ErrLiquidityOverflow is returned when liquidity_gross would exceed
	// the configured per-tick cap.
	ErrLiquidityOverflow = errors.New("ticks: liquidity gross overflow")
	// ErrLiquidityUnderflow is returned when decrease_liquidity would
	// drive liquidity_gross below zero.
	ErrLiquidityUnderflow = errors.New("ticks: liquidity gross underflow")
	// ErrNetOverflow is returned when a signed liquidity_net/staked_net
	// update would overflow the i128 range.
	ErrNetOverflow = errors.New("ticks: liquidity net overflow")
)

// GrowthSnapshot bundles the four scalar growth-global accumulators plus
// the variable-length reward-growth-global vector, passed through to
// every tick mutation that needs to seed or flip growth-outside.
type GrowthSnapshot struct {
	FeeGrowthGlobalA      u128.U128
	FeeGrowthGlobalB      u128.U128
	PointsGrowthGlobal    u128.U128
	EmissionGrowthGlobal  u128.U128
	RewardGrowthsGlobal   []u128.U128
}

// IncreaseLiquidity increases liquidity_gross and liquidity_net at the
// given tick (acting as a lower or upper bound of a position range), per
// spec.md section 4.1. maxLiquidityPerTick bounds liquidity_gross.
func (m *Manager) IncreaseLiquidity(index int32, currentTick int32, delta u128.U128, isUpper bool, maxLiquidityPerTick u128.U128, g GrowthSnapshot) error {
	t := m.getOrInit(index)
	wasUninitialized := t.LiquidityGross.IsZero()

	grossAfter, ok := u128.CheckedAdd(t.LiquidityGross, delta)
	if !ok || grossAfter.Cmp(maxLiquidityPerTick) > 0 {
		return ErrLiquidityOverflow
	}

	if wasUninitialized {
		if index <= currentTick {
			t.FeeGrowthOutsideA = g.FeeGrowthGlobalA
			t.FeeGrowthOutsideB = g.FeeGrowthGlobalB
			t.PointsGrowthOutside = g.PointsGrowthGlobal
			t.EmissionGrowthOutside = g.EmissionGrowthGlobal
			for i, rg := range g.RewardGrowthsGlobal {
				if i >= MaxRewarders {
					break
				}
				t.RewardGrowthsOutside[i] = rg
			}
			t.RewardGrowthsCount = len(g.RewardGrowthsGlobal)
		}
		m.dirty = true
		m.bitmap.Set(index)
	}

	t.LiquidityGross = grossAfter

	signedDelta := i128.FromMagnitude(delta, isUpper)
	newNet, ok := t.LiquidityNet.Add(signedDelta)
	if !ok {
		return ErrNetOverflow
	}
	t.LiquidityNet = newNet

	return nil
}

// DecreaseLiquidity is the mirror of IncreaseLiquidity, pruning the tick
// once liquidity_gross returns to zero.
func (m *Manager) DecreaseLiquidity(index int32, delta u128.U128, isUpper bool) error {
	t, ok := m.byIndex[index]
	if !ok {
		return ErrLiquidityUnderflow
	}

	grossAfter, ok := u128.CheckedSub(t.LiquidityGross, delta)
	if !ok {
		return ErrLiquidityUnderflow
	}

	signedDelta := i128.FromMagnitude(delta, isUpper)
	newNet, ok := t.LiquidityNet.Sub(signedDelta)
	if !ok {
		return ErrNetOverflow
	}
	t.LiquidityNet = newNet
	t.LiquidityGross = grossAfter

	if grossAfter.IsZero() {
		m.prune(index)
	}
	return nil
}

// UpdateFullsailStake adjusts staked_liquidity_net by +delta on the lower
// tick and -delta on the upper tick, mirroring the unstaked-side
// convention used by IncreaseLiquidity/DecreaseLiquidity.
func (m *Manager) UpdateFullsailStake(index int32, delta u128.U128, isUpper bool) error {
	t, ok := m.byIndex[index]
	if !ok {
		return ErrLiquidityUnderflow
	}
	signedDelta := i128.FromMagnitude(delta, isUpper)
	newNet, ok := t.StakedLiquidityNet.Add(signedDelta)
	if !ok {
		return ErrNetOverflow
	}
	t.StakedLiquidityNet = newNet
	return nil
}
