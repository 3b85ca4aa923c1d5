package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// assertActiveLiquidityMatchesNetSum checks invariant 1: active_liquidity
// equals the sum of liquidity_net over every initialized tick at or
// below current_tick_index, recomputed independently of the live
// running total.
func assertActiveLiquidityMatchesNetSum(t *testing.T, p *Pool) {
	t.Helper()
	active, _, err := p.Ticks.SumNetUpTo(p.CurrentTickIndex)
	require.NoError(t, err)
	require.Equal(t, 0, active.Cmp(p.ActiveLiquidity),
		"active_liquidity %s != recomputed net sum %s", p.ActiveLiquidity, active)
}

// assertStakedNeverExceedsActive checks invariant 2.
func assertStakedNeverExceedsActive(t *testing.T, p *Pool) {
	t.Helper()
	require.LessOrEqual(t, p.StakedLiquidity.Cmp(p.ActiveLiquidity), 0)
}

// assertTickMatchesSqrtPrice checks invariant 3: current_tick_index is
// the tick_at_sqrt_price of current_sqrt_price between swaps (the
// in-flight exception during a swap step does not apply here since
// this helper only ever runs after an entry point returns).
func assertTickMatchesSqrtPrice(t *testing.T, p *Pool) {
	t.Helper()
	want, err := tickmath.TickAtSqrtPrice(p.CurrentSqrtPrice)
	require.NoError(t, err)
	require.Equal(t, want, p.CurrentTickIndex)
}

func assertCoreInvariants(t *testing.T, p *Pool) {
	t.Helper()
	assertActiveLiquidityMatchesNetSum(t, p)
	assertStakedNeverExceedsActive(t, p)
	assertTickMatchesSqrtPrice(t, p)
}

// TestInvariants_OverOpenAddSwapRemoveSequence drives a representative
// sequence of open/add/swap/remove/stake/unstake operations and
// re-checks invariants 1-3 after every single call, the same
// after-every-operation discipline a fuzzer would apply.
func TestInvariants_OverOpenAddSwapRemoveSequence(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1_700_000_000)
	assertCoreInvariants(t, p)

	idWide, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	rWide, err := p.AddLiquidity(ctx, idWide, 1_700_000_000, u128.From64(2_000_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(rWide)
	assertCoreInvariants(t, p)

	idNarrow, err := p.OpenPosition(ctx, -60, 60)
	require.NoError(t, err)
	rNarrow, err := p.AddLiquidity(ctx, idNarrow, 1_700_000_010, u128.From64(500_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(rNarrow)
	assertCoreInvariants(t, p)

	require.NoError(t, p.Stake(ctx, idWide, 1_700_000_020))
	assertCoreInvariants(t, p)

	_, err = p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 5_000, 500, 1_700_000_030)
	require.NoError(t, err)
	assertCoreInvariants(t, p)

	// A modest swap against generous liquidity on both sides of the
	// current tick; small enough to stay well inside the funded range
	// regardless of which direction it nudges the price.
	_, err = p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 20_000, 500, 1_700_000_040)
	require.NoError(t, err)
	assertCoreInvariants(t, p)

	_, err = p.SwapInPool(ctx, false, true, tickmath.MaxSqrtPrice, 10_000, 500, 1_700_000_050)
	require.NoError(t, err)
	assertCoreInvariants(t, p)

	require.NoError(t, p.Unstake(ctx, idWide, 1_700_000_060))
	assertCoreInvariants(t, p)

	_, _, err = p.RemoveLiquidity(ctx, idNarrow, 1_700_000_070, u128.From64(500_000_000))
	require.NoError(t, err)
	assertCoreInvariants(t, p)
}

// TestInvariant4_LiquidityRoundTripRoundsTowardPool checks invariant 4
// directly: adding then removing the same liquidity at an unchanged
// price returns amounts that are never more than what was joined, and
// never short by more than one unit per side.
func TestInvariant4_LiquidityRoundTripRoundsTowardPool(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1_700_000_000)

	id, err := p.OpenPosition(ctx, -300, 300)
	require.NoError(t, err)
	r, err := p.AddLiquidity(ctx, id, 1_700_000_000, u128.From64(123_456_789))
	require.NoError(t, err)
	p.RepayAddLiquidity(r)

	amountA, amountB, err := p.RemoveLiquidity(ctx, id, 1_700_000_000, u128.From64(123_456_789))
	require.NoError(t, err)

	require.LessOrEqual(t, amountA, r.AmountA)
	require.LessOrEqual(t, amountB, r.AmountB)
	require.LessOrEqual(t, r.AmountA-amountA, uint64(1))
	require.LessOrEqual(t, r.AmountB-amountB, uint64(1))
}

// TestInvariant5_SwapConservation checks that a swap's reported
// amount_in/fee_amount decompose exactly into its four fee
// destinations plus the portion credited to LP fee growth (recovered
// here as fee_amount minus the three explicit destinations).
func TestInvariant5_SwapConservation(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1_700_000_000)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	r, err := p.AddLiquidity(ctx, id, 1_700_000_000, u128.From64(5_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(r)

	result, err := p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 100_000, 1_000, 1_700_000_100)
	require.NoError(t, err)

	lpFeeCredited := result.FeeAmount - result.ProtocolFee - result.RefFee - result.GaugeFee
	require.GreaterOrEqual(t, result.FeeAmount, result.ProtocolFee+result.RefFee+result.GaugeFee)
	require.GreaterOrEqual(t, lpFeeCredited, uint64(0))
	require.Equal(t, uint64(100_000), result.AmountIn+result.FeeAmount)
}

// TestInvariant6_EqualRangePositionsShareFeesProportionally checks that
// two positions opened with identical ranges before any growth accrual
// receive owed fees proportional to their liquidity after a shared
// swap.
func TestInvariant6_EqualRangePositionsShareFeesProportionally(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1_700_000_000)

	idA, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	rA, err := p.AddLiquidity(ctx, idA, 1_700_000_000, u128.From64(1_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(rA)

	idB, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	rB, err := p.AddLiquidity(ctx, idB, 1_700_000_000, u128.From64(2_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(rB)

	_, err = p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 300_000, 0, 1_700_000_100)
	require.NoError(t, err)

	feeA, _, err := p.CollectFee(ctx, idA, 1_700_000_100, true)
	require.NoError(t, err)
	feeB, _, err := p.CollectFee(ctx, idB, 1_700_000_100, true)
	require.NoError(t, err)

	// idB holds exactly twice idA's liquidity; its collected fee must
	// land within rounding of twice idA's, never less.
	require.GreaterOrEqual(t, feeB, feeA)
	require.LessOrEqual(t, feeB, 2*feeA+2)
}

// TestInvariant8_RolloverWhileUnstaked checks that emission distributed
// while staked_liquidity is zero lands entirely in rollover and leaves
// growth_global untouched.
func TestInvariant8_RolloverWhileUnstaked(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1_700_000_000)
	require.True(t, p.StakedLiquidity.IsZero())

	rate := u128.Q64.Mul(u128.From64(7))
	require.NoError(t, p.SyncEmission(ctx, 1_700_000_000, rate, 100_000, 1_700_010_000))

	p.Emission.UpdateGrowthGlobal(1_700_000_050)

	require.Equal(t, uint64(350), p.Emission.Rollover)
	require.True(t, p.Emission.GrowthGlobal.IsZero())
}
