package clmmmath

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestMulDivFloorU64_RoundsDown(t *testing.T) {
	got, err := MulDivFloorU64(10, 3, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(7), got)
}

func TestMulDivCeilU64_RoundsUp(t *testing.T) {
	got, err := MulDivCeilU64(10, 3, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(8), got)
}

func TestMulDivU64_ZeroDenomErrors(t *testing.T) {
	_, err := MulDivFloorU64(1, 1, 0)
	require.ErrorIs(t, err, ErrZeroLiquidity)

	_, err = MulDivCeilU64(1, 1, 0)
	require.ErrorIs(t, err, ErrZeroLiquidity)
}

func TestMulDivU64_OverflowErrors(t *testing.T) {
	const maxU64 = ^uint64(0)
	_, err := MulDivFloorU64(maxU64, maxU64, 1)
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func TestComputeSwapStep_ByAmountInConsumesExactlyRemainingWhenShortOfTarget(t *testing.T) {
	sqrtPrice := scaled(1)
	target := scaled(2)
	liquidity := u128.From64(1_000_000)

	step, err := ComputeSwapStep(sqrtPrice, target, liquidity, 1000, 3000, false, true)
	require.NoError(t, err)
	require.LessOrEqual(t, step.AmountIn+step.FeeAmount, uint64(1000))
	require.Greater(t, step.AmountOut, uint64(0))
}

func TestComputeSwapStep_ByAmountInReachesTargetWhenAmplePlentiful(t *testing.T) {
	sqrtPrice := scaled(1)
	target := u128.WrappingAdd(sqrtPrice, u128.From64(1000)) // a hair above current
	liquidity := u128.From64(1_000_000)

	step, err := ComputeSwapStep(sqrtPrice, target, liquidity, 1_000_000_000, 3000, false, true)
	require.NoError(t, err)
	require.Equal(t, 0, step.NextSqrtPrice.Cmp(target))
}

func TestComputeSwapStep_FeeIsZeroAtZeroFeeRate(t *testing.T) {
	sqrtPrice := scaled(1)
	target := scaled(2)
	liquidity := u128.From64(1_000_000)

	step, err := ComputeSwapStep(sqrtPrice, target, liquidity, 1000, 0, false, true)
	require.NoError(t, err)
	require.Zero(t, step.FeeAmount)
}

func TestComputeSwapStep_ByAmountOutCapsAtRemainingOutput(t *testing.T) {
	sqrtPrice := scaled(2)
	target := scaled(1)
	liquidity := u128.From64(1_000_000)

	step, err := ComputeSwapStep(sqrtPrice, target, liquidity, 10, 3000, true, false)
	require.NoError(t, err)
	require.LessOrEqual(t, step.AmountOut, uint64(10))
}

func TestGetNextSqrtPriceFromInput_ZeroAmountIsNoop(t *testing.T) {
	sqrtPrice := scaled(1)
	got, err := GetNextSqrtPriceFromInput(sqrtPrice, u128.From64(1000), 0, true)
	require.NoError(t, err)
	require.Equal(t, 0, got.Cmp(sqrtPrice))
}

func TestGetNextSqrtPriceFromInput_ZeroLiquidityErrors(t *testing.T) {
	sqrtPrice := scaled(1)
	_, err := GetNextSqrtPriceFromInput(sqrtPrice, u128.Zero, 100, true)
	require.ErrorIs(t, err, ErrZeroLiquidity)
}

func TestGetNextSqrtPriceFromAmountARoundingUp_AddingDecreasesPrice(t *testing.T) {
	sqrtPrice := scaled(2)
	next, err := GetNextSqrtPriceFromAmountARoundingUp(sqrtPrice, u128.From64(1_000_000), 1000, true)
	require.NoError(t, err)
	require.True(t, next.Cmp(sqrtPrice) < 0)
}

func TestGetNextSqrtPriceFromAmountBRoundingDown_AddingIncreasesPrice(t *testing.T) {
	sqrtPrice := scaled(2)
	next, err := GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, u128.From64(1_000_000), 1000, true)
	require.NoError(t, err)
	require.True(t, next.Cmp(sqrtPrice) > 0)
}

func TestGetNextSqrtPriceFromAmountBRoundingDown_RemovingBelowZeroErrors(t *testing.T) {
	sqrtPrice := scaled(1)
	_, err := GetNextSqrtPriceFromAmountBRoundingDown(sqrtPrice, u128.From64(1), 1<<40, false)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
}
