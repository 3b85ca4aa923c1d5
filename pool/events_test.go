package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestEvents_OrderingMatchesOperationOrder(t *testing.T) {
	ctx := context.Background()
	p, sink := newTestPool(1000)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)

	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	require.NoError(t, p.Pause(ctx))
	require.NoError(t, p.Unpause(ctx))
	require.NoError(t, p.UpdateFeeRate(ctx, 5000))

	require.Len(t, sink.events, 5)

	wantOrder := []string{
		"OpenPositionEvent",
		"AddLiquidityEvent",
		"PauseEvent",
		"UnpauseEvent",
		"UpdateFeeRateEvent",
	}
	for i, ev := range sink.events {
		require.Equal(t, wantOrder[i], eventTypeOf(ev))
	}
}

func TestEvents_OpenPositionEventCarriesRange(t *testing.T) {
	ctx := context.Background()
	p, sink := newTestPool(1000)

	_, err := p.OpenPosition(ctx, -120, 120)
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	ev, ok := sink.events[0].(OpenPositionEvent)
	require.True(t, ok)
	require.Equal(t, int32(-120), ev.TickLower)
	require.Equal(t, int32(120), ev.TickUpper)
	require.Equal(t, p.ID, ev.PoolID)
}

func TestEvents_PauseRejectsSecondPause(t *testing.T) {
	ctx := context.Background()
	p, sink := newTestPool(1000)

	require.NoError(t, p.Pause(ctx))
	err := p.Pause(ctx)
	require.Error(t, err)

	// the failed second Pause must not emit a duplicate event
	require.Len(t, sink.events, 1)
}

func TestEvents_SwapEmitsExactlyOneSwapEventWithFinalState(t *testing.T) {
	ctx := context.Background()
	p, sink := newTestPool(1000)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	result, err := p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 1000, 0, 1000)
	require.NoError(t, err)

	var swapEvents []SwapEvent
	for _, ev := range sink.events {
		if se, ok := ev.(SwapEvent); ok {
			swapEvents = append(swapEvents, se)
		}
	}
	require.Len(t, swapEvents, 1)
	require.Equal(t, result.AmountIn, swapEvents[0].AmountIn)
	require.Equal(t, result.AmountOut, swapEvents[0].AmountOut)
	require.Equal(t, result.FeeAmount, swapEvents[0].FeeAmount)
	require.Equal(t, p.CurrentSqrtPrice.String(), swapEvents[0].AfterSqrtPrice)
	require.Equal(t, p.CurrentTickIndex, swapEvents[0].AfterTickIndex)
}

func eventTypeOf(ev Event) string {
	switch ev.(type) {
	case OpenPositionEvent:
		return "OpenPositionEvent"
	case ClosePositionEvent:
		return "ClosePositionEvent"
	case AddLiquidityEvent:
		return "AddLiquidityEvent"
	case RemoveLiquidityEvent:
		return "RemoveLiquidityEvent"
	case SwapEvent:
		return "SwapEvent"
	case PauseEvent:
		return "PauseEvent"
	case UnpauseEvent:
		return "UnpauseEvent"
	case UpdateFeeRateEvent:
		return "UpdateFeeRateEvent"
	case CollectPositionFeeEvent:
		return "CollectPositionFeeEvent"
	case CollectRewardEvent:
		return "CollectRewardEvent"
	default:
		return "unknown"
	}
}
