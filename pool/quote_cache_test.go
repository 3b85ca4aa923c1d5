package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/quotecache"
	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestCachedCalculateSwapResult_ServesRepeatRequestFromCache(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1000)
	cache := quotecache.NewMemoryCache(10)
	defer cache.Close()

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	first, err := p.CachedCalculateSwapResult(ctx, cache, true, true, tickmath.MinSqrtPrice, 1000, 0, 1000)
	require.NoError(t, err)

	second, err := p.CachedCalculateSwapResult(ctx, cache, true, true, tickmath.MinSqrtPrice, 1000, 0, 1000)
	require.NoError(t, err)
	require.Equal(t, first, second)

	key := p.quoteKey(true, true, tickmath.MinSqrtPrice, 1000, 0)
	_, err = cache.Get(ctx, key)
	require.NoError(t, err, "expected the preview to have been written under its quote key")
}

func TestWithQuoteCache_LiquidityChangeInvalidatesCachedQuotes(t *testing.T) {
	ctx := context.Background()
	sink := &fakeSink{}
	sqrtPrice, err := tickmath.GetSqrtPriceAtTick(0)
	require.NoError(t, err)
	cache := quotecache.NewMemoryCache(10)
	defer cache.Close()

	p := NewPool(
		1, 60, 3000,
		sqrtPrice, 0,
		u128.From64(1<<40),
		u128.From64(1_000),
		1000,
		newFakeConfig(), fakeVault{}, fakePartner{refFeeRate: 1000}, sink,
		WithQuoteCache(cache),
	)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	_, err = p.CachedCalculateSwapResult(ctx, cache, true, true, tickmath.MinSqrtPrice, 1000, 0, 1000)
	require.NoError(t, err)
	key := p.quoteKey(true, true, tickmath.MinSqrtPrice, 1000, 0)
	_, err = cache.Get(ctx, key)
	require.NoError(t, err)

	// Adding more liquidity doesn't move CurrentSqrtPrice/CurrentTickIndex,
	// so the price-keyed entry above would otherwise keep answering with a
	// preview computed against the old, thinner liquidity.
	receipt2, err := p.AddLiquidity(ctx, id, 1000, u128.From64(500_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt2)

	_, err = cache.Get(ctx, key)
	require.ErrorIs(t, err, quotecache.ErrNotFound)
}

func TestWithQuoteCache_PauseInvalidatesCachedQuotes(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1000)
	cache := quotecache.NewMemoryCache(10)
	defer cache.Close()
	p.quoteCache = cache

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1_000_000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	require.NoError(t, cache.Set(ctx, quotecache.QuotePoolPrefix(p.ID)+"stale", "x", time.Minute))

	require.NoError(t, p.Pause(ctx))

	_, err = cache.Get(ctx, quotecache.QuotePoolPrefix(p.ID)+"stale")
	require.ErrorIs(t, err, quotecache.ErrNotFound)
}
