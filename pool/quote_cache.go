package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/quotecache"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// quoteKey derives a cache key from everything that determines
// CalculateSwapResult's answer: the pool's price position plus the
// request parameters.
func (p *Pool) quoteKey(a2b, byAmountIn bool, sqrtPriceLimit u128.U128, amount uint64, refFeeRate uint64) string {
	return quotecache.QuoteKey(p.ID, p.CurrentSqrtPrice.String(), p.CurrentTickIndex,
		a2b, byAmountIn, amount, sqrtPriceLimit.String(), refFeeRate)
}

// CachedCalculateSwapResult is CalculateSwapResult fronted by a
// quotecache.Cache, for callers that re-quote the same request shape
// repeatedly (a route-finder scanning candidate amounts against an
// otherwise idle pool).
func (p *Pool) CachedCalculateSwapResult(
	ctx context.Context,
	cache quotecache.Cache,
	a2b, byAmountIn bool,
	sqrtPriceLimit u128.U128,
	amount uint64,
	refFeeRate uint64,
	now int64,
) (SwapResult, error) {
	if cache == nil {
		return p.CalculateSwapResult(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate, now)
	}

	key := p.quoteKey(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate)
	if cached, err := cache.Get(ctx, key); err == nil {
		if result, ok := cached.(SwapResult); ok {
			return result, nil
		}
	}

	result, err := p.CalculateSwapResult(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate, now)
	if err != nil {
		return result, err
	}
	_ = cache.Set(ctx, key, result, quotecache.DefaultQuotePreviewTTL)
	return result, nil
}

// invalidateQuoteCache drops every cached quote for this pool. Called
// after any mutation that changes a swap's outcome without necessarily
// moving CurrentSqrtPrice/CurrentTickIndex — the two fields QuoteKey
// embeds — such as a liquidity reshape, a stake/unstake, a pause
// toggle, or a fee-rate change.
func (p *Pool) invalidateQuoteCache(ctx context.Context) {
	if p.quoteCache == nil {
		return
	}
	if err := p.quoteCache.InvalidatePrefix(ctx, quotecache.QuotePoolPrefix(p.ID)); err != nil && p.logger != nil {
		p.logger.LogWarn(ctx, "quote cache invalidation failed", "pool_id", p.ID, "error", err.Error())
	}
}
