package main

import (
	"context"
	"fmt"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/quotecache"
	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/pool"
)

// quoteWarmupProvider pre-populates the quote cache for a spread of
// candidate swap sizes in both directions, so the first route-finder
// request against a freshly started instance doesn't pay for a cold
// cache while the tick grid is walked live.
type quoteWarmupProvider struct {
	pool    *pool.Pool
	cache   quotecache.Cache
	now     int64
	amounts []uint64
}

func (w *quoteWarmupProvider) Name() string { return "pool-quote-cache" }

func (w *quoteWarmupProvider) Warmup(ctx context.Context) error {
	for _, amount := range w.amounts {
		for _, a2b := range [...]bool{true, false} {
			limit := tickmath.MaxSqrtPrice
			if a2b {
				limit = tickmath.MinSqrtPrice
			}
			if _, err := w.pool.CachedCalculateSwapResult(ctx, w.cache, a2b, true, limit, amount, 0, w.now); err != nil {
				return fmt.Errorf("warm amount=%d a2b=%t: %w", amount, a2b, err)
			}
		}
	}
	return nil
}
