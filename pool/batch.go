// Batch quote preview: fans a slice of hypothetical swap requests out
// across a bounded worker pool, each against its own deep-cloned
// snapshot of price/tick state (spec.md section 4.2's "[EXPANSION]
// Batch preview" — route-finding callers get N independent quotes
// without serially re-walking the tick grid N times, and concurrency
// never touches the live Pool, preserving section 5's single-writer
// discipline).
package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/workerpool"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// PreviewRequest is one hypothetical swap to quote.
type PreviewRequest struct {
	A2B            bool
	ByAmountIn     bool
	Amount         uint64
	SqrtPriceLimit u128.U128
	RefFeeRate     uint64
}

// PreviewResult pairs a request's outcome with any error.
type PreviewResult struct {
	Result SwapResult
	Err    error
}

// BatchPreview runs len(requests) independent calculate_swap_result
// simulations concurrently, bounded by concurrency goroutines. now is
// shared across all requests (they are hypothetical quotes at the same
// instant).
func (p *Pool) BatchPreview(ctx context.Context, requests []PreviewRequest, now int64, concurrency int) []PreviewResult {
	tasks := make([]workerpool.Task, len(requests))
	for i, req := range requests {
		i, req := i, req
		tasks[i] = workerpool.Task{
			Index: i,
			Execute: func(ctx context.Context) (any, error) {
				res, err := p.CalculateSwapResult(req.A2B, req.ByAmountIn, req.SqrtPriceLimit, req.Amount, req.RefFeeRate, now)
				return res, err
			},
		}
	}

	raw := workerpool.RunBatch(ctx, concurrency, tasks)
	out := make([]PreviewResult, len(raw))
	for i, r := range raw {
		res, _ := r.Value.(SwapResult)
		out[i] = PreviewResult{Result: res, Err: r.Err}
	}
	return out
}
