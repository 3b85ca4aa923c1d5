// Package pool is the aggregate root: the CLMM pool state machine
// described by spec.md sections 2-5. It owns price state, the four
// growth accumulators, token reserves and fee escrows, a pause flag,
// static parameters, and three collaborator sub-objects (tick grid,
// position store, rewarder vector) plus an emission descriptor.
package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/emission"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/logging"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/metrics"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/quotecache"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/tracing"
	"github.com/luck-28/FullSail-CLMM-SC/internal/positions"
	"github.com/luck-28/FullSail-CLMM-SC/internal/receipts"
	"github.com/luck-28/FullSail-CLMM-SC/internal/rewarder"
	"github.com/luck-28/FullSail-CLMM-SC/internal/ticks"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// Pool is the CLMM pool aggregate (spec.md section 3's Pool entity).
type Pool struct {
	ID    uint64
	Index uint64
	URL   string

	TickSpacing int32
	FeeRate     uint64 // over clmmmath.FeeRateDenom

	CurrentSqrtPrice u128.U128
	CurrentTickIndex int32
	ActiveLiquidity  u128.U128
	StakedLiquidity  u128.U128

	FeeGrowthGlobalA u128.U128
	FeeGrowthGlobalB u128.U128

	ProtocolFeeA uint64
	ProtocolFeeB uint64
	GaugeFeeA    uint64
	GaugeFeeB    uint64

	ReserveA uint64
	ReserveB uint64

	Paused bool

	// UnstakedFeeRateOverride is nil when the pool inherits
	// config.DefaultUnstakedFeeRate() at swap time, matching the
	// "default" sentinel spec.md section 4.5 describes for
	// update_unstaked_liquidity_fee_rate.
	UnstakedFeeRateOverride *uint64

	MaxLiquidityPerTick u128.U128

	Emission  *emission.Descriptor
	Rewarders *rewarder.Manager
	Ticks     *ticks.Manager
	Positions *positions.Manager

	Config    Config
	Vault     Vault
	Partner   Partner
	EventSink EventSink

	// receipts tracks outstanding hot-potato handles (FlashSwapReceipt,
	// AddLiquidityReceipt) across the pair of calls that issue and
	// consume them, standing in for "same atomic transaction" linearity
	// a host runtime would otherwise enforce (spec.md section 5).
	receipts *receipts.Registry

	logger  *logging.Logger
	metrics *metrics.PoolMetrics
	tracer  tracing.Tracer

	// quoteCache, if attached via WithQuoteCache, is invalidated by
	// every mutation whose effect on a future swap isn't already
	// captured by QuoteKey's price/tick component.
	quoteCache quotecache.Cache
}

// Option configures optional ambient collaborators on NewPool.
type Option func(*Pool)

// WithLogger attaches a structured logger to the pool.
func WithLogger(l *logging.Logger) Option { return func(p *Pool) { p.logger = l } }

// WithMetrics attaches a metrics recorder to the pool.
func WithMetrics(m *metrics.PoolMetrics) Option { return func(p *Pool) { p.metrics = m } }

// WithTracer attaches a tracer; SwapInPool, FlashSwap, AddLiquidity and
// RemoveLiquidity start one span per call. Defaults to a no-op tracer when not supplied.
func WithTracer(t tracing.Tracer) Option { return func(p *Pool) { p.tracer = t } }

// WithQuoteCache attaches the quote cache CachedCalculateSwapResult
// callers share with the pool, so mutations that reshape liquidity,
// staking, pausing or fee rates can invalidate stale previews the
// price/tick-keyed TTL alone wouldn't catch.
func WithQuoteCache(c quotecache.Cache) Option { return func(p *Pool) { p.quoteCache = c } }

// startSpan starts a span named name if a tracer is attached, returning
// a no-op-safe end func callers can defer unconditionally.
func (p *Pool) startSpan(ctx context.Context, name string) (context.Context, func(err error)) {
	if p.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := p.tracer.StartSpan(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			span.NoticeError(err)
		}
		span.End()
	}
}

// NewPool constructs a pool at the given initial sqrt price, with the
// supplied collaborators (spec.md: "created by factory").
func NewPool(
	id uint64,
	tickSpacing int32,
	feeRate uint64,
	initialSqrtPrice u128.U128,
	initialTick int32,
	maxLiquidityPerTick u128.U128,
	pointsPerSecond u128.U128,
	now int64,
	cfg Config,
	vault Vault,
	partner Partner,
	sink EventSink,
	opts ...Option,
) *Pool {
	p := &Pool{
		ID:                  id,
		TickSpacing:         tickSpacing,
		FeeRate:             feeRate,
		CurrentSqrtPrice:    initialSqrtPrice,
		CurrentTickIndex:    initialTick,
		MaxLiquidityPerTick: maxLiquidityPerTick,
		Emission:            emission.NewDescriptor(now),
		Rewarders:           rewarder.NewManager(pointsPerSecond, now),
		Ticks:               ticks.NewManager(tickSpacing),
		Positions:           positions.NewManager(tickSpacing),
		Config:              cfg,
		Vault:               vault,
		Partner:             partner,
		EventSink:           sink,
		receipts:            receipts.NewRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// unstakedFeeRate resolves the effective unstaked-liquidity fee rate,
// honoring the "inherit from config" sentinel.
func (p *Pool) unstakedFeeRate() uint64 {
	if p.UnstakedFeeRateOverride != nil {
		return *p.UnstakedFeeRateOverride
	}
	return p.Config.DefaultUnstakedFeeRate()
}

func (p *Pool) emit(ctx context.Context, ev Event) {
	if p.EventSink == nil {
		return
	}
	_ = p.EventSink.Emit(ctx, ev)
}

// growthSnapshot bundles the pool's current growth-global values for
// internal/ticks calls.
func (p *Pool) growthSnapshot() ticks.GrowthSnapshot {
	return ticks.GrowthSnapshot{
		FeeGrowthGlobalA:     p.FeeGrowthGlobalA,
		FeeGrowthGlobalB:     p.FeeGrowthGlobalB,
		PointsGrowthGlobal:   p.Rewarders.PointsGrowthGlobal,
		EmissionGrowthGlobal: p.Emission.GrowthGlobal,
		RewardGrowthsGlobal:  p.Rewarders.RewardsGrowthGlobal(),
	}
}

// OutstandingReceipts reports whether any issued receipt has not yet
// been repaid, for callers that want to assert a transaction closed
// cleanly before committing.
func (p *Pool) OutstandingReceipts() error {
	return p.receipts.Close()
}
