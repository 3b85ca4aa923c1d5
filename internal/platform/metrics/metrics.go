// Package metrics adapts the teacher's internal/platform/observability
// metrics (otel meter backed by a Prometheus exporter) to the pool
// domain's instruments: swap volume/count, ticks crossed, fee-growth
// overflow, emission distributed, paused state.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// PoolMetrics holds every instrument the pool package records against.
type PoolMetrics struct {
	meter metric.Meter

	SwapsTotal      metric.Int64Counter
	SwapAmountIn    metric.Float64Histogram
	SwapAmountOut   metric.Float64Histogram
	SwapStepsTaken  metric.Int64Histogram
	TicksCrossed    metric.Int64Counter
	FeeGrowthWraps  metric.Int64Counter
	EmissionDistrib metric.Float64Histogram
	GaugeFeeTotal   metric.Float64Histogram
	PoolPaused      metric.Int64Gauge
	ActiveLiquidity metric.Float64Gauge
	StakedLiquidity metric.Float64Gauge

	exporter *prometheus.Exporter
}

// NewPoolMetrics builds the pool metrics instrument set under
// serviceName. When enabled is false it returns a zero-value
// PoolMetrics whose every Record/Add call is a nil-guarded no-op at
// the call site in the pool package.
func NewPoolMetrics(serviceName string, enabled bool) (*PoolMetrics, error) {
	if !enabled {
		return &PoolMetrics{}, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter(serviceName)

	m := &PoolMetrics{meter: meter, exporter: exporter}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return m, nil
}

func (m *PoolMetrics) initMetrics() error {
	var err error

	if m.SwapsTotal, err = m.meter.Int64Counter(
		"clmm.pool.swaps",
		metric.WithDescription("Total swaps executed"),
	); err != nil {
		return err
	}

	if m.SwapAmountIn, err = m.meter.Float64Histogram(
		"clmm.pool.swap.amount_in",
		metric.WithDescription("Swap input amount"),
	); err != nil {
		return err
	}

	if m.SwapAmountOut, err = m.meter.Float64Histogram(
		"clmm.pool.swap.amount_out",
		metric.WithDescription("Swap output amount"),
	); err != nil {
		return err
	}

	if m.SwapStepsTaken, err = m.meter.Int64Histogram(
		"clmm.pool.swap.steps",
		metric.WithDescription("Tick-traversal steps taken per swap"),
	); err != nil {
		return err
	}

	if m.TicksCrossed, err = m.meter.Int64Counter(
		"clmm.pool.ticks.crossed",
		metric.WithDescription("Total ticks crossed across all swaps"),
	); err != nil {
		return err
	}

	if m.FeeGrowthWraps, err = m.meter.Int64Counter(
		"clmm.pool.fee_growth.wraps",
		metric.WithDescription("Observed fee/points/emission growth accumulator wraps"),
	); err != nil {
		return err
	}

	if m.EmissionDistrib, err = m.meter.Float64Histogram(
		"clmm.pool.emission.distributed",
		metric.WithDescription("Emission token amount distributed per sync/settle"),
	); err != nil {
		return err
	}

	if m.GaugeFeeTotal, err = m.meter.Float64Histogram(
		"clmm.pool.gauge_fee.amount",
		metric.WithDescription("Gauge fee amount split per swap"),
	); err != nil {
		return err
	}

	if m.PoolPaused, err = m.meter.Int64Gauge(
		"clmm.pool.paused",
		metric.WithDescription("Pool paused state (1=paused, 0=active)"),
	); err != nil {
		return err
	}

	if m.ActiveLiquidity, err = m.meter.Float64Gauge(
		"clmm.pool.liquidity.active",
		metric.WithDescription("Current active liquidity"),
	); err != nil {
		return err
	}

	if m.StakedLiquidity, err = m.meter.Float64Gauge(
		"clmm.pool.liquidity.staked",
		metric.WithDescription("Current staked liquidity"),
	); err != nil {
		return err
	}

	return nil
}

// RecordSwap records one completed swap.
func (m *PoolMetrics) RecordSwap(a2b bool, amountIn, amountOut uint64, steps int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool("a2b", a2b))
	m.SwapsTotal.Add(ctx, 1, attrs)
	m.SwapAmountIn.Record(ctx, float64(amountIn), attrs)
	m.SwapAmountOut.Record(ctx, float64(amountOut), attrs)
	m.SwapStepsTaken.Record(ctx, int64(steps), attrs)
	m.TicksCrossed.Add(ctx, int64(steps))
}

// RecordFeeGrowthWrap records a fee/points/emission growth accumulator
// wrap (mod 2^128 rollover), tagged by which accumulator wrapped.
func (m *PoolMetrics) RecordFeeGrowthWrap(kind string) {
	m.FeeGrowthWraps.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordEmissionDistributed records one update_emission_growth_global
// settlement.
func (m *PoolMetrics) RecordEmissionDistributed(amount uint64) {
	m.EmissionDistrib.Record(context.Background(), float64(amount))
}

// RecordGaugeFee records one swap's gauge fee split amount.
func (m *PoolMetrics) RecordGaugeFee(amount uint64) {
	m.GaugeFeeTotal.Record(context.Background(), float64(amount))
}

// SetPaused reflects the pool's current pause state.
func (m *PoolMetrics) SetPaused(paused bool) {
	val := int64(0)
	if paused {
		val = 1
	}
	m.PoolPaused.Record(context.Background(), val)
}

// SetLiquidity reflects the pool's current active and staked
// liquidity as float approximations (u128 has no exact metric type).
func (m *PoolMetrics) SetLiquidity(active, staked float64) {
	m.ActiveLiquidity.Record(context.Background(), active)
	m.StakedLiquidity.Record(context.Background(), staked)
}

// Handler returns the HTTP handler serving these metrics in
// Prometheus exposition format.
func (m *PoolMetrics) Handler() http.Handler {
	return promhttp.Handler()
}
