// Command poolsim brings up a CLMM pool in memory, wires it to the same
// ambient stack a production deployment would use (structured logging,
// Prometheus metrics, an SNS or logging event sink, a layered quote
// cache), and walks it through a scripted sequence of positions and
// swaps while serving health/metrics over HTTP. It is a demonstration
// harness, not a production entry point: Vault and Partner are
// satisfied by in-memory stand-ins since both are out-of-scope
// collaborators.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luck-28/FullSail-CLMM-SC/internal/eventsink"
	awsplatform "github.com/luck-28/FullSail-CLMM-SC/internal/platform/aws"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/logging"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/metrics"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/poolconfig"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/quotecache"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/resilience"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/tracing"
	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
	"github.com/luck-28/FullSail-CLMM-SC/pool"
)

// stubVault is an in-memory stand-in for the out-of-scope reward vault.
type stubVault struct{}

func (stubVault) WithdrawReward(ctx context.Context, tokenType string, amount uint64) (pool.Balance, error) {
	return pool.Balance{TokenType: tokenType, Amount: amount}, nil
}

// stubPartner is an in-memory stand-in for the out-of-scope partner.
type stubPartner struct{ refFeeRate uint64 }

func (p stubPartner) ID() string { return "poolsim-partner" }

func (p stubPartner) ReceiveRefFee(ctx context.Context, tokenType string, balance pool.Balance) error {
	return nil
}

func (p stubPartner) CurrentRefFeeRate(now int64) uint64 { return p.refFeeRate }

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("loading configuration...")
	cfg := poolconfig.MustLoad(os.Getenv("POOLSIM_CONFIG"))

	logger := logging.NewLogger(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	poolMetrics, err := metrics.NewPoolMetrics(cfg.Observability.Metrics.ServiceName, cfg.Observability.Metrics.Enabled)
	if err != nil {
		log.Fatalf("failed to create metrics: %v", err)
	}
	tracer := tracing.New(cfg.Observability.Metrics.ServiceName)
	logger.Info("observability ready")

	memCache := quotecache.NewMemoryCache(cfg.Cache.L1MaxSize)
	defer memCache.Close()

	var quoteCache quotecache.Cache = memCache
	if redisCache, err := quotecache.NewRedisCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logger.LogWarn(ctx, "redis unavailable, quote cache running memory-only", "error", err.Error())
	} else {
		defer redisCache.Close()
		quoteCache = quotecache.NewLayeredCache(memCache, redisCache)
	}

	sink := buildEventSink(ctx, cfg, logger)

	breaker := resilience.NewCircuitBreaker(resilience.DefaultBreakerConfig("vault"))
	vault := resilience.NewResilientVault(stubVault{}, breaker, 50, 5, 200)
	partner := resilience.NewResilientPartner(stubPartner{refFeeRate: 1000}, resilience.NewCircuitBreaker(resilience.DefaultBreakerConfig("partner")))

	now := time.Now().Unix()
	initialTick := int32(0)
	initialSqrtPrice, err := tickmath.GetSqrtPriceAtTick(initialTick)
	if err != nil {
		log.Fatalf("failed to derive initial sqrt price: %v", err)
	}

	p := pool.NewPool(
		1, 60, 3000,
		initialSqrtPrice, initialTick,
		u128.From64(1<<32),
		u128.From64(1_000),
		now,
		cfg, vault, partner, sink,
		pool.WithLogger(logger),
		pool.WithMetrics(poolMetrics),
		pool.WithTracer(tracer),
		pool.WithQuoteCache(quoteCache),
	)

	warmer := quotecache.NewWarmer(logger, quotecache.DefaultWarmupConfig())

	go serveHTTP(cfg.HTTP.Port, poolMetrics, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := runScript(ctx, p, quoteCache, warmer, logger, now); err != nil {
			logger.LogError(ctx, "simulation script failed", err)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received")
}

func buildEventSink(ctx context.Context, cfg *poolconfig.Config, logger *logging.Logger) pool.EventSink {
	if cfg.AWS.SNSTopicARN == "" {
		return eventsink.NewNoop(logger)
	}
	awsCfg, err := awsplatform.LoadAWSConfig(ctx, awsplatform.Config{Region: cfg.AWS.Region})
	if err != nil {
		logger.LogWarn(ctx, "failed to load AWS config, falling back to noop event sink", "error", err.Error())
		return eventsink.NewNoop(logger)
	}
	sink, err := eventsink.NewSNS(eventsink.SNSConfig{
		AWSConfig: awsCfg,
		TopicARN:  cfg.AWS.SNSTopicARN,
		Logger:    logger,
	})
	if err != nil {
		logger.LogWarn(ctx, "failed to build SNS event sink, falling back to noop", "error", err.Error())
		return eventsink.NewNoop(logger)
	}
	return sink
}

// runScript walks the pool through open/add/swap/collect, exercising
// the hot paths a real integration would drive from a host runtime.
func runScript(ctx context.Context, p *pool.Pool, qc quotecache.Cache, warmer *quotecache.Warmer, logger *logging.Logger, now int64) error {
	id, err := p.OpenPosition(ctx, -600, 600)
	if err != nil {
		return fmt.Errorf("open position: %w", err)
	}

	receipt, err := p.AddLiquidity(ctx, id, now, u128.From64(1_000_000))
	if err != nil {
		return fmt.Errorf("add liquidity: %w", err)
	}
	p.RepayAddLiquidity(receipt)
	logger.Info("liquidity added", "position_id", id, "amount_a", receipt.AmountA, "amount_b", receipt.AmountB)

	warmer.RegisterProvider(&quoteWarmupProvider{
		pool:    p,
		cache:   qc,
		now:     now,
		amounts: []uint64{500, 1_000, 5_000, 10_000, 50_000},
	})
	warmupResults := warmer.Warmup(ctx)
	if warmupResults.HasErrors() {
		logger.LogWarn(ctx, "quote cache warmup finished with errors", "errors", warmupResults.Errors)
	}

	quote, err := p.CachedCalculateSwapResult(ctx, qc, true, true, tickmath.MinSqrtPrice, 1_000, 1000, now)
	if err != nil {
		return fmt.Errorf("preview swap: %w", err)
	}
	logger.Info("swap preview", "amount_out", quote.AmountOut, "fee", quote.FeeAmount)

	result, err := p.SwapInPool(ctx, true, true, tickmath.MinSqrtPrice, 1_000, 1000, now)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	logger.Info("swap executed", "amount_in", result.AmountIn, "amount_out", result.AmountOut, "steps", result.Steps)

	feeA, feeB, err := p.CollectFee(ctx, id, now, true)
	if err != nil {
		return fmt.Errorf("collect fee: %w", err)
	}
	logger.Info("fee collected", "fee_a", feeA, "fee_b", feeB)

	return nil
}

func serveHTTP(port int, m *metrics.PoolMetrics, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})
	mux.Handle("/metrics", m.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("http server listening", "address", addr)
	server := &http.Server{Addr: addr, Handler: mux}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.LogError(context.Background(), "http server error", err)
	}
}
