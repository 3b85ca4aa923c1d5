package resilience

import (
	"context"
	"time"

	"github.com/luck-28/FullSail-CLMM-SC/pool"
)

// ResilientVault wraps a pool.Vault with a circuit breaker, retry and
// rate limiter, so a misbehaving reward vault degrades gracefully
// instead of blocking every CollectReward call.
type ResilientVault struct {
	inner   pool.Vault
	breaker *CircuitBreaker
	retry   RetryConfig
	limiter *AdaptiveLimiter
}

// NewResilientVault wraps inner with the given breaker and an adaptive
// limiter that starts at baseRPS and backs off automatically if the
// vault starts erroring, recovering once it settles down.
func NewResilientVault(inner pool.Vault, breaker *CircuitBreaker, baseRPS, minRPS, maxRPS float64) *ResilientVault {
	return &ResilientVault{
		inner:   inner,
		breaker: breaker,
		retry:   DefaultRetryConfig(),
		limiter: NewAdaptiveLimiter(AdaptiveLimiterConfig{BaseRate: baseRPS, MinRate: minRPS, MaxRate: maxRPS}),
	}
}

func (v *ResilientVault) WithdrawReward(ctx context.Context, tokenType string, amount uint64) (pool.Balance, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return pool.Balance{}, err
	}
	balance, err := ExecuteWithResult(v.breaker, ctx, func(ctx context.Context) (pool.Balance, error) {
		return RetryIfWithResult(ctx, v.retry, IsRetryable, func(ctx context.Context) (pool.Balance, error) {
			return v.inner.WithdrawReward(ctx, tokenType, amount)
		})
	})
	if err != nil {
		v.limiter.RecordRateLimitError()
	} else {
		v.limiter.RecordSuccess()
	}
	return balance, err
}

// ResilientPartner wraps a pool.Partner the same way.
type ResilientPartner struct {
	inner   pool.Partner
	breaker *CircuitBreaker
	retry   RetryConfig
}

// NewResilientPartner wraps inner with the given breaker.
func NewResilientPartner(inner pool.Partner, breaker *CircuitBreaker) *ResilientPartner {
	return &ResilientPartner{inner: inner, breaker: breaker, retry: DefaultRetryConfig()}
}

func (p *ResilientPartner) ReceiveRefFee(ctx context.Context, tokenType string, balance pool.Balance) error {
	return p.breaker.Execute(ctx, func(ctx context.Context) error {
		return RetryIf(ctx, p.retry, IsRetryable, func(ctx context.Context) error {
			return p.inner.ReceiveRefFee(ctx, tokenType, balance)
		})
	})
}

func (p *ResilientPartner) CurrentRefFeeRate(now int64) uint64 {
	return p.inner.CurrentRefFeeRate(now)
}

func (p *ResilientPartner) ID() string {
	return p.inner.ID()
}

// DefaultBreakerConfig is the circuit breaker configuration used for
// both collaborator wrappers unless the caller supplies its own.
func DefaultBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

var (
	_ pool.Vault   = (*ResilientVault)(nil)
	_ pool.Partner = (*ResilientPartner)(nil)
)
