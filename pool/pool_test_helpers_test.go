package pool

import (
	"context"
	"math"

	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// fakeConfig is the minimal Config double used across the pool test
// suite: fixed fee-rate ceilings and an always-allow role check unless
// denyRole is set.
type fakeConfig struct {
	protocolFeeRate      uint64
	unstakedFeeRate      uint64
	maxFeeRate           uint64
	maxUnstakedFeeRate   uint64
	maxGaugeEmissionRate u128.U128
	denyRole             string
	version              uint64
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{
		protocolFeeRate:    2000,
		unstakedFeeRate:    5000,
		maxFeeRate:         200000,
		maxUnstakedFeeRate: 10000,
		version:            1,
	}
}

func (c *fakeConfig) ProtocolFeeRate() uint64              { return c.protocolFeeRate }
func (c *fakeConfig) ProtocolFeeRateDenom() uint64          { return 10000 }
func (c *fakeConfig) DefaultUnstakedFeeRate() uint64        { return c.unstakedFeeRate }
func (c *fakeConfig) UnstakedLiquidityFeeRateDenom() uint64 { return 10000 }
func (c *fakeConfig) MaxFeeRate() uint64                    { return c.maxFeeRate }
func (c *fakeConfig) MaxUnstakedFeeRate() uint64             { return c.maxUnstakedFeeRate }
func (c *fakeConfig) PackageVersion() uint64                 { return c.version }

// MaxGaugeEmissionRate defaults to the largest representable u64
// scaled by 2^64 so existing scenario tests that pick arbitrary
// emission rates keep working unless a test opts into a tighter cap.
func (c *fakeConfig) MaxGaugeEmissionRate() u128.U128 {
	if c.maxGaugeEmissionRate.Cmp(u128.Zero) == 0 {
		return u128.MulDivFloor(u128.From64(math.MaxUint64), u128.Q64, u128.One)
	}
	return c.maxGaugeEmissionRate
}

func (c *fakeConfig) CheckRole(ctx context.Context, role string) error {
	if c.denyRole == role {
		return newErr(KindNotOwner)
	}
	return nil
}

// fakeVault and fakePartner are trivial Vault/Partner doubles; neither
// collaborator is exercised by swap/liquidity paths under test.
type fakeVault struct{}

func (fakeVault) WithdrawReward(ctx context.Context, tokenType string, amount uint64) (Balance, error) {
	return Balance{TokenType: tokenType, Amount: amount}, nil
}

type fakePartner struct{ refFeeRate uint64 }

func (p fakePartner) ID() string { return "test-partner" }

func (p fakePartner) ReceiveRefFee(ctx context.Context, tokenType string, balance Balance) error {
	return nil
}

func (p fakePartner) CurrentRefFeeRate(now int64) uint64 { return p.refFeeRate }

// fakeSink records every emitted event in order, for tests that assert
// on event ordering/content.
type fakeSink struct {
	events []Event
}

func (s *fakeSink) Emit(ctx context.Context, ev Event) error {
	s.events = append(s.events, ev)
	return nil
}

// newTestPool builds a pool with a wide tick range, centered at tick 0,
// tick spacing 60 and a 0.3% fee, the same shape every scenario test
// starts from unless it needs something different.
func newTestPool(now int64) (*Pool, *fakeSink) {
	sink := &fakeSink{}
	sqrtPrice, err := tickmath.GetSqrtPriceAtTick(0)
	if err != nil {
		panic(err)
	}
	p := NewPool(
		1, 60, 3000,
		sqrtPrice, 0,
		u128.From64(1<<40),
		u128.From64(1_000),
		now,
		newFakeConfig(), fakeVault{}, fakePartner{refFeeRate: 1000}, sink,
	)
	return p, sink
}
