package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestAddRewarder_RequiresGaugeManagerRole(t *testing.T) {
	p, _ := newTestPool(1000)
	p.Config.(*fakeConfig).denyRole = RoleGaugeManager

	_, err := p.AddRewarder(context.Background(), "SAIL", u128.From64(1))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindNotOwner, perr.Kind)
}

func TestAddRewarder_AppendsAndEmits(t *testing.T) {
	p, sink := newTestPool(1000)
	ctx := context.Background()

	idx, err := p.AddRewarder(ctx, "SAIL", u128.From64(5))
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	idx2, err := p.AddRewarder(ctx, "OSAIL", u128.From64(10))
	require.NoError(t, err)
	require.Equal(t, 1, idx2)

	require.Len(t, sink.events, 2)
	ev, ok := sink.events[1].(AddRewarderEvent)
	require.True(t, ok)
	require.Equal(t, "OSAIL", ev.RewardTokenType)
	require.Equal(t, 1, ev.RewarderIndex)
}

func TestAddRewarder_EnforcesCapacity(t *testing.T) {
	p, _ := newTestPool(1000)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := p.AddRewarder(ctx, string(rune('A'+i)), u128.From64(1))
		require.NoError(t, err)
	}
	_, err := p.AddRewarder(ctx, "OVERFLOW", u128.From64(1))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindRewarderIndexNotFound, perr.Kind)
}

func TestUpdateEmission_UnknownTokenErrors(t *testing.T) {
	p, _ := newTestPool(1000)
	err := p.UpdateEmission(context.Background(), 1100, "NOPE", u128.From64(1))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindRewarderIndexNotFound, perr.Kind)
}

func TestAddRewarder_RejectsRateAboveGaugeCap(t *testing.T) {
	p, _ := newTestPool(1000)
	p.Config.(*fakeConfig).maxGaugeEmissionRate = u128.From64(100)

	_, err := p.AddRewarder(context.Background(), "SAIL", u128.From64(101))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindInvalidGaugeCap, perr.Kind)
}

func TestUpdateEmission_RejectsRateAboveGaugeCap(t *testing.T) {
	p, _ := newTestPool(1000)
	ctx := context.Background()
	_, err := p.AddRewarder(ctx, "SAIL", u128.From64(1))
	require.NoError(t, err)

	p.Config.(*fakeConfig).maxGaugeEmissionRate = u128.From64(100)
	err = p.UpdateEmission(ctx, 1100, "SAIL", u128.From64(101))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindInvalidGaugeCap, perr.Kind)
}

func TestSyncEmission_RejectsRateAboveGaugeCap(t *testing.T) {
	p, _ := newTestPool(1000)
	p.Config.(*fakeConfig).maxGaugeEmissionRate = u128.From64(100)

	err := p.SyncEmission(context.Background(), 1000, u128.From64(101), 10_000, 2000)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindInvalidGaugeCap, perr.Kind)
}

func TestUpdateEmission_RequiresGaugeManagerRole(t *testing.T) {
	p, _ := newTestPool(1000)
	ctx := context.Background()
	p.AddRewarder(ctx, "SAIL", u128.From64(1))

	p.Config.(*fakeConfig).denyRole = RoleGaugeManager
	err := p.UpdateEmission(ctx, 1100, "SAIL", u128.From64(2))
	require.Error(t, err)
}

func TestCollectReward_RejectsOutOfRangeIndex(t *testing.T) {
	p, _ := newTestPool(1000)
	ctx := context.Background()

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)

	_, err = p.CollectReward(ctx, id, 1000, -1)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindRewarderIndexNotFound, perr.Kind)

	_, err = p.CollectReward(ctx, id, 1000, 0)
	require.Error(t, err)
	require.ErrorAs(t, err, &perr)
	require.Equal(t, KindRewarderIndexNotFound, perr.Kind)
}

func TestCollectReward_AccruesOnlyAfterFirstSettleSeedsTheSlot(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1000)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)

	receipt, err := p.AddLiquidity(ctx, id, 1000, u128.From64(1000))
	require.NoError(t, err)
	p.RepayAddLiquidity(receipt)

	idx, err := p.AddRewarder(ctx, "SAIL", u128.Q64.Mul(u128.From64(10)))
	require.NoError(t, err)

	// Seed the position's reward slot at the rewarder's current (zero)
	// growth before any emission has accrued.
	_, _, err = p.CollectFee(ctx, id, 1000, true)
	require.NoError(t, err)

	// Advance 100 seconds of emission at rate 10 (Q64.64) with 1000 raw
	// active liquidity: growth_global becomes exactly 1.0 in Q64.64.
	err = p.UpdateEmission(ctx, 1100, "SAIL", u128.Q64.Mul(u128.From64(10)))
	require.NoError(t, err)

	amount, err := p.CollectReward(ctx, id, 1100, idx)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), amount)

	// Second collect immediately after must return 0; nothing new accrued.
	amount2, err := p.CollectReward(ctx, id, 1100, idx)
	require.NoError(t, err)
	require.Zero(t, amount2)
}

func TestCollectReward_ZeroOwedReturnsZeroWithoutVaultCall(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPool(1000)

	id, err := p.OpenPosition(ctx, -600, 600)
	require.NoError(t, err)
	idx, err := p.AddRewarder(ctx, "SAIL", u128.From64(1))
	require.NoError(t, err)

	amount, err := p.CollectReward(ctx, id, 1000, idx)
	require.NoError(t, err)
	require.Zero(t, amount)
}
