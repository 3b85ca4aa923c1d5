package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/positions"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// AddRewarder appends a new reward-token stream (gauge-manager role;
// spec.md section 6's rewarder-container add_rewarder<T>).
func (p *Pool) AddRewarder(ctx context.Context, tokenType string, emissionPerSecond u128.U128) (int, error) {
	if err := p.Config.CheckRole(ctx, RoleGaugeManager); err != nil {
		return 0, wrapErr(KindNotOwner, err)
	}
	if emissionPerSecond.Cmp(p.Config.MaxGaugeEmissionRate()) > 0 {
		return 0, newErr(KindInvalidGaugeCap)
	}
	idx, err := p.Rewarders.AddRewarder(tokenType, emissionPerSecond)
	if err != nil {
		return 0, wrapErr(KindRewarderIndexNotFound, err)
	}
	p.emit(ctx, AddRewarderEvent{PoolID: p.ID, RewarderIndex: idx, RewardTokenType: tokenType})
	return idx, nil
}

// UpdateEmission re-rates an existing rewarder, settling the old rate
// up to now first.
func (p *Pool) UpdateEmission(ctx context.Context, now int64, tokenType string, emissionPerSecond u128.U128) error {
	if err := p.Config.CheckRole(ctx, RoleGaugeManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if emissionPerSecond.Cmp(p.Config.MaxGaugeEmissionRate()) > 0 {
		return newErr(KindInvalidGaugeCap)
	}
	idx, err := p.Rewarders.IndexOf(tokenType)
	if err != nil {
		return wrapErr(KindRewarderIndexNotFound, err)
	}
	p.Rewarders.Settle(now, p.ActiveLiquidity)
	p.Rewarders.UpdateEmission(idx, emissionPerSecond)
	p.emit(ctx, UpdateEmissionEvent{PoolID: p.ID, RewarderIndex: idx, EmissionPerSecond: emissionPerSecond.String()})
	return nil
}

// CollectReward zeroes and returns a position's owed balance for one
// rewarder slot, withdrawing the underlying balance from Vault.
func (p *Pool) CollectReward(ctx context.Context, id positions.ID, now int64, rewarderIndex int) (uint64, error) {
	info, err := p.Positions.Get(id)
	if err != nil {
		return 0, wrapErr(KindPositionPoolIdMismatch, err)
	}
	if rewarderIndex < 0 || rewarderIndex >= len(p.Rewarders.Rewarders) {
		return 0, newErr(KindRewarderIndexNotFound)
	}

	inside := p.settleForPosition(now, info)
	applyPositionGrowth(info, inside)

	amount := info.RewardsOwed[rewarderIndex]
	info.RewardsOwed[rewarderIndex] = 0
	if amount == 0 {
		return 0, nil
	}

	tokenType := p.Rewarders.Rewarders[rewarderIndex].RewardTokenType
	if p.Vault != nil {
		if _, err := p.Vault.WithdrawReward(ctx, tokenType, amount); err != nil {
			return 0, wrapErr(KindGaugerIdNotFound, err)
		}
	}

	p.emit(ctx, CollectRewardEvent{PoolID: p.ID, PositionID: uint64(id), RewarderIndex: rewarderIndex, Amount: amount})
	return amount, nil
}
