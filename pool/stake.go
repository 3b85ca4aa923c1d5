package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/positions"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// Stake marks a position as staked and folds its liquidity into
// staked_liquidity (if the current tick is inside the range) and the
// per-endpoint staked_liquidity_net via update_fullsail_stake. Staking
// itself is a collaborator-boundary operation (spec.md section 4.3:
// "Staking/unstaking themselves are collaborator-boundary operations —
// see section 6") driven by the out-of-scope gauge; this method is the
// Pool-side effect that boundary call performs.
func (p *Pool) Stake(ctx context.Context, id positions.ID, now int64) error {
	info, err := p.Positions.Get(id)
	if err != nil {
		return wrapErr(KindPositionPoolIdMismatch, err)
	}
	if info.PoolID != p.ID {
		return newErr(KindPoolIdMismatch)
	}
	if info.IsStaked {
		return newErr(KindStakeAlreadyStaked)
	}

	p.Emission.SetStakedLiquidity(p.StakedLiquidity)
	p.Emission.UpdateGrowthGlobal(now)

	if err := p.Ticks.UpdateFullsailStake(info.TickLower, info.Liquidity, false); err != nil {
		return wrapErr(KindInsufficientStakedLiquidity, err)
	}
	if err := p.Ticks.UpdateFullsailStake(info.TickUpper, info.Liquidity, true); err != nil {
		return wrapErr(KindInsufficientStakedLiquidity, err)
	}

	if info.TickLower <= p.CurrentTickIndex && p.CurrentTickIndex < info.TickUpper {
		newStaked, ok := u128.CheckedAdd(p.StakedLiquidity, info.Liquidity)
		if !ok {
			return newErr(KindInsufficientStakedLiquidity)
		}
		p.StakedLiquidity = newStaked
	}
	p.Emission.SetStakedLiquidity(p.StakedLiquidity)

	info.IsStaked = true
	p.emit(ctx, UpdateStakedLiquidityEvent{PoolID: p.ID, NewStaked: p.StakedLiquidity.String()})
	p.invalidateQuoteCache(ctx)
	return nil
}

// Unstake is the mirror of Stake.
func (p *Pool) Unstake(ctx context.Context, id positions.ID, now int64) error {
	info, err := p.Positions.Get(id)
	if err != nil {
		return wrapErr(KindPositionPoolIdMismatch, err)
	}
	if info.PoolID != p.ID {
		return newErr(KindPoolIdMismatch)
	}
	if !info.IsStaked {
		return newErr(KindUnstakeNotStaked)
	}

	p.Emission.SetStakedLiquidity(p.StakedLiquidity)
	p.Emission.UpdateGrowthGlobal(now)

	if err := p.Ticks.UpdateFullsailStake(info.TickLower, info.Liquidity, true); err != nil {
		return wrapErr(KindInsufficientStakedLiquidity, err)
	}
	if err := p.Ticks.UpdateFullsailStake(info.TickUpper, info.Liquidity, false); err != nil {
		return wrapErr(KindInsufficientStakedLiquidity, err)
	}

	if info.TickLower <= p.CurrentTickIndex && p.CurrentTickIndex < info.TickUpper {
		newStaked, ok := u128.CheckedSub(p.StakedLiquidity, info.Liquidity)
		if !ok {
			return newErr(KindInsufficientStakedLiquidity)
		}
		p.StakedLiquidity = newStaked
	}
	p.Emission.SetStakedLiquidity(p.StakedLiquidity)

	info.IsStaked = false
	p.emit(ctx, UpdateStakedLiquidityEvent{PoolID: p.ID, NewStaked: p.StakedLiquidity.String()})
	p.invalidateQuoteCache(ctx)
	return nil
}
