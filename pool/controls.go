// Protocol control-plane operations (spec.md section 4.5): pause,
// unpause, protocol fee collection, fee-rate governance, and the
// staked-liquidity recovery hatch.
package pool

import "context"

// Pause toggles the pool into a paused state (pool-manager role).
func (p *Pool) Pause(ctx context.Context) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return newErr(KindPoolAlreadyPaused)
	}
	p.Paused = true
	p.emit(ctx, PauseEvent{PoolID: p.ID})
	if p.metrics != nil {
		p.metrics.SetPaused(true)
	}
	if p.logger != nil {
		p.logger.Info("pause", "pool_id", p.ID)
	}
	p.invalidateQuoteCache(ctx)
	return nil
}

// Unpause clears the paused flag.
func (p *Pool) Unpause(ctx context.Context) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if !p.Paused {
		return newErr(KindPoolNotPaused)
	}
	p.Paused = false
	p.emit(ctx, UnpauseEvent{PoolID: p.ID})
	if p.metrics != nil {
		p.metrics.SetPaused(false)
	}
	if p.logger != nil {
		p.logger.Info("unpause", "pool_id", p.ID)
	}
	p.invalidateQuoteCache(ctx)
	return nil
}

// CollectProtocolFee moves protocol_fee_{a,b} out as fresh balances and
// zeroes them (protocol-fee-claim role). Per spec.md section 4.5: "the
// source disallows [collecting while paused]; spec follows source" —
// this call is NOT exempted from the pause check despite being exempt
// from requiring !paused in the "every mutating op except unpause and
// collect_protocol_fee" phrasing elsewhere; see DESIGN.md for the
// resolved reading.
func (p *Pool) CollectProtocolFee(ctx context.Context) (amountA, amountB uint64, err error) {
	if err := p.Config.CheckRole(ctx, RoleProtocolFeeClaim); err != nil {
		return 0, 0, wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return 0, 0, newErr(KindPoolPaused)
	}
	amountA, amountB = p.ProtocolFeeA, p.ProtocolFeeB
	p.ProtocolFeeA, p.ProtocolFeeB = 0, 0
	p.emit(ctx, CollectProtocolFeeEvent{PoolID: p.ID, AmountA: amountA, AmountB: amountB})
	return amountA, amountB, nil
}

// CollectGaugeFee moves the gauge fee escrow out (gauge-manager role).
func (p *Pool) CollectGaugeFee(ctx context.Context) (amountA, amountB uint64, err error) {
	if err := p.Config.CheckRole(ctx, RoleGaugeManager); err != nil {
		return 0, 0, wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return 0, 0, newErr(KindPoolPaused)
	}
	amountA, amountB = p.GaugeFeeA, p.GaugeFeeB
	p.GaugeFeeA, p.GaugeFeeB = 0, 0
	p.emit(ctx, CollectGaugeFeeEvent{PoolID: p.ID, AmountA: amountA, AmountB: amountB})
	return amountA, amountB, nil
}

// UpdateFeeRate requires new != old and new <= MAX_FEE_RATE
// (pool-manager role).
func (p *Pool) UpdateFeeRate(ctx context.Context, newRate uint64) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return newErr(KindPoolPaused)
	}
	if newRate == p.FeeRate || newRate > p.Config.MaxFeeRate() {
		return newErr(KindInvalidFeeRate)
	}
	old := p.FeeRate
	p.FeeRate = newRate
	p.emit(ctx, UpdateFeeRateEvent{PoolID: p.ID, Old: old, New: newRate})
	p.invalidateQuoteCache(ctx)
	return nil
}

// UpdateUnstakedLiquidityFeeRate accepts either an explicit rate
// (<=MAX_UNSTAKED_FEE_RATE) or nil for "inherit from global config at
// swap time" (pool-manager role).
func (p *Pool) UpdateUnstakedLiquidityFeeRate(ctx context.Context, newRate *uint64) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return newErr(KindPoolPaused)
	}
	if newRate != nil && *newRate > p.Config.MaxUnstakedFeeRate() {
		return newErr(KindInvalidFeeRate)
	}
	p.UnstakedFeeRateOverride = newRate
	ev := UpdateUnstakedFeeRateEvent{PoolID: p.ID, IsDefault: newRate == nil}
	if newRate != nil {
		ev.NewRate = *newRate
	}
	p.emit(ctx, ev)
	p.invalidateQuoteCache(ctx)
	return nil
}

// UpdateURL changes the pool's off-chain metadata URL.
func (p *Pool) UpdateURL(ctx context.Context, url string) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if p.Paused {
		return newErr(KindPoolPaused)
	}
	p.URL = url
	p.emit(ctx, UpdateURLEvent{PoolID: p.ID, URL: url})
	return nil
}

// RestoreFullsailDistributionStakedLiquidity recomputes (L, Ls) from
// tick net sums at the current tick, asserts the recomputed active
// liquidity matches the live value, then resets staked_liquidity — the
// recovery hatch for invariant 3 (spec.md section 4.5).
func (p *Pool) RestoreFullsailDistributionStakedLiquidity(ctx context.Context) error {
	if err := p.Config.CheckRole(ctx, RolePoolManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	active, staked, err := p.Ticks.SumNetUpTo(p.CurrentTickIndex)
	if err != nil {
		return wrapErr(KindInsufficientLiquidity, err)
	}
	if active.Cmp(p.ActiveLiquidity) != 0 {
		return newErr(KindLiquidityMismatch)
	}
	p.StakedLiquidity = staked
	p.emit(ctx, RestoreStakedLiquidityEvent{PoolID: p.ID, NewStaked: staked.String()})
	p.invalidateQuoteCache(ctx)
	return nil
}
