package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/clmmmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/positions"
	"github.com/luck-28/FullSail-CLMM-SC/internal/receipts"
	"github.com/luck-28/FullSail-CLMM-SC/internal/ticks"
	"github.com/luck-28/FullSail-CLMM-SC/internal/tickmath"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// AddLiquidityReceipt is the hot-potato handle spec.md section 4.3
// step 7 describes: it must be repaid with exactly (AmountA, AmountB)
// before the same call returns.
type AddLiquidityReceipt struct {
	PositionID positions.ID
	AmountA    uint64
	AmountB    uint64
	token      *receipts.Token
}

// OpenPosition validates the range and creates a zero-liquidity
// position (spec.md section 4.3's open_position).
func (p *Pool) OpenPosition(ctx context.Context, tickLower, tickUpper int32) (positions.ID, error) {
	id, _, err := p.Positions.Open(p.ID, tickLower, tickUpper, tickmath.MinTick, tickmath.MaxTick)
	if err != nil {
		return 0, wrapErr(KindInvalidTickRange, err)
	}
	p.emit(ctx, OpenPositionEvent{PoolID: p.ID, PositionID: uint64(id), TickLower: tickLower, TickUpper: tickUpper})
	return id, nil
}

// ClosePosition removes a fully-drained position.
func (p *Pool) ClosePosition(ctx context.Context, id positions.ID) error {
	if err := p.Positions.Close(id); err != nil {
		return wrapErr(KindLiquidityMismatch, err)
	}
	p.emit(ctx, ClosePositionEvent{PoolID: p.ID, PositionID: uint64(id)})
	return nil
}

// settleForPosition runs the rewarder settle + growth-inside snapshot
// machinery shared by add/remove liquidity (spec.md section 4.3 steps
// 1 and 3, and section 5's ordering guarantee: "rewarder is always
// settled before a position's per-slot growth snapshot is taken").
func (p *Pool) settleForPosition(now int64, info *positions.Info) ticks.RangeGrowth {
	p.Rewarders.Settle(now, p.ActiveLiquidity)

	rg := p.Rewarders.RewardsGrowthGlobal()
	if len(rg) > info.RewardsCount {
		var current [ticks.MaxRewarders]u128.U128
		inside := p.Ticks.GrowthInside(p.CurrentTickIndex, info.TickLower, info.TickUpper, p.growthSnapshot())
		copy(current[:], inside.Rewards[:])
		info.ResizeRewards(len(rg), current)
	}

	return p.Ticks.GrowthInside(p.CurrentTickIndex, info.TickLower, info.TickUpper, p.growthSnapshot())
}

// applyPositionGrowth folds (inside_now - snapshot)*L/2^64 into the
// position's owed balances, then replaces the snapshot (spec.md section
// 4.3 step 6 / section 4.4's per-position emission accounting).
func applyPositionGrowth(info *positions.Info, inside ticks.RangeGrowth) {
	l := info.Liquidity
	if !l.IsZero() {
		deltaA := u128.WrappingSub(inside.FeeA, info.FeeGrowthInsideSnapshotA)
		owedA := u128.MulDivFloor(deltaA, l, u128.Q64)
		if v, ok := u128.ToUint64Checked(owedA); ok {
			info.FeeOwedA += v
		}

		deltaB := u128.WrappingSub(inside.FeeB, info.FeeGrowthInsideSnapshotB)
		owedB := u128.MulDivFloor(deltaB, l, u128.Q64)
		if v, ok := u128.ToUint64Checked(owedB); ok {
			info.FeeOwedB += v
		}

		deltaPts := u128.WrappingSub(inside.Points, info.PointsInsideSnapshot)
		owedPts := u128.MulDivFloor(deltaPts, l, u128.Q64)
		info.PointsOwed = u128.WrappingAdd(info.PointsOwed, owedPts)

		deltaEm := u128.WrappingSub(inside.Emission, info.EmissionInsideSnapshot)
		owedEm := u128.MulDivFloor(deltaEm, l, u128.Q64)
		if v, ok := u128.ToUint64Checked(owedEm); ok {
			info.EmissionOwed += v
		}

		for i := 0; i < info.RewardsCount; i++ {
			deltaR := u128.WrappingSub(inside.Rewards[i], info.RewardsInsideSnapshot[i])
			owedR := u128.MulDivFloor(deltaR, l, u128.Q64)
			if v, ok := u128.ToUint64Checked(owedR); ok {
				info.RewardsOwed[i] += v
			}
		}
	}

	info.FeeGrowthInsideSnapshotA = inside.FeeA
	info.FeeGrowthInsideSnapshotB = inside.FeeB
	info.PointsInsideSnapshot = inside.Points
	info.EmissionInsideSnapshot = inside.Emission
	for i := 0; i < info.RewardsCount; i++ {
		info.RewardsInsideSnapshot[i] = inside.Rewards[i]
	}
}

// AddLiquidity implements the fixed-liquidity branch of add_liquidity
// (spec.md section 4.3).
func (p *Pool) AddLiquidity(ctx context.Context, id positions.ID, now int64, liquidity u128.U128) (*AddLiquidityReceipt, error) {
	ctx, end := p.startSpan(ctx, "pool.AddLiquidity")
	var err error
	defer func() { end(err) }()

	info, err := p.Positions.Get(id)
	if err != nil {
		return nil, wrapErr(KindPositionPoolIdMismatch, err)
	}
	if info.PoolID != p.ID {
		return nil, newErr(KindPoolIdMismatch)
	}
	if info.IsStaked {
		return nil, newErr(KindPositionIsStaked)
	}
	if liquidity.IsZero() {
		return nil, newErr(KindZeroLiquidity)
	}

	sqrtLower, _ := tickmath.GetSqrtPriceAtTick(info.TickLower)
	sqrtUpper, _ := tickmath.GetSqrtPriceAtTick(info.TickUpper)
	amountA, amountB, err := clmmmath.AmountsForLiquidity(p.CurrentSqrtPrice, sqrtLower, sqrtUpper, liquidity, true)
	if err != nil {
		return nil, wrapErr(KindAmountInOverflow, err)
	}

	inside := p.settleForPosition(now, info)

	if err := p.Ticks.IncreaseLiquidity(info.TickLower, p.CurrentTickIndex, liquidity, false, p.MaxLiquidityPerTick, p.growthSnapshot()); err != nil {
		return nil, wrapErr(KindLiquidityAdditionOverflow, err)
	}
	if err := p.Ticks.IncreaseLiquidity(info.TickUpper, p.CurrentTickIndex, liquidity, true, p.MaxLiquidityPerTick, p.growthSnapshot()); err != nil {
		return nil, wrapErr(KindLiquidityAdditionOverflow, err)
	}

	if info.TickLower <= p.CurrentTickIndex && p.CurrentTickIndex < info.TickUpper {
		newActive, ok := u128.CheckedAdd(p.ActiveLiquidity, liquidity)
		if !ok {
			return nil, newErr(KindLiquidityAdditionOverflow)
		}
		p.ActiveLiquidity = newActive
	}

	applyPositionGrowth(info, inside)
	info.Liquidity = u128.WrappingAdd(info.Liquidity, liquidity)

	token := p.receipts.Issue(receipts.AddLiquidity)
	p.emit(ctx, AddLiquidityEvent{PoolID: p.ID, PositionID: uint64(id), Liquidity: liquidity.String(), AmountA: amountA, AmountB: amountB})
	p.invalidateQuoteCache(ctx)

	return &AddLiquidityReceipt{PositionID: id, AmountA: amountA, AmountB: amountB, token: token}, nil
}

// RepayAddLiquidity consumes the receipt; the caller asserts they have
// already joined (AmountA, AmountB) into the pool's reserves. Panics
// (via the registry) if r was already repaid.
func (p *Pool) RepayAddLiquidity(r *AddLiquidityReceipt) {
	p.receipts.Consume(r.token)
	p.ReserveA += r.AmountA
	p.ReserveB += r.AmountB
}

// RemoveLiquidity is the mirror of AddLiquidity (spec.md section 4.3's
// remove_liquidity).
func (p *Pool) RemoveLiquidity(ctx context.Context, id positions.ID, now int64, liquidity u128.U128) (amountA, amountB uint64, err error) {
	ctx, end := p.startSpan(ctx, "pool.RemoveLiquidity")
	defer func() { end(err) }()

	info, err := p.Positions.Get(id)
	if err != nil {
		return 0, 0, wrapErr(KindPositionPoolIdMismatch, err)
	}
	if info.PoolID != p.ID {
		return 0, 0, newErr(KindPoolIdMismatch)
	}
	if info.IsStaked {
		return 0, 0, newErr(KindPositionIsStaked)
	}
	if liquidity.IsZero() {
		return 0, 0, newErr(KindZeroLiquidity)
	}
	if liquidity.Cmp(info.Liquidity) > 0 {
		return 0, 0, newErr(KindInsufficientLiquidity)
	}

	inside := p.settleForPosition(now, info)

	sqrtLower, _ := tickmath.GetSqrtPriceAtTick(info.TickLower)
	sqrtUpper, _ := tickmath.GetSqrtPriceAtTick(info.TickUpper)
	amountA, amountB, err = clmmmath.AmountsForLiquidity(p.CurrentSqrtPrice, sqrtLower, sqrtUpper, liquidity, false)
	if err != nil {
		return 0, 0, wrapErr(KindAmountOutOverflow, err)
	}

	if err := p.Ticks.DecreaseLiquidity(info.TickLower, liquidity, false); err != nil {
		return 0, 0, wrapErr(KindInsufficientLiquidity, err)
	}
	if err := p.Ticks.DecreaseLiquidity(info.TickUpper, liquidity, true); err != nil {
		return 0, 0, wrapErr(KindInsufficientLiquidity, err)
	}

	if info.TickLower <= p.CurrentTickIndex && p.CurrentTickIndex < info.TickUpper {
		newActive, ok := u128.CheckedSub(p.ActiveLiquidity, liquidity)
		if !ok {
			return 0, 0, newErr(KindInsufficientLiquidity)
		}
		p.ActiveLiquidity = newActive
	}

	applyPositionGrowth(info, inside)
	info.Liquidity = u128.WrappingSub(info.Liquidity, liquidity)

	p.ReserveA -= amountA
	p.ReserveB -= amountB

	p.emit(ctx, RemoveLiquidityEvent{PoolID: p.ID, PositionID: uint64(id), Liquidity: liquidity.String(), AmountA: amountA, AmountB: amountB})
	p.invalidateQuoteCache(ctx)
	return amountA, amountB, nil
}

// CollectFee implements collect_fee (spec.md section 4.3): optionally
// recompute growth-inside, then zero and return the owed amounts.
func (p *Pool) CollectFee(ctx context.Context, id positions.ID, now int64, updateFee bool) (amountA, amountB uint64, err error) {
	info, err := p.Positions.Get(id)
	if err != nil {
		return 0, 0, wrapErr(KindPositionPoolIdMismatch, err)
	}
	if updateFee && !info.Liquidity.IsZero() {
		inside := p.settleForPosition(now, info)
		applyPositionGrowth(info, inside)
	}
	amountA, amountB = info.FeeOwedA, info.FeeOwedB
	info.FeeOwedA, info.FeeOwedB = 0, 0
	p.ReserveA -= amountA
	p.ReserveB -= amountB
	p.emit(ctx, CollectPositionFeeEvent{PoolID: p.ID, PositionID: uint64(id), AmountA: amountA, AmountB: amountB})
	return amountA, amountB, nil
}
