package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// SyncEmission installs a new rate/reserve/period_finish triple
// (gauge-capability entry, spec.md section 4.4), accruing up to now
// under the old rate first.
func (p *Pool) SyncEmission(ctx context.Context, now int64, rate u128.U128, reserve uint64, periodFinish int64) error {
	if err := p.Config.CheckRole(ctx, RoleGaugeManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	if rate.Cmp(p.Config.MaxGaugeEmissionRate()) > 0 {
		return newErr(KindInvalidGaugeCap)
	}
	p.Emission.SetStakedLiquidity(p.StakedLiquidity)
	distributed, err := p.Emission.Sync(now, rate, reserve, periodFinish)
	if err != nil {
		return wrapErr(KindInvalidSyncEmissionTime, err)
	}
	p.emit(ctx, SyncEmissionEvent{PoolID: p.ID, Rate: rate.String(), Reserve: reserve, PeriodFinish: periodFinish})
	if distributed > 0 {
		p.emit(ctx, UpdateEmissionGrowthEvent{PoolID: p.ID, GrowthGlobal: p.Emission.GrowthGlobal.String(), Distributed: distributed})
	}
	if p.metrics != nil {
		p.metrics.RecordEmissionDistributed(distributed)
	}
	return nil
}

// InitGauge marks the pool as gauge-enabled. The spec treats gauge
// initialization as a one-time collaborator-boundary call; here it is
// simply the first SyncEmission, so InitGauge only emits the marker
// event for hosts that distinguish "never synced" from "synced to
// zero".
func (p *Pool) InitGauge(ctx context.Context) error {
	if err := p.Config.CheckRole(ctx, RoleGaugeManager); err != nil {
		return wrapErr(KindNotOwner, err)
	}
	p.emit(ctx, InitGaugeEvent{PoolID: p.ID})
	return nil
}
