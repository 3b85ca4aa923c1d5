// Package emission implements the time-based reward stream attached to
// a pool's staked liquidity: a monotonic reserve drained at a fixed
// Q64.64-per-second rate, a rollover bucket for intervals where nobody
// is staked, and the wrapping growth-global accumulator that feeds the
// same per-position growth-inside machinery as fees.
//
// There is no gauge/reward-stream analog elsewhere in the example pack,
// so this package follows spec.md's update_emission_growth_global
// pseudocode directly, in the idiom the teacher uses for small
// stateful structs with a pure update method and an injected clock
// (internal/platform/resilience's limiter/breaker types): a plain
// struct, no goroutines, errors via sentinel values.
package emission

import (
	"errors"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// ErrSyncTimeInPast is returned by Sync when period_finish < now.
var ErrSyncTimeInPast = errors.New("emission: period_finish is before now")

// Descriptor is the emission state attached to a pool (spec.md section 4.4).
type Descriptor struct {
	Rate           u128.U128 // Q64.64 tokens per second
	Reserve        uint64
	PeriodFinish   int64 // unix seconds
	Rollover       uint64
	LastUpdated    int64 // unix seconds
	StakedLiquidity u128.U128
	GrowthGlobal   u128.U128 // Q64.64, wrapping
}

// Clone deep-copies the descriptor (it holds no pointers, so this is a
// plain value copy) for read-only swap previews.
func (d *Descriptor) Clone() *Descriptor {
	cp := *d
	return &cp
}

// NewDescriptor returns a zeroed emission descriptor anchored at startedAt.
func NewDescriptor(startedAt int64) *Descriptor {
	return &Descriptor{LastUpdated: startedAt}
}

// Sync installs a new rate/reserve/period_finish triple, first accruing
// up to now under the old rate. Mirrors sync_emission.
func (d *Descriptor) Sync(now int64, rate u128.U128, reserve uint64, periodFinish int64) (uint64, error) {
	if periodFinish < now {
		return 0, ErrSyncTimeInPast
	}
	distributed := d.UpdateGrowthGlobal(now)
	d.Rate = rate
	d.Reserve = reserve
	d.PeriodFinish = periodFinish
	return distributed, nil
}

// UpdateGrowthGlobal accrues emission up to now, returning the amount of
// reserve distributed this call. Called on every tick cross inside a
// swap, and inside sync_emission/stake/unstake/settle (spec.md section
// 4.4's update_emission_growth_global).
func (d *Descriptor) UpdateGrowthGlobal(now int64) uint64 {
	dt := now - d.LastUpdated
	if dt <= 0 {
		return 0
	}

	var distributed uint64
	if d.Reserve > 0 {
		distributed = distributedAmount(d.Rate, dt, d.Reserve)
		d.Reserve -= distributed

		if !d.StakedLiquidity.IsZero() {
			delta := u128.MulDivFloor(u128.From64(distributed), u128.Q64, d.StakedLiquidity)
			d.GrowthGlobal = u128.WrappingAdd(d.GrowthGlobal, delta)
		} else {
			d.Rollover += distributed
		}
	}
	d.LastUpdated = now
	return distributed
}

// distributedAmount computes min(reserve, floor(rate*dt/2^64)).
func distributedAmount(rate u128.U128, dt int64, reserve uint64) uint64 {
	elapsed := u128.From64(uint64(dt))
	gross := u128.MulDivFloor(rate, elapsed, u128.Q64)
	grossU64, ok := u128.ToUint64Checked(gross)
	if !ok || grossU64 > reserve {
		return reserve
	}
	return grossU64
}

// SetStakedLiquidity updates the staked-liquidity denominator used by
// the next UpdateGrowthGlobal call. Callers must call UpdateGrowthGlobal
// with the OLD staked liquidity before changing it, per the ordering
// guarantee in spec.md section 5.
func (d *Descriptor) SetStakedLiquidity(l u128.U128) {
	d.StakedLiquidity = l
}
