// Package rewarder implements the fixed-capacity reward-token stream
// vector and the pool-wide points-growth accumulator (spec.md section 3
// and section 6's rewarder-container interface: settle, add_rewarder,
// rewards_growth_global, points_growth_global, rewarder_index).
//
// Rewarders share update_emission_growth_global's wrapping-growth shape
// (internal/emission) but run against active liquidity rather than a
// staked subset and carry no reserve/rollover bookkeeping of their own —
// the reward token supply is assumed external (the Vault collaborator,
// spec.md section 6), so settle only advances growth_global.
package rewarder

import (
	"errors"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// MaxRewarders bounds the rewarder vector length, matching
// internal/ticks.MaxRewarders (a position's rewards_inside_snapshot is
// sized to the same bound).
const MaxRewarders = 3

var (
	// ErrTooManyRewarders is returned by AddRewarder once the vector is full.
	ErrTooManyRewarders = errors.New("rewarder: rewarder vector is full")
	// ErrRewarderNotFound is returned by IndexOf when a token type has no
	// rewarder slot.
	ErrRewarderNotFound = errors.New("rewarder: reward token type not found")
)

// Rewarder is one reward-token emission stream (spec.md section 3).
type Rewarder struct {
	RewardTokenType string
	EmissionPerSecond u128.U128 // Q64.64 per second
	GrowthGlobal      u128.U128 // Q64.64, wrapping
}

// Manager is the append-only rewarder vector plus the pool-wide points
// accumulator (spec.md's RewarderManager).
type Manager struct {
	Rewarders          []Rewarder
	PointsGrowthGlobal u128.U128
	PointsPerSecond    u128.U128 // Q64.64 points per second per unit active liquidity
	LastUpdated        int64
}

// NewManager returns an empty rewarder vector anchored at startedAt.
func NewManager(pointsPerSecond u128.U128, startedAt int64) *Manager {
	return &Manager{PointsPerSecond: pointsPerSecond, LastUpdated: startedAt}
}

// Clone deep-copies the rewarder vector for read-only swap previews.
func (m *Manager) Clone() *Manager {
	out := &Manager{
		PointsGrowthGlobal: m.PointsGrowthGlobal,
		PointsPerSecond:    m.PointsPerSecond,
		LastUpdated:        m.LastUpdated,
	}
	out.Rewarders = append([]Rewarder(nil), m.Rewarders...)
	return out
}

// AddRewarder appends a new reward-token stream, failing once the
// vector reaches MaxRewarders (spec.md section 3: "N fixed; typically
// 3", "appended; never removed").
func (m *Manager) AddRewarder(tokenType string, emissionPerSecond u128.U128) (int, error) {
	if len(m.Rewarders) >= MaxRewarders {
		return 0, ErrTooManyRewarders
	}
	m.Rewarders = append(m.Rewarders, Rewarder{
		RewardTokenType:   tokenType,
		EmissionPerSecond: emissionPerSecond,
	})
	return len(m.Rewarders) - 1, nil
}

// IndexOf returns the slot index of tokenType.
func (m *Manager) IndexOf(tokenType string) (int, error) {
	for i := range m.Rewarders {
		if m.Rewarders[i].RewardTokenType == tokenType {
			return i, nil
		}
	}
	return 0, ErrRewarderNotFound
}

// UpdateEmission re-rates an existing rewarder's emission_per_second.
// Callers must Settle first so the old rate accrues up to now.
func (m *Manager) UpdateEmission(index int, emissionPerSecond u128.U128) {
	m.Rewarders[index].EmissionPerSecond = emissionPerSecond
}

// Settle advances every rewarder's growth_global and points_growth_global
// up to now, given the pool's current active liquidity. Must run before
// any position takes a growth snapshot (spec.md section 5 ordering
// guarantee: "rewarder is always settled before a position's per-slot
// growth snapshot is taken").
func (m *Manager) Settle(now int64, activeLiquidity u128.U128) {
	dt := now - m.LastUpdated
	if dt <= 0 {
		return
	}
	elapsed := u128.From64(uint64(dt))

	if !activeLiquidity.IsZero() {
		for i := range m.Rewarders {
			r := &m.Rewarders[i]
			// EmissionPerSecond is already Q64.64 tokens/sec, so the
			// accrued amount over dt is Q64.64 tokens; dividing by raw
			// liquidity yields a Q64.64 per-unit-liquidity growth delta
			// directly, with no second scaling by 2^64.
			accrued := u128.MulDivFloor(r.EmissionPerSecond, elapsed, u128.One)
			delta := u128.MulDivFloor(accrued, u128.One, activeLiquidity)
			r.GrowthGlobal = u128.WrappingAdd(r.GrowthGlobal, delta)
		}
		pointsAccrued := u128.MulDivFloor(m.PointsPerSecond, elapsed, u128.One)
		pointsDelta := u128.MulDivFloor(pointsAccrued, u128.One, activeLiquidity)
		m.PointsGrowthGlobal = u128.WrappingAdd(m.PointsGrowthGlobal, pointsDelta)
	}

	m.LastUpdated = now
}

// RewardsGrowthGlobal returns a snapshot of every rewarder's
// growth_global, one entry per existing rewarder (no padding to
// MaxRewarders), suitable for internal/ticks.GrowthSnapshot.RewardGrowthsGlobal.
func (m *Manager) RewardsGrowthGlobal() []u128.U128 {
	out := make([]u128.U128, len(m.Rewarders))
	for i := range m.Rewarders {
		out[i] = m.Rewarders[i].GrowthGlobal
	}
	return out
}
