// Package positions implements the per-position accounting store:
// liquidity, fee/reward/points/emission snapshots, and owed balances.
// The snapshot-then-diff pattern (owed += (inside_now - snapshot)*L/2^64)
// is the same one-position-two-tick-snapshots technique described in
// spec.md section 3 invariant 6, grounded the same way the tick grid's
// growth-inside arithmetic is (CoinSummer-uniswap-v3-simulator's
// position-update shape, generalized to four dimensions plus a reward
// vector).
package positions

import (
	"errors"

	"github.com/luck-28/FullSail-CLMM-SC/internal/ticks"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

var (
	// ErrTickRange is returned by Open for an invalid [tickLower, tickUpper).
	ErrTickRange = errors.New("positions: tick_lower must be < tick_upper")
	// ErrNotEmpty is returned by Close when liquidity or any owed amount
	// is still nonzero.
	ErrNotEmpty = errors.New("positions: cannot close a position with outstanding liquidity or owed amounts")
	// ErrNotFound is returned when a PositionID has no backing Info.
	ErrNotFound = errors.New("positions: position not found")
)

// ID identifies a position within a pool.
type ID uint64

// Info is the per-position accounting record (spec.md section 3).
type Info struct {
	PoolID    uint64
	TickLower int32
	TickUpper int32

	Liquidity u128.U128

	FeeGrowthInsideSnapshotA u128.U128
	FeeGrowthInsideSnapshotB u128.U128
	FeeOwedA                 uint64
	FeeOwedB                 uint64

	RewardsInsideSnapshot [ticks.MaxRewarders]u128.U128
	RewardsOwed           [ticks.MaxRewarders]uint64
	RewardsCount          int

	PointsInsideSnapshot u128.U128
	PointsOwed           u128.U128

	EmissionInsideSnapshot u128.U128
	EmissionOwed           uint64

	IsStaked bool
}

// Manager owns the position store keyed by ID.
type Manager struct {
	TickSpacing int32
	byID        map[ID]*Info
	nextID      ID
}

// NewManager creates an empty position store.
func NewManager(tickSpacing int32) *Manager {
	return &Manager{TickSpacing: tickSpacing, byID: make(map[ID]*Info)}
}

// Open validates the range and creates a zero-liquidity position.
func (m *Manager) Open(poolID uint64, tickLower, tickUpper int32, minTick, maxTick int32) (ID, *Info, error) {
	if tickLower >= tickUpper {
		return 0, nil, ErrTickRange
	}
	if tickLower < minTick || tickUpper > maxTick {
		return 0, nil, ErrTickRange
	}
	if tickLower%m.TickSpacing != 0 || tickUpper%m.TickSpacing != 0 {
		return 0, nil, ErrTickRange
	}

	m.nextID++
	id := m.nextID
	info := &Info{PoolID: poolID, TickLower: tickLower, TickUpper: tickUpper}
	m.byID[id] = info
	return id, info, nil
}

// Get returns the position info for id.
func (m *Manager) Get(id ID) (*Info, error) {
	info, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return info, nil
}

// Close removes a position once it is fully drained.
func (m *Manager) Close(id ID) error {
	info, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !info.Liquidity.IsZero() || info.FeeOwedA != 0 || info.FeeOwedB != 0 || !info.PointsOwed.IsZero() || info.EmissionOwed != 0 {
		return ErrNotEmpty
	}
	for i := 0; i < info.RewardsCount; i++ {
		if info.RewardsOwed[i] != 0 {
			return ErrNotEmpty
		}
	}
	delete(m.byID, id)
	return nil
}

// InitedRewardsCount returns how many reward slots this position has
// seen, used to decide which slots need seeding on resize.
func (info *Info) InitedRewardsCount() int { return info.RewardsCount }

// ResizeRewards grows the position's reward-tracking vectors up to n
// slots, seeding new slots to the supplied current growth-inside values
// (spec.md section 9, "Rewarder slot stability").
func (info *Info) ResizeRewards(n int, currentGrowthInside [ticks.MaxRewarders]u128.U128) {
	if n > ticks.MaxRewarders {
		n = ticks.MaxRewarders
	}
	for i := info.RewardsCount; i < n; i++ {
		info.RewardsInsideSnapshot[i] = currentGrowthInside[i]
		info.RewardsOwed[i] = 0
	}
	if n > info.RewardsCount {
		info.RewardsCount = n
	}
}
