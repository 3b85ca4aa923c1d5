// Package ticks implements the sparse tick grid: per-tick liquidity and
// growth-outside bookkeeping, and the ordered lookups the swap engine
// needs to find the next crossable tick. The growth-outside flip and the
// sorted-tick-index lookup are adapted from
// CoinSummer-uniswap-v3-simulator's tick_manager.go (Tick.Cross,
// getFeeGrowthInside, GetSortedTicks/binarySearch); the per-tick storage
// key layout and word-bitmap fast path are adapted from
// cpucorecore-uniswapv3-tick-state (tick_key.go) and the teacher's
// internal/pricing/uniswapv3/tick_bitmap.go.
package ticks

import (
	"sort"

	"github.com/luck-28/FullSail-CLMM-SC/internal/i128"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// MaxRewarders bounds the length of a tick's (and a position's)
// rewards-growth-outside (resp. -inside) vector.
const MaxRewarders = 3

// Tick is one initialized price point in the sparse grid.
type Tick struct {
	Index int32

	LiquidityGross      u128.U128
	LiquidityNet        i128.I128
	StakedLiquidityNet  i128.I128

	FeeGrowthOutsideA u128.U128
	FeeGrowthOutsideB u128.U128
	PointsGrowthOutside u128.U128
	EmissionGrowthOutside u128.U128
	RewardGrowthsOutside [MaxRewarders]u128.U128
	RewardGrowthsCount  int
}

// Initialized reports whether the tick currently backs any liquidity.
func (t *Tick) Initialized() bool {
	return !t.LiquidityGross.IsZero()
}

// Cross flips every growth-outside dimension to global-minus-outside
// (wrapping), per invariant 5. Called exactly once per swap-time tick
// crossing.
func (t *Tick) Cross(feeGrowthGlobalA, feeGrowthGlobalB, pointsGrowthGlobal, emissionGrowthGlobal u128.U128, rewardGrowthsGlobal []u128.U128) {
	t.FeeGrowthOutsideA = u128.WrappingSub(feeGrowthGlobalA, t.FeeGrowthOutsideA)
	t.FeeGrowthOutsideB = u128.WrappingSub(feeGrowthGlobalB, t.FeeGrowthOutsideB)
	t.PointsGrowthOutside = u128.WrappingSub(pointsGrowthGlobal, t.PointsGrowthOutside)
	t.EmissionGrowthOutside = u128.WrappingSub(emissionGrowthGlobal, t.EmissionGrowthOutside)
	for i := 0; i < len(rewardGrowthsGlobal) && i < MaxRewarders; i++ {
		t.RewardGrowthsOutside[i] = u128.WrappingSub(rewardGrowthsGlobal[i], t.RewardGrowthsOutside[i])
	}
	if len(rewardGrowthsGlobal) > t.RewardGrowthsCount {
		t.RewardGrowthsCount = len(rewardGrowthsGlobal)
	}
}

func newTick(index int32) *Tick {
	return &Tick{Index: index}
}

// Manager owns the sparse tick map and an ordered index for swap-order
// traversal (used for next-initialized-tick queries), plus a word bitmap
// for per-word occupancy checks.
type Manager struct {
	TickSpacing int32

	byIndex map[int32]*Tick
	sorted  []int32 // kept sorted ascending; rebuilt lazily
	dirty   bool
	bitmap  *Bitmap
}

// NewManager creates an empty tick grid for the given tick spacing.
func NewManager(tickSpacing int32) *Manager {
	return &Manager{
		TickSpacing: tickSpacing,
		byIndex:     make(map[int32]*Tick),
		bitmap:      NewBitmap(tickSpacing),
	}
}

func (m *Manager) ensureSorted() {
	if !m.dirty {
		return
	}
	m.sorted = m.sorted[:0]
	for idx := range m.byIndex {
		m.sorted = append(m.sorted, idx)
	}
	sort.Slice(m.sorted, func(i, j int) bool { return m.sorted[i] < m.sorted[j] })
	m.dirty = false
}

// TryBorrow returns the tick at index if initialized.
func (m *Manager) TryBorrow(index int32) (*Tick, bool) {
	t, ok := m.byIndex[index]
	return t, ok
}

// getOrInit returns the tick at index, creating a zero tick if absent
// (caller is responsible for seeding growth-outside on first real use).
func (m *Manager) getOrInit(index int32) *Tick {
	t, ok := m.byIndex[index]
	if !ok {
		t = newTick(index)
		m.byIndex[index] = t
	}
	return t
}

// prune removes a tick once its liquidity_gross returns to zero.
func (m *Manager) prune(index int32) {
	if _, ok := m.byIndex[index]; ok {
		delete(m.byIndex, index)
		m.dirty = true
		m.bitmap.Clear(index)
	}
}

// FirstScoreForSwap returns the next initialized tick strictly below (a2b)
// or at-or-above (!a2b) currentTick, and whether one exists.
func (m *Manager) FirstScoreForSwap(currentTick int32, a2b bool) (int32, bool) {
	m.ensureSorted()
	if len(m.sorted) == 0 {
		return 0, false
	}

	if a2b {
		// largest indexed tick strictly less than currentTick
		i := sort.Search(len(m.sorted), func(i int) bool { return m.sorted[i] >= currentTick })
		if i == 0 {
			return 0, false
		}
		return m.sorted[i-1], true
	}

	// smallest indexed tick >= currentTick
	i := sort.Search(len(m.sorted), func(i int) bool { return m.sorted[i] >= currentTick })
	if i == len(m.sorted) {
		return 0, false
	}
	return m.sorted[i], true
}

// BorrowForSwap returns the tick at index for the swap loop and whether
// that tick exists, mirroring tick-container's borrow_for_swap contract.
func (m *Manager) BorrowForSwap(index int32) (*Tick, bool) {
	t, ok := m.byIndex[index]
	return t, ok
}

// SumNetUpTo recomputes active and staked liquidity from scratch by
// summing liquidity_net/staked_liquidity_net over every initialized
// tick at or below currentTick, the recovery path
// restore_fullsail_distribution_staked_liquidity uses (spec.md section
// 4.5 and section 9 invariant 3's recovery hatch).
func (m *Manager) SumNetUpTo(currentTick int32) (active, staked u128.U128, err error) {
	m.ensureSorted()
	for _, idx := range m.sorted {
		if idx > currentTick {
			break
		}
		t := m.byIndex[idx]
		var ok bool
		active, ok = foldSigned(active, t.LiquidityNet, false)
		if !ok {
			return u128.Zero, u128.Zero, ErrNetOverflow
		}
		staked, ok = foldSigned(staked, t.StakedLiquidityNet, false)
		if !ok {
			return u128.Zero, u128.Zero, ErrNetOverflow
		}
	}
	return active, staked, nil
}

// Clone deep-copies the tick grid, used by read-only swap previews
// (BatchPreview, calculate_swap_result*) that must not touch live Pool
// state while they walk a hypothetical swap.
func (m *Manager) Clone() *Manager {
	out := &Manager{
		TickSpacing: m.TickSpacing,
		byIndex:     make(map[int32]*Tick, len(m.byIndex)),
		bitmap:      NewBitmap(m.TickSpacing),
	}
	for idx, t := range m.byIndex {
		cp := *t
		out.byIndex[idx] = &cp
		out.bitmap.Set(idx)
	}
	out.dirty = true
	return out
}
