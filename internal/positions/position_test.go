package positions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/ticks"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestManager_OpenRejectsInvalidRanges(t *testing.T) {
	m := NewManager(60)

	_, _, err := m.Open(1, 600, -600, -1000, 1000)
	require.ErrorIs(t, err, ErrTickRange)

	_, _, err = m.Open(1, -1200, 600, -1000, 1000)
	require.ErrorIs(t, err, ErrTickRange)

	_, _, err = m.Open(1, -61, 600, -1000, 1000)
	require.ErrorIs(t, err, ErrTickRange)
}

func TestManager_OpenGetClose(t *testing.T) {
	m := NewManager(60)

	id, info, err := m.Open(1, -600, 600, -1000, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(1), info.PoolID)

	got, err := m.Get(id)
	require.NoError(t, err)
	require.Same(t, info, got)

	require.NoError(t, m.Close(id))
	_, err = m.Get(id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManager_CloseRefusesNonEmptyPosition(t *testing.T) {
	m := NewManager(60)
	id, info, err := m.Open(1, -600, 600, -1000, 1000)
	require.NoError(t, err)

	info.FeeOwedA = 5
	require.ErrorIs(t, m.Close(id), ErrNotEmpty)

	info.FeeOwedA = 0
	require.NoError(t, m.Close(id))
}

func TestInfo_ResizeRewardsSeedsNewSlotsOnly(t *testing.T) {
	info := &Info{}
	var current [ticks.MaxRewarders]u128.U128
	current[0] = u128.From64(10)
	current[1] = u128.From64(20)

	info.ResizeRewards(1, current)
	require.Equal(t, 1, info.RewardsCount)
	require.Equal(t, 0, info.RewardsInsideSnapshot[0].Cmp(u128.From64(10)))

	// Growing to 2 slots must not re-seed slot 0 from the (now possibly
	// different) current snapshot; it should only fill the new slot.
	var laterCurrent [ticks.MaxRewarders]u128.U128
	laterCurrent[0] = u128.From64(999)
	laterCurrent[1] = u128.From64(20)
	info.ResizeRewards(2, laterCurrent)

	require.Equal(t, 2, info.RewardsCount)
	require.Equal(t, 0, info.RewardsInsideSnapshot[0].Cmp(u128.From64(10)))
	require.Equal(t, 0, info.RewardsInsideSnapshot[1].Cmp(u128.From64(20)))
}
