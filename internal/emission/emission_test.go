package emission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

func TestDescriptor_SyncRejectsPastPeriodFinish(t *testing.T) {
	d := NewDescriptor(1000)
	_, err := d.Sync(1000, u128.From64(1), 100, 999)
	require.ErrorIs(t, err, ErrSyncTimeInPast)
}

func TestDescriptor_RolloverWhenUnstaked(t *testing.T) {
	d := NewDescriptor(1000)
	rate := u128.Q64.Mul(u128.From64(5))
	_, err := d.Sync(1000, rate, 10_000, 2000)
	require.NoError(t, err)

	distributed := d.UpdateGrowthGlobal(1100)
	require.Equal(t, uint64(500), distributed)
	require.Equal(t, uint64(500), d.Rollover)
	require.True(t, d.GrowthGlobal.IsZero())
	require.Equal(t, uint64(9_500), d.Reserve)
}

func TestDescriptor_GrowthGlobalAccruesWhenStaked(t *testing.T) {
	d := NewDescriptor(1000)
	rate := u128.Q64.Mul(u128.From64(5))
	_, err := d.Sync(1000, rate, 10_000, 2000)
	require.NoError(t, err)

	d.SetStakedLiquidity(u128.From64(1_000))
	distributed := d.UpdateGrowthGlobal(1100)

	require.Equal(t, uint64(500), distributed)
	require.Zero(t, d.Rollover)
	require.False(t, d.GrowthGlobal.IsZero())
}

func TestDescriptor_DistributionCapsAtReserve(t *testing.T) {
	d := NewDescriptor(1000)
	rate := u128.Q64.Mul(u128.From64(100))
	_, err := d.Sync(1000, rate, 50, 2000)
	require.NoError(t, err)

	distributed := d.UpdateGrowthGlobal(1100)
	require.Equal(t, uint64(50), distributed)
	require.Zero(t, d.Reserve)
}

func TestDescriptor_NoopWhenTimeDoesNotAdvance(t *testing.T) {
	d := NewDescriptor(1000)
	rate := u128.Q64.Mul(u128.From64(5))
	_, err := d.Sync(1000, rate, 10_000, 2000)
	require.NoError(t, err)

	distributed := d.UpdateGrowthGlobal(1000)
	require.Zero(t, distributed)
	require.Equal(t, uint64(10_000), d.Reserve)
}

func TestDescriptor_Clone(t *testing.T) {
	d := NewDescriptor(1000)
	d.Reserve = 42
	cp := d.Clone()
	cp.Reserve = 99

	require.Equal(t, uint64(42), d.Reserve)
	require.Equal(t, uint64(99), cp.Reserve)
}
