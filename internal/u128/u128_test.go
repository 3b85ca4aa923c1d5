package u128

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrappingAdd_WrapsAtTwoToThe128(t *testing.T) {
	max := WrappingSub(Zero, One) // 2^128 - 1
	got := WrappingAdd(max, One)
	require.True(t, got.IsZero())
}

func TestWrappingSub_WrapsBelowZero(t *testing.T) {
	got := WrappingSub(Zero, One)
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	require.Equal(t, want, got.Big())
}

func TestCheckedAdd_ReportsOverflow(t *testing.T) {
	max := WrappingSub(Zero, One)
	_, ok := CheckedAdd(max, One)
	require.False(t, ok)

	sum, ok := CheckedAdd(From64(1), From64(2))
	require.True(t, ok)
	require.Equal(t, From64(3), sum)
}

func TestCheckedSub_ReportsUnderflow(t *testing.T) {
	_, ok := CheckedSub(From64(1), From64(2))
	require.False(t, ok)

	diff, ok := CheckedSub(From64(5), From64(2))
	require.True(t, ok)
	require.Equal(t, From64(3), diff)
}

func TestMulDivFloor_RoundsDown(t *testing.T) {
	// 10 * 3 / 4 = 7.5 -> floor 7
	got := MulDivFloor(From64(10), From64(3), From64(4))
	require.Equal(t, From64(7), got)
}

func TestMulDivCeil_RoundsUp(t *testing.T) {
	// 10 * 3 / 4 = 7.5 -> ceil 8
	got := MulDivCeil(From64(10), From64(3), From64(4))
	require.Equal(t, From64(8), got)
}

func TestMulDivCeil_ExactDivisionDoesNotRoundUp(t *testing.T) {
	got := MulDivCeil(From64(10), From64(2), From64(5))
	require.Equal(t, From64(4), got)
}

func TestMinMax(t *testing.T) {
	a, b := From64(3), From64(7)
	require.Equal(t, a, Min(a, b))
	require.Equal(t, b, Max(a, b))
	require.Equal(t, a, Min(b, a))
	require.Equal(t, b, Max(b, a))
}

func TestToUint64Checked_FailsWhenHighWordSet(t *testing.T) {
	big128 := Q64 // 2^64, Hi=1
	_, ok := ToUint64Checked(big128)
	require.False(t, ok)

	v, ok := ToUint64Checked(From64(42))
	require.True(t, ok)
	require.Equal(t, uint64(42), v)
}

func TestFromBig_RoundTrips(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 100)
	got := FromBig(n)
	require.Equal(t, n, got.Big())
}
