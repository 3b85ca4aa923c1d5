package receipts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_IssueConsumeClose(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Close())

	tok := r.Issue(FlashSwap)
	require.Equal(t, FlashSwap, tok.Kind())
	require.ErrorIs(t, r.Close(), ErrNotConsumed)

	r.Consume(tok)
	require.NoError(t, r.Close())
}

func TestRegistry_DoubleConsumePanics(t *testing.T) {
	r := NewRegistry()
	tok := r.Issue(AddLiquidity)
	r.Consume(tok)

	require.Panics(t, func() { r.Consume(tok) })
}

func TestRegistry_ConsumeForeignTokenPanics(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()

	tok := r1.Issue(FlashSwap)
	require.Panics(t, func() { r2.Consume(tok) })
}

func TestRegistry_MultipleOutstandingTokens(t *testing.T) {
	r := NewRegistry()
	t1 := r.Issue(FlashSwap)
	t2 := r.Issue(AddLiquidity)

	require.Error(t, r.Close())
	r.Consume(t1)
	require.Error(t, r.Close())
	r.Consume(t2)
	require.NoError(t, r.Close())
}

func TestRegistry_CloseErrorWrapsErrNotConsumed(t *testing.T) {
	r := NewRegistry()
	r.Issue(FlashSwap)

	err := r.Close()
	require.True(t, errors.Is(err, ErrNotConsumed))
}
