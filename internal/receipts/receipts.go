// Package receipts implements the hot-potato discipline spec.md section
// 5 requires for FlashSwapReceipt and AddLiquidityReceipt: a value that
// must be consumed exactly once within the same call that issued it. Go
// has no linear types, so the guarantee is reconstructed with a
// per-call Registry that issues opaque tokens, panics on double-consume
// (a programmer error, not a recoverable one — the same class of bug
// the teacher's circuit_breaker.go guards against with beforeRequest/
// afterRequest bookkeeping), and refuses to Close while any issued
// token is still outstanding.
package receipts

import (
	"errors"
	"fmt"
)

// ErrNotConsumed is returned by Close when one or more tokens issued
// during the call were never consumed.
var ErrNotConsumed = errors.New("receipts: outstanding receipt not consumed")

// Kind distinguishes receipt types for error messages.
type Kind string

const (
	FlashSwap    Kind = "flash_swap"
	AddLiquidity Kind = "add_liquidity"
)

// Token is an opaque handle returned by Registry.Issue. It carries no
// exported fields so callers cannot fabricate one outside the registry
// that issued it.
type Token struct {
	id       uint64
	kind     Kind
	consumed bool
}

// Kind reports what operation this token guards.
func (t *Token) Kind() Kind { return t.kind }

// Registry tracks outstanding receipts issued during a single Pool
// entry point. One Registry is created per call and discarded at the
// end of it.
type Registry struct {
	nextID    uint64
	issued    map[uint64]*Token
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{issued: make(map[uint64]*Token)}
}

// Issue mints a new outstanding token of the given kind.
func (r *Registry) Issue(kind Kind) *Token {
	r.nextID++
	t := &Token{id: r.nextID, kind: kind}
	r.issued[t.id] = t
	return t
}

// Consume marks token as repaid. It panics if the token was already
// consumed or does not belong to this registry — mirroring the "host
// enforces non-droppable values" contract spec.md section 5 describes:
// a double-repay is a caller bug, not a recoverable runtime condition.
func (r *Registry) Consume(t *Token) {
	existing, ok := r.issued[t.id]
	if !ok || existing != t {
		panic(fmt.Sprintf("receipts: consume called on a token not owned by this registry (kind=%s)", t.kind))
	}
	if t.consumed {
		panic(fmt.Sprintf("receipts: double-consume of %s receipt", t.kind))
	}
	t.consumed = true
	delete(r.issued, t.id)
}

// Close asserts every issued token was consumed. Call this at the end
// of every entry point that may have issued a receipt.
func (r *Registry) Close() error {
	if len(r.issued) == 0 {
		return nil
	}
	for _, t := range r.issued {
		return fmt.Errorf("%w: kind=%s", ErrNotConsumed, t.kind)
	}
	return nil
}
