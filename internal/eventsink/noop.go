// Package eventsink implements pool.EventSink: a Noop sink that only
// logs, adapted from the teacher's internal/notification.NoOpPublisher,
// and an SNS sink adapted from internal/notification.Publisher plus
// internal/platform/aws/sns.go.
package eventsink

import (
	"context"
	"reflect"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/logging"
	"github.com/luck-28/FullSail-CLMM-SC/pool"
)

// Noop logs every event instead of publishing it anywhere. Use this
// when no external event bus is configured (local development, tests).
type Noop struct {
	logger *logging.Logger
}

// NewNoop builds a Noop sink, logging through logger if non-nil.
func NewNoop(logger *logging.Logger) *Noop {
	return &Noop{logger: logger}
}

// Emit logs ev at Info and returns nil; it never fails.
func (n *Noop) Emit(ctx context.Context, ev pool.Event) error {
	if n.logger != nil {
		n.logger.Info("pool event (sink disabled)", "event_type", eventTypeName(ev), "event", ev)
	}
	return nil
}

// eventTypeName returns the unqualified Go type name of ev (e.g.
// "SwapEvent"), used since pool.Event's eventName method is
// intentionally unexported to seal the interface to pool's own types.
func eventTypeName(ev pool.Event) string {
	return reflect.TypeOf(ev).Name()
}

var _ pool.EventSink = (*Noop)(nil)
