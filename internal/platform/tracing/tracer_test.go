package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestNewNoop_SpanIsNonRecordingAndPanicFree(t *testing.T) {
	tr := NewNoop()
	ctx, span := tr.StartSpan(context.Background(), "op")
	require.Equal(t, context.Background(), ctx)
	require.False(t, span.IsRecording())

	require.NotPanics(t, func() {
		span.SetAttributes(attribute.String("k", "v"))
		span.SetAttribute("k2", 1)
		span.AddEvent("something happened")
		span.RecordError(errors.New("boom"))
		span.NoticeError(errors.New("boom"))
		span.End()
	})
}

func TestNewNoop_SpanFromContextIsAlsoNonRecording(t *testing.T) {
	tr := NewNoop()
	span := tr.SpanFromContext(context.Background())
	require.False(t, span.IsRecording())
}

func TestNew_WithoutConfiguredProviderStartsNonRecordingSpan(t *testing.T) {
	tr := New("pooltest")
	ctx, span := tr.StartSpan(context.Background(), "swap", WithSpanKind(trace.SpanKindInternal), WithAttributes(attribute.Int("steps", 3)))
	require.NotNil(t, ctx)
	// the global TracerProvider defaults to a no-op implementation unless
	// an SDK provider has been registered, so this span never records.
	require.False(t, span.IsRecording())
}

func TestOtelSpan_SetAttributeCoversEveryScalarKind(t *testing.T) {
	tr := New("pooltest")
	_, span := tr.StartSpan(context.Background(), "op")

	require.NotPanics(t, func() {
		span.SetAttribute("s", "str")
		span.SetAttribute("i", 1)
		span.SetAttribute("i64", int64(2))
		span.SetAttribute("u64", uint64(3))
		span.SetAttribute("f", 1.5)
		span.SetAttribute("b", true)
		span.SetAttribute("other", struct{ X int }{X: 1})
		span.End()
	})
}

func TestOtelSpan_RecordErrorIgnoresNil(t *testing.T) {
	tr := New("pooltest")
	_, span := tr.StartSpan(context.Background(), "op")

	require.NotPanics(t, func() {
		span.RecordError(nil)
		span.NoticeError(nil)
	})
}
