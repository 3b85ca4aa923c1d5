// Package tracing wraps OpenTelemetry spans behind a small interface so
// pool operations can be traced without importing the otel SDK directly,
// adapted from the teacher's internal/platform/observability/tracer.go.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans as children of the span already in ctx, if any.
type Tracer interface {
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
}

// Span represents one traced unit of work, e.g. a single SwapInPool call.
type Span interface {
	End()
	SetAttributes(attrs ...attribute.KeyValue)
	SetAttribute(key string, value interface{})
	AddEvent(name string, attrs ...attribute.KeyValue)
	RecordError(err error)
	NoticeError(err error)
	IsRecording() bool
}

// SpanOption configures span creation.
type SpanOption func(*spanConfig)

type spanConfig struct {
	kind       trace.SpanKind
	attributes []attribute.KeyValue
}

// WithSpanKind sets the span kind (Client, Server, Producer, Consumer, Internal).
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) { c.kind = kind }
}

// WithAttributes adds attributes to the span at creation time.
func WithAttributes(attrs ...attribute.KeyValue) SpanOption {
	return func(c *spanConfig) { c.attributes = append(c.attributes, attrs...) }
}

type otelTracer struct {
	tracer trace.Tracer
}

// New creates a Tracer backed by the global OpenTelemetry tracer provider
// under the given instrumentation name (e.g. "pool").
func New(name string) Tracer {
	return &otelTracer{tracer: otel.Tracer(name)}
}

func (t *otelTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	cfg := &spanConfig{kind: trace.SpanKindInternal}
	for _, opt := range opts {
		opt(cfg)
	}
	otelOpts := []trace.SpanStartOption{trace.WithSpanKind(cfg.kind)}
	if len(cfg.attributes) > 0 {
		otelOpts = append(otelOpts, trace.WithAttributes(cfg.attributes...))
	}
	ctx, span := t.tracer.Start(ctx, name, otelOpts...)
	return ctx, &otelSpan{span: span}
}

func (t *otelTracer) SpanFromContext(ctx context.Context) Span {
	return &otelSpan{span: trace.SpanFromContext(ctx)}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() { s.span.End() }

func (s *otelSpan) SetAttributes(attrs ...attribute.KeyValue) { s.span.SetAttributes(attrs...) }

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case uint64:
		s.span.SetAttributes(attribute.Int64(key, int64(v)))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

func (s *otelSpan) AddEvent(name string, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		s.span.AddEvent(name, trace.WithAttributes(attrs...))
	} else {
		s.span.AddEvent(name)
	}
}

func (s *otelSpan) RecordError(err error) {
	if err != nil {
		s.span.RecordError(err)
	}
}

// NoticeError records err and marks the span status Error, the
// preferred way to surface a failed pool operation on its own span.
func (s *otelSpan) NoticeError(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
}

func (s *otelSpan) IsRecording() bool { return s.span.IsRecording() }

type noopTracer struct{}

// NewNoop returns a Tracer that never records, used when tracing is disabled.
func NewNoop() Tracer { return &noopTracer{} }

func (t *noopTracer) StartSpan(ctx context.Context, _ string, _ ...SpanOption) (context.Context, Span) {
	return ctx, &noopSpan{}
}

func (t *noopTracer) SpanFromContext(_ context.Context) Span { return &noopSpan{} }

type noopSpan struct{}

func (s *noopSpan) End()                                       {}
func (s *noopSpan) SetAttributes(_ ...attribute.KeyValue)      {}
func (s *noopSpan) SetAttribute(_ string, _ interface{})       {}
func (s *noopSpan) AddEvent(_ string, _ ...attribute.KeyValue) {}
func (s *noopSpan) RecordError(_ error)                        {}
func (s *noopSpan) NoticeError(_ error)                        {}
func (s *noopSpan) IsRecording() bool                           { return false }
