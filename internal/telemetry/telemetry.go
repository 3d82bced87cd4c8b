// Package telemetry wraps the OpenTelemetry tracing API the way an
// in-process library should: it creates spans against whatever
// TracerProvider the host process has globally registered (or the
// no-op provider, if none). It never configures an exporter or SDK —
// wiring a collector is the embedding application's job, mirrored from
// mcptrust's internal/observability/otel package but trimmed to the
// tracer surface patternforge actually needs.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer creates spans around catalog compilation and per-file analysis
// when enabled, and is a complete no-op when not.
type Tracer struct {
	enabled bool
	tracer  trace.Tracer
}

// New builds a Tracer. When enabled is false, Start returns the input
// context unchanged and a no-op end function, at effectively zero cost.
func New(enabled bool, serviceName string) *Tracer {
	if !enabled {
		return &Tracer{enabled: false}
	}
	return &Tracer{enabled: true, tracer: otel.Tracer(serviceName)}
}

// Start begins a span named name, returning the derived context and a
// function that must be called to end it.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, func()) {
	if t == nil || !t.enabled {
		return ctx, func() {}
	}
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

// RecordError attaches err to the span active in ctx, if tracing is
// enabled and a span is present. Safe to call with a nil error (no-op).
func (t *Tracer) RecordError(ctx context.Context, err error) {
	if t == nil || !t.enabled || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
}
