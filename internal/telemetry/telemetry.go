// Package telemetry wraps the handful of OpenTelemetry span calls the
// builder makes around its four stages. With no tracer configured,
// Start returns a no-op span so the hot path pays nothing extra,
// matching spec.md §5's synchronous, nothing-suspends contract —
// tracing only observes, never changes, control flow.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

var noopTracer = trace.NewNoopTracerProvider().Tracer("")

// Start begins a span named name under tracer. If tracer is nil, it
// uses a no-op tracer whose spans carry no recording overhead.
func Start(ctx context.Context, tracer trace.Tracer, name string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noopTracer
	}
	return tracer.Start(ctx, name)
}
