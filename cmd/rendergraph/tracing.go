package main

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// setupTracing wires a real TracerProvider exporting to endpoint over
// OTLP/HTTP and installs it as the global provider that buildTracer
// reads. It returns a shutdown func the caller must run before exiting
// to flush any buffered spans.
//
// Left unconfigured (no --trace-endpoint), setupTracing is never
// called, buildTracer returns nil and internal/telemetry falls back to
// a no-op tracer, matching spec.md §5's "tracing only observes"
// contract.
func setupTracing(endpoint string) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := otlptracehttp.NewClient(otlptracehttp.WithEndpoint(endpoint))
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}, nil
}

// buildTracer returns the tracer to pass through BuilderOptions.Tracer:
// the globally installed provider's tracer once --trace-endpoint has
// configured one, nil (no-op, per internal/telemetry) otherwise.
func buildTracer() trace.Tracer {
	if traceEndpoint == "" {
		return nil
	}
	return otel.Tracer("rendergraph")
}
