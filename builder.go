package rendergraph

import (
	"context"

	"github.com/nical/rendergraph/internal/telemetry"
	"github.com/nical/rendergraph/texalloc"
	"go.opentelemetry.io/otel/trace"
)

// BuilderOptions configures a Builder: which target assignment
// strategy to use and whether unreachable nodes are culled before
// scheduling (spec.md §6).
type BuilderOptions struct {
	Targets TargetStrategy
	Culling bool

	// Tracer, if non-nil, wraps each of the builder's four stages in
	// its own span. Left nil, Build has no tracing overhead.
	Tracer trace.Tracer
}

// Builder runs the fixed cull → passes → targets → rects pipeline
// against a cloned input graph and a caller-supplied TextureAllocator.
type Builder struct {
	options BuilderOptions
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(options BuilderOptions) *Builder {
	return &Builder{options: options}
}

// Build takes ownership of a clone of g, runs the pipeline, and
// returns the resulting BuiltGraph. The supplied allocator is
// borrowed mutably for the duration of the call; any textures it adds
// during the build belong to it and outlive the call (spec.md §5).
func (b *Builder) Build(ctx context.Context, g *Graph, allocator texalloc.TextureAllocator) (*BuiltGraph, error) {
	working := g.Clone()

	ctx, cullSpan := telemetry.Start(ctx, b.options.Tracer, "rendergraph.cull")
	active := cull(working, b.options.Culling)
	cullSpan.End()

	_, passesSpan := telemetry.Start(ctx, b.options.Tracer, "rendergraph.passes")
	passes, passOf := assignPasses(working, active)
	passesSpan.End()

	ctx, targetsSpan := telemetry.Start(ctx, b.options.Tracer, "rendergraph.targets")
	passOf, err := assignTargets(working, passes, passOf, b.options.Targets, allocator)
	targetsSpan.End()
	if err != nil {
		return nil, err
	}

	_, rectsSpan := telemetry.Start(ctx, b.options.Tracer, "rendergraph.rects")
	rects, hasRect, err := allocateRects(working, passes, allocator)
	rectsSpan.End()
	if err != nil {
		return nil, err
	}

	return &BuiltGraph{
		graph:   working,
		passes:  passes,
		passOf:  passOf,
		rects:   rects,
		hasRect: hasRect,
	}, nil
}
