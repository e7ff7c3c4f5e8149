package session

import (
	"context"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/texalloc"
)

// Build runs the fixed builder pipeline against the session's graph
// using a fresh GuillotineAllocator sized and configured from the
// session's own AllocatorOptions/DefaultSize, and records the result
// as the session's built graph.
//
// Following original_source/cli/src/main.rs's build(), a fresh
// allocator is created on every call rather than reusing one across
// builds: allocator state (which free rectangles exist, which
// textures have grown) is a build-time artifact, not something a
// session needs to carry between edits.
func (s *Session) Build(ctx context.Context, options rendergraph.BuilderOptions) (*rendergraph.BuiltGraph, texalloc.TextureAllocator, error) {
	allocator := texalloc.NewGuillotineAllocator(s.DefaultSize, s.AllocatorOptions)
	builder := rendergraph.NewBuilder(options)
	built, err := builder.Build(ctx, s.Graph, allocator)
	if err != nil {
		return nil, nil, err
	}
	s.BuiltGraph = built
	return built, allocator, nil
}
