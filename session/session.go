// Package session persists a render graph plus everything a
// command-line tool needs to keep editing it across invocations: the
// graph itself, an optional snapshot of its last built plan, a name
// table for referring to nodes by string instead of by id, and the
// allocator configuration new builds should reuse.
//
// Grounded directly on original_source/cli/src/main.rs's Session
// struct (graph, built_graph, names, allocator_options, default_size,
// next_id) and its load_graph/write_graph round trip. The on-disk
// format is a TOML document (github.com/BurntSushi/toml, the same
// library the teacher's sibling repo noisetorch uses for its own
// config file) standing in for the original's RON file; see toml.go
// for why the graph/plan payload itself stays JSON inside that
// document.
package session

import (
	"fmt"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/atlas"
	"github.com/nical/rendergraph/geom"
)

// Session is the mutable state a CLI invocation loads, edits, and
// rewrites.
type Session struct {
	Graph            *rendergraph.Graph
	BuiltGraph       *rendergraph.BuiltGraph
	Names            map[string]rendergraph.NodeID
	AllocatorOptions atlas.Options
	DefaultSize      geom.Size

	nextAutoName int
}

// New creates an empty session with the given default texture size and
// atlas options, mirroring the original's "init" subcommand.
func New(defaultSize geom.Size, options atlas.Options) *Session {
	return &Session{
		Graph:            rendergraph.NewGraph(),
		Names:            make(map[string]rendergraph.NodeID),
		AllocatorOptions: options,
		DefaultSize:      defaultSize,
	}
}

// AddNode resolves deps by name, adds the node to the graph, and
// records it under name. If name is empty, an auto-generated "#N" name
// is assigned instead, following the original's next_id counter.
func (s *Session) AddNode(name string, task rendergraph.TaskIdentity, target rendergraph.TargetKindTag, size geom.Size, alloc rendergraph.AllocKind, deps []string) (rendergraph.NodeID, string, error) {
	depIDs := make([]rendergraph.NodeID, 0, len(deps))
	for _, d := range deps {
		id, ok := s.Names[d]
		if !ok {
			return 0, "", fmt.Errorf("session: unknown dependency name %q", d)
		}
		depIDs = append(depIDs, id)
	}

	if name == "" {
		s.nextAutoName++
		name = fmt.Sprintf("#%d", s.nextAutoName)
	}

	id, err := s.Graph.AddNode(task, target, size, alloc, depIDs)
	if err != nil {
		return 0, "", err
	}
	s.Names[name] = id
	return id, name, nil
}

// AddRoot marks the node known as name as one of the graph's roots.
func (s *Session) AddRoot(name string) error {
	id, ok := s.Names[name]
	if !ok {
		return fmt.Errorf("session: unknown node name %q", name)
	}
	return s.Graph.AddRoot(id)
}
