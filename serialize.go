package rendergraph

import (
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
)

// nodeSnapshot is the plain-data mirror of Node used for JSON
// encoding: every field is exported and has no methods, so encoding/
// json's reflection-based codec round-trips it exactly (spec.md
// §4.K — declarative, round-trip preserving, not required to be
// byte-stable across versions).
type nodeSnapshot struct {
	TaskKind     TaskKindTag   `json:"task_kind"`
	RenderID     uint64        `json:"render_id,omitempty"`
	Target       TargetKindTag `json:"target"`
	Width        int32         `json:"width"`
	Height       int32         `json:"height"`
	Dynamic      bool          `json:"dynamic"`
	FixedTexture texalloc.TextureID `json:"fixed_texture,omitempty"`
	OriginX      int32         `json:"origin_x,omitempty"`
	OriginY      int32         `json:"origin_y,omitempty"`
	Deps         []NodeID      `json:"deps"`
}

// GraphSnapshot is the serializable form of a Graph.
type GraphSnapshot struct {
	Nodes []nodeSnapshot `json:"nodes"`
	Roots []NodeID       `json:"roots"`
}

// Snapshot converts g into its serializable form.
func (g *Graph) Snapshot() GraphSnapshot {
	snap := GraphSnapshot{
		Nodes: make([]nodeSnapshot, len(g.nodes)),
		Roots: append([]NodeID(nil), g.roots...),
	}
	for i, n := range g.nodes {
		snap.Nodes[i] = nodeToSnapshot(n)
	}
	return snap
}

func nodeToSnapshot(n Node) nodeSnapshot {
	return nodeSnapshot{
		TaskKind:     n.Task.Kind,
		RenderID:     n.Task.RenderID,
		Target:       n.Target,
		Width:        n.Size.Width,
		Height:       n.Size.Height,
		Dynamic:      n.Alloc.Dynamic,
		FixedTexture: n.Alloc.Texture,
		OriginX:      n.Alloc.Origin.X,
		OriginY:      n.Alloc.Origin.Y,
		Deps:         append([]NodeID(nil), n.Deps...),
	}
}

func nodeFromSnapshot(s nodeSnapshot) Node {
	alloc := AllocKind{Dynamic: s.Dynamic, Texture: s.FixedTexture, Origin: geom.Pt(s.OriginX, s.OriginY)}
	return Node{
		Task:   TaskIdentity{Kind: s.TaskKind, RenderID: s.RenderID},
		Target: s.Target,
		Size:   geom.Sz(s.Width, s.Height),
		Alloc:  alloc,
		Deps:   append([]NodeID(nil), s.Deps...),
	}
}

// GraphFromSnapshot rebuilds a Graph from its serializable form
// without re-running dependency validation: a decoded snapshot is
// trusted to have come from a previously valid Graph.
func GraphFromSnapshot(snap GraphSnapshot) *Graph {
	g := &Graph{
		nodes: make([]Node, len(snap.Nodes)),
		roots: append([]NodeID(nil), snap.Roots...),
	}
	for i, s := range snap.Nodes {
		g.nodes[i] = nodeFromSnapshot(s)
	}
	return g
}

// taskRefSnapshot mirrors TaskRef.
type taskRefSnapshot struct {
	Node     NodeID      `json:"node"`
	TaskKind TaskKindTag `json:"task_kind"`
	RenderID uint64      `json:"render_id,omitempty"`
}

func taskRefToSnapshot(r TaskRef) taskRefSnapshot {
	return taskRefSnapshot{Node: r.Node, TaskKind: r.Task.Kind, RenderID: r.Task.RenderID}
}

func taskRefFromSnapshot(s taskRefSnapshot) TaskRef {
	return TaskRef{Node: s.Node, Task: TaskIdentity{Kind: s.TaskKind, RenderID: s.RenderID}}
}

type dynamicTargetSnapshot struct {
	Texture    texalloc.TextureID `json:"texture"`
	HasTexture bool               `json:"has_texture"`
	Tasks      []taskRefSnapshot  `json:"tasks"`
}

type fixedTargetGroupSnapshot struct {
	Texture texalloc.TextureID `json:"texture"`
	Tasks   []taskRefSnapshot  `json:"tasks"`
}

type passSnapshot struct {
	Dynamic [numTargetKinds]dynamicTargetSnapshot `json:"dynamic"`
	Fixed   []fixedTargetGroupSnapshot            `json:"fixed"`
}

func passToSnapshot(p Pass) passSnapshot {
	var snap passSnapshot
	for k := 0; k < numTargetKinds; k++ {
		d := p.Dynamic[k]
		tasks := make([]taskRefSnapshot, len(d.Tasks))
		for i, t := range d.Tasks {
			tasks[i] = taskRefToSnapshot(t)
		}
		snap.Dynamic[k] = dynamicTargetSnapshot{Texture: d.Texture, HasTexture: d.HasTexture, Tasks: tasks}
	}
	snap.Fixed = make([]fixedTargetGroupSnapshot, len(p.Fixed))
	for i, group := range p.Fixed {
		tasks := make([]taskRefSnapshot, len(group.Tasks))
		for j, t := range group.Tasks {
			tasks[j] = taskRefToSnapshot(t)
		}
		snap.Fixed[i] = fixedTargetGroupSnapshot{Texture: group.Texture, Tasks: tasks}
	}
	return snap
}

func passFromSnapshot(s passSnapshot) Pass {
	var p Pass
	for k := 0; k < numTargetKinds; k++ {
		d := s.Dynamic[k]
		tasks := make([]TaskRef, len(d.Tasks))
		for i, t := range d.Tasks {
			tasks[i] = taskRefFromSnapshot(t)
		}
		p.Dynamic[k] = DynamicTarget{Texture: d.Texture, HasTexture: d.HasTexture, Tasks: tasks}
	}
	p.Fixed = make([]FixedTargetGroup, len(s.Fixed))
	for i, group := range s.Fixed {
		tasks := make([]TaskRef, len(group.Tasks))
		for j, t := range group.Tasks {
			tasks[j] = taskRefFromSnapshot(t)
		}
		p.Fixed[i] = FixedTargetGroup{Texture: group.Texture, Tasks: tasks}
	}
	return p
}

// rectSnapshot mirrors one node's allocated rectangle, if it has one.
type rectSnapshot struct {
	Node   NodeID `json:"node"`
	MinX   int32  `json:"min_x"`
	MinY   int32  `json:"min_y"`
	MaxX   int32  `json:"max_x"`
	MaxY   int32  `json:"max_y"`
}

// BuiltGraphSnapshot is the serializable form of a BuiltGraph.
type BuiltGraphSnapshot struct {
	Graph  GraphSnapshot  `json:"graph"`
	Passes []passSnapshot `json:"passes"`
	Rects  []rectSnapshot `json:"rects"`
}

// Snapshot converts bg into its serializable form.
func (bg *BuiltGraph) Snapshot() BuiltGraphSnapshot {
	snap := BuiltGraphSnapshot{
		Graph:  bg.graph.Snapshot(),
		Passes: make([]passSnapshot, len(bg.passes)),
	}
	for i, p := range bg.passes {
		snap.Passes[i] = passToSnapshot(p)
	}
	for id := 0; id < len(bg.hasRect); id++ {
		if !bg.hasRect[id] {
			continue
		}
		r := bg.rects[id]
		snap.Rects = append(snap.Rects, rectSnapshot{
			Node: NodeID(id), MinX: r.Min.X, MinY: r.Min.Y, MaxX: r.Max.X, MaxY: r.Max.Y,
		})
	}
	return snap
}

// BuiltGraphFromSnapshot rebuilds a BuiltGraph from its serializable
// form. The pass-membership index (BuiltGraph.Pass) is reconstructed
// from the pass list itself.
func BuiltGraphFromSnapshot(snap BuiltGraphSnapshot) *BuiltGraph {
	g := GraphFromSnapshot(snap.Graph)
	passes := make([]Pass, len(snap.Passes))
	passOf := make([]int, g.Len())
	for i := range passOf {
		passOf[i] = -1
	}
	for i, ps := range snap.Passes {
		p := passFromSnapshot(ps)
		passes[i] = p
		forEachTask(&p, func(ref TaskRef) {
			passOf[ref.Node] = i
		})
	}

	rects := make([]geom.Rectangle, g.Len())
	hasRect := make([]bool, g.Len())
	for _, rs := range snap.Rects {
		rects[rs.Node] = geom.Rectangle{Min: geom.Pt(rs.MinX, rs.MinY), Max: geom.Pt(rs.MaxX, rs.MaxY)}
		hasRect[rs.Node] = true
	}

	return &BuiltGraph{graph: g, passes: passes, passOf: passOf, rects: rects, hasRect: hasRect}
}
