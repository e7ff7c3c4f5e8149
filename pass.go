package rendergraph

import "github.com/nical/rendergraph/texalloc"

// TaskRef names one task within a pass: its node id plus its task
// identity, as spec.md §3 describes a pass's task lists.
type TaskRef struct {
	Node NodeID
	Task TaskIdentity
}

// DynamicTarget is a pass's destination for dynamic allocations of one
// target kind. HasTexture is false until target assignment (4.G) picks
// a destination; pass assignment (4.F) only populates Tasks.
type DynamicTarget struct {
	Texture    texalloc.TextureID
	HasTexture bool
	Tasks      []TaskRef
}

// FixedTargetGroup collects the tasks of one pass that share a single
// caller-pinned destination texture.
type FixedTargetGroup struct {
	Texture texalloc.TextureID
	Tasks   []TaskRef
}

// Pass is one executable step of the built plan: per target kind, an
// (eventually assigned) dynamic destination plus its tasks, and a list
// of fixed-destination task groups.
type Pass struct {
	Dynamic [numTargetKinds]DynamicTarget
	Fixed   []FixedTargetGroup
}

func (p *Pass) fixedGroup(texture texalloc.TextureID) *FixedTargetGroup {
	for i := range p.Fixed {
		if p.Fixed[i].Texture == texture {
			return &p.Fixed[i]
		}
	}
	p.Fixed = append(p.Fixed, FixedTargetGroup{Texture: texture})
	return &p.Fixed[len(p.Fixed)-1]
}
