package rendergraph

import (
	"fmt"

	"github.com/nical/rendergraph/texalloc"
)

// TargetStrategy selects how target assignment (4.G) maps passes to
// destination textures.
type TargetStrategy int

const (
	// Direct grows a pool of textures per target kind, reusing any
	// pooled texture not read by the pass being assigned.
	Direct TargetStrategy = iota
	// PingPong allocates exactly two textures per target kind up
	// front and alternates between them, inserting synthetic copy
	// tasks to break same-slot read/write hazards.
	PingPong
)

// assignTargets fills in each pass's dynamic destination texture,
// mutating passes in place and, for PingPong, appending synthetic copy
// nodes to g. It returns the (possibly grown) passOf mapping covering
// any inserted copy nodes.
func assignTargets(g *Graph, passes []Pass, passOf []int, strategy TargetStrategy, allocator texalloc.TextureAllocator) ([]int, error) {
	switch strategy {
	case Direct:
		assignDirectTargets(g, passes, passOf, allocator)
		return passOf, nil
	case PingPong:
		return assignPingPongTargets(g, passes, passOf, allocator)
	default:
		return nil, fmt.Errorf("rendergraph: unknown target strategy %d", strategy)
	}
}

// assignDirectTargets maintains one growing pool of texture ids per
// target kind. For each pass, in order, it picks any pooled texture
// not read by the pass's own dynamic tasks of that kind, falling back
// to a freshly allocated texture.
func assignDirectTargets(g *Graph, passes []Pass, passOf []int, allocator texalloc.TextureAllocator) {
	var pools [numTargetKinds][]texalloc.TextureID

	for i := range passes {
		pass := &passes[i]
		for k := 0; k < numTargetKinds; k++ {
			kind := TargetKindTag(k)
			target := &pass.Dynamic[kind]
			if len(target.Tasks) == 0 {
				continue
			}

			readSet := directReadSet(g, passes, passOf, target.Tasks, kind)

			chosen, ok := pickUnread(pools[kind], readSet)
			if !ok {
				chosen = allocator.AddTexture()
				pools[kind] = append(pools[kind], chosen)
			}
			target.Texture = chosen
			target.HasTexture = true
		}
	}
}

func directReadSet(g *Graph, passes []Pass, passOf []int, tasks []TaskRef, kind TargetKindTag) map[texalloc.TextureID]struct{} {
	readSet := make(map[texalloc.TextureID]struct{})
	for _, task := range tasks {
		for _, dep := range g.Dependencies(task.Node) {
			depNode := g.Node(dep)
			// Cross-kind aliasing is not guarded against here,
			// matching spec.md §9's open question: only the
			// dependency's own target kind is examined.
			if depNode.Target != kind {
				continue
			}
			if depNode.Alloc.Dynamic {
				depTarget := passes[passOf[dep]].Dynamic[kind]
				if depTarget.HasTexture {
					readSet[depTarget.Texture] = struct{}{}
				}
			} else {
				readSet[depNode.Alloc.Texture] = struct{}{}
			}
		}
	}
	return readSet
}

func pickUnread(pool []texalloc.TextureID, readSet map[texalloc.TextureID]struct{}) (texalloc.TextureID, bool) {
	for _, tex := range pool {
		if _, read := readSet[tex]; !read {
			return tex, true
		}
	}
	return 0, false
}

// assignPingPongTargets allocates two textures per target kind up
// front, alternates between them pass by pass, and resolves same-slot
// hazards by inserting synthetic copy tasks (spec.md §4.G, §9).
func assignPingPongTargets(g *Graph, passes []Pass, passOf []int, allocator texalloc.TextureAllocator) ([]int, error) {
	var slots [numTargetKinds][2]texalloc.TextureID
	for k := 0; k < numTargetKinds; k++ {
		slots[k][0] = allocator.AddTexture()
		slots[k][1] = allocator.AddTexture()
	}

	var counters [numTargetKinds]int
	assignPingPongDestination := func(passIdx int, kind TargetKindTag) {
		target := &passes[passIdx].Dynamic[kind]
		if target.HasTexture {
			return
		}
		target.Texture = slots[kind][counters[kind]%2]
		target.HasTexture = true
		counters[kind]++
	}

	for i := range passes {
		for k := 0; k < numTargetKinds; k++ {
			kind := TargetKindTag(k)
			if len(passes[i].Dynamic[kind].Tasks) > 0 {
				assignPingPongDestination(i, kind)
			}
		}
	}

	redirect := make(map[NodeID]NodeID)

	// Walk consumers in pass order. Every pass with tasks of a kind
	// already has that kind's destination; a copy inserted into a pass
	// with no tasks of its kind gives that pass the slot opposite the
	// consumer's, which also differs from the producer's.
	for passIdx := range passes {
		pass := &passes[passIdx]
		for k := 0; k < numTargetKinds; k++ {
			kind := TargetKindTag(k)
			tasks := pass.Dynamic[kind].Tasks
			for ti := range tasks {
				consumer := tasks[ti].Node
				deps := append([]NodeID(nil), g.Dependencies(consumer)...)
				for di, dep := range deps {
					depNode := g.Node(dep)
					if !depNode.Alloc.Dynamic || depNode.Target != kind {
						continue
					}

					if copyID, redirected := redirect[dep]; redirected {
						g.redirectDependency(consumer, dep, copyID)
						deps[di] = copyID
						continue
					}

					producerDest := passes[passOf[dep]].Dynamic[kind]
					consumerDest := pass.Dynamic[kind]
					if !producerDest.HasTexture || !consumerDest.HasTexture || producerDest.Texture != consumerDest.Texture {
						continue
					}

					copyPassIdx := passIdx - 1
					if copyPassIdx <= passOf[dep] {
						return nil, fmt.Errorf("rendergraph: ping-pong copy insertion landed at or before its producer's pass (producer pass %d, copy pass %d): %w", passOf[dep], copyPassIdx, ErrGraphValidation)
					}

					copyNode := Node{
						Task:   copyTask(),
						Target: kind,
						Size:   depNode.Size,
						Alloc:  DynamicAlloc(),
						Deps:   []NodeID{dep},
					}
					copyID := g.addNodeRaw(copyNode)
					passOf = append(passOf, copyPassIdx)
					redirect[dep] = copyID

					copyTarget := &passes[copyPassIdx].Dynamic[kind]
					if !copyTarget.HasTexture {
						other := slots[kind][0]
						if consumerDest.Texture == other {
							other = slots[kind][1]
						}
						copyTarget.Texture = other
						copyTarget.HasTexture = true
					}
					copyTarget.Tasks = append(copyTarget.Tasks, TaskRef{Node: copyID, Task: copyTask()})

					g.redirectDependency(consumer, dep, copyID)
					deps[di] = copyID
				}
			}
		}
	}

	return passOf, nil
}
