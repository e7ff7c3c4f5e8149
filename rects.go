package rendergraph

import (
	"fmt"

	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
)

// rectRange is the half-open slice of a shared last-use list
// contributed by one pass.
type rectRange struct {
	start, end int
}

// allocateRects drives the two-phase lifetime analysis of spec.md
// §4.H: a reverse walk over passes discovers each node's last-read
// pass, then a forward walk allocates each task's rectangle and frees
// anything read for the last time in that same pass.
func allocateRects(g *Graph, passes []Pass, allocator texalloc.TextureAllocator) ([]geom.Rectangle, []bool, error) {
	n := g.Len()
	visited := make([]bool, n)
	for _, root := range g.Roots() {
		visited[root] = true
	}

	var lastRefs []NodeID
	ranges := make([]rectRange, len(passes))

	for passIdx := len(passes) - 1; passIdx >= 0; passIdx-- {
		start := len(lastRefs)
		forEachTask(&passes[passIdx], func(ref TaskRef) {
			for _, dep := range g.Dependencies(ref.Node) {
				if !visited[dep] {
					visited[dep] = true
					lastRefs = append(lastRefs, dep)
				}
			}
		})
		ranges[passIdx] = rectRange{start: start, end: len(lastRefs)}
	}

	rects := make([]geom.Rectangle, n)
	hasRect := make([]bool, n)
	allocIDs := make(map[NodeID]texalloc.AllocID)

	for passIdx := range passes {
		pass := &passes[passIdx]
		var taskErr error
		forEachTask(pass, func(ref TaskRef) {
			if taskErr != nil {
				return
			}
			node := g.Node(ref.Node)
			if node.Alloc.Dynamic {
				target := pass.Dynamic[node.Target]
				rect, allocID, ok := allocator.Allocate(target.Texture, node.Size)
				if !ok {
					taskErr = fmt.Errorf("rendergraph: texture allocator exhausted for node %d: %w", ref.Node, ErrCapacityExhausted)
					return
				}
				rects[ref.Node] = rect
				hasRect[ref.Node] = true
				allocIDs[ref.Node] = allocID
			} else {
				rect := geom.RectFromOriginAndSize(node.Alloc.Origin, node.Size)
				if sizer, ok := allocator.(texalloc.TextureSizer); ok {
					if texSize, known := sizer.TextureSize(node.Alloc.Texture); known {
						if !rect.Size().FitsInside(texSize) || node.Alloc.Origin.X < 0 || node.Alloc.Origin.Y < 0 ||
							rect.MaxX() > texSize.Width || rect.MaxY() > texSize.Height {
							taskErr = fmt.Errorf("rendergraph: fixed allocation for node %d does not fit texture %d: %w", ref.Node, node.Alloc.Texture, ErrCapacityExhausted)
							return
						}
					}
				}
				rects[ref.Node] = rect
				hasRect[ref.Node] = true
			}
		})
		if taskErr != nil {
			return nil, nil, taskErr
		}

		r := ranges[passIdx]
		for _, freed := range lastRefs[r.start:r.end] {
			if allocID, ok := allocIDs[freed]; ok {
				allocator.Deallocate(allocID)
				delete(allocIDs, freed)
			}
		}
	}

	return rects, hasRect, nil
}

// forEachTask visits every task of a pass: its dynamic targets in
// kind order, then its fixed target groups in the order they were
// created.
func forEachTask(pass *Pass, fn func(TaskRef)) {
	for k := 0; k < numTargetKinds; k++ {
		for _, ref := range pass.Dynamic[k].Tasks {
			fn(ref)
		}
	}
	for _, group := range pass.Fixed {
		for _, ref := range group.Tasks {
			fn(ref)
		}
	}
}
