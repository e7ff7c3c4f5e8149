package rendergraph

// assignPasses buckets every active node into a pass by reverse depth:
// the maximum, over all dependency chains, of its distance from the
// nearest reachable root. Depths propagate from dependents to
// dependencies; since dependencies always carry strictly smaller ids
// than their dependents, a single decreasing-id sweep finalizes each
// node's depth before it propagates to its own dependencies — no
// recursion needed (spec.md §9 flags this as the one place an explicit
// approach matters).
//
// Returns the pass list (empty when no node is active) and, for every
// node id, the pass index it landed in.
func assignPasses(g *Graph, active []bool) ([]Pass, []int) {
	n := g.Len()
	depth := make([]int, n)
	reached := make([]bool, n)

	for _, root := range g.Roots() {
		if active[root] {
			depth[root] = 0
			reached[root] = true
		}
	}

	maxDepth := 0
	anyActive := false
	for id := n - 1; id >= 0; id-- {
		nodeID := NodeID(id)
		if !active[nodeID] {
			continue
		}
		anyActive = true
		d := depth[id]
		if d > maxDepth {
			maxDepth = d
		}
		for _, dep := range g.Dependencies(nodeID) {
			candidate := d + 1
			if !reached[dep] || candidate > depth[dep] {
				depth[dep] = candidate
				reached[dep] = true
			}
		}
	}

	numPasses := maxDepth + 1
	if !anyActive {
		numPasses = 0
	}
	passes := make([]Pass, numPasses)
	passOf := make([]int, n)

	for id := 0; id < n; id++ {
		nodeID := NodeID(id)
		if !active[nodeID] {
			passOf[id] = -1
			continue
		}
		passIndex := maxDepth - depth[id]
		passOf[id] = passIndex

		node := g.Node(nodeID)
		ref := TaskRef{Node: nodeID, Task: node.Task}
		pass := &passes[passIndex]
		if node.Alloc.Dynamic {
			target := &pass.Dynamic[node.Target]
			target.Tasks = append(target.Tasks, ref)
		} else {
			group := pass.fixedGroup(node.Alloc.Texture)
			group.Tasks = append(group.Tasks, ref)
		}
	}

	return passes, passOf
}
