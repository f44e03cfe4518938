package graph

import (
	"sort"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// TopoOrder returns start and its descendants up to maxDepth edges away (0 means no
// limit) so that every branch follows all of its ancestors in the traversal. Branches
// that become ready together are emitted in name order.
func (g *BranchGraph) TopoOrder(start string, maxDepth int) ([]string, error) {
	s, ok := g.lookup(start)
	if !ok {
		return nil, depstackerrors.NewBranchNotFoundError(start)
	}

	// Breadth-first depth limit over the children index.
	depth := map[int]int{s: 0}
	queue := []int{s}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if maxDepth > 0 && depth[n] >= maxDepth {
			continue
		}
		for _, c := range g.children[n] {
			if _, seen := depth[c]; !seen {
				depth[c] = depth[n] + 1
				queue = append(queue, c)
			}
		}
	}

	// Kahn's algorithm over the induced subgraph, one layer at a time.
	inDegree := make(map[int]int, len(depth))
	for n := range depth {
		for _, p := range g.parents[n] {
			if _, in := depth[p]; in {
				inDegree[n]++
			}
		}
	}

	var layer []int
	for n := range depth {
		if inDegree[n] == 0 {
			layer = append(layer, n)
		}
	}

	order := make([]string, 0, len(depth))
	for len(layer) > 0 {
		sort.Slice(layer, func(i, j int) bool { return g.nodes[layer[i]].Name < g.nodes[layer[j]].Name })
		var next []int
		for _, n := range layer {
			order = append(order, g.nodes[n].Name)
			for _, c := range g.children[n] {
				if _, in := depth[c]; !in {
					continue
				}
				inDegree[c]--
				if inDegree[c] == 0 {
					next = append(next, c)
				}
			}
		}
		layer = next
	}

	if len(order) != len(depth) {
		path, _ := g.HasCycle()
		return nil, depstackerrors.NewCycleError(start, start, path)
	}
	return order, nil
}
