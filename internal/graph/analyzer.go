package graph

import (
	"slices"
	"sort"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// CheckEdge validates a proposed parent -> child edge against the current graph.
// It runs before the declarations are touched.
func (g *BranchGraph) CheckEdge(parent, child string) error {
	if parent == child {
		return depstackerrors.ErrSelfEdge
	}
	if g.IsRoot(child) {
		return depstackerrors.ErrRootHasParent
	}
	if slices.Contains(g.Parents(child), parent) {
		return depstackerrors.ErrDuplicateEdge
	}
	if path, ok := g.PathBetween(child, parent); ok {
		return depstackerrors.NewCycleError(parent, child, append(path, child))
	}
	return nil
}

// PathBetween searches the children index from "from" for "to" and returns the path,
// both ends included. Neighbors are visited in name order so the reported path is stable.
func (g *BranchGraph) PathBetween(from, to string) ([]string, bool) {
	start, ok := g.lookup(from)
	if !ok {
		return nil, false
	}
	target, ok := g.lookup(to)
	if !ok {
		return nil, false
	}

	prev := make([]int, len(g.nodes))
	for i := range prev {
		prev[i] = -1
	}
	visited := make([]bool, len(g.nodes))
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == target {
			var path []string
			for at := n; at != -1; at = prev[at] {
				path = append(path, g.nodes[at].Name)
			}
			slices.Reverse(path)
			return path, true
		}
		for _, c := range g.children[n] {
			if !visited[c] {
				visited[c] = true
				prev[c] = n
				queue = append(queue, c)
			}
		}
	}
	return nil, false
}

// HasCycle reports whether any declared edge closes a cycle, returning one cycle path.
// Well-formed declarations never contain one; hand-edited files might.
func (g *BranchGraph) HasCycle() ([]string, bool) {
	for child, parents := range g.parents {
		for _, p := range parents {
			if path, ok := g.PathBetween(g.nodes[child].Name, g.nodes[p].Name); ok {
				return append(path, g.nodes[child].Name), true
			}
		}
	}
	return nil, false
}

// attached marks every node reachable from a root through declared edges.
func (g *BranchGraph) attached() []bool {
	marked := make([]bool, len(g.nodes))
	queue := append([]int{}, g.roots...)
	for _, r := range g.roots {
		marked[r] = true
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range g.children[n] {
			if !marked[c] {
				marked[c] = true
				queue = append(queue, c)
			}
		}
	}
	return marked
}

// Orphans returns live branches with no declared path to any root, sorted by name.
func (g *BranchGraph) Orphans() []string {
	marked := g.attached()
	var out []string
	for i, n := range g.nodes {
		if n.Live && !n.Root && !marked[i] {
			out = append(out, n.Name)
		}
	}
	return out
}

// IsOrphan reports whether name is an orphan.
func (g *BranchGraph) IsOrphan(name string) bool {
	return slices.Contains(g.Orphans(), name)
}

// IsAttached reports whether name is a root or has a declared path to one.
func (g *BranchGraph) IsAttached(name string) bool {
	i, ok := g.lookup(name)
	return ok && g.attached()[i]
}

// Diamond describes a branch with more than one declared parent.
type Diamond struct {
	Branch  string
	Parents []string
	// CommonAncestors are the branches that reach Branch through more than one parent.
	CommonAncestors []string
}

// Diamonds returns every branch with two or more declared parents, sorted by name.
func (g *BranchGraph) Diamonds() []Diamond {
	var out []Diamond
	for i, n := range g.nodes {
		if len(g.parents[i]) < 2 {
			continue
		}
		out = append(out, Diamond{
			Branch:          n.Name,
			Parents:         g.names(g.parents[i]),
			CommonAncestors: g.commonAncestors(g.parents[i]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}

// IsDiamond reports whether name has two or more declared parents.
func (g *BranchGraph) IsDiamond(name string) bool {
	i, ok := g.lookup(name)
	return ok && len(g.parents[i]) >= 2
}

// commonAncestors returns nodes that are (or are ancestors of) at least two of parents.
func (g *BranchGraph) commonAncestors(parents []int) []string {
	counts := make(map[int]int)
	for _, p := range parents {
		reach := append(g.ancestorSet(p), p)
		for _, a := range reach {
			counts[a]++
		}
	}
	var out []string
	for id, count := range counts {
		if count >= 2 {
			out = append(out, g.nodes[id].Name)
		}
	}
	sort.Strings(out)
	return out
}

// ResolveRoot picks the root for rendering and operations: the override when given,
// then the default root, then the first declared root, then the current branch.
func (g *BranchGraph) ResolveRoot(override string) (string, error) {
	if override != "" {
		if !g.Has(override) {
			return "", depstackerrors.NewBranchNotFoundError(override)
		}
		return override, nil
	}
	if name, ok := g.DefaultRoot(); ok {
		return name, nil
	}
	if len(g.roots) > 0 {
		return g.nodes[g.roots[0]].Name, nil
	}
	if g.current != "" {
		return g.current, nil
	}
	return "", depstackerrors.ErrNoRoot
}

// TopologyRoot walks primary parents from name to the first branch without a parent.
func (g *BranchGraph) TopologyRoot(name string) (string, error) {
	i, ok := g.lookup(name)
	if !ok {
		return "", depstackerrors.NewBranchNotFoundError(name)
	}
	seen := map[int]bool{i: true}
	for len(g.parents[i]) > 0 {
		i = g.parents[i][0]
		if seen[i] {
			path, _ := g.HasCycle()
			return "", depstackerrors.NewCycleError(g.nodes[i].Name, name, path)
		}
		seen[i] = true
	}
	return g.nodes[i].Name, nil
}
