package graph

import (
	"fmt"
	"sort"

	"depstack.dev/depstack/internal/store"
)

// LiveState is the repository state the graph is combined with.
type LiveState struct {
	Branches []string
	Current  string
}

// Load reads the declarations from st and builds the graph. It fails only when the
// store cannot be read.
func Load(st store.Store, live LiveState) (*store.Declarations, *BranchGraph, error) {
	d, err := st.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load declarations: %w", err)
	}
	return d, Build(d, live), nil
}

// Build combines declarations with live branches. Every live or declared name gets a
// node; declarations naming missing branches are kept as non-live nodes. Topology
// problems become diagnostics, never errors.
func Build(d *store.Declarations, live LiveState) *BranchGraph {
	liveSet := make(map[string]bool, len(live.Branches))
	for _, b := range live.Branches {
		liveSet[b] = true
	}

	nameSet := make(map[string]bool, len(live.Branches))
	for _, b := range live.Branches {
		nameSet[b] = true
	}
	for _, r := range d.Roots {
		nameSet[r.Name] = true
	}
	for _, e := range d.Edges {
		nameSet[e.Parent] = true
		nameSet[e.Child] = true
	}

	names := make([]string, 0, len(nameSet))
	for n := range nameSet {
		names = append(names, n)
	}
	sort.Strings(names)

	g := &BranchGraph{
		nodes:    make([]Node, len(names)),
		index:    make(map[string]int, len(names)),
		children: make([][]int, len(names)),
		parents:  make([][]int, len(names)),
		current:  live.Current,
	}
	for i, name := range names {
		g.index[name] = i
		node := Node{
			Name:    name,
			Live:    liveSet[name],
			Current: name == live.Current,
		}
		if meta, ok := d.Branches[name]; ok {
			node.Issue = meta.Issue
			node.PR = meta.PR
			node.Created = meta.Created
		}
		g.nodes[i] = node
	}

	for _, r := range d.Roots {
		i := g.index[r.Name]
		if g.nodes[i].Root {
			continue
		}
		g.nodes[i].Root = true
		g.nodes[i].Default = r.Default
		g.roots = append(g.roots, i)
		if !g.nodes[i].Live {
			g.warnf(LevelInfo, r.Name, "root %s has no local branch", r.Name)
		}
	}

	seen := make(map[store.Edge]bool, len(d.Edges))
	for _, e := range d.Edges {
		if e.Parent == e.Child {
			g.warnf(LevelWarning, e.Child, "ignoring self-dependency of %s", e.Child)
			continue
		}
		if seen[e] {
			g.warnf(LevelWarning, e.Child, "ignoring duplicate dependency %s → %s", e.Parent, e.Child)
			continue
		}
		seen[e] = true

		p, c := g.index[e.Parent], g.index[e.Child]
		g.parents[c] = append(g.parents[c], p)
		g.children[p] = append(g.children[p], c)

		if g.nodes[c].Root {
			g.warnf(LevelWarning, e.Child, "root %s declares parent %s", e.Child, e.Parent)
		}
		for _, endpoint := range []string{e.Parent, e.Child} {
			if g.isUnknown(endpoint, d) {
				g.warnf(LevelWarning, endpoint, "dependency %s → %s references unknown branch %s", e.Parent, e.Child, endpoint)
			}
		}
	}

	// Node ids follow name order, so sorting ids sorts children by name.
	for i := range g.children {
		sort.Ints(g.children[i])
	}

	for _, n := range names {
		node := g.nodes[g.index[n]]
		if !node.Live && !node.Root && !g.isUnknown(n, d) {
			g.warnf(LevelInfo, n, "branch %s no longer exists locally", n)
		}
	}
	return g
}

// isUnknown reports a name that is neither live, nor a root, nor in the metadata.
func (g *BranchGraph) isUnknown(name string, d *store.Declarations) bool {
	node := g.nodes[g.index[name]]
	if node.Live || node.Root {
		return false
	}
	_, ok := d.Branches[name]
	return !ok
}

func (g *BranchGraph) warnf(level Level, branch, format string, args ...any) {
	g.diagnostics = append(g.diagnostics, Diagnostic{
		Level:   level,
		Branch:  branch,
		Message: fmt.Sprintf(format, args...),
	})
}
