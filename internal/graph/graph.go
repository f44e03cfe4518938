// Package graph builds and analyzes the declared branch dependency graph.
//
// Nodes live in a flat arena indexed by name; edges are index lists. The graph is
// immutable once built: every mutation goes through the declarations and produces a
// fresh graph.
package graph

import (
	"sort"
	"time"

	"depstack.dev/depstack/internal/store"
)

// Node is one branch in the graph.
type Node struct {
	Name string
	// Live is true when a local branch reference exists.
	Live bool
	// Current is true for the checked-out branch.
	Current bool
	Root    bool
	Default bool
	Issue   string
	PR      int
	Created *time.Time
}

// Level is the severity of a diagnostic.
type Level int

const (
	LevelWarning Level = iota
	LevelInfo
)

// Diagnostic reports a state inconsistency found while building the graph.
type Diagnostic struct {
	Level   Level
	Branch  string
	Message string
}

// BranchGraph is the declared dependency graph combined with live repository state.
type BranchGraph struct {
	nodes    []Node
	index    map[string]int
	children [][]int
	parents  [][]int
	roots    []int
	current  string

	diagnostics []Diagnostic
}

func (g *BranchGraph) lookup(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

func (g *BranchGraph) names(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id].Name
	}
	return out
}

// Has reports whether name is a node.
func (g *BranchGraph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Node returns the node for name.
func (g *BranchGraph) Node(name string) (Node, bool) {
	i, ok := g.lookup(name)
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns every node sorted by name.
func (g *BranchGraph) Nodes() []Node {
	out := append([]Node{}, g.nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Children returns the declared children of name sorted by name.
func (g *BranchGraph) Children(name string) []string {
	i, ok := g.lookup(name)
	if !ok {
		return nil
	}
	return g.names(g.children[i])
}

// Parents returns the declared parents of name in declaration order.
func (g *BranchGraph) Parents(name string) []string {
	i, ok := g.lookup(name)
	if !ok {
		return nil
	}
	return g.names(g.parents[i])
}

// PrimaryParent returns the first declared parent of name.
func (g *BranchGraph) PrimaryParent(name string) (string, bool) {
	i, ok := g.lookup(name)
	if !ok || len(g.parents[i]) == 0 {
		return "", false
	}
	return g.nodes[g.parents[i][0]].Name, true
}

// Roots returns the declared roots in declaration order.
func (g *BranchGraph) Roots() []string {
	return g.names(g.roots)
}

// DefaultRoot returns the root flagged default.
func (g *BranchGraph) DefaultRoot() (string, bool) {
	for _, r := range g.roots {
		if g.nodes[r].Default {
			return g.nodes[r].Name, true
		}
	}
	return "", false
}

// IsRoot reports whether name is a declared root.
func (g *BranchGraph) IsRoot(name string) bool {
	n, ok := g.Node(name)
	return ok && n.Root
}

// IsLive reports whether name has a live branch reference.
func (g *BranchGraph) IsLive(name string) bool {
	n, ok := g.Node(name)
	return ok && n.Live
}

// Current returns the checked-out branch name, which may be empty.
func (g *BranchGraph) Current() string {
	return g.current
}

// Diagnostics returns the warnings produced while building the graph.
func (g *BranchGraph) Diagnostics() []Diagnostic {
	return append([]Diagnostic{}, g.diagnostics...)
}

// Descendants returns every branch reachable from name through children, sorted by name.
func (g *BranchGraph) Descendants(name string) []string {
	start, ok := g.lookup(name)
	if !ok {
		return nil
	}
	seen := make([]bool, len(g.nodes))
	stack := append([]int{}, g.children[start]...)
	var out []string
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] || n == start {
			continue
		}
		seen[n] = true
		out = append(out, g.nodes[n].Name)
		stack = append(stack, g.children[n]...)
	}
	sort.Strings(out)
	return out
}

// Ancestors returns every branch reachable from name through parents, sorted by name.
func (g *BranchGraph) Ancestors(name string) []string {
	start, ok := g.lookup(name)
	if !ok {
		return nil
	}
	return g.names(g.ancestorSet(start))
}

func (g *BranchGraph) ancestorSet(start int) []int {
	seen := make([]bool, len(g.nodes))
	stack := append([]int{}, g.parents[start]...)
	var out []int
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] || n == start {
			continue
		}
		seen[n] = true
		out = append(out, n)
		stack = append(stack, g.parents[n]...)
	}
	sort.Slice(out, func(i, j int) bool { return g.nodes[out[i]].Name < g.nodes[out[j]].Name })
	return out
}

// Edges returns every declared edge present in the graph.
func (g *BranchGraph) Edges() []store.Edge {
	var edges []store.Edge
	for child, parents := range g.parents {
		for _, p := range parents {
			edges = append(edges, store.Edge{Parent: g.nodes[p].Name, Child: g.nodes[child].Name})
		}
	}
	return edges
}
