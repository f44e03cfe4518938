// Package store persists the declared branch dependency graph: edges, roots and
// per-branch metadata for one repository.
package store

import (
	"slices"
	"time"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// CurrentVersion is the document version written by Save.
const CurrentVersion = 1

// Edge is a declared parent -> child dependency.
type Edge struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

// Root marks a branch that needs no parent.
type Root struct {
	Name    string `yaml:"name"`
	Default bool   `yaml:"default,omitempty"`
}

// BranchMeta holds opaque external references for a branch.
type BranchMeta struct {
	Issue   string     `yaml:"issue,omitempty"`
	PR      int        `yaml:"pr,omitempty"`
	Created *time.Time `yaml:"created,omitempty"`

	// Extra keeps fields written by other tools or newer versions.
	Extra map[string]any `yaml:",inline"`
}

// IsZero reports whether the metadata carries nothing worth persisting.
func (m BranchMeta) IsZero() bool {
	return m.Issue == "" && m.PR == 0 && m.Created == nil && len(m.Extra) == 0
}

// Declarations is the persisted document. Mutators enforce the edge-level
// invariants that need no graph; cycle checks happen before mutation.
type Declarations struct {
	Version  int                   `yaml:"version"`
	Roots    []Root                `yaml:"roots"`
	Edges    []Edge                `yaml:"edges"`
	Branches map[string]BranchMeta `yaml:"branches,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// New returns an empty document.
func New() *Declarations {
	return &Declarations{
		Version:  CurrentVersion,
		Roots:    []Root{},
		Edges:    []Edge{},
		Branches: map[string]BranchMeta{},
	}
}

func (d *Declarations) normalize() {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	if d.Roots == nil {
		d.Roots = []Root{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	if d.Branches == nil {
		d.Branches = map[string]BranchMeta{}
	}
}

// HasEdge reports whether parent -> child is declared.
func (d *Declarations) HasEdge(parent, child string) bool {
	return slices.Contains(d.Edges, Edge{Parent: parent, Child: child})
}

// AddEdge appends parent -> child. It rejects self-edges, duplicates and edges into a root.
func (d *Declarations) AddEdge(parent, child string) error {
	if parent == child {
		return depstackerrors.ErrSelfEdge
	}
	if d.HasEdge(parent, child) {
		return depstackerrors.ErrDuplicateEdge
	}
	if d.IsRoot(child) {
		return depstackerrors.ErrRootHasParent
	}
	d.Edges = append(d.Edges, Edge{Parent: parent, Child: child})
	return nil
}

// RemoveEdge deletes parent -> child.
func (d *Declarations) RemoveEdge(parent, child string) error {
	i := slices.Index(d.Edges, Edge{Parent: parent, Child: child})
	if i < 0 {
		return depstackerrors.ErrEdgeNotFound
	}
	d.Edges = slices.Delete(d.Edges, i, i+1)
	return nil
}

// Parents returns the declared parents of child in declaration order.
func (d *Declarations) Parents(child string) []string {
	var parents []string
	for _, e := range d.Edges {
		if e.Child == child {
			parents = append(parents, e.Parent)
		}
	}
	return parents
}

// Children returns the declared children of parent in declaration order.
func (d *Declarations) Children(parent string) []string {
	var children []string
	for _, e := range d.Edges {
		if e.Parent == parent {
			children = append(children, e.Child)
		}
	}
	return children
}

// Reparent replaces the edge from -> child with to -> child, keeping its position so the
// primary parent stays primary. When to is already a parent the edge is dropped instead.
func (d *Declarations) Reparent(child, from, to string) error {
	i := slices.Index(d.Edges, Edge{Parent: from, Child: child})
	if i < 0 {
		return depstackerrors.ErrEdgeNotFound
	}
	if to == "" || d.HasEdge(to, child) {
		d.Edges = slices.Delete(d.Edges, i, i+1)
		return nil
	}
	if to == child {
		return depstackerrors.ErrSelfEdge
	}
	d.Edges[i].Parent = to
	return nil
}

// IsRoot reports whether name is a declared root.
func (d *Declarations) IsRoot(name string) bool {
	return slices.ContainsFunc(d.Roots, func(r Root) bool { return r.Name == name })
}

// RootNames returns the declared roots in declaration order.
func (d *Declarations) RootNames() []string {
	names := make([]string, 0, len(d.Roots))
	for _, r := range d.Roots {
		names = append(names, r.Name)
	}
	return names
}

// DefaultRoot returns the root flagged default, if any.
func (d *Declarations) DefaultRoot() (string, bool) {
	for _, r := range d.Roots {
		if r.Default {
			return r.Name, true
		}
	}
	return "", false
}

// AddRoot declares name as a root. A root cannot have declared parents.
// Adding an existing root only updates its default flag when makeDefault is set.
func (d *Declarations) AddRoot(name string, makeDefault bool) error {
	if len(d.Parents(name)) > 0 {
		return depstackerrors.ErrRootHasParent
	}
	if !d.IsRoot(name) {
		d.Roots = append(d.Roots, Root{Name: name})
	}
	if makeDefault {
		d.SetDefaultRoot(name)
	}
	return nil
}

// RemoveRoot removes a root declaration.
func (d *Declarations) RemoveRoot(name string) error {
	i := slices.IndexFunc(d.Roots, func(r Root) bool { return r.Name == name })
	if i < 0 {
		return depstackerrors.NewBranchNotFoundError(name)
	}
	d.Roots = slices.Delete(d.Roots, i, i+1)
	return nil
}

// SetDefaultRoot flags name as the only default root. Unknown names clear the flag.
func (d *Declarations) SetDefaultRoot(name string) {
	for i := range d.Roots {
		d.Roots[i].Default = d.Roots[i].Name == name
	}
}

// Meta returns the metadata recorded for a branch.
func (d *Declarations) Meta(name string) (BranchMeta, bool) {
	meta, ok := d.Branches[name]
	return meta, ok
}

// SetMeta records metadata for a branch; empty metadata removes the entry.
func (d *Declarations) SetMeta(name string, meta BranchMeta) {
	if d.Branches == nil {
		d.Branches = map[string]BranchMeta{}
	}
	if meta.IsZero() {
		delete(d.Branches, name)
		return
	}
	d.Branches[name] = meta
}

// Clone returns a deep copy of the document's declarations.
func (d *Declarations) Clone() *Declarations {
	c := &Declarations{
		Version:  d.Version,
		Roots:    slices.Clone(d.Roots),
		Edges:    slices.Clone(d.Edges),
		Branches: make(map[string]BranchMeta, len(d.Branches)),
		Extra:    cloneExtra(d.Extra),
	}
	for name, meta := range d.Branches {
		if meta.Created != nil {
			created := *meta.Created
			meta.Created = &created
		}
		meta.Extra = cloneExtra(meta.Extra)
		c.Branches[name] = meta
	}
	c.normalize()
	return c
}

func cloneExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	c := make(map[string]any, len(extra))
	for k, v := range extra {
		c[k] = v
	}
	return c
}
