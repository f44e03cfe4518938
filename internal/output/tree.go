// Package output renders the branch dependency graph for terminals and tools.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/tui"
)

// Symbols used in tree output
const (
	BranchSymbol        = "◯"
	CurrentBranchSymbol = "◉"
	SeeAbove            = "(see above)"
)

// TreeOptions configures rendering behavior
type TreeOptions struct {
	// Root limits rendering to one root's subtree. Empty renders every root.
	Root string
	// Now anchors relative ages; zero means time.Now.
	Now time.Time
	// Ages holds tip commit times, used for branches without a recorded creation time.
	Ages map[string]time.Time
	// Annotations are appended after the branch name, e.g. PR state.
	Annotations map[string]string
	// Plain disables all styling.
	Plain       bool
	Diagnostics bool
}

// TreeRenderer renders a BranchGraph as an indented tree. Diamond children are
// rendered in full under their first parent and referenced afterwards.
type TreeRenderer struct {
	g     *graph.BranchGraph
	opts  TreeOptions
	seen  map[string]bool
	lines []string
}

// NewTreeRenderer creates a new tree renderer
func NewTreeRenderer(g *graph.BranchGraph, opts TreeOptions) *TreeRenderer {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &TreeRenderer{g: g, opts: opts}
}

// RenderTree renders g and joins the lines.
func RenderTree(g *graph.BranchGraph, opts TreeOptions) string {
	return strings.Join(NewTreeRenderer(g, opts).Render(), "\n")
}

// Render returns the tree lines: roots first, then orphans, then diagnostics.
func (r *TreeRenderer) Render() []string {
	r.seen = make(map[string]bool)
	r.lines = nil

	for _, root := range r.roots() {
		r.renderNode(root, "", "", 0)
	}

	if r.opts.Root == "" {
		r.renderOrphans()
	}

	if r.opts.Diagnostics {
		if diags := r.g.Diagnostics(); len(diags) > 0 {
			r.lines = append(r.lines, "", r.bold("Diagnostics:"))
			for _, d := range diags {
				r.lines = append(r.lines, "  "+r.diagnostic(d))
			}
		}
	}
	return r.lines
}

func (r *TreeRenderer) roots() []string {
	if r.opts.Root != "" {
		return []string{r.opts.Root}
	}
	if roots := r.g.Roots(); len(roots) > 0 {
		return roots
	}
	if root, err := r.g.ResolveRoot(""); err == nil {
		return []string{root}
	}
	return nil
}

// renderOrphans renders every unattached subtree from its parentless tops.
func (r *TreeRenderer) renderOrphans() {
	var orphans []string
	for _, o := range r.g.Orphans() {
		if !r.seen[o] {
			orphans = append(orphans, o)
		}
	}
	if len(orphans) == 0 {
		return
	}

	var tops []string
	topSet := make(map[string]bool)
	addTop := func(name string) {
		if !topSet[name] && !r.seen[name] {
			topSet[name] = true
			tops = append(tops, name)
		}
	}
	for _, o := range orphans {
		if len(r.g.Parents(o)) == 0 {
			addTop(o)
			continue
		}
		for _, a := range r.g.Ancestors(o) {
			if len(r.g.Parents(a)) == 0 {
				addTop(a)
			}
		}
	}

	r.lines = append(r.lines, "", r.bold("Orphans (no path to a root):"))
	for _, top := range tops {
		r.renderNode(top, "", "", 0)
	}
	// Orphans caught in a parent cycle have no parentless top.
	for _, o := range orphans {
		if !r.seen[o] {
			r.renderNode(o, "", "", 0)
		}
	}
}

func (r *TreeRenderer) renderNode(name, lead, childLead string, depth int) {
	if r.seen[name] {
		r.lines = append(r.lines, lead+r.label(name)+" "+r.dim(SeeAbove))
		return
	}
	r.seen[name] = true
	r.lines = append(r.lines, lead+r.label(name)+r.annotations(name))

	children := r.g.Children(name)
	for i, child := range children {
		connector, next := "├── ", "│   "
		if i == len(children)-1 {
			connector, next = "└── ", "    "
		}
		r.renderNode(child, childLead+r.tint(connector, depth), childLead+r.tint(next, depth), depth+1)
	}
}

func (r *TreeRenderer) label(name string) string {
	node, _ := r.g.Node(name)
	if node.Current {
		return CurrentBranchSymbol + " " + r.branch(name, true) + " (current)"
	}
	return BranchSymbol + " " + r.branch(name, false)
}

func (r *TreeRenderer) annotations(name string) string {
	node, _ := r.g.Node(name)

	var parts []string
	switch {
	case node.Root && node.Default:
		parts = append(parts, r.dim("(default root)"))
	case node.Root:
		parts = append(parts, r.dim("(root)"))
	}
	if !node.Live {
		parts = append(parts, r.yellow("(missing)"))
	}
	if parents := r.g.Parents(name); len(parents) > 1 {
		parts = append(parts, r.cyan("(parents: "+strings.Join(parents, ", ")+")"))
	}
	if node.Issue != "" {
		parts = append(parts, "["+node.Issue+"]")
	}
	if node.PR > 0 {
		parts = append(parts, fmt.Sprintf("#%d", node.PR))
	}
	if extra := r.opts.Annotations[name]; extra != "" {
		parts = append(parts, extra)
	}
	if age := r.age(node); age != "" {
		parts = append(parts, r.dim(age))
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (r *TreeRenderer) age(node graph.Node) string {
	if node.Created != nil {
		return "created " + humanize.RelTime(*node.Created, r.opts.Now, "ago", "from now")
	}
	if t, ok := r.opts.Ages[node.Name]; ok && !t.IsZero() {
		return humanize.RelTime(t, r.opts.Now, "ago", "from now")
	}
	return ""
}

func (r *TreeRenderer) diagnostic(d graph.Diagnostic) string {
	if d.Level == graph.LevelWarning {
		return r.yellow("⚠ " + d.Message)
	}
	return r.dim("ℹ " + d.Message)
}

func (r *TreeRenderer) branch(name string, current bool) string {
	if r.opts.Plain {
		return name
	}
	return tui.ColorBranchName(name, current)
}

func (r *TreeRenderer) tint(text string, depth int) string {
	if r.opts.Plain {
		return text
	}
	return depthColor(text, depth)
}

func (r *TreeRenderer) style(text string, fn func(string) string) string {
	if r.opts.Plain {
		return text
	}
	return fn(text)
}

func (r *TreeRenderer) dim(text string) string    { return r.style(text, tui.ColorDim) }
func (r *TreeRenderer) yellow(text string) string { return r.style(text, tui.ColorYellow) }
func (r *TreeRenderer) cyan(text string) string   { return r.style(text, tui.ColorCyan) }
func (r *TreeRenderer) bold(text string) string   { return r.style(text, tui.ColorBold) }
