package actions

import (
	"fmt"
	"slices"

	"depstack.dev/depstack/internal/engine"
	"depstack.dev/depstack/internal/github"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// prLookupLimit bounds concurrent pull request lookups.
const prLookupLimit = 4

// CleanOptions contains options for the clean command
type CleanOptions struct {
	Force bool
	// MergedPRs also treats branches whose pull request was merged as merged.
	MergedPRs bool
}

// CleanCandidate is a branch clean would delete
type CleanCandidate struct {
	Branch string
	Parent string
	Reason string
}

// CleanResult reports what clean changed
type CleanResult struct {
	Candidates []CleanCandidate
	Deleted    []string
	// Reparented holds the new edges given to children of deleted branches.
	Reparented []store.Edge
	Evicted    engine.EvictionResult
}

// CleanAction deletes branches already merged into their primary parent, hands their
// children to the nearest surviving ancestor and evicts what no longer exists.
func CleanAction(ctx *runtime.Context, opts CleanOptions) (*CleanResult, error) {
	d, g, err := ctx.LoadGraph()
	if err != nil {
		return nil, err
	}

	candidates, err := findMerged(ctx, g)
	if err != nil {
		return nil, err
	}
	if opts.MergedPRs {
		candidates, err = addMergedPRs(ctx, g, candidates)
		if err != nil {
			return nil, err
		}
	}

	result := &CleanResult{Candidates: candidates}
	selected := make([]string, 0, len(candidates))
	for _, c := range candidates {
		selected = append(selected, c.Branch)
	}

	if len(selected) == 0 {
		ctx.Splog.Info("No merged branches found.")
	} else if !opts.Force {
		for _, c := range candidates {
			ctx.Splog.Info("%s %s", tui.ColorBranchName(c.Branch, false), tui.ColorDim("("+c.Reason+")"))
		}
		selected, err = tui.PromptMultiSelect("Delete these branches?", selected, selected)
		if err != nil {
			return nil, fmt.Errorf("failed to get confirmation: %w", err)
		}
	}

	deleted, err := deleteBranches(ctx, g, selected)
	if err != nil {
		return nil, err
	}
	result.Deleted = deleted
	result.Reparented = reparentChildren(ctx.Splog, d, deleted)

	live, err := ctx.Live()
	if err != nil {
		return nil, err
	}
	result.Evicted = engine.Evict(d, live.Branches)

	if len(deleted) > 0 || result.Evicted.Removed() {
		if err := ctx.Store.Save(d); err != nil {
			return result, fmt.Errorf("failed to save declarations: %w", err)
		}
	}

	for _, e := range result.Reparented {
		ctx.Splog.Info("%s now depends on %s.", tui.ColorBranchName(e.Child, false), tui.ColorBranchName(e.Parent, false))
	}
	reportEviction(ctx, result.Evicted)
	return result, nil
}

// findMerged returns branches whose tip is already contained in their primary parent.
// A branch still sitting on its parent's tip has no work of its own and is kept.
func findMerged(ctx *runtime.Context, g *graph.BranchGraph) ([]CleanCandidate, error) {
	var out []CleanCandidate
	for _, n := range g.Nodes() {
		if !n.Live || n.Root {
			continue
		}
		parent, ok := g.PrimaryParent(n.Name)
		if !ok || !g.IsLive(parent) {
			continue
		}
		tip, err := ctx.VCS.TipSHA(ctx.Context, n.Name)
		if err != nil {
			return nil, err
		}
		parentTip, err := ctx.VCS.TipSHA(ctx.Context, parent)
		if err != nil {
			return nil, err
		}
		if tip == parentTip {
			continue
		}
		merged, err := ctx.VCS.IsAncestor(ctx.Context, n.Name, parent)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s with %s: %w", n.Name, parent, err)
		}
		if merged {
			out = append(out, CleanCandidate{Branch: n.Name, Parent: parent, Reason: "merged into " + parent})
		}
	}
	return out, nil
}

func addMergedPRs(ctx *runtime.Context, g *graph.BranchGraph, candidates []CleanCandidate) ([]CleanCandidate, error) {
	client, err := ctx.GitHub()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, n := range g.Nodes() {
		if n.Live && !n.Root && !slices.ContainsFunc(candidates, func(c CleanCandidate) bool { return c.Branch == n.Name }) {
			names = append(names, n.Name)
		}
	}

	prs, err := github.LookupBranches(ctx.Context, client, names, prLookupLimit)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		pr := prs[name]
		if !pr.IsMerged() {
			continue
		}
		parent, _ := g.PrimaryParent(name)
		candidates = append(candidates, CleanCandidate{
			Branch: name,
			Parent: parent,
			Reason: fmt.Sprintf("PR #%d merged", pr.Number),
		})
	}
	return candidates, nil
}

// deleteBranches deletes the selected branches, moving off the checked-out one first.
func deleteBranches(ctx *runtime.Context, g *graph.BranchGraph, selected []string) ([]string, error) {
	current := g.Current()
	if slices.Contains(selected, current) {
		target := survivingParent(g.Parents, selected, current)
		if target == "" {
			root, err := g.ResolveRoot("")
			if err != nil {
				return nil, err
			}
			target = root
		}
		if err := ctx.VCS.Checkout(ctx.Context, target); err != nil {
			return nil, fmt.Errorf("failed to checkout %s: %w", target, err)
		}
	}

	var deleted []string
	for _, name := range selected {
		if err := ctx.VCS.DeleteBranch(ctx.Context, name); err != nil {
			ctx.Splog.Warn("Failed to delete %s: %v", name, err)
			continue
		}
		ctx.Splog.Info("Deleted %s.", tui.ColorBranchName(name, false))
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// reparentChildren moves the children of every deleted branch to its nearest surviving
// ancestor and drops the deleted branches' own edges. A child that cannot be moved
// loses its dependency on the deleted branch.
func reparentChildren(splog *tui.Splog, d *store.Declarations, deleted []string) []store.Edge {
	targets := make(map[string]string, len(deleted))
	for _, name := range deleted {
		targets[name] = survivingParent(d.Parents, deleted, name)
	}

	var added []store.Edge
	for _, name := range deleted {
		target := targets[name]
		for _, child := range d.Children(name) {
			if slices.Contains(deleted, child) {
				continue
			}
			if err := d.Reparent(child, name, target); err != nil {
				splog.Warn("Could not move %s under %s: %v. Dropped its dependency on %s.", child, target, err, name)
				if err := d.RemoveEdge(name, child); err != nil {
					splog.Debug("Failed to remove %s -> %s: %v", name, child, err)
				}
				continue
			}
			if target != "" && !slices.Contains(added, store.Edge{Parent: target, Child: child}) {
				added = append(added, store.Edge{Parent: target, Child: child})
			}
		}
		for _, parent := range d.Parents(name) {
			if err := d.RemoveEdge(parent, name); err != nil {
				splog.Debug("Failed to remove %s -> %s: %v", parent, name, err)
			}
		}
	}
	return added
}

// survivingParent walks primary parents from name to the first one not being deleted.
func survivingParent(parentsOf func(string) []string, deleted []string, name string) string {
	seen := map[string]bool{name: true}
	for {
		parents := parentsOf(name)
		if len(parents) == 0 {
			return ""
		}
		name = parents[0]
		if seen[name] {
			return ""
		}
		seen[name] = true
		if !slices.Contains(deleted, name) {
			return name
		}
	}
}
