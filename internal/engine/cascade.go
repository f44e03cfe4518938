package engine

import (
	"context"
	"fmt"

	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/graph"
)

// CascadeOptions configures a downward cascade
type CascadeOptions struct {
	// Start defaults to the checked-out branch.
	Start string
	// Resume replaces the computed order with Branches, the part of a halted cascade
	// that was never attempted.
	Resume          bool
	Branches        []string
	MaxDepth        int
	Force           bool
	ContinueOnError bool
	Autostash       bool
	Preview         bool

	// OriginalBranch and CarriedStash carry the state of a halted run into its resumption.
	OriginalBranch string
	CarriedStash   bool

	// OnStart is called before a branch is rebased.
	OnStart func(branch, parent string)
	// OnResult is called once per branch as results are recorded.
	OnResult func(BranchResult)
}

// Order returns the branches a cascade from start would process.
func Order(g *graph.BranchGraph, start string, maxDepth int) ([]string, error) {
	return g.TopoOrder(start, maxDepth)
}

// parentFor returns the primary parent of branch, or a skip reason when the branch
// cannot be rebased at all.
func parentFor(g *graph.BranchGraph, branch string) (string, string) {
	if !g.IsLive(branch) {
		return "", ReasonMissing
	}
	parent, ok := g.PrimaryParent(branch)
	if !ok {
		return "", ReasonNoParent
	}
	if !g.IsLive(parent) {
		return parent, ReasonParentMissing
	}
	return parent, ""
}

// Cascade rebases start and its descendants in topological order. A conflict either
// halts the run, leaving the repository mid-rebase on the conflicting branch, or with
// ContinueOnError is aborted and its subtree pruned. Every other ending checks out the
// original branch again and restores the autostash.
func (e *Engine) Cascade(ctx context.Context, g *graph.BranchGraph, opts CascadeOptions) (*CascadeReport, error) {
	start := opts.Start
	if start == "" {
		current, err := e.vcs.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine cascade start: %w", err)
		}
		start = current
	}

	order := opts.Branches
	if !opts.Resume {
		var err error
		order, err = Order(g, start, opts.MaxDepth)
		if err != nil {
			return nil, err
		}
	}

	report := &CascadeReport{Start: start, Order: order, Preview: opts.Preview}
	record := func(res BranchResult) {
		report.add(res)
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	if opts.Preview {
		return report, e.preview(ctx, g, order, opts, record)
	}

	original := opts.OriginalBranch
	if original == "" {
		current, err := e.vcs.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine current branch: %w", err)
		}
		original = current
	}
	report.OriginalBranch = original

	stashed := opts.CarriedStash
	if !stashed && opts.Autostash {
		took, err := e.stash(ctx, fmt.Sprintf("depstack: cascade from %s", start))
		if err != nil {
			return nil, err
		}
		stashed = took
	}
	report.Stashed = stashed

	notAttempted := func(rest []string) {
		for _, b := range rest {
			record(BranchResult{Branch: b, Outcome: NotAttempted})
		}
	}
	finish := func() error {
		if err := e.restore(ctx, original, stashed); err != nil {
			return err
		}
		report.Restored = true
		return nil
	}

	pruned := make(map[string]bool)
	for i, branch := range order {
		if ctx.Err() != nil {
			report.Interrupted = true
			notAttempted(order[i:])
			break
		}

		if pruned[branch] {
			record(BranchResult{Branch: branch, Outcome: Pruned, Reason: "an ancestor conflicted"})
			continue
		}

		parent, reason := parentFor(g, branch)
		if reason != "" {
			record(BranchResult{Branch: branch, Parent: parent, Outcome: Skipped, Reason: reason})
			continue
		}

		if !opts.Force {
			current, err := e.upToDate(ctx, parent, branch)
			if err != nil {
				record(BranchResult{Branch: branch, Parent: parent, Outcome: Failed, Reason: err.Error()})
				notAttempted(order[i+1:])
				return report, e.failWith(err, finish)
			}
			if current {
				record(BranchResult{Branch: branch, Parent: parent, Outcome: Skipped, Reason: ReasonUpToDate})
				continue
			}
		}

		if opts.OnStart != nil {
			opts.OnStart(branch, parent)
		}
		step := stepContext(ctx)
		outcome, err := e.rebaseOnto(step, branch, parent)
		if err != nil {
			record(BranchResult{Branch: branch, Parent: parent, Outcome: Failed, Reason: err.Error()})
			notAttempted(order[i+1:])
			if e.vcs.IsRebaseInProgress(step) {
				if abortErr := e.vcs.RebaseAbort(step); abortErr != nil {
					return report, fmt.Errorf("%w (and abort failed: %v)", err, abortErr)
				}
			}
			return report, e.failWith(err, finish)
		}

		if outcome == git.RebaseConflict {
			record(BranchResult{
				Branch:  branch,
				Parent:  parent,
				Outcome: Conflict,
				Reason:  fmt.Sprintf("conflict rebasing %s onto %s", branch, parent),
			})
			if !opts.ContinueOnError {
				report.Halted = true
				report.ConflictBranch = branch
				notAttempted(order[i+1:])
				return report, nil
			}
			if err := e.vcs.RebaseAbort(step); err != nil {
				notAttempted(order[i+1:])
				return report, fmt.Errorf("failed to abort conflicting rebase of %s: %w", branch, err)
			}
			for _, d := range g.Descendants(branch) {
				pruned[d] = true
			}
			continue
		}

		record(BranchResult{Branch: branch, Parent: parent, Outcome: Rebased})
	}

	return report, finish()
}

// failWith restores the working tree after a non-conflict error, keeping err primary.
func (e *Engine) failWith(err error, finish func() error) error {
	if restoreErr := finish(); restoreErr != nil {
		return fmt.Errorf("%w (and %v)", err, restoreErr)
	}
	return err
}

// preview plans the run without touching the working tree. A branch is planned when
// forced, when its parent is planned, or when its parent's tip is not yet contained.
func (e *Engine) preview(ctx context.Context, g *graph.BranchGraph, order []string, opts CascadeOptions, record func(BranchResult)) error {
	planned := make(map[string]bool)
	for _, branch := range order {
		parent, reason := parentFor(g, branch)
		if reason != "" {
			record(BranchResult{Branch: branch, Parent: parent, Outcome: Skipped, Reason: reason})
			continue
		}
		needs := opts.Force || planned[parent]
		if !needs {
			current, err := e.upToDate(ctx, parent, branch)
			if err != nil {
				return err
			}
			needs = !current
		}
		if !needs {
			record(BranchResult{Branch: branch, Parent: parent, Outcome: Skipped, Reason: ReasonUpToDate})
			continue
		}
		planned[branch] = true
		record(BranchResult{Branch: branch, Parent: parent, Outcome: Planned, Reason: fmt.Sprintf("rebase onto %s", parent)})
	}
	return nil
}
