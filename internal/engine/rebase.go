package engine

import (
	"context"
	"fmt"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/graph"
)

// OntoRoot asks Rebase to target the branch's topology root instead of its parent.
// A live branch with the same name takes precedence.
const OntoRoot = "root"

// RebaseOptions configures a single-branch rebase
type RebaseOptions struct {
	// Branch defaults to the checked-out branch.
	Branch string
	// Onto overrides the primary parent. OntoRoot selects the topology root.
	Onto      string
	Force     bool
	DryRun    bool
	Autostash bool
}

// RebaseResult describes a single-branch rebase
type RebaseResult struct {
	Branch         string
	Onto           string
	OriginalBranch string
	Outcome        Outcome
	Reason         string
	// Stashed is true when an autostash was taken. After a conflict it is still in
	// the stash list.
	Stashed bool
}

// ResolveOnto picks the rebase target for branch: the primary parent, the topology
// root, or an explicit live branch.
func ResolveOnto(g *graph.BranchGraph, branch, onto string) (string, error) {
	switch {
	case onto == "":
		parent, ok := g.PrimaryParent(branch)
		if !ok {
			return "", fmt.Errorf("%s: %w", branch, depstackerrors.ErrNoParent)
		}
		return parent, nil
	case onto == OntoRoot && !g.IsLive(onto):
		root, err := g.TopologyRoot(branch)
		if err != nil {
			return "", err
		}
		if root == branch {
			return "", fmt.Errorf("%s: %w", branch, depstackerrors.ErrNoParent)
		}
		return root, nil
	default:
		if !g.IsLive(onto) {
			return "", depstackerrors.NewBranchNotFoundError(onto)
		}
		return onto, nil
	}
}

// Rebase brings one branch up to date with its parent. A conflict is reported as an
// outcome, not an error, and leaves the repository mid-rebase.
func (e *Engine) Rebase(ctx context.Context, g *graph.BranchGraph, opts RebaseOptions) (*RebaseResult, error) {
	original, err := e.vcs.CurrentBranch(ctx)
	if err != nil && opts.Branch == "" {
		return nil, fmt.Errorf("failed to determine branch to rebase: %w", err)
	}

	branch := opts.Branch
	if branch == "" {
		branch = original
	}
	if !g.IsLive(branch) {
		return nil, depstackerrors.NewBranchNotFoundError(branch)
	}

	onto, err := ResolveOnto(g, branch, opts.Onto)
	if err != nil {
		return nil, err
	}

	result := &RebaseResult{Branch: branch, Onto: onto, OriginalBranch: original}

	if !opts.Force {
		current, err := e.upToDate(ctx, onto, branch)
		if err != nil {
			return nil, err
		}
		if current {
			result.Outcome = Skipped
			result.Reason = ReasonUpToDate
			return result, nil
		}
	}

	if opts.DryRun {
		result.Outcome = Planned
		result.Reason = fmt.Sprintf("rebase onto %s", onto)
		return result, nil
	}

	if opts.Autostash {
		stashed, err := e.stash(ctx, fmt.Sprintf("depstack: rebase %s", branch))
		if err != nil {
			return nil, err
		}
		result.Stashed = stashed
	}

	outcome, err := e.rebaseOnto(stepContext(ctx), branch, onto)
	if err != nil {
		result.Outcome = Failed
		result.Reason = err.Error()
		if !e.vcs.IsRebaseInProgress(ctx) {
			if restoreErr := e.restore(ctx, original, result.Stashed); restoreErr != nil {
				return result, fmt.Errorf("%w (and %v)", err, restoreErr)
			}
		}
		return result, err
	}

	if outcome == git.RebaseConflict {
		result.Outcome = Conflict
		result.Reason = fmt.Sprintf("conflict rebasing %s onto %s", branch, onto)
		return result, nil
	}

	result.Outcome = Rebased
	if err := e.restore(ctx, original, result.Stashed); err != nil {
		return result, err
	}
	return result, nil
}
