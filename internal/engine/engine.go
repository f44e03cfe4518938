// Package engine runs rebases over the declared branch graph: a single branch onto
// its parent, or a whole subtree in topological order.
package engine

import (
	"context"
	"fmt"

	"depstack.dev/depstack/internal/git"
)

// Engine drives VCS operations for rebase, cascade and adoption. It holds no graph
// state of its own; every call receives a freshly built graph.
type Engine struct {
	vcs git.VCS
}

// New creates an Engine over vcs
func New(vcs git.VCS) *Engine {
	return &Engine{vcs: vcs}
}

// stepContext detaches a rebase step from cancellation and the default command
// timeout. Cancellation is only observed between branches.
func stepContext(ctx context.Context) context.Context {
	return git.WithoutTimeout(context.WithoutCancel(ctx))
}

// rebaseOnto checks out branch and rebases it onto parent.
func (e *Engine) rebaseOnto(ctx context.Context, branch, parent string) (git.RebaseResult, error) {
	current, err := e.vcs.CurrentBranch(ctx)
	if err != nil || current != branch {
		if err := e.vcs.Checkout(ctx, branch); err != nil {
			return git.RebaseConflict, fmt.Errorf("failed to checkout %s: %w", branch, err)
		}
	}
	result, err := e.vcs.Rebase(ctx, parent)
	if err != nil {
		return result, fmt.Errorf("failed to rebase %s onto %s: %w", branch, parent, err)
	}
	return result, nil
}

// upToDate reports whether parent's tip is already contained in branch.
func (e *Engine) upToDate(ctx context.Context, parent, branch string) (bool, error) {
	ok, err := e.vcs.IsAncestor(ctx, parent, branch)
	if err != nil {
		return false, fmt.Errorf("failed to compare %s with %s: %w", branch, parent, err)
	}
	return ok, nil
}

// stash pushes uncommitted changes when there are any and reports whether it did.
func (e *Engine) stash(ctx context.Context, message string) (bool, error) {
	dirty, err := e.vcs.HasUncommittedChanges(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check working tree: %w", err)
	}
	if !dirty {
		return false, nil
	}
	if err := e.vcs.StashPush(ctx, message); err != nil {
		return false, fmt.Errorf("failed to stash changes: %w", err)
	}
	return true, nil
}

// restore checks out original (when it differs from the current branch) and pops the
// stash when one was taken.
func (e *Engine) restore(ctx context.Context, original string, stashed bool) error {
	if original != "" {
		current, err := e.vcs.CurrentBranch(ctx)
		if err != nil || current != original {
			if err := e.vcs.Checkout(ctx, original); err != nil {
				return fmt.Errorf("failed to return to %s: %w", original, err)
			}
		}
	}
	if stashed {
		if err := e.vcs.StashPop(ctx); err != nil {
			return fmt.Errorf("failed to restore stashed changes: %w", err)
		}
	}
	return nil
}
