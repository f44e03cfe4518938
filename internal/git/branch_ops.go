package git

import (
	"context"
	"fmt"
)

// Checkout checks out an existing branch
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	if _, err := r.runner.Run(ctx, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch
func (r *Repo) DeleteBranch(ctx context.Context, branch string) error {
	if _, err := r.runner.Run(ctx, "branch", "-D", branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}

// HasUncommittedChanges reports staged, unstaged or untracked changes in the working tree
func (r *Repo) HasUncommittedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to read working tree status: %w", err)
	}
	return output != "", nil
}

// StashPush pushes current changes, including untracked files, to the stash
func (r *Repo) StashPush(ctx context.Context, message string) error {
	args := []string{"stash", "push", "-u"}
	if message != "" {
		args = append(args, "-m", message)
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("stash push failed: %w", err)
	}
	return nil
}

// StashPop pops the most recent stash
func (r *Repo) StashPop(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "stash", "pop"); err != nil {
		return fmt.Errorf("stash pop failed: %w", err)
	}
	return nil
}
