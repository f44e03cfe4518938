package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Rebase rebases the checked-out branch onto the given base
func (r *Repo) Rebase(ctx context.Context, onto string) (RebaseResult, error) {
	_, err := r.runner.Run(ctx, "rebase", onto)
	if err != nil {
		// Check if rebase is in progress (conflict)
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("failed to rebase onto %s: %w", onto, err)
	}
	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func (r *Repo) IsRebaseInProgress(_ context.Context) bool {
	// rebase-merge for the merge backend, rebase-apply for the apply backend
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.gitDir, dir)); err == nil {
			return true
		}
	}
	return false
}

// RebaseContinue continues an in-progress rebase
func (r *Repo) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	if !r.IsRebaseInProgress(ctx) {
		return RebaseDone, nil
	}
	_, err := r.runner.WithEnv("GIT_EDITOR=true").Run(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		// Check if rebase is still in progress (another conflict)
		if r.IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}
	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func (r *Repo) RebaseAbort(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "rebase", "--abort"); err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}
