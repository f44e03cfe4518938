package engine

import (
	"context"
	"fmt"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
)

// ContinueRebase resumes the conflicted rebase once the user has resolved it.
func (e *Engine) ContinueRebase(ctx context.Context) (git.RebaseResult, error) {
	if !e.vcs.IsRebaseInProgress(ctx) {
		return git.RebaseDone, depstackerrors.ErrRebaseNotInProgress
	}
	result, err := e.vcs.RebaseContinue(stepContext(ctx))
	if err != nil {
		return result, fmt.Errorf("failed to continue rebase: %w", err)
	}
	return result, nil
}

// AbortRebase abandons the in-progress rebase, if there is one, and reports whether
// it did.
func (e *Engine) AbortRebase(ctx context.Context) (bool, error) {
	if !e.vcs.IsRebaseInProgress(ctx) {
		return false, nil
	}
	if err := e.vcs.RebaseAbort(stepContext(ctx)); err != nil {
		return false, fmt.Errorf("failed to abort rebase: %w", err)
	}
	return true, nil
}

// Restore checks out original again and pops the stash a halted run kept.
func (e *Engine) Restore(ctx context.Context, original string, stashed bool) error {
	return e.restore(ctx, original, stashed)
}
