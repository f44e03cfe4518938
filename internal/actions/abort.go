package actions

import (
	"errors"
	"fmt"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	Force bool
}

// AbortAction abandons a halted rebase or cascade: the rebase in progress is aborted,
// the original branch is checked out and the autostash restored.
func AbortAction(ctx *runtime.Context, opts AbortOptions) error {
	splog := ctx.Splog

	state, err := config.GetContinuationState(ctx.Config.ContinuePath())
	if err != nil && !errors.Is(err, depstackerrors.ErrNoContinuation) {
		return err
	}
	hasState := state != nil
	rebaseInProgress := ctx.VCS.IsRebaseInProgress(ctx.Context)

	if !hasState && !rebaseInProgress {
		splog.Info("No operation in progress to abort.")
		return nil
	}

	if !opts.Force {
		confirmed, err := tui.PromptConfirm("Abort the current operation and return to where you started?", false)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			splog.Info("Abort canceled.")
			return nil
		}
	}

	eng := engine.New(ctx.VCS)
	aborted, err := eng.AbortRebase(ctx.Context)
	if err != nil {
		return err
	}
	if aborted {
		splog.Info("Aborted rebase.")
	}

	if !hasState {
		return nil
	}
	if err := eng.Restore(ctx.Context, state.OriginalBranch, state.StashTaken); err != nil {
		return err
	}
	if err := config.ClearContinuationState(ctx.Config.ContinuePath()); err != nil {
		return err
	}
	resumeRun(ctx, state.RunID, state.Operation).finish(journal.StatusAborted, fmt.Sprintf("aborted at %s", state.Branch))

	if state.OriginalBranch != "" {
		splog.Info("Returned to %s.", tui.ColorBranchName(state.OriginalBranch, true))
	}
	if n := len(state.RemainingBranches); n > 0 {
		splog.Info("%d %s left unrebased.", n, Pluralize("branch", n))
	}
	return nil
}
