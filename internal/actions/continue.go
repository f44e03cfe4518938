package actions

import (
	"errors"
	"fmt"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// ContinueOptions are options for the continue command
type ContinueOptions struct {
	Progress bool
}

// ContinueAction finishes the conflicted rebase and resumes the halted operation.
func ContinueAction(ctx *runtime.Context, opts ContinueOptions) error {
	state, err := config.GetContinuationState(ctx.Config.ContinuePath())
	if err != nil {
		if errors.Is(err, depstackerrors.ErrNoContinuation) && ctx.VCS.IsRebaseInProgress(ctx.Context) {
			return fmt.Errorf("%w; the rebase in progress was not started by depstack, use 'git rebase --continue'", err)
		}
		return err
	}

	eng := engine.New(ctx.VCS)
	result, err := eng.ContinueRebase(ctx.Context)
	switch {
	case errors.Is(err, depstackerrors.ErrRebaseNotInProgress):
		// Finished by hand with git rebase --continue.
		ctx.Splog.Debug("No rebase in progress, resuming after %s", state.Branch)
		result = git.RebaseDone
	case err != nil:
		return err
	}

	run := resumeRun(ctx, state.RunID, state.Operation)
	if result == git.RebaseConflict {
		printConflictStatus(ctx, state.Branch, state.Onto)
		return depstackerrors.NewRebaseConflictError(state.Branch, "conflicts remain")
	}

	run.step(engine.BranchResult{Branch: state.Branch, Parent: state.Onto, Outcome: engine.Rebased})
	ctx.Splog.Info("Rebased %s onto %s.", tui.ColorBranchName(state.Branch, false), tui.ColorBranchName(state.Onto, false))

	if state.Operation == config.OperationRebase {
		if err := eng.Restore(ctx.Context, state.OriginalBranch, state.StashTaken); err != nil {
			run.finish(journal.StatusFailed, err.Error())
			return err
		}
		if err := config.ClearContinuationState(ctx.Config.ContinuePath()); err != nil {
			return err
		}
		run.finish(journal.StatusDone, "1 rebased")
		return nil
	}

	_, g, err := ctx.LoadGraph()
	if err != nil {
		return err
	}
	report, err := runCascade(ctx, g, run, engine.CascadeOptions{
		Start:          state.Start,
		Resume:         true,
		Branches:       state.RemainingBranches,
		Force:          state.Force,
		OriginalBranch: state.OriginalBranch,
		CarriedStash:   state.StashTaken,
	}, opts.Progress)
	return finishCascade(ctx, run, report, err, state.Force)
}
