package actions

import (
	"fmt"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// RebaseOptions contains options for the rebase command
type RebaseOptions struct {
	Branch    string
	Onto      string
	Force     bool
	DryRun    bool
	Autostash bool
	ShowGraph bool
}

// RebaseAction rebases one branch onto its primary parent, an explicit branch, or its
// topology root. A conflict persists continuation state and returns a
// RebaseConflictError.
func RebaseAction(ctx *runtime.Context, opts RebaseOptions) (*engine.RebaseResult, error) {
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return nil, err
	}

	eng := engine.New(ctx.VCS)
	res, err := eng.Rebase(ctx.Context, g, engine.RebaseOptions{
		Branch:    opts.Branch,
		Onto:      opts.Onto,
		Force:     opts.Force,
		DryRun:    opts.DryRun,
		Autostash: opts.Autostash,
	})
	if res == nil {
		return nil, err
	}

	var run *runRecorder
	if res.Outcome != engine.Planned && res.Outcome != engine.Skipped {
		run = beginRun(ctx, config.OperationRebase, res.Branch)
		run.step(engine.BranchResult{Branch: res.Branch, Parent: res.Onto, Outcome: res.Outcome, Reason: res.Reason})
	}

	branch := tui.ColorBranchName(res.Branch, false)
	onto := tui.ColorBranchName(res.Onto, false)
	switch res.Outcome {
	case engine.Skipped:
		ctx.Splog.Info("%s is already up to date with %s.", branch, onto)
	case engine.Planned:
		ctx.Splog.Info("Would rebase %s onto %s.", branch, onto)
	case engine.Failed:
		run.finish(journal.StatusFailed, res.Reason)
		return res, err
	case engine.Conflict:
		state := &config.ContinuationState{
			RunID:          run.id,
			Operation:      config.OperationRebase,
			Branch:         res.Branch,
			Onto:           res.Onto,
			OriginalBranch: res.OriginalBranch,
			StashTaken:     res.Stashed,
			Force:          opts.Force,
		}
		if err := config.PersistContinuationState(ctx.Config.ContinuePath(), state); err != nil {
			return res, fmt.Errorf("failed to persist continuation: %w", err)
		}
		run.finish(journal.StatusHalted, "1 conflict")
		printConflictStatus(ctx, res.Branch, res.Onto)
		if res.Stashed {
			ctx.Splog.Tip("Your uncommitted changes are stashed and will be restored when the rebase completes.")
		}
		return res, depstackerrors.NewRebaseConflictError(res.Branch, res.Reason)
	case engine.Rebased:
		if err != nil {
			run.finish(journal.StatusFailed, err.Error())
			return res, err
		}
		run.finish(journal.StatusDone, "1 rebased")
		ctx.Splog.Info("Rebased %s onto %s.", branch, onto)
		if opts.Branch != "" && res.OriginalBranch != "" && res.OriginalBranch != res.Branch {
			ctx.Splog.Info("Returned to %s.", tui.ColorBranchName(res.OriginalBranch, true))
		}
	}

	if opts.ShowGraph {
		if err := showGraph(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}
