package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// CascadeOptions contains options for the cascade command
type CascadeOptions struct {
	Branch          string
	MaxDepth        int
	Force           bool
	Preview         bool
	ContinueOnError bool
	Autostash       bool
	ShowGraph       bool
	// Progress shows the spinner view instead of one line per branch.
	Progress bool
}

// CascadeAction rebases a branch and all of its descendants in topological order.
func CascadeAction(ctx *runtime.Context, opts CascadeOptions) (*engine.CascadeReport, error) {
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return nil, err
	}

	start, err := branchOrCurrent(ctx, opts.Branch)
	if err != nil {
		return nil, err
	}
	if !g.Has(start) {
		return nil, depstackerrors.NewBranchNotFoundError(start)
	}

	if opts.Preview {
		return previewCascade(ctx, g, start, opts)
	}

	run := beginRun(ctx, config.OperationCascade, start)
	report, err := runCascade(ctx, g, run, engine.CascadeOptions{
		Start:           start,
		MaxDepth:        opts.MaxDepth,
		Force:           opts.Force,
		ContinueOnError: opts.ContinueOnError,
		Autostash:       opts.Autostash,
	}, opts.Progress)
	if err := finishCascade(ctx, run, report, err, opts.Force); err != nil {
		return report, err
	}

	if opts.ShowGraph {
		if err := showGraph(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

func previewCascade(ctx *runtime.Context, g *graph.BranchGraph, start string, opts CascadeOptions) (*engine.CascadeReport, error) {
	report, err := engine.New(ctx.VCS).Cascade(ctx.Context, g, engine.CascadeOptions{
		Start:    start,
		MaxDepth: opts.MaxDepth,
		Force:    opts.Force,
		Preview:  true,
	})
	if err != nil {
		return nil, err
	}
	ctx.Splog.Info("Cascade preview from %s:", colorBranch(g, start))
	for _, res := range report.Results {
		ctx.Splog.Info("  %s", resultLine(res))
	}
	ctx.Splog.Info("%s", tui.ColorDim(report.Summary()))
	return report, nil
}

// runCascade executes the cascade, reporting each branch either as a log line or
// through the progress view. Every result is journaled.
func runCascade(ctx *runtime.Context, g *graph.BranchGraph, run *runRecorder, opts engine.CascadeOptions, progress bool) (*engine.CascadeReport, error) {
	eng := engine.New(ctx.VCS)

	if !progress {
		opts.OnStart = func(branch, parent string) {
			ctx.Splog.Debug("Rebasing %s onto %s...", branch, parent)
		}
		opts.OnResult = func(res engine.BranchResult) {
			run.step(res)
			ctx.Splog.Info("%s", resultLine(res))
		}
		return eng.Cascade(ctx.Context, g, opts)
	}

	order := opts.Branches
	if !opts.Resume {
		var err error
		order, err = engine.Order(g, opts.Start, opts.MaxDepth)
		if err != nil {
			return nil, err
		}
	}

	runCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	ctx.Splog.SetQuiet(true)
	defer ctx.Splog.SetQuiet(false)

	var report *engine.CascadeReport
	err := tui.RunCascadeProgress(order, cancel, func(send func(tea.Msg)) error {
		opts.OnStart = func(branch, parent string) {
			send(tui.BranchStartedMsg{Branch: branch, Parent: parent})
		}
		opts.OnResult = func(res engine.BranchResult) {
			run.step(res)
			send(tui.BranchFinishedMsg{Branch: res.Branch, Parent: res.Parent, Status: res.Outcome.String(), Detail: res.Reason})
		}
		var err error
		report, err = eng.Cascade(runCtx, g, opts)
		return err
	})
	return report, err
}

// finishCascade persists or clears continuation state, closes the journal entry and
// prints the summary.
func finishCascade(ctx *runtime.Context, run *runRecorder, report *engine.CascadeReport, runErr error, force bool) error {
	if report == nil {
		run.finish(journal.StatusFailed, errString(runErr))
		return runErr
	}

	summary := report.Summary()
	if report.Halted {
		conflict, _ := report.Result(report.ConflictBranch)
		state := &config.ContinuationState{
			RunID:             run.id,
			Operation:         config.OperationCascade,
			Branch:            report.ConflictBranch,
			Onto:              conflict.Parent,
			Start:             report.Start,
			RemainingBranches: report.Remaining(),
			OriginalBranch:    report.OriginalBranch,
			StashTaken:        report.Stashed,
			Force:             force,
		}
		if err := config.PersistContinuationState(ctx.Config.ContinuePath(), state); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to persist continuation: %w", err))
		}
		if runErr == nil {
			run.finish(journal.StatusHalted, summary)
			ctx.Splog.Newline()
			ctx.Splog.Info("%s", FormatResults(report))
			printConflictStatus(ctx, report.ConflictBranch, conflict.Parent)
			return depstackerrors.NewRebaseConflictError(report.ConflictBranch, conflict.Reason)
		}
	}

	if runErr != nil {
		run.finish(journal.StatusFailed, summary)
		ctx.Splog.Warn("Cascade stopped: %s", summary)
		if report.Halted {
			conflict, _ := report.Result(report.ConflictBranch)
			printConflictStatus(ctx, report.ConflictBranch, conflict.Parent)
		}
		return runErr
	}

	if err := config.ClearContinuationState(ctx.Config.ContinuePath()); err != nil {
		return err
	}

	if report.Interrupted {
		run.finish(journal.StatusAborted, "interrupted: "+summary)
		ctx.Splog.Warn("Cascade interrupted: %s", summary)
		return context.Canceled
	}

	if conflicts := report.Names(engine.Conflict); len(conflicts) > 0 {
		run.finish(journal.StatusFailed, summary)
		ctx.Splog.Warn("Cascade finished with conflicts: %s", summary)
		if pruned := report.Names(engine.Pruned); len(pruned) > 0 {
			ctx.Splog.Warn("Left alone below a conflict: %s", strings.Join(pruned, ", "))
		}
		return depstackerrors.NewRebaseConflictError(strings.Join(conflicts, ", "), "rebase aborted, descendants pruned")
	}

	run.finish(journal.StatusDone, summary)
	ctx.Splog.Info("Cascade complete: %s.", summary)
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
