package actions

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// HistoryOptions contains options for the history command
type HistoryOptions struct {
	Limit int
	// RunID shows one run with its steps.
	RunID string
}

// HistoryAction lists past rebase and cascade runs, newest first.
func HistoryAction(ctx *runtime.Context, opts HistoryOptions) ([]*journal.Run, error) {
	if ctx.Journal == nil {
		return nil, errors.New("run history is not available")
	}

	if opts.RunID != "" {
		run, err := ctx.Journal.Run(ctx.Context, opts.RunID)
		if err != nil {
			return nil, err
		}
		ctx.Splog.Info("%s", formatRun(run))
		for _, step := range run.Steps {
			line := fmt.Sprintf("  %s: %s", step.Branch, step.Outcome)
			if step.Reason != "" {
				line += " " + tui.ColorDim("("+step.Reason+")")
			}
			ctx.Splog.Info("%s", line)
		}
		return []*journal.Run{run}, nil
	}

	runs, err := ctx.Journal.Runs(ctx.Context, opts.Limit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		ctx.Splog.Info("No runs recorded yet.")
	}
	for _, run := range runs {
		ctx.Splog.Info("%s", formatRun(run))
	}
	return runs, nil
}

func formatRun(run *journal.Run) string {
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	status := run.Status
	switch status {
	case journal.StatusDone:
		status = tui.ColorGreen(status)
	case journal.StatusHalted, journal.StatusAborted:
		status = tui.ColorYellow(status)
	case journal.StatusFailed:
		status = tui.ColorRed(status)
	}
	line := fmt.Sprintf("%s  %-7s %-20s %s", tui.ColorDim(id), run.Operation, run.Start, status)
	if run.Summary != "" {
		line += "  " + run.Summary
	}
	return line + "  " + tui.ColorDim(humanize.Time(run.StartedAt))
}
