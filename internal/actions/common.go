package actions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/output"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// now is replaced in tests
var now = func() time.Time { return time.Now().UTC().Truncate(time.Second) }

// Pluralize returns the plural of word unless count is 1
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	for _, suffix := range []string{"ch", "sh", "s", "x"} {
		if strings.HasSuffix(word, suffix) {
			return word + "es"
		}
	}
	return word + "s"
}

// currentBranch returns the checked-out branch or a wrapped ErrNotOnBranch.
func currentBranch(ctx *runtime.Context) (string, error) {
	name, err := ctx.VCS.CurrentBranch(ctx.Context)
	if err != nil {
		if errors.Is(err, depstackerrors.ErrNotOnBranch) {
			return "", err
		}
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return name, nil
}

// branchOrCurrent returns name, defaulting to the checked-out branch.
func branchOrCurrent(ctx *runtime.Context, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	return currentBranch(ctx)
}

// mutate loads the declarations and graph, applies fn and saves once. When fn fails
// nothing is written.
func mutate(ctx *runtime.Context, fn func(d *store.Declarations, g *graph.BranchGraph) error) error {
	d, g, err := ctx.LoadGraph()
	if err != nil {
		return err
	}
	if err := fn(d, g); err != nil {
		return err
	}
	if err := ctx.Store.Save(d); err != nil {
		return fmt.Errorf("failed to save declarations: %w", err)
	}
	return nil
}

func colorBranch(g *graph.BranchGraph, name string) string {
	return tui.ColorBranchName(name, g != nil && g.Current() == name)
}

func colorOutcome(o engine.Outcome) string {
	switch o {
	case engine.Rebased:
		return tui.ColorGreen(o.String())
	case engine.Conflict, engine.Failed:
		return tui.ColorRed(o.String())
	case engine.Pruned, engine.NotAttempted:
		return tui.ColorYellow(o.String())
	case engine.Planned:
		return tui.ColorCyan(o.String())
	default:
		return tui.ColorDim(o.String())
	}
}

// FormatResults renders cascade results in order, e.g. "A: rebased, B: conflict".
func FormatResults(report *engine.CascadeReport) string {
	parts := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		parts = append(parts, fmt.Sprintf("%s: %s", res.Branch, res.Outcome))
	}
	return strings.Join(parts, ", ")
}

func resultLine(res engine.BranchResult) string {
	line := fmt.Sprintf("%s: %s", tui.ColorBranchName(res.Branch, false), colorOutcome(res.Outcome))
	if res.Reason != "" {
		line += " " + tui.ColorDim("("+res.Reason+")")
	}
	return line
}

// printConflictStatus tells the user how to resolve a halted rebase.
func printConflictStatus(ctx *runtime.Context, branch, onto string) {
	splog := ctx.Splog
	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflict rebasing %s onto %s.", branch, onto)))
	splog.Newline()
	splog.Info("%s", tui.ColorYellow("To fix and continue:"))
	splog.Info("  1. Resolve the conflicts and stage the files (git add).")
	splog.Info("  2. Run 'depstack continue'.")
	splog.Info("%s", tui.ColorYellow("To give up and return to where you started, run 'depstack abort'."))
}

// showGraph renders the tree after a command when --show-graph is set.
func showGraph(ctx *runtime.Context) error {
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return err
	}
	ctx.Splog.Newline()
	ctx.Splog.Page(output.RenderTree(g, output.TreeOptions{}) + "\n")
	return nil
}
