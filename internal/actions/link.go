package actions

import (
	"fmt"
	"strconv"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// PRAuto asks link to look the pull request up on GitHub.
const PRAuto = "auto"

// LinkOptions contains options for the link command
type LinkOptions struct {
	Branch string
	Issue  string
	// PR is a pull request number, PRAuto, or empty to leave it unchanged.
	PR    string
	Clear bool
}

// LinkAction records external references for a branch.
func LinkAction(ctx *runtime.Context, opts LinkOptions) (store.BranchMeta, error) {
	name, err := branchOrCurrent(ctx, opts.Branch)
	if err != nil {
		return store.BranchMeta{}, err
	}

	pr, err := resolvePR(ctx, name, opts.PR)
	if err != nil {
		return store.BranchMeta{}, err
	}

	var meta store.BranchMeta
	err = mutate(ctx, func(d *store.Declarations, g *graph.BranchGraph) error {
		if !g.Has(name) {
			return depstackerrors.NewBranchNotFoundError(name)
		}
		meta, _ = d.Meta(name)
		if opts.Clear {
			meta.Issue, meta.PR = "", 0
		}
		if opts.Issue != "" {
			meta.Issue = opts.Issue
		}
		if pr > 0 {
			meta.PR = pr
		}
		d.SetMeta(name, meta)
		return nil
	})
	if err != nil {
		return store.BranchMeta{}, err
	}

	switch {
	case meta.Issue != "" && meta.PR > 0:
		ctx.Splog.Info("Linked %s to %s and #%d.", tui.ColorBranchName(name, false), meta.Issue, meta.PR)
	case meta.Issue != "":
		ctx.Splog.Info("Linked %s to %s.", tui.ColorBranchName(name, false), meta.Issue)
	case meta.PR > 0:
		ctx.Splog.Info("Linked %s to #%d.", tui.ColorBranchName(name, false), meta.PR)
	default:
		ctx.Splog.Info("%s has no links.", tui.ColorBranchName(name, false))
	}
	return meta, nil
}

func resolvePR(ctx *runtime.Context, branch, value string) (int, error) {
	switch value {
	case "":
		return 0, nil
	case PRAuto:
		client, err := ctx.GitHub()
		if err != nil {
			return 0, err
		}
		pr, err := client.PullRequestForBranch(ctx.Context, branch)
		if err != nil {
			return 0, err
		}
		if pr == nil {
			return 0, fmt.Errorf("no pull request found for %s", branch)
		}
		return pr.Number, nil
	default:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid pull request number %q", value)
		}
		return n, nil
	}
}
