package actions

import (
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// DependOptions contains options for the branch depend command
type DependOptions struct {
	Parent string
	// Child defaults to the checked-out branch.
	Child string
}

// DependAction declares that Child depends on Parent. The edge is checked against the
// graph before anything is written, so a cycle leaves the store untouched.
func DependAction(ctx *runtime.Context, opts DependOptions) error {
	child, err := branchOrCurrent(ctx, opts.Child)
	if err != nil {
		return err
	}

	err = mutate(ctx, func(d *store.Declarations, g *graph.BranchGraph) error {
		if !g.IsLive(opts.Parent) && !g.IsRoot(opts.Parent) {
			return depstackerrors.NewBranchNotFoundError(opts.Parent)
		}
		if !g.IsLive(child) {
			return depstackerrors.NewBranchNotFoundError(child)
		}
		if err := g.CheckEdge(opts.Parent, child); err != nil {
			return err
		}
		if err := d.AddEdge(opts.Parent, child); err != nil {
			return err
		}
		if meta, _ := d.Meta(child); meta.Created == nil {
			created := now()
			meta.Created = &created
			d.SetMeta(child, meta)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctx.Splog.Info("%s now depends on %s.", tui.ColorBranchName(child, false), tui.ColorBranchName(opts.Parent, false))
	return nil
}

// RemoveDependencyOptions contains options for the branch rm-dep command
type RemoveDependencyOptions struct {
	Parent string
	Child  string
}

// RemoveDependencyAction deletes the Parent -> Child edge.
func RemoveDependencyAction(ctx *runtime.Context, opts RemoveDependencyOptions) error {
	child, err := branchOrCurrent(ctx, opts.Child)
	if err != nil {
		return err
	}

	var orphaned bool
	err = mutate(ctx, func(d *store.Declarations, _ *graph.BranchGraph) error {
		if err := d.RemoveEdge(opts.Parent, child); err != nil {
			return err
		}
		live, err := ctx.Live()
		if err != nil {
			return err
		}
		orphaned = graph.Build(d, live).IsOrphan(child)
		return nil
	})
	if err != nil {
		return err
	}

	ctx.Splog.Info("%s no longer depends on %s.", tui.ColorBranchName(child, false), tui.ColorBranchName(opts.Parent, false))
	if orphaned {
		ctx.Splog.Tip("%s is now an orphan. Run 'depstack adopt %s' to attach it again.", child, child)
	}
	return nil
}
