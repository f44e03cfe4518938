package actions

import (
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// RootAddAction marks name as a root, optionally the default one.
func RootAddAction(ctx *runtime.Context, name string, makeDefault bool) error {
	err := mutate(ctx, func(d *store.Declarations, g *graph.BranchGraph) error {
		if !g.Has(name) {
			return depstackerrors.NewBranchNotFoundError(name)
		}
		return d.AddRoot(name, makeDefault)
	})
	if err != nil {
		return err
	}

	if makeDefault {
		ctx.Splog.Info("%s is now the default root.", tui.ColorBranchName(name, false))
	} else {
		ctx.Splog.Info("%s is now a root.", tui.ColorBranchName(name, false))
	}
	return nil
}

// RootRemoveAction clears the root mark from name. Its children stay declared.
func RootRemoveAction(ctx *runtime.Context, name string) error {
	err := mutate(ctx, func(d *store.Declarations, _ *graph.BranchGraph) error {
		return d.RemoveRoot(name)
	})
	if err != nil {
		return err
	}
	ctx.Splog.Info("%s is no longer a root.", tui.ColorBranchName(name, false))
	return nil
}

// RootListAction prints and returns the declared roots.
func RootListAction(ctx *runtime.Context) ([]store.Root, error) {
	d, err := ctx.Store.Load()
	if err != nil {
		return nil, err
	}
	if len(d.Roots) == 0 {
		ctx.Splog.Info("No roots declared. Run 'depstack branch root add <name> --default'.")
		return nil, nil
	}
	for _, r := range d.Roots {
		line := tui.ColorBranchName(r.Name, false)
		if r.Default {
			line += " " + tui.ColorDim("(default)")
		}
		ctx.Splog.Info("%s", line)
	}
	return d.Roots, nil
}
