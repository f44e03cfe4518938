package actions

import (
	"fmt"

	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// AdoptOptions contains options for the adopt command
type AdoptOptions struct {
	Branches []string
	// All adopts every orphan.
	All bool
	// DefaultRoot attaches to the default root instead of guessing.
	DefaultRoot bool
	// Pick prompts for each parent.
	Pick bool
}

// Adoption is one orphan attached to a parent
type Adoption struct {
	Branch string
	Parent string
}

// AdoptAction attaches orphans to a parent: the deepest attached branch whose tip the
// orphan contains, else the default root. Branches that are already attached are
// left alone.
func AdoptAction(ctx *runtime.Context, opts AdoptOptions) ([]Adoption, error) {
	live, err := ctx.Live()
	if err != nil {
		return nil, err
	}

	var adopted []Adoption
	eng := engine.New(ctx.VCS)
	err = mutate(ctx, func(d *store.Declarations, g *graph.BranchGraph) error {
		targets := opts.Branches
		switch {
		case opts.All:
			targets = g.Orphans()
		case len(targets) == 0:
			if live.Current == "" {
				return depstackerrors.ErrNotOnBranch
			}
			targets = []string{live.Current}
		}

		for _, branch := range targets {
			// Earlier adoptions change what is attached.
			g = graph.Build(d, live)
			if !g.IsLive(branch) {
				return depstackerrors.NewBranchNotFoundError(branch)
			}
			if !g.IsOrphan(branch) {
				ctx.Splog.Info("%s is already attached.", tui.ColorBranchName(branch, false))
				continue
			}

			parent, err := chooseParent(ctx, eng, g, branch, opts)
			if err != nil {
				return err
			}
			if err := g.CheckEdge(parent, branch); err != nil {
				return fmt.Errorf("cannot adopt %s under %s: %w", branch, parent, err)
			}
			if err := d.AddEdge(parent, branch); err != nil {
				return err
			}
			adopted = append(adopted, Adoption{Branch: branch, Parent: parent})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(adopted) == 0 {
		ctx.Splog.Info("No orphans to adopt.")
	}
	for _, a := range adopted {
		ctx.Splog.Info("Adopted %s under %s.", tui.ColorBranchName(a.Branch, false), tui.ColorBranchName(a.Parent, false))
	}
	return adopted, nil
}

func chooseParent(ctx *runtime.Context, eng *engine.Engine, g *graph.BranchGraph, branch string, opts AdoptOptions) (string, error) {
	if opts.DefaultRoot {
		root, err := g.ResolveRoot("")
		if err != nil {
			return "", err
		}
		if !g.IsRoot(root) {
			return "", fmt.Errorf("no default root declared: %w", depstackerrors.ErrNoRoot)
		}
		return root, nil
	}

	suggested, err := eng.SuggestParent(ctx.Context, g, branch)
	if err != nil {
		return "", err
	}
	if !opts.Pick {
		return suggested, nil
	}

	candidates, err := eng.AdoptCandidates(ctx.Context, g, branch)
	if err != nil {
		return "", err
	}
	seen := make(map[string]bool)
	var options []tui.SelectOption
	add := func(name, label string) {
		if !seen[name] && name != branch {
			seen[name] = true
			options = append(options, tui.SelectOption{Label: label, Value: name})
		}
	}
	for _, c := range candidates {
		add(c.Name, c.Name+" (contains history)")
	}
	for _, r := range g.Roots() {
		add(r, r+" (root)")
	}
	add(suggested, suggested)

	return tui.PromptSelect(fmt.Sprintf("Choose a parent for %s", branch), options, suggested)
}
