package actions

import (
	"time"

	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/output"
	"depstack.dev/depstack/internal/runtime"
)

// LogOptions contains options for the log command
type LogOptions struct {
	// Root limits the tree to one root's subtree.
	Root string
	// Plain disables colors, e.g. when rendering for tools.
	Plain bool
}

// LogAction renders the branch graph with orphans, diamonds and diagnostics.
func LogAction(ctx *runtime.Context, opts LogOptions) error {
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return err
	}
	if opts.Root != "" {
		if _, err := g.ResolveRoot(opts.Root); err != nil {
			return err
		}
	}

	ctx.Splog.Page(output.RenderTree(g, output.TreeOptions{
		Root:        opts.Root,
		Ages:        commitTimes(ctx, g),
		Plain:       opts.Plain,
		Diagnostics: true,
	}) + "\n")
	return nil
}

// commitTimes collects tip commit times of live branches. Branches whose time cannot
// be read are left out.
func commitTimes(ctx *runtime.Context, g *graph.BranchGraph) map[string]time.Time {
	times := make(map[string]time.Time)
	for _, n := range g.Nodes() {
		if !n.Live {
			continue
		}
		t, err := ctx.VCS.CommitTime(ctx.Context, n.Name)
		if err != nil {
			ctx.Splog.Debug("No commit time for %s: %v", n.Name, err)
			continue
		}
		times[n.Name] = t
	}
	return times
}
