package actions

import (
	"fmt"

	"depstack.dev/depstack/internal/engine"
	"depstack.dev/depstack/internal/runtime"
)

// EvictAction drops declarations for branches that no longer exist. It saves only
// when something was removed.
func EvictAction(ctx *runtime.Context) (engine.EvictionResult, error) {
	d, err := ctx.Store.Load()
	if err != nil {
		return engine.EvictionResult{}, err
	}
	live, err := ctx.Live()
	if err != nil {
		return engine.EvictionResult{}, err
	}

	result := engine.Evict(d, live.Branches)
	if !result.Removed() {
		ctx.Splog.Info("Nothing to evict.")
		return result, nil
	}
	if err := ctx.Store.Save(d); err != nil {
		return result, fmt.Errorf("failed to save declarations: %w", err)
	}
	reportEviction(ctx, result)
	return result, nil
}

func reportEviction(ctx *runtime.Context, result engine.EvictionResult) {
	for _, e := range result.Edges {
		ctx.Splog.Info("Removed dependency %s → %s.", e.Parent, e.Child)
	}
	for _, name := range result.Metadata {
		ctx.Splog.Info("Removed metadata for %s.", name)
	}
}
