package actions

import (
	"fmt"
	"slices"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// commonRootNames are tried in order when no root is given
var commonRootNames = []string{"main", "master", "develop", "trunk"}

// InitOptions contains options for the init command
type InitOptions struct {
	Root string
}

// InferRoot picks the default root: a commonly named branch, else the current one.
func InferRoot(branches []string, current string) string {
	for _, name := range commonRootNames {
		if slices.Contains(branches, name) {
			return name
		}
	}
	return current
}

// InitAction writes the repository config and registers the default root. Running it
// again keeps existing declarations.
func InitAction(ctx *runtime.Context, opts InitOptions) (string, error) {
	live, err := ctx.Live()
	if err != nil {
		return "", err
	}

	root := opts.Root
	if root == "" {
		root = InferRoot(live.Branches, live.Current)
	}
	if root == "" && tui.Interactive() {
		if root, err = tui.PromptTextInput("Which branch is the default root?", ""); err != nil {
			return "", err
		}
	}
	if root == "" {
		return "", fmt.Errorf("could not infer a root branch, pass one with --root: %w", depstackerrors.ErrNoRoot)
	}
	if !slices.Contains(live.Branches, root) {
		return "", depstackerrors.NewBranchNotFoundError(root)
	}

	if err := ctx.Config.Save(); err != nil {
		return "", err
	}

	d, err := ctx.Store.Load()
	if err != nil {
		return "", err
	}
	if err := d.AddRoot(root, true); err != nil {
		return "", err
	}
	if err := ctx.Store.Save(d); err != nil {
		return "", fmt.Errorf("failed to save declarations: %w", err)
	}

	ctx.Splog.Info("Initialized depstack with default root %s.", tui.ColorBranchName(root, false))
	ctx.Splog.Tip("Declare dependencies with 'depstack branch depend <parent> [child]'.")
	return root, nil
}
