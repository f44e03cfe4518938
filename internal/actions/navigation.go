package actions

import (
	"fmt"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// Direction selects where navigation moves
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// SwitchBranchOptions contains options for up and down
type SwitchBranchOptions struct {
	Direction Direction
	// To picks the child by name instead of prompting.
	To string
}

// SwitchBranchAction checks out a child (up) or the primary parent (down) of the
// current branch. Several live children prompt for a choice.
func SwitchBranchAction(ctx *runtime.Context, opts SwitchBranchOptions) (string, error) {
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return "", err
	}
	current := g.Current()
	if current == "" {
		return "", depstackerrors.ErrNotOnBranch
	}

	var target string
	switch opts.Direction {
	case DirectionDown:
		parent, ok := g.PrimaryParent(current)
		if !ok {
			return "", fmt.Errorf("%s: %w", current, depstackerrors.ErrNoParent)
		}
		if !g.IsLive(parent) {
			return "", depstackerrors.NewBranchNotFoundError(parent)
		}
		target = parent
	default:
		var children []string
		for _, c := range g.Children(current) {
			if g.IsLive(c) {
				children = append(children, c)
			}
		}
		switch {
		case opts.To != "":
			found := false
			for _, c := range children {
				found = found || c == opts.To
			}
			if !found {
				return "", fmt.Errorf("%s is not a child of %s", opts.To, current)
			}
			target = opts.To
		case len(children) == 0:
			return "", fmt.Errorf("%s has no children", current)
		case len(children) == 1:
			target = children[0]
		default:
			options := make([]tui.SelectOption, len(children))
			for i, c := range children {
				options[i] = tui.SelectOption{Label: c, Value: c}
			}
			target, err = tui.PromptSelect("Multiple children found, which one?", options, children[0])
			if err != nil {
				return "", err
			}
		}
	}

	if err := ctx.VCS.Checkout(ctx.Context, target); err != nil {
		return "", fmt.Errorf("failed to checkout %s: %w", target, err)
	}
	ctx.Splog.Info("Checked out %s.", tui.ColorBranchName(target, true))
	return target, nil
}
