// Package navigation provides CLI commands for moving around and inspecting the graph.
package navigation

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewUpCmd creates the up command
func NewUpCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Switch to a child of the current branch",
		Long: `Switch to a branch that depends on the current branch.

If several children exist you will be prompted to select one, unless --to names the
child to check out.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.SwitchBranchAction(ctx, actions.SwitchBranchOptions{
					Direction: actions.DirectionUp,
					To:        to,
				})
				return err
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Child to check out when there are several.")
	_ = cmd.RegisterFlagCompletionFunc("to", helpers.CompleteBranches)

	return cmd
}

// NewDownCmd creates the down command
func NewDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "down",
		Short:        "Switch to the primary parent of the current branch",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.SwitchBranchAction(ctx, actions.SwitchBranchOptions{Direction: actions.DirectionDown})
				return err
			})
		},
	}
}
