package cli

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "Continue the rebase or cascade halted by a conflict",
		Long: `Continue the most recent rebase or cascade halted by a conflict.
This command finishes the git rebase and resumes the remaining branches.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ContinueAction(ctx, actions.ContinueOptions{Progress: tui.IsTTY()})
			})
		},
	}
}

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	var opts actions.AbortOptions

	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the rebase or cascade halted by a conflict",
		Long: `Abort the halted rebase and return to the branch you started on, restoring
stashed changes. Branches already rebased stay rebased.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.AbortAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Do not ask for confirmation.")

	return cmd
}
