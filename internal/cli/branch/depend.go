package branch

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewDependCmd creates the branch depend command
func NewDependCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "depend <parent> [child]",
		Short: "Declare that a branch depends on another",
		Long: `Declare that child depends on parent. The child defaults to the current branch.

A branch may depend on several parents. Declarations that would create a cycle are
rejected and nothing is written.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.DependAction(ctx, actions.DependOptions{
					Parent: args[0],
					Child:  helpers.OptionalArg(args[1:]),
				})
			})
		},
	}
}

// NewRmDepCmd creates the branch rm-dep command
func NewRmDepCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rm-dep <parent> [child]",
		Short:             "Remove a declared dependency",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.RemoveDependencyAction(ctx, actions.RemoveDependencyOptions{
					Parent: args[0],
					Child:  helpers.OptionalArg(args[1:]),
				})
			})
		},
	}
}
