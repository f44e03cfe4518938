package branch

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewRootCmd creates the branch root command group
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Manage root branches",
		Long: `Manage root branches. Roots are the long-lived branches everything else
depends on, such as main. Roots cannot have parents.`,
	}

	var makeDefault bool
	add := &cobra.Command{
		Use:               "add <name>",
		Short:             "Mark a branch as a root",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.RootAddAction(ctx, args[0], makeDefault)
			})
		},
	}
	add.Flags().BoolVar(&makeDefault, "default", false, "Make this the default root.")

	remove := &cobra.Command{
		Use:               "remove <name>",
		Short:             "Stop treating a branch as a root",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.RootRemoveAction(ctx, args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:          "list",
		Short:        "List root branches",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.RootListAction(ctx)
				return err
			})
		},
	}

	cmd.AddCommand(add, remove, list)
	return cmd
}
