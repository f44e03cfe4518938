package navigation

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewLogCmd creates the log command
func NewLogCmd() *cobra.Command {
	var opts actions.LogOptions

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"tree"},
		Short:   "Render the branch dependency graph",
		Long: `Render every root with the branches that depend on it.

Branches with several parents appear under their first parent and are marked
"(see above)" elsewhere. Branches with no path to a root are listed as orphans, and
problems found in the declarations are listed under Diagnostics.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.LogAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "Only show the subtree under this root.")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Disable colors.")
	_ = cmd.RegisterFlagCompletionFunc("root", helpers.CompleteBranches)

	return cmd
}
