package cli

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var opts actions.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize depstack in the current repository",
		Long: `Write the depstack config and register the default root branch.

Without --root the first of main, master, develop and trunk that exists is used,
else the current branch. Running init again keeps existing declarations.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunWith(cmd, runtime.Options{AllowUninitialized: true}, func(ctx *runtime.Context) error {
				_, err := actions.InitAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "The default root branch.")
	_ = cmd.RegisterFlagCompletionFunc("root", helpers.CompleteBranches)

	return cmd
}
