package cli

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// newLinkCmd creates the link command
func newLinkCmd() *cobra.Command {
	var opts actions.LinkOptions

	cmd := &cobra.Command{
		Use:   "link [branch]",
		Short: "Record an issue key or pull request for a branch",
		Long: `Record an issue key or pull request number for a branch, the current one by
default. --pr auto looks the pull request up on GitHub.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Branch = helpers.OptionalArg(args)
				_, err := actions.LinkAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Issue, "issue", "", "Issue tracker key, e.g. DEP-42.")
	cmd.Flags().StringVar(&opts.PR, "pr", "", `Pull request number, or "auto" to look it up.`)
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Remove existing links first.")

	return cmd
}

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	var opts actions.HistoryOptions

	cmd := &cobra.Command{
		Use:          "history [run-id]",
		Short:        "Show past rebase and cascade runs",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.RunID = helpers.OptionalArg(args)
				_, err := actions.HistoryAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to show.")

	return cmd
}
