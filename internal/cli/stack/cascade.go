package stack

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// NewCascadeCmd creates the cascade command
func NewCascadeCmd() *cobra.Command {
	var opts actions.CascadeOptions

	cmd := &cobra.Command{
		Use:   "cascade [branch]",
		Short: "Rebase a branch and everything that depends on it",
		Long: `Rebase a branch, the current one by default, onto its primary parent, then
every descendant onto its own primary parent, parents always before children.

By default the cascade halts on the first conflict. Resolve it and run
'depstack continue' to carry on with the remaining branches, or 'depstack abort'.
With --continue-on-error the conflicting rebase is aborted, the branches below it
are left alone and the rest of the cascade carries on.

Defaults for --autostash, --continue-on-error and --max-depth come from the
[cascade] section of the config.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Branch = helpers.OptionalArg(args)
				cfg := ctx.Config.Cascade
				if !cmd.Flags().Changed("autostash") {
					opts.Autostash = cfg.Autostash
				}
				if !cmd.Flags().Changed("continue-on-error") {
					opts.ContinueOnError = cfg.ContinueOnError
				}
				if !cmd.Flags().Changed("max-depth") {
					opts.MaxDepth = cfg.MaxDepth
				}
				opts.Progress = !opts.Preview && tui.IsTTY()
				_, err := actions.CascadeAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "Only go this many levels below the start branch (0 means no limit).")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Rebase branches even when they are up to date.")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "Show the rebase order without changing anything.")
	cmd.Flags().BoolVar(&opts.ContinueOnError, "continue-on-error", false, "Skip past conflicts instead of halting.")
	cmd.Flags().BoolVar(&opts.Autostash, "autostash", false, "Stash uncommitted changes first and restore them afterwards.")
	cmd.Flags().BoolVar(&opts.ShowGraph, "show-graph", false, "Render the graph afterwards.")

	return cmd
}
