// Package stack provides CLI commands that rebase branches onto their dependencies.
package stack

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewRebaseCmd creates the rebase command
func NewRebaseCmd() *cobra.Command {
	var opts actions.RebaseOptions

	cmd := &cobra.Command{
		Use:   "rebase [branch]",
		Short: "Rebase a branch onto its parent",
		Long: `Rebase a branch, the current one by default, onto its primary parent.

--onto rebases onto a named branch instead. Passing "root" rebases onto the branch at
the top of the primary-parent chain. A branch that already contains its target is
left alone unless --force is given.

If the rebase stops on a conflict, resolve it and run 'depstack continue', or run
'depstack abort' to return to where you started.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Branch = helpers.OptionalArg(args)
				if !cmd.Flags().Changed("autostash") {
					opts.Autostash = ctx.Config.Cascade.Autostash
				}
				_, err := actions.RebaseAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Onto, "onto", "", `Rebase onto this branch, or "root" for the topology root.`)
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Rebase even when the branch is up to date.")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be rebased without changing anything.")
	cmd.Flags().BoolVar(&opts.Autostash, "autostash", false, "Stash uncommitted changes first and restore them afterwards.")
	cmd.Flags().BoolVar(&opts.ShowGraph, "show-graph", false, "Render the graph afterwards.")
	_ = cmd.RegisterFlagCompletionFunc("onto", helpers.CompleteBranches)

	return cmd
}
