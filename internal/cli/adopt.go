package cli

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// newAdoptCmd creates the adopt command
func newAdoptCmd() *cobra.Command {
	var opts actions.AdoptOptions

	cmd := &cobra.Command{
		Use:   "adopt [branch...]",
		Short: "Attach orphan branches to a parent",
		Long: `Attach orphan branches, the current one by default, to a parent.

The parent is the deepest attached branch whose tip the orphan already contains,
falling back to the default root. --default-root always uses the default root and
--pick asks.`,
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Branches = args
				_, err := actions.AdoptAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Adopt every orphan.")
	cmd.Flags().BoolVar(&opts.DefaultRoot, "default-root", false, "Attach to the default root.")
	cmd.Flags().BoolVar(&opts.Pick, "pick", false, "Choose each parent interactively.")
	cmd.MarkFlagsMutuallyExclusive("default-root", "pick")

	return cmd
}

// newEvictCmd creates the evict command
func newEvictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evict",
		Short: "Drop declarations for branches that no longer exist",
		Long: `Remove dependencies and metadata that refer to branches which no longer exist
locally. Roots are kept even when their branch is missing.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.EvictAction(ctx)
				return err
			})
		},
	}
}

// newCleanCmd creates the clean command
func newCleanCmd() *cobra.Command {
	var opts actions.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete branches merged into their parent",
		Long: `Delete branches whose commits are already in their primary parent. Their
children are handed to the nearest surviving ancestor, then declarations for missing
branches are evicted.

With --merged-prs, branches whose GitHub pull request was merged are deleted too.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.CleanAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Delete without asking.")
	cmd.Flags().BoolVar(&opts.MergedPRs, "merged-prs", false, "Also delete branches whose pull request was merged.")

	return cmd
}
