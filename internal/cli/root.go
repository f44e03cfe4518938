// Package cli wires the depstack commands together.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/cli/branch"
	"depstack.dev/depstack/internal/cli/navigation"
	"depstack.dev/depstack/internal/cli/stack"
	"depstack.dev/depstack/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "depstack",
		Short: "depstack rebases Git branches along the dependencies you declare",
		Long: `depstack keeps a declared dependency graph over your Git branches and rebases
along it. A branch may depend on several others; roots such as main depend on none.

Declare edges with 'depstack branch depend', look at the graph with 'depstack log',
and bring everything up to date with 'depstack cascade'.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			tui.InitColorProfile()
		},
	}

	rootCmd.PersistentFlags().String("repo", "", "Path to the repository (defaults to the working directory).")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug output.")

	// Dependencies and rebasing
	rootCmd.AddCommand(branch.NewBranchCmd())
	rootCmd.AddCommand(stack.NewRebaseCmd())
	rootCmd.AddCommand(stack.NewCascadeCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newAbortCmd())

	// Graph upkeep
	rootCmd.AddCommand(newAdoptCmd())
	rootCmd.AddCommand(newEvictCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newLinkCmd())

	// Navigation and inspection
	rootCmd.AddCommand(navigation.NewLogCmd())
	rootCmd.AddCommand(navigation.NewInfoCmd())
	rootCmd.AddCommand(navigation.NewUpCmd())
	rootCmd.AddCommand(navigation.NewDownCmd())
	rootCmd.AddCommand(newHistoryCmd())

	// Setup
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMCPCmd(version))

	return rootCmd
}
