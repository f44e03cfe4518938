// Package branch provides CLI commands that edit declared dependencies and roots.
package branch

import (
	"github.com/spf13/cobra"
)

// NewBranchCmd creates the branch command group
func NewBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Declare dependencies between branches",
	}
	cmd.AddCommand(NewDependCmd())
	cmd.AddCommand(NewRmDepCmd())
	cmd.AddCommand(NewRootCmd())
	return cmd
}
