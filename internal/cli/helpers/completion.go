// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/git"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	dir, _ := cmd.Flags().GetString("repo")
	if dir == "" {
		dir = "."
	}
	repo, err := git.Open(cmd.Context(), dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.BranchNames(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// OptionalArg returns args[0], or "" when no argument was given.
func OptionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
