package cli

import (
	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/mcpserver"
	"depstack.dev/depstack/internal/runtime"
)

// newMCPCmd creates the mcp command
func newMCPCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the branch graph to MCP clients over stdio",
		Long: `Run a Model Context Protocol server on stdin and stdout.

The tools are read-only: graph_tree, branch_info, cascade_preview and orphans.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return mcpserver.Serve(ctx, version)
			})
		},
	}
}
