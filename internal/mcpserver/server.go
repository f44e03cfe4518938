// Package mcpserver exposes the branch graph to MCP clients over stdio. Every tool is
// read-only: nothing here writes declarations or touches the working tree.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"depstack.dev/depstack/internal/runtime"
)

const instructions = `depstack manages a declared dependency graph over Git branches.
Use graph_tree to see the whole graph, branch_info for one branch, orphans for branches
with no path to a root and cascade_preview to see the order a cascade would rebase in.`

// New creates the MCP server with every tool registered against rc.
func New(rc *runtime.Context, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"depstack",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	tree := NewGraphTreeTool(rc)
	s.AddTool(tree.Definition(), tree.Handle)

	info := NewBranchInfoTool(rc)
	s.AddTool(info.Definition(), info.Handle)

	preview := NewCascadePreviewTool(rc)
	s.AddTool(preview.Definition(), preview.Handle)

	orphans := NewOrphansTool(rc)
	s.AddTool(orphans.Definition(), orphans.Handle)

	return s
}

// Serve runs the server on stdin and stdout until the client disconnects. Console
// logging is silenced so it cannot corrupt the protocol stream.
func Serve(rc *runtime.Context, version string) error {
	rc.Splog.SetQuiet(true)
	return server.ServeStdio(New(rc, version))
}
