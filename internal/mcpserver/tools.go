package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/engine"
	"depstack.dev/depstack/internal/output"
	"depstack.dev/depstack/internal/runtime"
)

// GraphTreeTool handles the graph_tree MCP tool.
type GraphTreeTool struct {
	rc *runtime.Context
}

// NewGraphTreeTool creates a GraphTreeTool.
func NewGraphTreeTool(rc *runtime.Context) *GraphTreeTool {
	return &GraphTreeTool{rc: rc}
}

// Definition returns the MCP tool definition for graph_tree.
func (t *GraphTreeTool) Definition() mcp.Tool {
	return mcp.NewTool("graph_tree",
		mcp.WithDescription("Render the branch dependency graph as a plain-text tree, with orphans and diagnostics."),
		mcp.WithString("root",
			mcp.Description("Only render the subtree under this root."),
		),
	)
}

// Handle processes the graph_tree tool call.
func (t *GraphTreeTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, g, err := t.rc.LoadGraph()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}
	root := req.GetString("root", "")
	if root != "" && !g.Has(root) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown branch %q", root)), nil
	}
	return mcp.NewToolResultText(output.RenderTree(g, output.TreeOptions{
		Root:        root,
		Plain:       true,
		Diagnostics: true,
	})), nil
}

// BranchInfoTool handles the branch_info MCP tool.
type BranchInfoTool struct {
	rc *runtime.Context
}

// NewBranchInfoTool creates a BranchInfoTool.
func NewBranchInfoTool(rc *runtime.Context) *BranchInfoTool {
	return &BranchInfoTool{rc: rc}
}

// Definition returns the MCP tool definition for branch_info.
func (t *BranchInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("branch_info",
		mcp.WithDescription("Describe one branch as JSON: parents, children, roots, orphan and diamond flags, linked issue and pull request."),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Branch name."),
		),
	)
}

// Handle processes the branch_info tool call.
func (t *BranchInfoTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branch := req.GetString("branch", "")
	if branch == "" {
		return mcp.NewToolResultError("branch is required"), nil
	}
	_, g, err := t.rc.LoadGraph()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}
	info, err := actions.DescribeBranch(t.rc, g, branch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// CascadePreviewTool handles the cascade_preview MCP tool.
type CascadePreviewTool struct {
	rc *runtime.Context
}

// NewCascadePreviewTool creates a CascadePreviewTool.
func NewCascadePreviewTool(rc *runtime.Context) *CascadePreviewTool {
	return &CascadePreviewTool{rc: rc}
}

// Definition returns the MCP tool definition for cascade_preview.
func (t *CascadePreviewTool) Definition() mcp.Tool {
	return mcp.NewTool("cascade_preview",
		mcp.WithDescription("List the branches a cascade from the given branch would rebase, in order, with the parent each goes onto. Nothing is rebased."),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Branch the cascade starts from."),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Levels below the start branch to include. 0 means no limit."),
		),
	)
}

// Handle processes the cascade_preview tool call.
func (t *CascadePreviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branch := req.GetString("branch", "")
	if branch == "" {
		return mcp.NewToolResultError("branch is required"), nil
	}
	_, g, err := t.rc.LoadGraph()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}
	if !g.Has(branch) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown branch %q", branch)), nil
	}

	report, err := engine.New(t.rc.VCS).Cascade(ctx, g, engine.CascadeOptions{
		Start:    branch,
		MaxDepth: intArg(req, "max_depth", 0),
		Preview:  true,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	for i, res := range report.Results {
		sb.WriteString(fmt.Sprintf("%d. %s: %s", i+1, res.Branch, res.Outcome))
		if res.Reason != "" {
			sb.WriteString(" (" + res.Reason + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(report.Summary())
	return mcp.NewToolResultText(sb.String()), nil
}

// OrphansTool handles the orphans MCP tool.
type OrphansTool struct {
	rc *runtime.Context
}

// NewOrphansTool creates an OrphansTool.
func NewOrphansTool(rc *runtime.Context) *OrphansTool {
	return &OrphansTool{rc: rc}
}

// Definition returns the MCP tool definition for orphans.
func (t *OrphansTool) Definition() mcp.Tool {
	return mcp.NewTool("orphans",
		mcp.WithDescription("List live branches that have no declared path to a root."),
	)
}

// Handle processes the orphans tool call.
func (t *OrphansTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, g, err := t.rc.LoadGraph()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}
	orphans := g.Orphans()
	if len(orphans) == 0 {
		return mcp.NewToolResultText("No orphans."), nil
	}
	return mcp.NewToolResultText(strings.Join(orphans, "\n")), nil
}

// intArg extracts an integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
