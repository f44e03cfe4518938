package mcpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/mcpserver"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

type fixture struct {
	rc    *runtime.Context
	vcs   *git.MockVCS
	store *store.MemoryStore
}

// newFixture declares main -> A, A -> B, A -> C, B -> D, C -> D and leaves "stray"
// undeclared.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	tui.DisableColors()

	vcs := git.NewMockVCS("main")
	vcs.AddBranch("A", "main")
	vcs.AddBranch("B", "A")
	vcs.AddBranch("C", "A")
	vcs.AddBranch("D", "B")
	vcs.AddBranch("stray", "main")
	vcs.AddCommit("main")
	vcs.ResetCalls()

	d := store.New()
	require.NoError(t, d.AddRoot("main", true))
	for _, e := range [][2]string{{"main", "A"}, {"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		require.NoError(t, d.AddEdge(e[0], e[1]))
	}
	st := store.NewMemoryStore(d)

	splog, err := tui.NewSplogWithWriter(&bytes.Buffer{}, tui.LogOptions{})
	require.NoError(t, err)
	rc := runtime.NewContext(context.Background(), vcs, st, config.Default(t.TempDir()), splog)
	return &fixture{rc: rc, vcs: vcs, store: st}
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func (f *fixture) expectUntouched(t *testing.T) {
	t.Helper()
	assert.Equal(t, 0, f.store.Saves())
	for _, call := range f.vcs.Calls() {
		assert.Failf(t, "unexpected git call", "%s", call)
	}
}

func TestGraphTreeTool(t *testing.T) {
	f := newFixture(t)
	tool := mcpserver.NewGraphTreeTool(f.rc)
	assert.Equal(t, "graph_tree", tool.Definition().Name)

	t.Run("renders the whole graph", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(nil))
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := resultText(res)
		assert.Contains(t, text, "◯ main (default root)")
		assert.Contains(t, text, "(see above)")
		assert.Contains(t, text, "Orphans (no path to a root):")
		assert.Contains(t, text, "stray")
		assert.NotContains(t, text, "\x1b[")
	})

	t.Run("unknown root", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"root": "nope"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	f.expectUntouched(t)
}

func TestBranchInfoTool(t *testing.T) {
	f := newFixture(t)
	tool := mcpserver.NewBranchInfoTool(f.rc)

	def := tool.Definition()
	assert.Equal(t, "branch_info", def.Name)
	assert.Contains(t, def.InputSchema.Required, "branch")

	t.Run("diamond branch", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"branch": "D"}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		var info actions.BranchInfo
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &info))
		assert.Equal(t, "D", info.Name)
		assert.Equal(t, []string{"B", "C"}, info.Parents)
		assert.True(t, info.Diamond)
		assert.False(t, info.Orphan)
	})

	t.Run("missing argument", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("unknown branch", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"branch": "nope"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	f.expectUntouched(t)
}

func TestCascadePreviewTool(t *testing.T) {
	f := newFixture(t)
	tool := mcpserver.NewCascadePreviewTool(f.rc)
	assert.Equal(t, "cascade_preview", tool.Definition().Name)

	t.Run("lists parents before children", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"branch": "A"}))
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := resultText(res)
		assert.Contains(t, text, "1. A: planned (rebase onto main)")
		assert.Contains(t, text, "4. D: planned")
		assert.Contains(t, text, "4 planned")
	})

	t.Run("max depth", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"branch": "A", "max_depth": float64(1)}))
		require.NoError(t, err)
		text := resultText(res)
		assert.NotContains(t, text, "D:")
		assert.Contains(t, text, "3 planned")
	})

	t.Run("unknown branch", func(t *testing.T) {
		res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"branch": "nope"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	f.expectUntouched(t)
}

func TestOrphansTool(t *testing.T) {
	f := newFixture(t)
	tool := mcpserver.NewOrphansTool(f.rc)

	res, err := tool.Handle(context.Background(), makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "stray", resultText(res))

	f.expectUntouched(t)
}

func TestNew(t *testing.T) {
	f := newFixture(t)
	require.NotNil(t, mcpserver.New(f.rc, "test"))
	f.expectUntouched(t)
}
