package actions_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/config"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/github"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

func TestLogAction(t *testing.T) {
	t.Run("renders roots, orphans and diagnostics", func(t *testing.T) {
		vcs, d := abcRepo(t)
		vcs.AddBranch("stray", "main")
		require.NoError(t, d.AddEdge("C", "gone"))
		env := newTestEnv(t, vcs, d)

		require.NoError(t, actions.LogAction(env.ctx, actions.LogOptions{Plain: true}))

		out := env.out.String()
		assert.Contains(t, out, "◯ main (default root)")
		assert.Contains(t, out, "◉ C (current)")
		assert.Contains(t, out, "Orphans (no path to a root):")
		assert.Contains(t, out, "stray")
		assert.Contains(t, out, "Diagnostics:")
		assert.Contains(t, out, "gone")
	})

	t.Run("unknown root", func(t *testing.T) {
		vcs, d := abcRepo(t)
		env := newTestEnv(t, vcs, d)

		err := actions.LogAction(env.ctx, actions.LogOptions{Root: "nope"})
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})
}

func TestInfoAction(t *testing.T) {
	t.Run("describes a diamond", func(t *testing.T) {
		vcs, d := abcRepo(t)
		vcs.AddBranch("D", "C")
		require.NoError(t, d.AddEdge("B", "D"))
		require.NoError(t, d.AddEdge("C", "D"))
		d.SetMeta("D", store.BranchMeta{Issue: "DEP-9", PR: 12})
		env := newTestEnv(t, vcs, d)

		info, err := actions.InfoAction(env.ctx, actions.InfoOptions{Branch: "D"})
		require.NoError(t, err)

		assert.True(t, info.Live)
		assert.True(t, info.Diamond)
		assert.False(t, info.Current)
		assert.Equal(t, []string{"B", "C"}, info.Parents)
		assert.Contains(t, info.CommonAncestors, "A")
		assert.Equal(t, "DEP-9", info.Issue)
		assert.Equal(t, 12, info.PR)

		out := env.out.String()
		assert.Contains(t, out, "D (diamond)")
		assert.Contains(t, out, "parents:   B, C")
		assert.Contains(t, out, "pr:        #12")
	})

	t.Run("current branch with pull request", func(t *testing.T) {
		vcs, d := abcRepo(t)
		client := github.NewMockClient()
		client.SetPR("C", &github.PullRequestInfo{Number: 4, Title: "Add C", State: "OPEN", HTMLURL: "https://github.com/owner/repo/pull/4"})
		env := newTestEnv(t, vcs, d)
		env.ctx.SetGitHubClient(client)

		info, err := actions.InfoAction(env.ctx, actions.InfoOptions{PR: true})
		require.NoError(t, err)
		require.NotNil(t, info.PullRequest)
		assert.Equal(t, 4, info.PullRequest.Number)
		assert.Contains(t, env.out.String(), "#4 Add C (OPEN)")
	})

	t.Run("json field names", func(t *testing.T) {
		info := &actions.BranchInfo{Name: "feat", Live: true, Parents: []string{"main"}}
		data, err := json.Marshal(info)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"name":"feat"`)
		assert.Contains(t, string(data), `"parents":["main"]`)
	})

	t.Run("format flags and ages", func(t *testing.T) {
		now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
		created := now.Add(-72 * time.Hour)
		text := actions.FormatBranchInfo(&actions.BranchInfo{
			Name:    "main",
			Live:    false,
			Root:    true,
			Default: true,
			Created: &created,
		}, now)
		assert.Contains(t, text, "main (default root, missing)")
		assert.Contains(t, text, "parents:   none")
		assert.Contains(t, text, "declared:  3 days ago")
	})

	t.Run("unknown branch", func(t *testing.T) {
		vcs, d := abcRepo(t)
		env := newTestEnv(t, vcs, d)

		_, err := actions.InfoAction(env.ctx, actions.InfoOptions{Branch: "nope"})
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})
}

func TestLinkAction(t *testing.T) {
	t.Run("issue and pull request number", func(t *testing.T) {
		vcs, d := abcRepo(t)
		env := newTestEnv(t, vcs, d)

		meta, err := actions.LinkAction(env.ctx, actions.LinkOptions{Branch: "B", Issue: "DEP-3", PR: "12"})
		require.NoError(t, err)
		assert.Equal(t, "DEP-3", meta.Issue)
		assert.Equal(t, 12, meta.PR)

		stored, ok := env.declarations(t).Meta("B")
		require.True(t, ok)
		assert.Equal(t, 12, stored.PR)
		assert.Contains(t, env.out.String(), "Linked B to DEP-3 and #12.")
	})

	t.Run("pull request lookup", func(t *testing.T) {
		vcs, d := abcRepo(t)
		client := github.NewMockClient()
		client.SetPR("C", &github.PullRequestInfo{Number: 31, State: "OPEN"})
		env := newTestEnv(t, vcs, d)
		env.ctx.SetGitHubClient(client)

		meta, err := actions.LinkAction(env.ctx, actions.LinkOptions{PR: actions.PRAuto})
		require.NoError(t, err)
		assert.Equal(t, 31, meta.PR)
	})

	t.Run("clear", func(t *testing.T) {
		vcs, d := abcRepo(t)
		d.SetMeta("C", store.BranchMeta{Issue: "DEP-1", PR: 2})
		env := newTestEnv(t, vcs, d)

		meta, err := actions.LinkAction(env.ctx, actions.LinkOptions{Clear: true})
		require.NoError(t, err)
		assert.True(t, meta.IsZero())
		assert.Contains(t, env.out.String(), "C has no links.")
	})

	t.Run("bad pull request number", func(t *testing.T) {
		vcs, d := abcRepo(t)
		env := newTestEnv(t, vcs, d)

		_, err := actions.LinkAction(env.ctx, actions.LinkOptions{PR: "twelve"})
		require.Error(t, err)
		assert.Equal(t, 0, env.store.Saves())
	})
}

func TestSwitchBranchAction(t *testing.T) {
	t.Run("down follows the primary parent", func(t *testing.T) {
		vcs, d := abcRepo(t)
		env := newTestEnv(t, vcs, d)

		target, err := actions.SwitchBranchAction(env.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionDown})
		require.NoError(t, err)
		assert.Equal(t, "A", target)
		assert.Equal(t, "A", vcs.Current())
	})

	t.Run("down from a root", func(t *testing.T) {
		vcs, d := abcRepo(t)
		require.NoError(t, vcs.Checkout(context.Background(), "main"))
		e := newTestEnv(t, vcs, d)

		_, err := actions.SwitchBranchAction(e.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionDown})
		require.ErrorIs(t, err, depstackerrors.ErrNoParent)
	})

	t.Run("up with one child", func(t *testing.T) {
		vcs, d := abcRepo(t)
		require.NoError(t, vcs.Checkout(context.Background(), "main"))
		e := newTestEnv(t, vcs, d)

		target, err := actions.SwitchBranchAction(e.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionUp})
		require.NoError(t, err)
		assert.Equal(t, "A", target)
	})

	t.Run("up with several children prompts", func(t *testing.T) {
		vcs, d := abcRepo(t)
		require.NoError(t, vcs.Checkout(context.Background(), "A"))
		e := newTestEnv(t, vcs, d)

		_, err := actions.SwitchBranchAction(e.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionUp})
		require.ErrorIs(t, err, tui.ErrInteractiveDisabled)

		target, err := actions.SwitchBranchAction(e.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionUp, To: "B"})
		require.NoError(t, err)
		assert.Equal(t, "B", target)
		assert.Equal(t, "B", vcs.Current())
	})

	t.Run("up from a leaf", func(t *testing.T) {
		vcs, d := abcRepo(t)
		e := newTestEnv(t, vcs, d)

		_, err := actions.SwitchBranchAction(e.ctx, actions.SwitchBranchOptions{Direction: actions.DirectionUp})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "C has no children")
	})
}

func TestInitAction(t *testing.T) {
	t.Run("infers a common root name", func(t *testing.T) {
		vcs := git.NewMockVCS("main")
		vcs.AddBranch("feature", "main")
		e := newTestEnv(t, vcs, nil)

		root, err := actions.InitAction(e.ctx, actions.InitOptions{})
		require.NoError(t, err)
		assert.Equal(t, "main", root)
		assert.True(t, config.Exists(e.ctx.Config.Dir()))

		got := e.declarations(t)
		def, ok := got.DefaultRoot()
		require.True(t, ok)
		assert.Equal(t, "main", def)
	})

	t.Run("explicit root must exist", func(t *testing.T) {
		vcs := git.NewMockVCS("main")
		e := newTestEnv(t, vcs, nil)

		_, err := actions.InitAction(e.ctx, actions.InitOptions{Root: "trunk"})
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})

	t.Run("infer root", func(t *testing.T) {
		assert.Equal(t, "master", actions.InferRoot([]string{"feat", "master"}, "feat"))
		assert.Equal(t, "feat", actions.InferRoot([]string{"feat", "other"}, "feat"))
		assert.Equal(t, "", actions.InferRoot(nil, ""))
	})
}

func TestRootActions(t *testing.T) {
	vcs, d := abcRepo(t)
	e := newTestEnv(t, vcs, d)

	err := actions.RootAddAction(e.ctx, "A", false)
	require.ErrorIs(t, err, depstackerrors.ErrRootHasParent)

	vcs.AddBranch("release", "main")
	require.NoError(t, actions.RootAddAction(e.ctx, "release", true))

	roots, err := actions.RootListAction(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Root{{Name: "main"}, {Name: "release", Default: true}}, roots)

	require.NoError(t, actions.RootRemoveAction(e.ctx, "main"))
	roots, err = actions.RootListAction(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Root{{Name: "release", Default: true}}, roots)
}

func TestHistoryAction(t *testing.T) {
	vcs, d := abcRepo(t)
	e := newTestEnv(t, vcs, d)

	runs, err := actions.HistoryAction(e.ctx, actions.HistoryOptions{})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Contains(t, e.out.String(), "No runs recorded yet.")

	_, err = actions.CascadeAction(e.ctx, actions.CascadeOptions{Branch: "A"})
	require.NoError(t, err)

	runs, err = actions.HistoryAction(e.ctx, actions.HistoryOptions{Limit: 5})
	require.NoError(t, err)
	require.Len(t, runs, 1)

	e.out.Reset()
	one, err := actions.HistoryAction(e.ctx, actions.HistoryOptions{RunID: runs[0].ID[:8]})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, runs[0].ID, one[0].ID)
	assert.Contains(t, e.out.String(), "  B: rebased")

	e.ctx.Journal = nil
	_, err = actions.HistoryAction(e.ctx, actions.HistoryOptions{})
	require.Error(t, err)
}

func TestConfigActions(t *testing.T) {
	vcs, d := abcRepo(t)
	e := newTestEnv(t, vcs, d)

	require.NoError(t, actions.ConfigSetAction(e.ctx, "cascade.max_depth", "3"))
	assert.Equal(t, 3, e.ctx.Config.Cascade.MaxDepth)

	loaded, err := config.Load(e.ctx.Config.Dir())
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Cascade.MaxDepth)

	require.Error(t, actions.ConfigSetAction(e.ctx, "cascade.max_depth", "-1"))
	require.Error(t, actions.ConfigSetAction(e.ctx, "nope", "1"))

	require.NoError(t, actions.ConfigListAction(e.ctx))
	assert.Contains(t, e.out.String(), "cascade.max_depth: 3")
	assert.Contains(t, e.out.String(), "github.host: github.com")
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "branch", actions.Pluralize("branch", 1))
	assert.Equal(t, "branches", actions.Pluralize("branch", 2))
	assert.Equal(t, "runs", actions.Pluralize("run", 0))
}
