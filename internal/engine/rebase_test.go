package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/engine"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/store"
)

func TestRebase(t *testing.T) {
	ctx := context.Background()

	t.Run("rebases an explicit branch and checks out the original again", func(t *testing.T) {
		vcs, d := abcScene(t)
		eng := engine.New(vcs)

		res, err := eng.Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "A"})
		require.NoError(t, err)
		require.Equal(t, engine.Rebased, res.Outcome)
		require.Equal(t, "main", res.Onto)
		require.Equal(t, []string{"checkout A", "rebase A onto main", "checkout C"}, vcs.Calls())
		require.Equal(t, "C", vcs.Current())
	})

	t.Run("defaults to the current branch", func(t *testing.T) {
		vcs, d := abcScene(t)
		require.NoError(t, vcs.Checkout(ctx, "A"))
		vcs.ResetCalls()

		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{})
		require.NoError(t, err)
		require.Equal(t, "A", res.Branch)
		require.Equal(t, []string{"rebase A onto main"}, vcs.Calls())
	})

	t.Run("skips a branch that is up to date", func(t *testing.T) {
		vcs, d := abcScene(t)
		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "B"})
		require.NoError(t, err)
		require.Equal(t, engine.Skipped, res.Outcome)
		require.Equal(t, engine.ReasonUpToDate, res.Reason)
		require.Empty(t, vcs.Calls())
	})

	t.Run("dry run plans without mutating", func(t *testing.T) {
		vcs, d := abcScene(t)
		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "A", DryRun: true})
		require.NoError(t, err)
		require.Equal(t, engine.Planned, res.Outcome)
		require.Equal(t, "rebase onto main", res.Reason)
		require.Empty(t, vcs.Calls())
	})

	t.Run("onto root targets the topology root", func(t *testing.T) {
		vcs, d := abcScene(t)
		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{
			Branch: "B",
			Onto:   engine.OntoRoot,
		})
		require.NoError(t, err)
		require.Equal(t, "main", res.Onto)
		require.Contains(t, vcs.Calls(), "rebase B onto main")
	})

	t.Run("a branch without a parent cannot be rebased", func(t *testing.T) {
		vcs, d := abcScene(t)
		_, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "main"})
		require.ErrorIs(t, err, depstackerrors.ErrNoParent)

		_, err = engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "A", Onto: "nope"})
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})

	t.Run("conflict keeps the stash and the rebase", func(t *testing.T) {
		vcs, d := abcScene(t)
		vcs.SetDirty(true)
		vcs.SetConflict("A", 1)

		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "A", Autostash: true})
		require.NoError(t, err)
		require.Equal(t, engine.Conflict, res.Outcome)
		require.True(t, res.Stashed)
		require.Equal(t, 1, vcs.Stashes())
		require.Equal(t, "A", vcs.Rebasing())
		require.NotContains(t, vcs.Calls(), "stash pop")
	})

	t.Run("autostash is popped after success", func(t *testing.T) {
		vcs, d := abcScene(t)
		vcs.SetDirty(true)

		res, err := engine.New(vcs).Rebase(ctx, buildGraph(t, vcs, d), engine.RebaseOptions{Branch: "A", Autostash: true})
		require.NoError(t, err)
		require.Equal(t, engine.Rebased, res.Outcome)
		require.Equal(t, []string{"stash push", "checkout A", "rebase A onto main", "checkout C", "stash pop"}, vcs.Calls())
		require.Equal(t, 0, vcs.Stashes())
	})
}

func TestResolveOnto(t *testing.T) {
	t.Run("root keyword resolves to the topology root", func(t *testing.T) {
		vcs, d := abcScene(t)
		onto, err := engine.ResolveOnto(buildGraph(t, vcs, d), "B", engine.OntoRoot)
		require.NoError(t, err)
		require.Equal(t, "main", onto)
	})

	t.Run("a live branch named root wins over the keyword", func(t *testing.T) {
		vcs, d := abcScene(t)
		vcs.AddBranch("root", "main")

		onto, err := engine.ResolveOnto(buildGraph(t, vcs, d), "B", engine.OntoRoot)
		require.NoError(t, err)
		require.Equal(t, "root", onto)
	})
}

func TestEvict(t *testing.T) {
	deleted := func(t *testing.T) *store.Declarations {
		t.Helper()
		d := store.New()
		require.NoError(t, d.AddRoot("main", true))
		require.NoError(t, d.AddRoot("X", false))
		require.NoError(t, d.AddEdge("main", "A"))
		require.NoError(t, d.AddEdge("A", "gone"))
		require.NoError(t, d.AddEdge("X", "Y"))
		d.SetMeta("gone", store.BranchMeta{Issue: "J-1"})
		d.SetMeta("X", store.BranchMeta{Issue: "J-2"})
		d.SetMeta("Y", store.BranchMeta{Issue: "J-3"})
		return d
	}

	t.Run("removes metadata and child edges of deleted branches", func(t *testing.T) {
		d := deleted(t)
		result := engine.Evict(d, []string{"main", "A", "Y"})

		require.True(t, result.Removed())
		require.Equal(t, []string{"gone"}, result.Metadata)
		require.Equal(t, []store.Edge{{Parent: "A", Child: "gone"}}, result.Edges)

		// X is a root whose branch is gone; it keeps its metadata and its edge to Y.
		require.True(t, d.HasEdge("X", "Y"))
		_, ok := d.Meta("X")
		require.True(t, ok)
		require.True(t, d.IsRoot("X"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		d := deleted(t)
		live := []string{"main", "A", "Y"}
		require.True(t, engine.Evict(d, live).Removed())
		again := engine.Evict(d, live)
		require.False(t, again.Removed())
	})
}

func TestAdopt(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the deepest contained branch", func(t *testing.T) {
		vcs, d := abcScene(t)
		vcs.AddBranch("orphan", "B")
		g := buildGraph(t, vcs, d)
		eng := engine.New(vcs)

		candidates, err := eng.AdoptCandidates(ctx, g, "orphan")
		require.NoError(t, err)
		require.Equal(t, []engine.Candidate{{Name: "B", Depth: 2}, {Name: "A", Depth: 1}}, candidates)

		parent, err := eng.SuggestParent(ctx, g, "orphan")
		require.NoError(t, err)
		require.Equal(t, "B", parent)
	})

	t.Run("falls back to the default root", func(t *testing.T) {
		vcs := git.NewMockVCS("main")
		vcs.AddCommit("main")
		vcs.AddBranch("side", "main")
		vcs.AddBranch("orphan", "side")
		vcs.RemoveBranch("side")
		vcs.AddCommit("main")
		d := store.New()
		require.NoError(t, d.AddRoot("main", true))

		// orphan's base is an old main commit; main's tip is not contained.
		parent, err := engine.New(vcs).SuggestParent(ctx, buildGraph(t, vcs, d), "orphan")
		require.NoError(t, err)
		require.Equal(t, "main", parent)
	})
}
