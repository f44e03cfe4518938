package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/testhelpers"
)

func TestRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("lists branches and reads ancestry", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature change", "feature"))

		repo, err := git.Open(ctx, scene.Dir)
		require.NoError(t, err)

		names, err := repo.BranchNames(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"feature", "main"}, names)

		current, err := repo.CurrentBranch(ctx)
		require.NoError(t, err)
		require.Equal(t, "feature", current)

		isAncestor, err := repo.IsAncestor(ctx, "main", "feature")
		require.NoError(t, err)
		require.True(t, isAncestor)

		isAncestor, err = repo.IsAncestor(ctx, "feature", "main")
		require.NoError(t, err)
		require.False(t, isAncestor)

		_, err = repo.TipSHA(ctx, "missing")
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})

	t.Run("rebases the checked-out branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature change", "feature"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main change", "main"))

		repo, err := git.Open(ctx, scene.Dir)
		require.NoError(t, err)
		require.NoError(t, repo.Checkout(ctx, "feature"))

		result, err := repo.Rebase(ctx, "main")
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)

		isAncestor, err := repo.IsAncestor(ctx, "main", "feature")
		require.NoError(t, err)
		require.True(t, isAncestor)
	})

	t.Run("reports conflicts and aborts", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("feature side", "shared"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main side", "shared"))

		repo, err := git.Open(ctx, scene.Dir)
		require.NoError(t, err)
		require.NoError(t, repo.Checkout(ctx, "feature"))

		result, err := repo.Rebase(ctx, "main")
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)
		require.True(t, repo.IsRebaseInProgress(ctx))

		require.NoError(t, repo.RebaseAbort(ctx))
		require.False(t, repo.IsRebaseInProgress(ctx))

		current, err := repo.CurrentBranch(ctx)
		require.NoError(t, err)
		require.Equal(t, "feature", current)
	})

	t.Run("stashes and restores local changes", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateChange("wip", "wip", true))

		repo, err := git.Open(ctx, scene.Dir)
		require.NoError(t, err)

		dirty, err := repo.HasUncommittedChanges(ctx)
		require.NoError(t, err)
		require.True(t, dirty)

		require.NoError(t, repo.StashPush(ctx, "depstack test"))
		dirty, err = repo.HasUncommittedChanges(ctx)
		require.NoError(t, err)
		require.False(t, dirty)

		require.NoError(t, repo.StashPop(ctx))
		dirty, err = repo.HasUncommittedChanges(ctx)
		require.NoError(t, err)
		require.True(t, dirty)
	})

	t.Run("deletes a branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateBranch("old"))

		repo, err := git.Open(ctx, scene.Dir)
		require.NoError(t, err)
		require.NoError(t, repo.DeleteBranch(ctx, "old"))

		names, err := repo.BranchNames(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"main"}, names)
	})
}
