package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/store"
)

func TestDeclarations(t *testing.T) {
	t.Run("rejects self, duplicate and root-child edges", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddRoot("main", true))
		require.NoError(t, d.AddEdge("main", "a"))

		require.ErrorIs(t, d.AddEdge("a", "a"), depstackerrors.ErrSelfEdge)
		require.ErrorIs(t, d.AddEdge("main", "a"), depstackerrors.ErrDuplicateEdge)
		require.ErrorIs(t, d.AddEdge("a", "main"), depstackerrors.ErrRootHasParent)
		require.Len(t, d.Edges, 1)
	})

	t.Run("parents keep declaration order", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddEdge("c", "b"))
		require.NoError(t, d.AddEdge("a", "b"))
		require.Equal(t, []string{"c", "a"}, d.Parents("b"))
	})

	t.Run("only one default root", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddRoot("main", true))
		require.NoError(t, d.AddRoot("release", true))

		name, ok := d.DefaultRoot()
		require.True(t, ok)
		require.Equal(t, "release", name)
		require.Equal(t, []string{"main", "release"}, d.RootNames())
	})

	t.Run("a branch with parents cannot become a root", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddEdge("main", "a"))
		require.ErrorIs(t, d.AddRoot("a", false), depstackerrors.ErrRootHasParent)
	})

	t.Run("reparent keeps the primary slot", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddEdge("a", "c"))
		require.NoError(t, d.AddEdge("b", "c"))
		require.NoError(t, d.Reparent("c", "a", "main"))
		require.Equal(t, []string{"main", "b"}, d.Parents("c"))

		require.NoError(t, d.Reparent("c", "main", "b"))
		require.Equal(t, []string{"b"}, d.Parents("c"))
	})

	t.Run("remove missing edge", func(t *testing.T) {
		d := store.New()
		require.ErrorIs(t, d.RemoveEdge("main", "a"), depstackerrors.ErrEdgeNotFound)
	})
}

func TestFileStore(t *testing.T) {
	t.Run("missing file loads empty", func(t *testing.T) {
		s := store.NewFileStore(filepath.Join(t.TempDir(), "depstack", "declarations.yml"))
		d, err := s.Load()
		require.NoError(t, err)
		require.Empty(t, d.Edges)
		require.Empty(t, d.Roots)
	})

	t.Run("round trips declarations and metadata", func(t *testing.T) {
		s := store.NewFileStore(filepath.Join(t.TempDir(), "depstack", "declarations.yml"))
		created := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

		d := store.New()
		require.NoError(t, d.AddRoot("main", true))
		require.NoError(t, d.AddEdge("main", "feature"))
		d.SetMeta("feature", store.BranchMeta{Issue: "PROJ-12", PR: 42, Created: &created})
		require.NoError(t, s.Save(d))

		loaded, err := s.Load()
		require.NoError(t, err)
		require.Equal(t, []store.Edge{{Parent: "main", Child: "feature"}}, loaded.Edges)
		meta, ok := loaded.Meta("feature")
		require.True(t, ok)
		require.Equal(t, "PROJ-12", meta.Issue)
		require.Equal(t, 42, meta.PR)
		require.True(t, created.Equal(*meta.Created))
	})

	t.Run("preserves unknown fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "declarations.yml")
		doc := `version: 1
owner: platform-team
roots:
  - name: main
    default: true
edges:
  - parent: main
    child: a
branches:
  a:
    issue: X-1
    reviewer: sam
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

		s := store.NewFileStore(path)
		d, err := s.Load()
		require.NoError(t, err)
		require.NoError(t, d.AddEdge("a", "b"))
		require.NoError(t, s.Save(d))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "owner: platform-team")
		require.Contains(t, string(data), "reviewer: sam")
	})
}

func TestMemoryStore(t *testing.T) {
	seed := store.New()
	require.NoError(t, seed.AddRoot("main", true))
	s := store.NewMemoryStore(seed)

	d, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, d.AddEdge("main", "a"))

	// Loaded values are copies until saved.
	again, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, again.Edges)

	require.NoError(t, s.Save(d))
	require.Equal(t, 1, s.Saves())

	again, err = s.Load()
	require.NoError(t, err)
	require.Len(t, again.Edges, 1)
}
