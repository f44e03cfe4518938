package graph_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/store"
)

// declare builds declarations from "parent>child" pairs with main as default root.
func declare(t *testing.T, edges ...string) *store.Declarations {
	t.Helper()
	d := store.New()
	require.NoError(t, d.AddRoot("main", true))
	for _, e := range edges {
		parent, child, ok := strings.Cut(e, ">")
		require.True(t, ok, e)
		require.NoError(t, d.AddEdge(strings.TrimSpace(parent), strings.TrimSpace(child)))
	}
	return d
}

func live(current string, branches ...string) graph.LiveState {
	return graph.LiveState{Branches: branches, Current: current}
}

func TestBuild(t *testing.T) {
	t.Run("indexes live and declared branches", func(t *testing.T) {
		d := declare(t, "main > a", "a > c", "a > b")
		g := graph.Build(d, live("b", "main", "a", "b", "c", "scratch"))

		require.Equal(t, []string{"b", "c"}, g.Children("a"))
		require.Equal(t, []string{"a"}, g.Parents("b"))
		require.True(t, g.Has("scratch"))
		require.Equal(t, "b", g.Current())

		node, ok := g.Node("b")
		require.True(t, ok)
		require.True(t, node.Current)
		require.True(t, node.Live)
		require.Empty(t, g.Diagnostics())
	})

	t.Run("keeps declarations for missing branches", func(t *testing.T) {
		d := declare(t, "main > gone", "gone > child")
		d.SetMeta("gone", store.BranchMeta{Issue: "X-1"})
		g := graph.Build(d, live("main", "main", "child"))

		node, ok := g.Node("gone")
		require.True(t, ok)
		require.False(t, node.Live)
		require.Equal(t, "X-1", node.Issue)
		require.Equal(t, []string{"child"}, g.Children("gone"))
	})

	t.Run("warns about branches nobody knows", func(t *testing.T) {
		d := declare(t, "main > ghost")
		g := graph.Build(d, live("main", "main"))

		diags := g.Diagnostics()
		require.Len(t, diags, 1)
		require.Equal(t, graph.LevelWarning, diags[0].Level)
		require.Equal(t, "ghost", diags[0].Branch)
	})

	t.Run("tolerates hand-edited duplicates", func(t *testing.T) {
		d := declare(t, "main > a")
		d.Edges = append(d.Edges, store.Edge{Parent: "main", Child: "a"}, store.Edge{Parent: "a", Child: "a"})
		g := graph.Build(d, live("main", "main", "a"))

		require.Equal(t, []string{"main"}, g.Parents("a"))
		require.Len(t, g.Diagnostics(), 2)
	})

	t.Run("load surfaces store errors only", func(t *testing.T) {
		st := store.NewMemoryStore(declare(t, "main > a", "a > main2", "main2 > a2"))
		_, g, err := graph.Load(st, live("main", "main", "a"))
		require.NoError(t, err)
		require.True(t, g.Has("a2"))
	})
}

func TestCheckEdge(t *testing.T) {
	d := declare(t, "main > a", "a > b", "b > c")
	g := graph.Build(d, live("main", "main", "a", "b", "c", "x"))

	t.Run("accepts a new dependency", func(t *testing.T) {
		require.NoError(t, g.CheckEdge("a", "x"))
		require.NoError(t, g.CheckEdge("a", "c"))
	})

	t.Run("rejects a cycle and names the path", func(t *testing.T) {
		err := g.CheckEdge("c", "a")
		require.ErrorIs(t, err, depstackerrors.ErrCycle)

		var cycle *depstackerrors.CycleError
		require.ErrorAs(t, err, &cycle)
		require.Equal(t, []string{"a", "b", "c", "a"}, cycle.Path)
	})

	t.Run("rejects self, duplicate and root edges", func(t *testing.T) {
		require.ErrorIs(t, g.CheckEdge("a", "a"), depstackerrors.ErrSelfEdge)
		require.ErrorIs(t, g.CheckEdge("a", "b"), depstackerrors.ErrDuplicateEdge)
		require.ErrorIs(t, g.CheckEdge("a", "main"), depstackerrors.ErrRootHasParent)
	})
}

func TestAcyclicRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for round := 0; round < 50; round++ {
		d := declare(t)
		for attempt := 0; attempt < 20; attempt++ {
			g := graph.Build(d, live("main", append([]string{"main"}, names...)...))
			parent := names[rng.Intn(len(names))]
			child := names[rng.Intn(len(names))]
			if rng.Intn(4) == 0 {
				parent = "main"
			}
			if g.CheckEdge(parent, child) == nil {
				require.NoError(t, d.AddEdge(parent, child))
			}
		}

		g := graph.Build(d, live("main", append([]string{"main"}, names...)...))
		path, cyclic := g.HasCycle()
		require.False(t, cyclic, "round %d produced cycle %v", round, path)
	}
}

func TestOrphansAndDiamonds(t *testing.T) {
	t.Run("diamond is flagged and still attached through one parent", func(t *testing.T) {
		// c is declared but unattached; b hangs off both a and c.
		d := declare(t, "main > a", "a > b", "c > b")
		g := graph.Build(d, live("main", "main", "a", "b", "c"))

		require.True(t, g.IsDiamond("b"))
		diamonds := g.Diamonds()
		require.Len(t, diamonds, 1)
		require.Equal(t, "b", diamonds[0].Branch)
		require.Equal(t, []string{"a", "c"}, diamonds[0].Parents)
		require.Empty(t, diamonds[0].CommonAncestors)

		require.Equal(t, []string{"c"}, g.Orphans())
		require.False(t, g.IsOrphan("b"))
	})

	t.Run("common ancestors of a true diamond", func(t *testing.T) {
		d := declare(t, "main > a", "a > l", "a > r", "l > m", "r > m")
		g := graph.Build(d, live("main", "main", "a", "l", "r", "m"))

		diamonds := g.Diamonds()
		require.Len(t, diamonds, 1)
		require.Equal(t, []string{"a", "main"}, diamonds[0].CommonAncestors)
		require.Empty(t, g.Orphans())
	})

	t.Run("undeclared live branches are orphans, missing ones are not", func(t *testing.T) {
		d := declare(t, "gone > stray")
		d.SetMeta("gone", store.BranchMeta{Issue: "X"})
		g := graph.Build(d, live("main", "main", "stray", "loose"))
		require.Equal(t, []string{"loose", "stray"}, g.Orphans())
	})
}

func TestResolveRoot(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		g := graph.Build(declare(t, "main > a"), live("a", "main", "a"))
		root, err := g.ResolveRoot("a")
		require.NoError(t, err)
		require.Equal(t, "a", root)

		_, err = g.ResolveRoot("nope")
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})

	t.Run("default root before first declared", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddRoot("release", false))
		require.NoError(t, d.AddRoot("main", true))
		g := graph.Build(d, live("x", "main", "release", "x"))
		root, err := g.ResolveRoot("")
		require.NoError(t, err)
		require.Equal(t, "main", root)
	})

	t.Run("first declared root without a default", func(t *testing.T) {
		d := store.New()
		require.NoError(t, d.AddRoot("release", false))
		require.NoError(t, d.AddRoot("main", false))
		g := graph.Build(d, live("x", "main", "release", "x"))
		root, err := g.ResolveRoot("")
		require.NoError(t, err)
		require.Equal(t, "release", root)
	})

	t.Run("falls back to current branch", func(t *testing.T) {
		g := graph.Build(store.New(), live("x", "x"))
		root, err := g.ResolveRoot("")
		require.NoError(t, err)
		require.Equal(t, "x", root)
	})

	t.Run("no root found", func(t *testing.T) {
		g := graph.Build(store.New(), live("", "x"))
		_, err := g.ResolveRoot("")
		require.ErrorIs(t, err, depstackerrors.ErrNoRoot)
	})

	t.Run("topology root follows primary parents", func(t *testing.T) {
		d := declare(t, "main > a", "a > b", "other > b")
		g := graph.Build(d, live("b", "main", "a", "b", "other"))
		root, err := g.TopologyRoot("b")
		require.NoError(t, err)
		require.Equal(t, "main", root)
	})
}

func TestTopoOrder(t *testing.T) {
	t.Run("siblings in name order after their parent", func(t *testing.T) {
		d := declare(t, "main > A", "A > C", "A > B")
		g := graph.Build(d, live("main", "main", "A", "B", "C"))

		order, err := g.TopoOrder("A", 0)
		require.NoError(t, err)
		require.Equal(t, []string{"A", "B", "C"}, order)
	})

	t.Run("diamond child waits for both parents", func(t *testing.T) {
		d := declare(t, "main > a", "a > z", "a > b", "z > m", "b > m", "b > c")
		g := graph.Build(d, live("main", "main", "a", "b", "c", "m", "z"))

		order, err := g.TopoOrder("a", 0)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "z", "c", "m"}, order)
	})

	t.Run("max depth limits descendants", func(t *testing.T) {
		d := declare(t, "main > a", "a > b", "b > c")
		g := graph.Build(d, live("main", "main", "a", "b", "c"))

		order, err := g.TopoOrder("main", 2)
		require.NoError(t, err)
		require.Equal(t, []string{"main", "a", "b"}, order)
	})

	t.Run("unknown start", func(t *testing.T) {
		g := graph.Build(declare(t), live("main", "main"))
		_, err := g.TopoOrder("nope", 0)
		require.ErrorIs(t, err, depstackerrors.ErrBranchNotFound)
	})

	t.Run("corrupt cycle is reported", func(t *testing.T) {
		d := declare(t, "main > a", "a > b")
		d.Edges = append(d.Edges, store.Edge{Parent: "b", Child: "a"})
		g := graph.Build(d, live("main", "main", "a", "b"))

		_, err := g.TopoOrder("main", 0)
		require.ErrorIs(t, err, depstackerrors.ErrCycle)
	})

	t.Run("every edge is respected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		d := declare(t)
		for attempt := 0; attempt < 40; attempt++ {
			g := graph.Build(d, live("main", append([]string{"main"}, names...)...))
			parent := names[rng.Intn(len(names))]
			if attempt%3 == 0 {
				parent = "main"
			}
			child := names[rng.Intn(len(names))]
			if g.CheckEdge(parent, child) == nil {
				require.NoError(t, d.AddEdge(parent, child))
			}
		}

		g := graph.Build(d, live("main", append([]string{"main"}, names...)...))
		order, err := g.TopoOrder("main", 0)
		require.NoError(t, err)

		pos := make(map[string]int, len(order))
		for i, name := range order {
			pos[name] = i
		}
		for _, e := range g.Edges() {
			pi, okParent := pos[e.Parent]
			ci, okChild := pos[e.Child]
			if okParent && okChild {
				require.Less(t, pi, ci, "%s must precede %s", e.Parent, e.Child)
			}
		}
	})
}
