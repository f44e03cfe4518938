package actions_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

func init() {
	// Disable interactive prompts in tests
	os.Setenv("DEPSTACK_NO_INTERACTIVE", "1")
	tui.DisableColors()
}

type testEnv struct {
	ctx   *runtime.Context
	vcs   *git.MockVCS
	store *store.MemoryStore
	out   *bytes.Buffer
}

func newTestEnv(t *testing.T, vcs *git.MockVCS, d *store.Declarations) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, vcs, store.NewMemoryStore(d))
}

func newTestEnvWithStore(t *testing.T, vcs *git.MockVCS, st store.Store) *testEnv {
	t.Helper()
	out := &bytes.Buffer{}
	splog, err := tui.NewSplogWithWriter(out, tui.LogOptions{})
	require.NoError(t, err)

	cfg := config.Default(t.TempDir())
	ctx := runtime.NewContext(context.Background(), vcs, st, cfg, splog)

	j, err := journal.Open(cfg.JournalPath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	ctx.Journal = j

	env := &testEnv{ctx: ctx, vcs: vcs, out: out}
	if mem, ok := st.(*store.MemoryStore); ok {
		env.store = mem
	}
	return env
}

func (e *testEnv) declarations(t *testing.T) *store.Declarations {
	t.Helper()
	d, err := e.ctx.Store.Load()
	require.NoError(t, err)
	return d
}

func (e *testEnv) continuation(t *testing.T) *config.ContinuationState {
	t.Helper()
	state, err := config.GetContinuationState(e.ctx.Config.ContinuePath())
	require.NoError(t, err)
	return state
}

func (e *testEnv) lastRun(t *testing.T) *journal.Run {
	t.Helper()
	runs, err := e.ctx.Journal.Runs(e.ctx.Context, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run, err := e.ctx.Journal.Run(e.ctx.Context, runs[0].ID)
	require.NoError(t, err)
	return run
}

// abcRepo declares main -> A, A -> B, A -> C with main moved ahead, so every
// branch needs a rebase. The user sits on C.
func abcRepo(t *testing.T) (*git.MockVCS, *store.Declarations) {
	t.Helper()
	vcs := git.NewMockVCS("main")
	vcs.AddBranch("A", "main")
	vcs.AddBranch("B", "A")
	vcs.AddBranch("C", "A")
	vcs.AddCommit("main")
	require.NoError(t, vcs.Checkout(context.Background(), "C"))
	vcs.ResetCalls()

	d := store.New()
	require.NoError(t, d.AddRoot("main", true))
	require.NoError(t, d.AddEdge("main", "A"))
	require.NoError(t, d.AddEdge("A", "B"))
	require.NoError(t, d.AddEdge("A", "C"))
	return vcs, d
}
