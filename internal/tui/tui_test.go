package tui_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/tui"
)

func TestSplog(t *testing.T) {
	t.Setenv("DEBUG", "")

	t.Run("console prints bare messages", func(t *testing.T) {
		var out bytes.Buffer
		splog, err := tui.NewSplogWithWriter(&out, tui.LogOptions{})
		require.NoError(t, err)

		splog.Info("rebased %s", "feature")
		splog.Debug("hidden")
		splog.Outcome("feature", "main", "rebased", "")
		require.Equal(t, "rebased feature\n", out.String())

		splog.SetQuiet(true)
		splog.Info("nothing")
		splog.Page("tree")
		splog.Newline()
		require.Equal(t, "rebased feature\n", out.String())
	})

	t.Run("debug mode shows outcomes", func(t *testing.T) {
		var out bytes.Buffer
		splog, err := tui.NewSplogWithWriter(&out, tui.LogOptions{Debug: true})
		require.NoError(t, err)

		splog.Outcome("B", "A", "conflict", "")
		require.Equal(t, "B: conflict\n", out.String())
	})

	t.Run("log file carries run and outcome fields", func(t *testing.T) {
		var out bytes.Buffer
		logPath := filepath.Join(t.TempDir(), "logs", "depstack.log")
		splog, err := tui.NewSplogWithWriter(&out, tui.LogOptions{Path: logPath, MaxSizeMB: 2, MaxBackups: 1})
		require.NoError(t, err)

		run := splog.WithRun("run-1", "cascade")
		run.Outcome("B", "A", "conflict", "merge conflict")
		splog.SetQuiet(true)
		run.Info("Cascade halted")
		splog.Debug("console stays quiet")
		require.NoError(t, splog.Close())
		require.Empty(t, out.String())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 3)

		require.Contains(t, lines[0], "run=run-1")
		require.Contains(t, lines[0], "op=cascade")
		require.Contains(t, lines[0], "branch=B")
		require.Contains(t, lines[0], "parent=A")
		require.Contains(t, lines[0], "outcome=conflict")
		require.Contains(t, lines[0], `reason="merge conflict"`)

		require.Contains(t, lines[1], `msg="Cascade halted"`)
		require.Contains(t, lines[1], "run=run-1")

		require.Contains(t, lines[2], "console stays quiet")
		require.NotContains(t, lines[2], "run=")
	})
}

func TestLogFilePath(t *testing.T) {
	require.Equal(t, "/data/depstack.log", tui.LogFilePath("/data/depstack.log"))
	t.Setenv("DEPSTACK_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", tui.LogFilePath("/data/depstack.log"))
}

func TestPromptsRefuseWithoutInteraction(t *testing.T) {
	t.Setenv("DEPSTACK_NO_INTERACTIVE", "1")
	_, err := tui.PromptConfirm("sure?", false)
	require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
	_, err = tui.PromptSelect("pick", []tui.SelectOption{{Label: "a", Value: "a"}}, "")
	require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
	_, err = tui.PromptMultiSelect("pick", []string{"a"}, nil)
	require.ErrorIs(t, err, tui.ErrInteractiveDisabled)
}

func TestSelectModel(t *testing.T) {
	options := []tui.SelectOption{
		{Label: "feature-a", Value: "a"},
		{Label: "feature-b", Value: "b"},
		{Label: "fix-c", Value: "c"},
	}

	t.Run("starts on the default and wraps", func(t *testing.T) {
		m := tui.NewSelectModel("pick", options, "c")
		require.Equal(t, 2, m.Cursor)

		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(tui.SelectModel)
		require.Equal(t, 0, m.Cursor)

		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = next.(tui.SelectModel)
		require.True(t, m.Done)
		require.Equal(t, "a", m.Selected)
	})

	t.Run("filters by typing", func(t *testing.T) {
		m := tui.NewSelectModel("pick", options, "")
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fix")})
		m = next.(tui.SelectModel)
		require.Len(t, m.Filtered, 1)

		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, "c", next.(tui.SelectModel).Selected)
	})

	t.Run("escape cancels", func(t *testing.T) {
		next, _ := tui.NewSelectModel("pick", options, "").Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.Error(t, next.(tui.SelectModel).Err)
	})
}

func TestConfirmModel(t *testing.T) {
	next, _ := tui.ConfirmModel{Prompt: "delete?"}.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.True(t, next.(tui.ConfirmModel).Choice)

	next, _ = tui.ConfirmModel{Prompt: "delete?", Choice: true}.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, next.(tui.ConfirmModel).Choice)

	next, _ = tui.ConfirmModel{Prompt: "delete?"}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.ErrorIs(t, next.(tui.ConfirmModel).Err, tui.ErrCanceled)
}

func TestCascadeProgressModel(t *testing.T) {
	tui.DisableColors()
	canceled := false
	m := tui.NewCascadeProgressModel([]string{"A", "B", "C"}, func() { canceled = true })

	m.Update(tui.BranchStartedMsg{Branch: "A", Parent: "main"})
	require.Equal(t, tui.StatusRunning, m.Items[0].Status)

	m.Update(tui.BranchFinishedMsg{Branch: "A", Parent: "main", Status: "rebased"})
	m.Update(tui.BranchFinishedMsg{Branch: "B", Parent: "A", Status: "conflict", Detail: "conflict rebasing B onto A"})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, canceled)
	require.True(t, m.Interrupted)

	view := m.View()
	require.Contains(t, view, "A onto main rebased")
	require.Contains(t, view, "B onto A conflict")
	require.True(t, strings.Contains(view, "C pending"))
	require.Contains(t, view, "Stopping after the current branch")

	_, cmd := m.Update(tui.CascadeDoneMsg{})
	require.NotNil(t, cmd)
	require.True(t, m.Done)
}

func TestRunCascadeProgress(t *testing.T) {
	headless := []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer()}

	t.Run("returns the run error once the run is done", func(t *testing.T) {
		errConflict := errors.New("conflict")
		err := tui.RunCascadeProgress([]string{"A"}, func() {}, func(send func(tea.Msg)) error {
			send(tui.BranchStartedMsg{Branch: "A", Parent: "main"})
			send(tui.BranchFinishedMsg{Branch: "A", Parent: "main", Status: "conflict"})
			return errConflict
		}, headless...)
		require.ErrorIs(t, err, errConflict)
		require.NotErrorIs(t, err, tui.ErrProgressView)
	})

	t.Run("view failure cancels and waits for the run", func(t *testing.T) {
		killed, kill := context.WithCancel(context.Background())
		kill()

		canceled := make(chan struct{})
		var finished atomic.Bool
		errStopped := errors.New("stopped before B")

		err := tui.RunCascadeProgress([]string{"A", "B"}, func() { close(canceled) }, func(send func(tea.Msg)) error {
			send(tui.BranchStartedMsg{Branch: "A", Parent: "main"})
			select {
			case <-canceled:
			case <-time.After(5 * time.Second):
				return errors.New("run was never canceled")
			}
			finished.Store(true)
			return errStopped
		}, append(headless, tea.WithContext(killed))...)

		require.ErrorIs(t, err, tui.ErrProgressView)
		require.ErrorIs(t, err, errStopped)
		require.True(t, finished.Load())
	})
}
