package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// MockVCS is an in-memory VCS for tests. Each branch is a linear list of commit ids;
// ancestry is list membership. Conflicts are scripted per branch and every call is
// recorded in order.
type MockVCS struct {
	mu sync.Mutex

	branches  map[string][]string
	created   map[string]time.Time
	current   string
	dirty     bool
	stashes   int
	nextID    int
	conflicts map[string]int
	errors    map[string]error
	remotes   map[string]string

	rebasing   string
	rebaseOnto string

	calls []string
}

var _ VCS = (*MockVCS)(nil)

// NewMockVCS creates a mock repository with a single branch holding one commit,
// checked out.
func NewMockVCS(trunk string) *MockVCS {
	m := &MockVCS{
		branches:  make(map[string][]string),
		created:   make(map[string]time.Time),
		conflicts: make(map[string]int),
		errors:    make(map[string]error),
		remotes:   make(map[string]string),
		current:   trunk,
	}
	m.branches[trunk] = []string{m.newCommit()}
	m.created[trunk] = time.Unix(0, 0).UTC()
	return m
}

func (m *MockVCS) newCommit() string {
	m.nextID++
	return fmt.Sprintf("c%d", m.nextID)
}

// AddBranch creates name from the tip of from and adds one commit to it.
func (m *MockVCS) AddBranch(name, from string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := m.branches[from]
	history := append(append([]string{}, base...), m.newCommit())
	m.branches[name] = history
	m.created[name] = time.Unix(int64(m.nextID)*3600, 0).UTC()
}

// AddCommit appends a new commit to branch, leaving its dependents behind.
func (m *MockVCS) AddCommit(branch string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[branch] = append(m.branches[branch], m.newCommit())
}

// RemoveBranch deletes a branch without recording a call, as if done outside the tool.
func (m *MockVCS) RemoveBranch(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.branches, name)
}

// SetConflict makes the next times rebase attempts of branch stop with a conflict.
func (m *MockVCS) SetConflict(branch string, times int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[branch] = times
}

// SetError makes the call identified by key fail, e.g. "checkout main" or "stash pop".
func (m *MockVCS) SetError(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key] = err
}

// SetDirty marks the working tree as having uncommitted changes.
func (m *MockVCS) SetDirty(dirty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = dirty
}

// SetRemote configures the URL returned for a remote.
func (m *MockVCS) SetRemote(name, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remotes[name] = url
}

// Calls returns the recorded mutating calls in order.
func (m *MockVCS) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// ResetCalls clears the call log.
func (m *MockVCS) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Current returns the checked-out branch without recording a call.
func (m *MockVCS) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Stashes returns the number of entries on the stash.
func (m *MockVCS) Stashes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stashes
}

// Rebasing returns the branch that is mid-rebase, if any.
func (m *MockVCS) Rebasing() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebasing
}

func (m *MockVCS) record(parts ...string) error {
	call := strings.Join(parts, " ")
	m.calls = append(m.calls, call)
	if err, ok := m.errors[call]; ok {
		return err
	}
	return nil
}

func (m *MockVCS) tip(branch string) (string, error) {
	history, ok := m.branches[branch]
	if !ok || len(history) == 0 {
		return "", depstackerrors.NewBranchNotFoundError(branch)
	}
	return history[len(history)-1], nil
}

func (m *MockVCS) BranchNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.branches))
	for name := range m.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockVCS) CurrentBranch(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == "" {
		return "", depstackerrors.ErrNotOnBranch
	}
	return m.current, nil
}

func (m *MockVCS) TipSHA(_ context.Context, branch string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tip(branch)
}

func (m *MockVCS) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ancestorTip, err := m.tip(ancestor)
	if err != nil {
		return false, err
	}
	if _, ok := m.branches[descendant]; !ok {
		return false, depstackerrors.NewBranchNotFoundError(descendant)
	}
	for _, c := range m.branches[descendant] {
		if c == ancestorTip {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockVCS) CommitTime(_ context.Context, branch string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.branches[branch]; !ok {
		return time.Time{}, depstackerrors.NewBranchNotFoundError(branch)
	}
	return m.created[branch], nil
}

func (m *MockVCS) Checkout(_ context.Context, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("checkout", branch); err != nil {
		return err
	}
	if m.rebasing != "" {
		return fmt.Errorf("cannot checkout %s: rebase in progress on %s", branch, m.rebasing)
	}
	if _, ok := m.branches[branch]; !ok {
		return depstackerrors.NewBranchNotFoundError(branch)
	}
	m.current = branch
	return nil
}

func (m *MockVCS) Rebase(_ context.Context, onto string) (RebaseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("rebase", m.current, "onto", onto); err != nil {
		return RebaseConflict, err
	}
	if m.rebasing != "" {
		return RebaseConflict, fmt.Errorf("rebase already in progress on %s", m.rebasing)
	}
	if _, ok := m.branches[onto]; !ok {
		return RebaseConflict, depstackerrors.NewBranchNotFoundError(onto)
	}
	if m.conflicts[m.current] > 0 {
		m.conflicts[m.current]--
		m.rebasing = m.current
		m.rebaseOnto = onto
		return RebaseConflict, nil
	}
	m.applyRebase(m.current, onto)
	return RebaseDone, nil
}

// applyRebase replays the commits of branch that onto lacks on top of onto, as new commits.
func (m *MockVCS) applyRebase(branch, onto string) {
	base := m.branches[onto]
	inBase := make(map[string]bool, len(base))
	for _, c := range base {
		inBase[c] = true
	}
	history := append([]string{}, base...)
	for _, c := range m.branches[branch] {
		if !inBase[c] {
			history = append(history, m.newCommit())
		}
	}
	m.branches[branch] = history
}

func (m *MockVCS) RebaseContinue(_ context.Context) (RebaseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("rebase --continue"); err != nil {
		return RebaseConflict, err
	}
	if m.rebasing == "" {
		return RebaseDone, nil
	}
	if m.conflicts[m.rebasing] > 0 {
		m.conflicts[m.rebasing]--
		return RebaseConflict, nil
	}
	m.applyRebase(m.rebasing, m.rebaseOnto)
	m.rebasing, m.rebaseOnto = "", ""
	return RebaseDone, nil
}

func (m *MockVCS) RebaseAbort(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("rebase --abort"); err != nil {
		return err
	}
	if m.rebasing == "" {
		return depstackerrors.ErrRebaseNotInProgress
	}
	m.rebasing, m.rebaseOnto = "", ""
	return nil
}

func (m *MockVCS) IsRebaseInProgress(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebasing != ""
}

func (m *MockVCS) HasUncommittedChanges(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty, nil
}

func (m *MockVCS) StashPush(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("stash push"); err != nil {
		return err
	}
	if m.dirty {
		m.stashes++
		m.dirty = false
	}
	return nil
}

func (m *MockVCS) StashPop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("stash pop"); err != nil {
		return err
	}
	if m.stashes == 0 {
		return fmt.Errorf("stash pop failed: no stash entries found")
	}
	m.stashes--
	m.dirty = true
	return nil
}

func (m *MockVCS) DeleteBranch(_ context.Context, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete", branch); err != nil {
		return err
	}
	if branch == m.current {
		return fmt.Errorf("cannot delete checked-out branch %s", branch)
	}
	if _, ok := m.branches[branch]; !ok {
		return depstackerrors.NewBranchNotFoundError(branch)
	}
	delete(m.branches, branch)
	return nil
}

func (m *MockVCS) RemoteURL(_ context.Context, remote string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url, ok := m.remotes[remote]
	if !ok {
		return "", fmt.Errorf("failed to read remote %s: remote not found", remote)
	}
	return url, nil
}
