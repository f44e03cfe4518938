// Package scenario drives the depstack binary against a real Git repository with a
// terse, chainable API for integration tests.
package scenario

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/testhelpers"
)

// Scenario combines a Scene with the depstack binary.
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	BinaryPath string
}

// NewScenario creates a repository with an initial commit on main and runs
// 'depstack init' in it. Tests are skipped when git is unavailable.
func NewScenario(t *testing.T) *Scenario {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	binary := testhelpers.GetSharedBinaryPath()
	if binary == "" {
		t.Fatalf("depstack binary not built: %v", testhelpers.GetBinaryError())
	}

	s := &Scenario{T: t, Scene: scene, BinaryPath: binary}
	return s.RunCli("init")
}

// CreateBranch creates name from from, checks it out and commits one change on it.
func (s *Scenario) CreateBranch(name, from string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(from))
	require.NoError(s.T, s.Scene.Repo.CreateAndCheckoutBranch(name))
	return s.CommitChange(name, "change on "+name)
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// CommitChange writes a file named after name and commits it on the current branch.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit(message, name))
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.RunGitCommand(args...))
	return s
}

// Depend declares parent -> child through the CLI.
func (s *Scenario) Depend(parent, child string) *Scenario {
	s.T.Helper()
	return s.RunCli("branch", "depend", parent, child)
}

func (s *Scenario) command(args ...string) *exec.Cmd {
	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = s.Scene.Dir
	cmd.Env = append(os.Environ(),
		"DEPSTACK_NO_INTERACTIVE=1",
		"NO_COLOR=1",
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_EDITOR=true",
	)
	return cmd
}

// RunCli executes a depstack command and requires it to succeed.
func (s *Scenario) RunCli(args ...string) *Scenario {
	s.T.Helper()
	output, err := s.command(args...).CombinedOutput()
	require.NoError(s.T, err, "CLI command failed: depstack %v\nOutput: %s", args, string(output))
	return s
}

// RunCliAndGetOutput executes a depstack command and returns its combined output.
func (s *Scenario) RunCliAndGetOutput(args ...string) (string, error) {
	output, err := s.command(args...).CombinedOutput()
	return string(output), err
}

// RunExpectError executes a depstack command, requires it to fail and returns its output.
func (s *Scenario) RunExpectError(args ...string) string {
	s.T.Helper()
	output, err := s.command(args...).CombinedOutput()
	require.Error(s.T, err, "expected CLI command to fail: depstack %v\nOutput: %s", args, string(output))
	return string(output)
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}

// ExpectContains asserts that descendant contains ancestor's tip.
func (s *Scenario) ExpectContains(descendant, ancestor string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectAncestor(s.T, s.Scene.Repo, ancestor, descendant)
	return s
}

// Declarations reads the declarations file the binary writes.
func (s *Scenario) Declarations() *store.Declarations {
	s.T.Helper()
	path := filepath.Join(config.DataDir(filepath.Join(s.Scene.Dir, ".git")), config.DeclarationsFile)
	d, err := store.NewFileStore(path).Load()
	require.NoError(s.T, err)
	return d
}

// DeclarationsBytes returns the raw declarations file.
func (s *Scenario) DeclarationsBytes() []byte {
	s.T.Helper()
	path := filepath.Join(config.DataDir(filepath.Join(s.Scene.Dir, ".git")), config.DeclarationsFile)
	data, err := os.ReadFile(path)
	require.NoError(s.T, err)
	return data
}
