package testhelpers

import (
	"os/exec"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	cmd := exec.Command("git", "-C", repo.Dir,
		"for-each-ref", "refs/heads/", "--format=%(refname:short)")
	output, err := cmd.Output()
	require.NoError(t, err, "Failed to list branches")

	var branches []string
	for _, b := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if b = strings.TrimSpace(b); b != "" {
			branches = append(branches, b)
		}
	}

	sort.Strings(branches)
	sort.Strings(expected)
	require.Equal(t, expected, branches, "Branches do not match")
}

// ExpectAncestor asserts that ancestor's tip is contained in descendant.
func ExpectAncestor(t *testing.T, repo *GitRepo, ancestor, descendant string) {
	t.Helper()
	require.True(t, repo.IsAncestor(ancestor, descendant), "%s should contain %s", descendant, ancestor)
}

// ExpectNotAncestor asserts that ancestor's tip is not contained in descendant.
func ExpectNotAncestor(t *testing.T, repo *GitRepo, ancestor, descendant string) {
	t.Helper()
	require.False(t, repo.IsAncestor(ancestor, descendant), "%s should not contain %s", descendant, ancestor)
}

// ExpectCommits asserts the newest commit subjects on branch, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	cmd := exec.Command("git", "-C", repo.Dir, "log", "--format=%s", branch)
	output, err := cmd.Output()
	require.NoError(t, err, "Failed to list commits")

	var commits []string
	for _, c := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if c = strings.TrimSpace(c); c != "" {
			commits = append(commits, c)
		}
	}

	if len(commits) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(commits))
		return
	}
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}
