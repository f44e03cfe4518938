// Package github looks up pull requests for branches through the GitHub API.
package github

import (
	"context"
	"strings"
)

// Pull request states as reported by PullRequestInfo
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// PullRequestInfo contains information about a pull request
// This is a simplified struct to avoid coupling to go-github library
type PullRequestInfo struct {
	Number  int
	HTMLURL string
	Title   string
	State   string // MERGED, CLOSED, OPEN
	Draft   bool
	Base    string
	Head    string
}

// IsMerged reports whether the pull request was merged
func (p *PullRequestInfo) IsMerged() bool {
	return p != nil && strings.EqualFold(p.State, StateMerged)
}

// Client is an interface for GitHub API interactions
type Client interface {
	// PullRequestForBranch returns the most recent pull request whose head is branch,
	// or nil when there is none.
	PullRequestForBranch(ctx context.Context, branch string) (*PullRequestInfo, error)

	// PullRequest returns a pull request by number
	PullRequest(ctx context.Context, number int) (*PullRequestInfo, error)

	// OwnerRepo returns the repository owner and name
	OwnerRepo() (owner, repo string)
}
