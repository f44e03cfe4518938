package github

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is an in-memory Client for tests
type MockClient struct {
	mu     sync.Mutex
	prs    map[string]*PullRequestInfo
	errors map[string]error
	calls  int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty mock
func NewMockClient() *MockClient {
	return &MockClient{
		prs:    make(map[string]*PullRequestInfo),
		errors: make(map[string]error),
	}
}

// SetPR registers the pull request for a branch.
func (m *MockClient) SetPR(branch string, pr *PullRequestInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr.Head = branch
	m.prs[branch] = pr
}

// SetError makes lookups of branch fail.
func (m *MockClient) SetError(branch string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[branch] = err
}

// Calls returns the number of lookups served.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockClient) OwnerRepo() (string, string) {
	return "owner", "repo"
}

func (m *MockClient) PullRequestForBranch(_ context.Context, branch string) (*PullRequestInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.errors[branch]; ok {
		return nil, err
	}
	return m.prs[branch], nil
}

func (m *MockClient) PullRequest(_ context.Context, number int) (*PullRequestInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, pr := range m.prs {
		if pr.Number == number {
			return pr, nil
		}
	}
	return nil, fmt.Errorf("pull request #%d not found", number)
}
