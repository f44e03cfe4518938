package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// PRs maps head branch names to pull requests
	PRs map[string]*github.PullRequest
	// FailBranches makes list requests for these heads return 500
	FailBranches map[string]bool
	Owner        string
	Repo         string

	mu       sync.Mutex
	requests int
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:          make(map[string]*github.PullRequest),
		FailBranches: make(map[string]bool),
		Owner:        "owner",
		Repo:         "repo",
	}
}

// AddPR registers a pull request with head branch and the given state ("open",
// "closed" or "merged").
func (c *MockGitHubServerConfig) AddPR(number int, branch, base, state string) *github.PullRequest {
	pr := &github.PullRequest{
		Number:  github.Int(number),
		Title:   github.String("PR for " + branch),
		HTMLURL: github.String("https://github.com/" + c.Owner + "/" + c.Repo + "/pull/" + strconv.Itoa(number)),
		State:   github.String("open"),
		Head:    &github.PullRequestBranch{Ref: github.String(branch)},
		Base:    &github.PullRequestBranch{Ref: github.String(base)},
	}
	switch state {
	case "merged":
		pr.State = github.String("closed")
		pr.Merged = github.Bool(true)
		pr.MergedAt = &github.Timestamp{}
	case "closed":
		pr.State = github.String("closed")
	}
	c.PRs[branch] = pr
	return pr
}

// Requests returns the number of API requests served
func (c *MockGitHubServerConfig) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// NewMockGitHubServer creates an httptest server that mocks the pull request endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	basePath := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"

	handler := func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.requests++
		config.mu.Unlock()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// GET /repos/{owner}/{repo}/pulls?head=owner:branch
		if r.URL.Path == basePath {
			head := r.URL.Query().Get("head")
			branch := head[strings.Index(head, ":")+1:]
			if config.FailBranches[branch] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			prs := []*github.PullRequest{}
			if pr, ok := config.PRs[branch]; ok {
				prs = append(prs, pr)
			}
			writeJSON(w, prs)
			return
		}

		// GET /repos/{owner}/{repo}/pulls/{number}
		number, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, basePath+"/"))
		if err != nil {
			http.Error(w, "Unhandled path: "+r.URL.Path, http.StatusNotFound)
			return
		}
		for _, pr := range config.PRs {
			if pr.GetNumber() == number {
				writeJSON(w, pr)
				return
			}
		}
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(basePath+"/", handler)
	mux.HandleFunc(basePath, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}
