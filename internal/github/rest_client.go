package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"depstack.dev/depstack/internal/git"
)

// RESTClient implements Client over the GitHub REST API
type RESTClient struct {
	client *github.Client
	owner  string
	repo   string
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for the repository described by info, authenticated
// with token. GitHub Enterprise hosts get their /api/v3/ endpoints.
func NewRESTClient(ctx context.Context, info git.RemoteInfo, token string) (*RESTClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if info.Hostname != "" && info.Hostname != "github.com" {
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", info.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", info.Hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", info.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", info.Hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return NewFromClient(client, info.Owner, info.Repo), nil
}

// NewFromClient wraps an already configured go-github client.
func NewFromClient(client *github.Client, owner, repo string) *RESTClient {
	return &RESTClient{client: client, owner: owner, repo: repo}
}

// OwnerRepo returns the repository owner and name
func (c *RESTClient) OwnerRepo() (string, string) {
	return c.owner, c.repo
}

// PullRequestForBranch lists pull requests with head owner:branch in any state
func (c *RESTClient) PullRequestForBranch(ctx context.Context, branch string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branch),
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", branch, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return toPullRequestInfo(prs[0]), nil
}

// PullRequest gets a pull request by number
func (c *RESTClient) PullRequest(ctx context.Context, number int) (*PullRequestInfo, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return toPullRequestInfo(pr), nil
}

func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	info := &PullRequestInfo{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		Draft:   pr.GetDraft(),
		Base:    pr.GetBase().GetRef(),
		Head:    pr.GetHead().GetRef(),
	}
	switch {
	case pr.MergedAt != nil || pr.GetMerged():
		info.State = StateMerged
	case strings.EqualFold(pr.GetState(), "closed"):
		info.State = StateClosed
	default:
		info.State = StateOpen
	}
	return info
}

// Token gets a GitHub token from the environment or the gh CLI
func Token(ctx context.Context) (string, error) {
	for _, key := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(key); token != "" {
			return token, nil
		}
	}

	output, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}
	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}
