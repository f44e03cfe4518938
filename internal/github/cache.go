package github

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of cached lookups
const DefaultCacheSize = 256

// CachedClient memoizes lookups of another Client, including "no pull request" answers.
// Errors are not cached.
type CachedClient struct {
	inner    Client
	byBranch *lru.Cache[string, *PullRequestInfo]
	byNumber *lru.Cache[int, *PullRequestInfo]
}

var _ Client = (*CachedClient)(nil)

// NewCachedClient wraps inner with LRU caches of the given size
func NewCachedClient(inner Client, size int) (*CachedClient, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	byBranch, err := lru.New[string, *PullRequestInfo](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	byNumber, err := lru.New[int, *PullRequestInfo](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &CachedClient{inner: inner, byBranch: byBranch, byNumber: byNumber}, nil
}

func (c *CachedClient) OwnerRepo() (string, string) {
	return c.inner.OwnerRepo()
}

func (c *CachedClient) PullRequestForBranch(ctx context.Context, branch string) (*PullRequestInfo, error) {
	if pr, ok := c.byBranch.Get(branch); ok {
		return pr, nil
	}
	pr, err := c.inner.PullRequestForBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	c.byBranch.Add(branch, pr)
	if pr != nil {
		c.byNumber.Add(pr.Number, pr)
	}
	return pr, nil
}

func (c *CachedClient) PullRequest(ctx context.Context, number int) (*PullRequestInfo, error) {
	if pr, ok := c.byNumber.Get(number); ok {
		return pr, nil
	}
	pr, err := c.inner.PullRequest(ctx, number)
	if err != nil {
		return nil, err
	}
	c.byNumber.Add(number, pr)
	return pr, nil
}
