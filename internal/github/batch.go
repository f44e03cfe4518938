package github

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of lookups in flight at once
const DefaultConcurrency = 4

// LookupBranches fetches pull requests for every branch with at most limit requests
// in flight. Branches without a pull request are absent from the result. The first
// error cancels the remaining lookups.
func LookupBranches(ctx context.Context, client Client, branches []string, limit int) (map[string]*PullRequestInfo, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var mu sync.Mutex
	result := make(map[string]*PullRequestInfo, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, branch := range branches {
		g.Go(func() error {
			pr, err := client.PullRequestForBranch(gctx, branch)
			if err != nil {
				return err
			}
			if pr == nil {
				return nil
			}
			mu.Lock()
			result[branch] = pr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
