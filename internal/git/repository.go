package git

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// Repository wraps a go-git repository for read-only ref and commit queries
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       path,
	}, nil
}

// BranchNames returns all local branch names sorted by name
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// CurrentBranch returns the checked-out branch, or ErrNotOnBranch when HEAD is detached
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", depstackerrors.ErrNotOnBranch
	}
	return head.Target().Short(), nil
}

// resolve returns the commit hash a branch name or revision points at
func (r *Repository) resolve(rev string) (plumbing.Hash, error) {
	ref, err := r.Reference(plumbing.NewBranchReferenceName(rev), true)
	if err == nil {
		return ref.Hash(), nil
	}
	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, depstackerrors.NewBranchNotFoundError(rev)
	}
	return *hash, nil
}

// TipSHA returns the commit SHA at the tip of a branch
func (r *Repository) TipSHA(branch string) (string, error) {
	hash, err := r.resolve(branch)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *Repository) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorHash, err := r.resolve(ancestor)
	if err != nil {
		return false, err
	}
	descendantHash, err := r.resolve(descendant)
	if err != nil {
		return false, err
	}
	if ancestorHash == descendantHash {
		return true, nil
	}

	ancestorCommit, err := r.CommitObject(ancestorHash)
	if err != nil {
		return false, fmt.Errorf("failed to read commit %s: %w", ancestor, err)
	}
	descendantCommit, err := r.CommitObject(descendantHash)
	if err != nil {
		return false, fmt.Errorf("failed to read commit %s: %w", descendant, err)
	}
	return ancestorCommit.IsAncestor(descendantCommit)
}

// CommitTime returns the committer time of a branch tip
func (r *Repository) CommitTime(branch string) (time.Time, error) {
	hash, err := r.resolve(branch)
	if err != nil {
		return time.Time{}, err
	}
	commit, err := r.CommitObject(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read commit %s: %w", branch, err)
	}
	return commit.Committer.When, nil
}

// RemoteURL returns the first configured URL of a remote
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}
