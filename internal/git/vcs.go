package git

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

func (r RebaseResult) String() string {
	if r == RebaseConflict {
		return "conflict"
	}
	return "done"
}

// VCS is the set of version-control operations the graph and rebase engine depend on.
// Every method may fail; none of them retries.
type VCS interface {
	BranchNames(ctx context.Context) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
	TipSHA(ctx context.Context, branch string) (string, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	CommitTime(ctx context.Context, branch string) (time.Time, error)
	Checkout(ctx context.Context, branch string) error
	// Rebase rebases the checked-out branch onto the named base
	Rebase(ctx context.Context, onto string) (RebaseResult, error)
	RebaseContinue(ctx context.Context) (RebaseResult, error)
	RebaseAbort(ctx context.Context) error
	IsRebaseInProgress(ctx context.Context) bool
	HasUncommittedChanges(ctx context.Context) (bool, error)
	StashPush(ctx context.Context, message string) error
	StashPop(ctx context.Context) error
	DeleteBranch(ctx context.Context, branch string) error
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// Repo is the production VCS: go-git for reads, the git binary for mutations
type Repo struct {
	runner *CommandRunner
	repo   *Repository
	root   string
	gitDir string
}

var _ VCS = (*Repo)(nil)

// Open locates the repository containing dir and opens it
func Open(ctx context.Context, dir string) (*Repo, error) {
	runner := NewCommandRunner(dir)
	root, err := runner.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	gitDir, err := runner.Run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to locate git dir: %w", err)
	}

	repo, err := OpenRepository(root)
	if err != nil {
		return nil, err
	}

	return &Repo{
		runner: NewCommandRunner(root),
		repo:   repo,
		root:   filepath.Clean(root),
		gitDir: filepath.Clean(gitDir),
	}, nil
}

// Root returns the top-level directory of the working tree
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the absolute path of the .git directory
func (r *Repo) GitDir() string {
	return r.gitDir
}

// BranchNames returns all local branch names
func (r *Repo) BranchNames(_ context.Context) ([]string, error) {
	return r.repo.BranchNames()
}

// CurrentBranch returns the checked-out branch
func (r *Repo) CurrentBranch(_ context.Context) (string, error) {
	return r.repo.CurrentBranch()
}

// TipSHA returns the commit SHA at a branch tip
func (r *Repo) TipSHA(_ context.Context, branch string) (string, error) {
	return r.repo.TipSHA(branch)
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *Repo) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	return r.repo.IsAncestor(ancestor, descendant)
}

// CommitTime returns the committer time of a branch tip
func (r *Repo) CommitTime(_ context.Context, branch string) (time.Time, error) {
	return r.repo.CommitTime(branch)
}

// RemoteURL returns the URL of a remote
func (r *Repo) RemoteURL(_ context.Context, remote string) (string, error) {
	return r.repo.RemoteURL(remote)
}
