package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"depstack.dev/depstack/internal/config"
	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/git"
	"depstack.dev/depstack/internal/github"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// prCacheSize bounds the pull request lookup cache.
const prCacheSize = 256

// Context provides access to repository state and output for commands
type Context struct {
	context.Context

	VCS      git.VCS
	Store    store.Store
	Config   *config.Config
	Splog    *tui.Splog
	Journal  *journal.Journal
	RepoRoot string
	GitDir   string

	githubOnce   sync.Once
	githubClient github.Client
	githubErr    error
	githubRemote string
}

// Options configures GetContext
type Options struct {
	// Repo overrides the working directory used to locate the repository.
	Repo  string
	Debug bool
	// AllowUninitialized lets commands such as init run before config.toml exists.
	AllowUninitialized bool
}

// NewContext creates a context over explicit collaborators, as used by tests.
func NewContext(ctx context.Context, vcs git.VCS, st store.Store, cfg *config.Config, splog *tui.Splog) *Context {
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context:      ctx,
		VCS:          vcs,
		Store:        st,
		Config:       cfg,
		Splog:        splog,
		githubRemote: "origin",
	}
}

// GetContext opens the repository containing opts.Repo (or the working directory),
// loads its configuration and wires the logger, store and journal.
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	dir := opts.Repo
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	repo, err := git.Open(ctx, dir)
	if err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(repo.Root()); err != nil {
		return nil, err
	}

	dataDir := config.DataDir(repo.GitDir())
	if !opts.AllowUninitialized && !config.Exists(dataDir) {
		return nil, fmt.Errorf("%w: run 'depstack init' first", depstackerrors.ErrNotInitialized)
	}
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	logOpts := tui.LogOptions{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Debug:      opts.Debug,
	}
	if cfg.Log.File {
		logOpts.Path = tui.LogFilePath(cfg.LogPath())
	}
	splog, err := tui.NewSplogWithWriter(os.Stdout, logOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	c := NewContext(ctx, repo, store.NewFileStore(cfg.DeclarationsPath()), cfg, splog)
	c.RepoRoot = repo.Root()
	c.GitDir = repo.GitDir()

	if config.Exists(dataDir) {
		j, err := journal.Open(cfg.JournalPath())
		if err != nil {
			splog.Debug("Run journal unavailable: %v", err)
		} else {
			c.Journal = j
		}
	}
	return c, nil
}

// Close releases the journal and the log file.
func (c *Context) Close() error {
	var errs []error
	if c.Journal != nil {
		errs = append(errs, c.Journal.Close())
	}
	if c.Splog != nil {
		errs = append(errs, c.Splog.Close())
	}
	return errors.Join(errs...)
}

// Live returns the repository state the graph is built against.
func (c *Context) Live() (graph.LiveState, error) {
	branches, err := c.VCS.BranchNames(c)
	if err != nil {
		return graph.LiveState{}, fmt.Errorf("failed to list branches: %w", err)
	}
	current, err := c.VCS.CurrentBranch(c)
	if err != nil && !errors.Is(err, depstackerrors.ErrNotOnBranch) {
		return graph.LiveState{}, fmt.Errorf("failed to get current branch: %w", err)
	}
	return graph.LiveState{Branches: branches, Current: current}, nil
}

// LoadGraph reads the declarations and builds the graph against live branches.
func (c *Context) LoadGraph() (*store.Declarations, *graph.BranchGraph, error) {
	live, err := c.Live()
	if err != nil {
		return nil, nil, err
	}
	return graph.Load(c.Store, live)
}

// SetGitHubClient installs a client, replacing lazy creation.
func (c *Context) SetGitHubClient(client github.Client) {
	c.githubOnce.Do(func() {})
	c.githubClient = client
	c.githubErr = nil
}

// GitHub returns the pull request client, creating it on first use from the origin
// remote and a token. Lookups are cached for the life of the context.
func (c *Context) GitHub() (github.Client, error) {
	c.githubOnce.Do(func() {
		if c.Config != nil && !c.Config.GitHub.Enabled {
			c.githubErr = errors.New("GitHub lookups are disabled in config")
			return
		}
		remote, err := c.VCS.RemoteURL(c, c.githubRemote)
		if err != nil {
			c.githubErr = fmt.Errorf("failed to read remote %s: %w", c.githubRemote, err)
			return
		}
		info, err := git.ParseRemoteURL(remote)
		if err != nil {
			c.githubErr = err
			return
		}
		// The configured host wins over SSH host aliases in the remote URL.
		if c.Config != nil && c.Config.GitHub.Host != "" {
			info.Hostname = c.Config.GitHub.Host
		}
		token, err := github.Token(c)
		if err != nil {
			c.githubErr = err
			return
		}
		rest, err := github.NewRESTClient(c, *info, token)
		if err != nil {
			c.githubErr = err
			return
		}
		cached, err := github.NewCachedClient(rest, prCacheSize)
		if err != nil {
			c.githubErr = err
			return
		}
		c.githubClient = cached
	})
	return c.githubClient, c.githubErr
}
