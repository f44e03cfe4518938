package actions

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/github"
	"depstack.dev/depstack/internal/graph"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// InfoOptions specifies options for the info command
type InfoOptions struct {
	Branch string
	// PR looks up the branch's pull request on GitHub.
	PR bool
}

// BranchInfo describes one branch of the graph
type BranchInfo struct {
	Name     string   `json:"name"`
	Live     bool     `json:"live"`
	Current  bool     `json:"current"`
	Root     bool     `json:"root"`
	Default  bool     `json:"default,omitempty"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
	Orphan   bool     `json:"orphan"`
	// CommonAncestors is set for diamonds.
	Diamond         bool       `json:"diamond"`
	CommonAncestors []string   `json:"commonAncestors,omitempty"`
	Issue           string     `json:"issue,omitempty"`
	PR              int        `json:"pr,omitempty"`
	Created         *time.Time `json:"created,omitempty"`
	CommitTime      *time.Time `json:"commitTime,omitempty"`

	PullRequest *github.PullRequestInfo `json:"pullRequest,omitempty"`
}

// DescribeBranch collects graph facts about name.
func DescribeBranch(ctx *runtime.Context, g *graph.BranchGraph, name string) (*BranchInfo, error) {
	node, ok := g.Node(name)
	if !ok {
		return nil, depstackerrors.NewBranchNotFoundError(name)
	}

	info := &BranchInfo{
		Name:     name,
		Live:     node.Live,
		Current:  node.Current,
		Root:     node.Root,
		Default:  node.Default,
		Parents:  g.Parents(name),
		Children: g.Children(name),
		Orphan:   g.IsOrphan(name),
		Diamond:  g.IsDiamond(name),
		Issue:    node.Issue,
		PR:       node.PR,
		Created:  node.Created,
	}
	if info.Diamond {
		for _, dm := range g.Diamonds() {
			if dm.Branch == name {
				info.CommonAncestors = dm.CommonAncestors
			}
		}
	}
	if node.Live {
		if t, err := ctx.VCS.CommitTime(ctx.Context, name); err == nil {
			info.CommitTime = &t
		}
	}
	return info, nil
}

// InfoAction displays information about a branch
func InfoAction(ctx *runtime.Context, opts InfoOptions) (*BranchInfo, error) {
	name, err := branchOrCurrent(ctx, opts.Branch)
	if err != nil {
		return nil, err
	}
	_, g, err := ctx.LoadGraph()
	if err != nil {
		return nil, err
	}
	info, err := DescribeBranch(ctx, g, name)
	if err != nil {
		return nil, err
	}

	if opts.PR {
		if client, err := ctx.GitHub(); err != nil {
			ctx.Splog.Warn("Skipping pull request lookup: %v", err)
		} else if info.PR > 0 {
			info.PullRequest, err = client.PullRequest(ctx.Context, info.PR)
			if err != nil {
				return nil, err
			}
		} else {
			info.PullRequest, err = client.PullRequestForBranch(ctx.Context, name)
			if err != nil {
				return nil, err
			}
		}
	}

	ctx.Splog.Page(FormatBranchInfo(info, time.Now()) + "\n")
	return info, nil
}

// FormatBranchInfo renders info as labelled lines.
func FormatBranchInfo(info *BranchInfo, now time.Time) string {
	var lines []string
	title := tui.ColorBranchName(info.Name, info.Current)
	var flags []string
	if info.Current {
		flags = append(flags, "current")
	}
	if info.Root {
		if info.Default {
			flags = append(flags, "default root")
		} else {
			flags = append(flags, "root")
		}
	}
	if !info.Live {
		flags = append(flags, "missing")
	}
	if info.Orphan {
		flags = append(flags, "orphan")
	}
	if info.Diamond {
		flags = append(flags, "diamond")
	}
	if len(flags) > 0 {
		title += " " + tui.ColorDim("("+strings.Join(flags, ", ")+")")
	}
	lines = append(lines, title)

	field := func(label, value string) {
		lines = append(lines, fmt.Sprintf("  %-10s %s", label+":", value))
	}
	field("parents", listOrNone(info.Parents))
	field("children", listOrNone(info.Children))
	if len(info.CommonAncestors) > 0 {
		field("common", strings.Join(info.CommonAncestors, ", "))
	}
	if info.Issue != "" {
		field("issue", info.Issue)
	}
	if info.PR > 0 {
		field("pr", fmt.Sprintf("#%d", info.PR))
	}
	if info.Created != nil {
		field("declared", humanize.RelTime(*info.Created, now, "ago", "from now"))
	}
	if info.CommitTime != nil {
		field("committed", humanize.RelTime(*info.CommitTime, now, "ago", "from now"))
	}
	if pr := info.PullRequest; pr != nil {
		state := pr.State
		if pr.Draft {
			state += ", draft"
		}
		field("pull", fmt.Sprintf("#%d %s (%s) %s", pr.Number, pr.Title, state, pr.HTMLURL))
	}
	return strings.Join(lines, "\n")
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
