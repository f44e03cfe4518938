package engine

import (
	"context"
	"fmt"
	"sort"

	depstackerrors "depstack.dev/depstack/internal/errors"
	"depstack.dev/depstack/internal/graph"
)

// Candidate is a possible parent for an orphan branch
type Candidate struct {
	Name string
	// Depth is the number of declared ancestors; deeper candidates sit closer to the orphan.
	Depth int
}

// AdoptCandidates returns the attached live branches and roots whose tip is contained
// in orphan and that could become its parent, deepest first.
func (e *Engine) AdoptCandidates(ctx context.Context, g *graph.BranchGraph, orphan string) ([]Candidate, error) {
	var out []Candidate
	for _, n := range g.Nodes() {
		if n.Name == orphan || !n.Live || !g.IsAttached(n.Name) {
			continue
		}
		if g.CheckEdge(n.Name, orphan) != nil {
			continue
		}
		contained, err := e.upToDate(ctx, n.Name, orphan)
		if err != nil {
			return nil, err
		}
		if contained {
			out = append(out, Candidate{Name: n.Name, Depth: len(g.Ancestors(n.Name))})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth > out[j].Depth
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// SuggestParent picks a parent for orphan: the deepest candidate, else the default
// root, else whatever root the graph resolves.
func (e *Engine) SuggestParent(ctx context.Context, g *graph.BranchGraph, orphan string) (string, error) {
	if !g.IsLive(orphan) {
		return "", depstackerrors.NewBranchNotFoundError(orphan)
	}
	candidates, err := e.AdoptCandidates(ctx, g, orphan)
	if err != nil {
		return "", err
	}
	if len(candidates) > 0 {
		return candidates[0].Name, nil
	}
	if root, ok := g.DefaultRoot(); ok && root != orphan {
		return root, nil
	}
	root, err := g.ResolveRoot("")
	if err != nil {
		return "", err
	}
	if root == orphan {
		return "", fmt.Errorf("no parent found for %s: %w", orphan, depstackerrors.ErrNoRoot)
	}
	return root, nil
}
