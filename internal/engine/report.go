package engine

import (
	"fmt"
	"strings"
)

// CascadeReport collects per-branch results in the order they were processed.
type CascadeReport struct {
	Start   string
	Order   []string
	Results []BranchResult

	OriginalBranch string
	// ConflictBranch is set when the run halted on a conflict.
	ConflictBranch string
	Halted         bool
	// Restored is true once the original branch was checked out again.
	Restored bool
	// Stashed is true when an autostash is still held (halted runs only) or was taken.
	Stashed     bool
	Interrupted bool
	Preview     bool
}

func (r *CascadeReport) add(res BranchResult) {
	r.Results = append(r.Results, res)
}

// Result returns the result recorded for branch.
func (r *CascadeReport) Result(branch string) (BranchResult, bool) {
	for _, res := range r.Results {
		if res.Branch == branch {
			return res, true
		}
	}
	return BranchResult{}, false
}

// Names returns the branches with outcome o, in processing order.
func (r *CascadeReport) Names(o Outcome) []string {
	var names []string
	for _, res := range r.Results {
		if res.Outcome == o {
			names = append(names, res.Branch)
		}
	}
	return names
}

// Count returns the number of branches with outcome o.
func (r *CascadeReport) Count(o Outcome) int {
	return len(r.Names(o))
}

// Remaining returns the branches a halted run never reached.
func (r *CascadeReport) Remaining() []string {
	return r.Names(NotAttempted)
}

// Summary renders the outcome counts, omitting zero counts.
func (r *CascadeReport) Summary() string {
	outcomes := []Outcome{Planned, Rebased, Skipped, Conflict, Pruned, NotAttempted, Failed}
	var parts []string
	for _, o := range outcomes {
		if n := r.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
