package engine

// Outcome is what happened to one branch during a rebase or cascade
type Outcome int

const (
	// Skipped indicates no rebase was needed or possible
	Skipped Outcome = iota
	// Rebased indicates the branch was rebased onto its parent
	Rebased
	// Conflict indicates the rebase stopped on a conflict
	Conflict
	// Planned indicates a preview would rebase the branch
	Planned
	// Pruned indicates an ancestor conflicted and the branch was left alone
	Pruned
	// NotAttempted indicates the run stopped before reaching the branch
	NotAttempted
	// Failed indicates a VCS error other than a conflict
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Rebased:
		return "rebased"
	case Conflict:
		return "conflict"
	case Planned:
		return "planned"
	case Pruned:
		return "pruned"
	case NotAttempted:
		return "not attempted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reasons attached to skipped branches
const (
	ReasonUpToDate      = "already up to date"
	ReasonNoParent      = "no parent"
	ReasonMissing       = "branch no longer exists"
	ReasonParentMissing = "parent no longer exists"
)

// BranchResult is the outcome for one branch of a cascade
type BranchResult struct {
	Branch  string
	Parent  string
	Outcome Outcome
	Reason  string
}
