package actions

import (
	"github.com/google/uuid"

	"depstack.dev/depstack/internal/engine"
	"depstack.dev/depstack/internal/journal"
	"depstack.dev/depstack/internal/runtime"
	"depstack.dev/depstack/internal/tui"
)

// runRecorder writes one run to the journal and mirrors it into the log file under
// the run id. Journal failures are logged at debug level and never fail the command.
type runRecorder struct {
	ctx *runtime.Context
	id  string
	log *tui.Splog
}

func beginRun(ctx *runtime.Context, operation, start string) *runRecorder {
	id := ""
	if ctx.Journal != nil {
		var err error
		if id, err = ctx.Journal.BeginRun(ctx.Context, operation, start); err != nil {
			ctx.Splog.Debug("Failed to record run: %v", err)
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	r := &runRecorder{ctx: ctx, id: id, log: ctx.Splog.WithRun(id, operation)}
	r.log.Debug("Starting %s from %s", operation, start)
	return r
}

// resumeRun continues recording a run started by an earlier invocation.
func resumeRun(ctx *runtime.Context, id, operation string) *runRecorder {
	if id == "" {
		return beginRun(ctx, operation, "")
	}
	return &runRecorder{ctx: ctx, id: id, log: ctx.Splog.WithRun(id, operation)}
}

func (r *runRecorder) step(res engine.BranchResult) {
	r.log.Outcome(res.Branch, res.Parent, res.Outcome.String(), res.Reason)
	if r.ctx.Journal == nil {
		return
	}
	err := r.ctx.Journal.RecordStep(r.ctx.Context, r.id, journal.Step{
		Branch:  res.Branch,
		Parent:  res.Parent,
		Outcome: res.Outcome.String(),
		Reason:  res.Reason,
	})
	if err != nil {
		r.log.Debug("Failed to record step for %s: %v", res.Branch, err)
	}
}

func (r *runRecorder) finish(status, summary string) {
	r.log.Debug("Run %s: %s", status, summary)
	if r.ctx.Journal == nil {
		return
	}
	if err := r.ctx.Journal.FinishRun(r.ctx.Context, r.id, status, summary); err != nil {
		r.log.Debug("Failed to finish run %s: %v", r.id, err)
	}
}
