package actions

import (
	"time"

	"depstack.dev/depstack/internal/store"
	"depstack.dev/depstack/internal/tui"
)

// SetNow replaces the clock used for declaration timestamps.
func SetNow(f func() time.Time) (restore func()) {
	prev := now
	now = f
	return func() { now = prev }
}

// ReparentChildren exposes the clean reparenting step.
func ReparentChildren(splog *tui.Splog, d *store.Declarations, deleted []string) []store.Edge {
	return reparentChildren(splog, d, deleted)
}
