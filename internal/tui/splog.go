// Package tui provides terminal user interface components and utilities.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Log record keys carried into the log file
const (
	KeyRun     = "run"
	KeyOp      = "op"
	KeyBranch  = "branch"
	KeyParent  = "parent"
	KeyOutcome = "outcome"
	KeyReason  = "reason"
)

// consoleHandler prints the bare message. Attributes only matter in the log file.
type consoleHandler struct {
	out   io.Writer
	debug bool
	quiet *atomic.Bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || h.debug
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if h.quiet.Load() || record.Message == "" {
		return nil
	}
	_, err := fmt.Fprintln(h.out, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *consoleHandler) WithGroup(_ string) slog.Handler { return h }

// teeHandler sends each record to every handler that accepts its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range t {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Splog writes user-facing messages to the console and, when a log file is
// configured, a structured trail of the same messages plus per-branch outcomes.
type Splog struct {
	logger *slog.Logger
	out    io.Writer
	quiet  *atomic.Bool
	rot    io.Closer
}

// NewSplog creates a console-only logger on stdout.
func NewSplog() *Splog {
	s, _ := NewSplogWithWriter(os.Stdout, LogOptions{})
	return s
}

// NewSplogWithWriter creates a logger printing to out. A non-empty opts.Path adds the
// rotated log file, which records debug messages regardless of opts.Debug.
func NewSplogWithWriter(out io.Writer, opts LogOptions) (*Splog, error) {
	s := &Splog{out: out, quiet: &atomic.Bool{}}
	console := &consoleHandler{
		out:   out,
		debug: opts.Debug || os.Getenv("DEBUG") != "",
		quiet: s.quiet,
	}

	if opts.Path == "" {
		s.logger = slog.New(console)
		return s, nil
	}

	rot, err := openRotatingFile(opts)
	if err != nil {
		return nil, err
	}
	s.rot = rot
	s.logger = slog.New(teeHandler{console, newFileHandler(rot)})
	return s, nil
}

// WithRun returns a logger whose file records carry the run id and operation. It
// shares the console, quiet flag and log file with s.
func (s *Splog) WithRun(id, operation string) *Splog {
	child := *s
	child.logger = s.logger.With(KeyRun, id, KeyOp, operation)
	return &child
}

// Outcome records what happened to one branch. It goes to the log file and, in debug
// mode, to the console.
func (s *Splog) Outcome(branch, parent, outcome, reason string) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, fmt.Sprintf("%s: %s", branch, outcome),
		slog.String(KeyBranch, branch),
		slog.String(KeyParent, parent),
		slog.String(KeyOutcome, outcome),
		slog.String(KeyReason, reason),
	)
}

// SetQuiet suppresses console output, e.g. while a full-screen view owns the terminal
// or stdout carries a protocol. The log file keeps recording.
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet.Store(quiet)
}

func (s *Splog) logf(level slog.Level, prefix, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, prefix+msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...any) { s.logf(slog.LevelInfo, "", format, args...) }

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...any) { s.logf(slog.LevelWarn, "⚠️  ", format, args...) }

// Error writes an error message
func (s *Splog) Error(format string, args ...any) { s.logf(slog.LevelError, "❌ ", format, args...) }

// Debug writes a message shown only in debug mode
func (s *Splog) Debug(format string, args ...any) { s.logf(slog.LevelDebug, "", format, args...) }

// Tip writes a hint
func (s *Splog) Tip(format string, args ...any) { s.logf(slog.LevelInfo, "💡 ", format, args...) }

// Page writes content verbatim, without a trailing newline. Rendered trees go
// through here so they stay out of the log file.
func (s *Splog) Page(content string) {
	if s.quiet.Load() {
		return
	}
	_, _ = fmt.Fprint(s.out, content)
}

// Newline writes an empty console line
func (s *Splog) Newline() {
	if s.quiet.Load() {
		return
	}
	_, _ = fmt.Fprintln(s.out)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.rot != nil {
		return s.rot.Close()
	}
	return nil
}
