package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures a Splog's log file
type LogOptions struct {
	// Path of the log file; empty disables file logging.
	Path string
	// MaxSizeMB rotates the file once it grows past this size.
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept.
	MaxBackups int
	// Debug also prints debug messages on the console.
	Debug bool
}

// LogFilePath returns the log file to use: DEPSTACK_LOG_FILE when set, else
// defaultPath (normally <git-dir>/depstack/depstack.log).
func LogFilePath(defaultPath string) string {
	if customPath := os.Getenv("DEPSTACK_LOG_FILE"); customPath != "" {
		return customPath
	}
	return defaultPath
}

func openRotatingFile(opts LogOptions) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	size := opts.MaxSizeMB
	if size <= 0 {
		size = 1
	}
	backups := opts.MaxBackups
	if backups < 0 {
		backups = 0
	}
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    size,
		MaxBackups: backups,
	}, nil
}

func newFileHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(a.Key, a.Value.Time().Format("2006-01-02 15:04:05.000"))
			}
			return a
		},
	})
}
