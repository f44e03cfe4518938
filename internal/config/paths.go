package config

import "path/filepath"

const (
	// DirName is the data directory created inside the git dir
	DirName          = "depstack"
	ConfigFile       = "config.toml"
	DeclarationsFile = "declarations.yml"
	ContinueFile     = "continue.json"
	LogFile          = "depstack.log"
	JournalFile      = "journal.db"
)

// DataDir returns the depstack data directory for a repository's git dir.
func DataDir(gitDir string) string {
	return filepath.Join(gitDir, DirName)
}
