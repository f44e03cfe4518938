package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads <repoRoot>/.env into the process environment. Variables already
// set are never overridden and a missing file is not an error.
func LoadDotEnv(repoRoot string) error {
	err := godotenv.Load(filepath.Join(repoRoot, ".env"))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}
