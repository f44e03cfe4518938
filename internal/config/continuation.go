package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	depstackerrors "depstack.dev/depstack/internal/errors"
)

// Operation names recorded in continuation state
const (
	OperationRebase  = "rebase"
	OperationCascade = "cascade"
)

// ContinuationState represents an operation halted by a rebase conflict
type ContinuationState struct {
	RunID     string `json:"runId"`
	Operation string `json:"operation"`
	// Branch is the branch left mid-rebase.
	Branch string `json:"branch"`
	Onto   string `json:"onto"`
	// Start is the cascade start branch.
	Start             string   `json:"start,omitempty"`
	RemainingBranches []string `json:"remainingBranches,omitempty"`
	OriginalBranch    string   `json:"originalBranch,omitempty"`
	StashTaken        bool     `json:"stashTaken,omitempty"`
	Force             bool     `json:"force,omitempty"`
}

// GetContinuationState reads the continuation state from disk
func GetContinuationState(path string) (*ContinuationState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, depstackerrors.ErrNoContinuation
		}
		return nil, fmt.Errorf("failed to read continuation state: %w", err)
	}

	var state ContinuationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse continuation state: %w", err)
	}
	return &state, nil
}

// PersistContinuationState writes the continuation state to disk
func PersistContinuationState(path string, state *ContinuationState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal continuation state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearContinuationState removes the continuation state file
func ClearContinuationState(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear continuation state: %w", err)
	}
	return nil
}
