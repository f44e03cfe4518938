package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
	binaryCleanup    = func() {}
)

// GetSharedBinaryPath returns the depstack binary, building it on first use.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		sharedBinaryPath, binaryCleanup, binaryErr = buildBinary()
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error that occurred during binary building.
func GetBinaryError() error {
	return binaryErr
}

// buildBinary builds cmd/depstack into a temp directory and returns its path with a
// cleanup function.
func buildBinary() (string, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", nil, fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "depstack-test-binary-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	binaryPath := filepath.Join(tmpDir, "depstack")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/depstack")
	cmd.Dir = moduleRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to build: %s: %w", string(output), err)
	}
	return binaryPath, cleanup, nil
}

// findModuleRoot walks up the directory tree from startDir to find the module root
// (directory containing go.mod file).
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// TestMain builds the binary once for a package's tests and removes it afterwards.
// Packages use it by calling testhelpers.TestMain(m, nil) from their own TestMain.
func TestMain(m *testing.M, cleanup func()) {
	if _, err := exec.LookPath("git"); err == nil {
		if GetSharedBinaryPath() == "" {
			fmt.Fprintf(os.Stderr, "Failed to build depstack binary: %v\n", binaryErr)
			os.Exit(1)
		}
	}

	code := m.Run()

	binaryCleanup()
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}
