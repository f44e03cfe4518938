// Package errors provides sentinel errors and custom error types for depstack.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCycle indicates that a dependency edge would close a cycle
	ErrCycle = errors.New("dependency cycle")

	// ErrNoRoot indicates that no root could be resolved for the graph
	ErrNoRoot = errors.New("no root found")

	// ErrSelfEdge indicates an edge from a branch to itself
	ErrSelfEdge = errors.New("a branch cannot depend on itself")

	// ErrDuplicateEdge indicates that the edge is already declared
	ErrDuplicateEdge = errors.New("dependency already declared")

	// ErrEdgeNotFound indicates that the edge to remove is not declared
	ErrEdgeNotFound = errors.New("dependency not declared")

	// ErrRootHasParent indicates an attempt to give a root branch a parent
	ErrRootHasParent = errors.New("root branches cannot have a parent")

	// ErrNoParent indicates that a branch has no declared parent
	ErrNoParent = errors.New("branch has no parent")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrRebaseNotInProgress indicates that no rebase is currently in progress
	ErrRebaseNotInProgress = errors.New("no rebase in progress")

	// ErrNoContinuation indicates there is no halted operation to continue or abort
	ErrNoContinuation = errors.New("no operation to continue")

	// ErrNotInitialized indicates depstack has not been set up in the repository
	ErrNotInitialized = errors.New("depstack is not initialized in this repository")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// CycleError is returned when adding Parent -> Child would close a cycle.
// Path lists the branches of the cycle starting and ending at Child.
type CycleError struct {
	Parent string
	Child  string
	Path   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("depending %s on %s would create a cycle: %s",
		e.Child, e.Parent, strings.Join(e.Path, " → "))
}

// Is returns true if the target error is ErrCycle
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// NewCycleError creates a new CycleError
func NewCycleError(parent, child string, path []string) *CycleError {
	return &CycleError{Parent: parent, Child: child, Path: path}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
