// Package tui provides the terminal user interface for depstack.
//
// It handles:
//   - Interactive prompts and selections (using survey and bubbletea)
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - The cascade progress view
package tui
