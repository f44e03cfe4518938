package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitColorProfile picks the color profile for the terminal. NO_COLOR, or output that
// is not a terminal, disables colors.
func InitColorProfile() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
}

// DisableColors forces plain output, as used for MCP responses and tests.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorBranchName colors a branch name, highlighting the checked-out branch
func ColorBranchName(name string, current bool) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	if current {
		style = style.Bold(true).Foreground(lipgloss.Color("42"))
	}
	return style.Render(name)
}

// ColorRed colors text red
func ColorRed(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Render(text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Render(text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Render(text)
}

// ColorDim renders secondary text
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(text)
}

// ColorBold renders section headings
func ColorBold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}
