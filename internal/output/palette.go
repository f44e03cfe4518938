package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// depthPalette colors tree connectors by depth so sibling subtrees are easy to follow.
var depthPalette = [][]int{
	{76, 203, 241},  // light blue
	{77, 202, 125},  // green
	{110, 173, 38},  // dark green
	{245, 200, 0},   // yellow
	{248, 144, 72},  // orange
	{244, 98, 81},   // red
	{235, 130, 188}, // pink
	{159, 131, 228}, // purple
	{80, 132, 243},  // blue
}

func depthColor(text string, depth int) string {
	rgb := depthPalette[depth%len(depthPalette)]
	hex := fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(text)
}
