package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan, headings
	colorAccent  = lipgloss.Color("#FFD700") // Gold, warnings
	colorSuccess = lipgloss.Color("#00E676") // Green, passed
	colorDanger  = lipgloss.Color("#FF5252") // Red, errors, critical work
	colorMuted   = lipgloss.Color("#636363") // Gray, de-emphasized
	colorBorder  = lipgloss.Color("#8C8C8C") // Lighter gray, table borders
)

// colorPaths colors float paths 2 and up, cycling. Path 1 is always critical
// and uses colorDanger.
var colorPaths = []lipgloss.Color{
	lipgloss.Color("#5B8DEF"), // Blue
	lipgloss.Color("#00E676"), // Green
	lipgloss.Color("#B388FF"), // Violet
	lipgloss.Color("#FFAB40"), // Orange
	lipgloss.Color("#18FFFF"), // Aqua
	lipgloss.Color("#FF80AB"), // Pink
}

// Status icons.
const (
	iconDone      = "✓"
	iconFailed    = "✗"
	iconWarn      = "⚠"
	iconMilestone = "◆"
	iconItem      = "•"
)

// Gantt bar glyphs per bar style.
const (
	glyphSolid  = "█"
	glyphDashed = "▒"
	glyphDotted = "░"
)

var (
	styleHeading = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleWarn = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleCritical = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleTableHeader = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1)

	styleTableCell = lipgloss.NewStyle().
			Padding(0, 1)

	styleTableBorder = lipgloss.NewStyle().
				Foreground(colorBorder)
)

// pathColor returns the color for float path n.
func pathColor(n int) lipgloss.Color {
	if n <= 1 {
		return colorDanger
	}
	return colorPaths[(n-2)%len(colorPaths)]
}
