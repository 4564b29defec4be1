package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/timeward/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleLogText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleItem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleWin = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)
)

// lineKind identifies the type of a log line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindItem
	kindDialogue
	kindSystem
	kindError
)

// classifyLine determines what kind of log line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Wrong item"),
		strings.HasPrefix(line, "Missing item:"),
		strings.HasPrefix(line, "Still missing:"):
		return kindError
	case strings.HasPrefix(line, "Picked up:"),
		strings.HasPrefix(line, "Crafted:"),
		strings.HasPrefix(line, "Used item:"):
		return kindItem
	case strings.HasPrefix(line, "Gave:"),
		strings.HasPrefix(line, "Received:"):
		return kindDialogue
	default:
		return kindText
	}
}

// renderLine styles a log line, wrapped to width.
func renderLine(l logLine, width int) string {
	if l.system {
		return styleSystem.Width(width).Render("[" + l.text + "]")
	}
	var style lipgloss.Style
	switch l.kind {
	case kindItem:
		style = styleItem
	case kindDialogue:
		style = styleDialogue
	case kindSystem:
		style = styleSystem
	case kindError:
		style = styleError
	default:
		style = styleLogText
	}
	return style.Width(width).Render(l.text)
}

// hex converts a palette color to a lipgloss color.
func hex(c types.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
