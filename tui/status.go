package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/timeward/types"
)

var turkishTitle = cases.Title(language.Turkish)

// placeTitle title-cases a place name with Turkish casing rules:
// "istanbul meydanı" -> "İstanbul Meydanı".
func placeTitle(name string) string {
	return turkishTitle.String(name)
}

// renderStatusBar produces a full-width inverted status line showing the
// place, its era, the inventory size and the current mode.
func (m Model) renderStatusBar() string {
	w := m.engine.World

	left := fmt.Sprintf(" %s | %s", placeTitle(m.engine.PlaceName()), w.Place.Era())
	right := fmt.Sprintf("Inv: %d | %s ", len(w.StoredItems()), modeLabel(w.Mode))
	if m.trace {
		right = fmt.Sprintf("(%d,%d) | %s", w.PlayerPos.X, w.PlayerPos.Y, right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

func modeLabel(mode types.RunMode) string {
	switch mode.Kind {
	case types.ModeUseInventory:
		return "Choose an item"
	case types.ModeInteractNpc:
		return "Talking"
	case types.ModeGameOver:
		if mode.Won {
			return "Finished"
		}
		return "Game over"
	}
	return "Exploring"
}
