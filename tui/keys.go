package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/timeward/types"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Select  key.Binding
	Save    key.Binding
	Load    key.Binding
	Trace   key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("arrows/hjkl", "move")),
		Down:    key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓", "south")),
		Left:    key.NewBinding(key.WithKeys("left", "h", "a"), key.WithHelp("←", "west")),
		Right:   key.NewBinding(key.WithKeys("right", "l", "d"), key.WithHelp("→", "east")),
		Confirm: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "continue")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "leave")),
		Select:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "use item")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Load:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "load")),
		Trace:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "trace")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+c", "quit")),
	}
}

// input maps a key press to an engine input. ok is false for keys that do
// not drive the game.
func (k keyMap) input(msg tea.KeyMsg) (in types.Input, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return types.Move(0, -1), true
	case key.Matches(msg, k.Down):
		return types.Move(0, 1), true
	case key.Matches(msg, k.Left):
		return types.Move(-1, 0), true
	case key.Matches(msg, k.Right):
		return types.Move(1, 0), true
	case key.Matches(msg, k.Confirm):
		return types.Confirm, true
	case key.Matches(msg, k.Cancel):
		return types.Cancel, true
	case key.Matches(msg, k.Select):
		return types.Select(int(msg.Runes[0] - '1')), true
	}
	return types.Idle, false
}

func (k keyMap) helpLine() string {
	bindings := []key.Binding{k.Up, k.Confirm, k.Cancel, k.Select, k.Save, k.Load, k.Quit}
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}

// logKeyMap returns a viewport keymap with the arrow keys disabled (they
// walk the player).
func logKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
