// Package tui provides the Bubble Tea front end: the map, a log panel, the
// objective, inventory and dialogue panels, and a status bar.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/timeward/engine"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/engine/tilemap"
	"github.com/nathoo/timeward/types"
)

const (
	maxLogLines  = 500
	minSideWidth = 28
)

// Model is the Bubble Tea model for the game.
type Model struct {
	engine  *engine.Engine
	ctx     context.Context
	keys    keyMap
	log     viewport.Model
	history *History

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	err      error // fatal engine error, returned by Run
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	h := NewHistory(maxLogLines)
	h.Reset(eng.World.Log)
	return Model{
		engine:  eng,
		ctx:     context.Background(),
		keys:    defaultKeys(),
		history: h,
	}
}

// Run starts the Bubble Tea program and blocks until the player quits. A
// broken world invariant is returned as an error.
func Run(ctx context.Context, eng *engine.Engine) error {
	m := New(eng)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// Init has nothing to start; the first frame waits for the window size.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (key presses, window resize, mouse scroll).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.log = viewport.New(minSideWidth, 1)
			m.log.KeyMap = logKeyMap()
			m.ready = true
		}
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.engine.World.Mode.Kind == types.ModeGameOver {
			m.quitting = true
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, m.keys.Save):
			m.save()
			m.layout()
			return m, nil
		case key.Matches(msg, m.keys.Load):
			m.load()
			m.layout()
			return m, nil
		case key.Matches(msg, m.keys.Trace):
			m.trace = !m.trace
			return m, nil
		}
		if in, ok := m.keys.input(msg); ok {
			return m.step(in)
		}
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// step sends the input and the idle tick that follows every key press.
func (m Model) step(in types.Input) (tea.Model, tea.Cmd) {
	for _, i := range []types.Input{in, types.Idle} {
		tr, err := m.engine.Advance(i)
		if err != nil {
			m.engine.Log.WithError(err).Error("tick failed")
			m.err = fmt.Errorf("advance: %w", err)
			m.quitting = true
			return m, tea.Quit
		}
		for _, line := range tr.Lines {
			m.history.Push(line)
		}
		if m.trace && tr.From.Kind != tr.To.Kind {
			m.history.PushSystem(fmt.Sprintf("%s -> %s", tr.From.Kind, tr.To.Kind))
		}
	}
	m.layout()
	return m, nil
}

func (m *Model) save() {
	if err := m.engine.Save(m.ctx); err != nil {
		m.history.PushSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	m.history.PushSystem("Game saved.")
}

func (m *Model) load() {
	err := m.engine.Load(m.ctx)
	switch {
	case errors.Is(err, save.ErrNoSave):
		m.history.PushSystem("There is no saved game.")
		return
	case err != nil:
		m.history.PushSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	m.history.Reset(m.engine.World.Log)
	m.history.PushSystem("Game loaded.")
}

// layout sizes the log viewport to the space the side panels leave over
// and refills it.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	side := m.sideWidth()
	used := 0
	for _, p := range m.panels(side) {
		used += lipgloss.Height(p)
	}
	m.log.Width = max(side-4, 1)
	m.log.Height = max(m.bodyHeight()-used-2, 1)

	var rendered []string
	for _, l := range m.history.entries() {
		rendered = append(rendered, renderLine(l, m.log.Width))
	}
	m.log.SetContent(strings.Join(rendered, "\n"))
	m.log.GotoBottom()
}

func (m Model) bodyHeight() int {
	// status bar + help line
	return max(m.height-2, 1)
}

func (m Model) sideWidth() int {
	return max(m.width-tilemap.Width-1, minSideWidth)
}

// View renders the full layout: map and side panels, status bar, help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	side := m.sideWidth()
	mapWidth := max(m.width-side-1, 1)
	column := append(m.panels(side), stylePanel.Width(side-2).Render(m.log.View()))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderMap(mapWidth, m.bodyHeight()),
		" ",
		lipgloss.JoinVertical(lipgloss.Left, column...),
	)
	return body + "\n" + m.renderStatusBar() + "\n" + styleSystem.Render(m.keys.helpLine())
}

// panels returns the objective panel plus the panel of the current mode.
func (m Model) panels(width int) []string {
	w := m.engine.World
	inner := width - 4
	box := stylePanel.Width(width - 2)

	objective := w.CurrentObjective()
	if objective == "" {
		objective = "Nothing left to do."
	}
	out := []string{box.Render(styleTitle.Render("Objective") + "\n" + wrap(objective, inner))}

	switch w.Mode.Kind {
	case types.ModeUseInventory:
		out = append(out, box.Render(m.inventoryPanel(inner)))
	case types.ModeInteractNpc:
		if speaker, lines, ok := m.engine.Conversation(); ok {
			body := make([]string, 0, len(lines)+2)
			body = append(body, styleTitle.Render(speaker))
			for _, l := range lines {
				body = append(body, styleDialogue.Render(wrap(l, inner)))
			}
			body = append(body, styleSystem.Render("enter: continue  esc: leave"))
			out = append(out, box.Render(strings.Join(body, "\n")))
		}
	case types.ModeGameOver:
		msg := styleError.Render("Game over.")
		if w.Mode.Won {
			msg = styleWin.Render(wrap("You made it back to your own time. Well done!", inner))
		}
		out = append(out, box.Render(msg+"\n"+styleSystem.Render("Press any key to exit.")))
	}
	return out
}

func (m Model) inventoryPanel(width int) string {
	body := []string{styleTitle.Render("Something blocks the way")}
	names := m.engine.InventoryNames()
	if len(names) == 0 {
		body = append(body, "You are carrying nothing.")
	}
	for i, n := range names {
		body = append(body, styleItem.Render(wrap(fmt.Sprintf("%d. %s", i+1, n), width)))
	}
	body = append(body, styleSystem.Render("1-9: use  esc: step back"))
	return strings.Join(body, "\n")
}

// renderMap draws the place, cropped to width x height around the player.
// Runs of equally colored cells share one style.
func (m Model) renderMap(width, height int) string {
	rows := m.engine.Screen()
	if len(rows) == 0 {
		return ""
	}
	p := m.engine.World.PlayerPos
	offY := cropOffset(p.Y, height, len(rows))
	offX := cropOffset(p.X, width, len(rows[0]))

	var out []string
	for y := offY; y < min(offY+height, len(rows)); y++ {
		row := rows[y][offX:min(offX+width, len(rows[y]))]
		var b strings.Builder
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].FG == row[start].FG && row[end].BG == row[start].BG {
				end++
			}
			glyphs := make([]rune, 0, end-start)
			for _, c := range row[start:end] {
				glyphs = append(glyphs, c.Glyph)
			}
			style := lipgloss.NewStyle().Foreground(hex(row[start].FG)).Background(hex(row[start].BG))
			b.WriteString(style.Render(string(glyphs)))
			start = end
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// cropOffset centers pos in a window of size visible over total cells.
func cropOffset(pos, visible, total int) int {
	if visible >= total {
		return 0
	}
	off := pos - visible/2
	return max(0, min(off, total-visible))
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(text)
}
