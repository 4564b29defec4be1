package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/timeward/engine"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/engine/worldtest"
	"github.com/nathoo/timeward/types"
)

func TestPlaceTitle(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"ev", "Ev"},
		{"güney kampüs", "Güney Kampüs"},
		{"m2152 sınıfı", "M2152 Sınıfı"},
		{"istanbul meydanı", "İstanbul Meydanı"},
		{"Hall", "Hall"},
	}
	for _, tt := range tests {
		if got := placeTitle(tt.name); got != tt.want {
			t.Errorf("placeTitle(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Welcome!", kindText},
		{"Picked up: Book", kindItem},
		{"Used item: Secret Gate Key", kindItem},
		{"Crafted: Poem Book", kindItem},
		{"Wrong item", kindError},
		{"Missing item: Book", kindError},
		{"Still missing: Book", kindError},
		{"Gave: Book", kindDialogue},
		{"Received: West Gate Key", kindDialogue},
		{"[Game saved.]", kindSystem},
		{"", kindText},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHistory_DropsOldestLines(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(fmt.Sprintf("line %d", i))
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if got := h.entries()[0].text; got != "line 2" {
		t.Errorf("oldest line = %q, want %q", got, "line 2")
	}

	h.PushSystem("Game saved.")
	last := h.entries()[h.Len()-1]
	if !last.system || last.kind != kindSystem {
		t.Errorf("expected a system line, got %+v", last)
	}

	h.Reset([]string{"Welcome!"})
	if h.Len() != 1 || h.entries()[0].text != "Welcome!" {
		t.Errorf("after Reset: %+v", h.entries())
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMap_Input(t *testing.T) {
	keys := defaultKeys()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   types.Input
		wantOK bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, types.Move(0, -1), true},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, types.Move(0, 1), true},
		{"h", runes("h"), types.Move(-1, 0), true},
		{"l", runes("l"), types.Move(1, 0), true},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, types.Confirm, true},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, types.Cancel, true},
		{"1", runes("1"), types.Select(0), true},
		{"3", runes("3"), types.Select(2), true},
		{"x", runes("x"), types.Idle, false},
		{"pgup", tea.KeyMsg{Type: tea.KeyPgUp}, types.Idle, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.input(tt.msg)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("input(%v) = %+v, %v; want %+v, %v", tt.msg, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCropOffset(t *testing.T) {
	tests := []struct {
		pos, visible, total, want int
	}{
		{10, 60, 55, 0},
		{5, 20, 55, 0},
		{30, 20, 55, 20},
		{54, 20, 55, 35},
	}
	for _, tt := range tests {
		if got := cropOffset(tt.pos, tt.visible, tt.total); got != tt.want {
			t.Errorf("cropOffset(%d, %d, %d) = %d, want %d", tt.pos, tt.visible, tt.total, got, tt.want)
		}
	}
}

func newModel(t *testing.T, store save.Store) Model {
	t.Helper()
	eng, err := engine.New(worldtest.Defs(), worldtest.Logger(), store)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	m, _ := New(eng).Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return m.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func historyHas(m Model, text string) bool {
	for _, l := range m.history.entries() {
		if l.text == text {
			return true
		}
	}
	return false
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_InitialView(t *testing.T) {
	m := newModel(t, nil)
	view := m.View()
	for _, want := range []string{"Objective", "Find a book", "Welcome!", "Home | 2021", "Exploring", "@"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	eng, err := engine.New(worldtest.Defs(), worldtest.Logger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := New(eng).View(); got != "Loading..." {
		t.Errorf("View = %q, want Loading...", got)
	}
}

func TestModel_MoveAndPickUp(t *testing.T) {
	m := newModel(t, nil)
	m, _ = press(t, m, runes("l"))

	if got := m.engine.World.PlayerPos; got != worldtest.BookPos {
		t.Errorf("PlayerPos = %v, want %v", got, worldtest.BookPos)
	}
	if !historyHas(m, "Picked up: Book") {
		t.Errorf("expected pick-up line, got %+v", m.history.entries())
	}
	if !strings.Contains(m.View(), "Inv: 1") {
		t.Error("expected the status bar to count the book")
	}
}

func TestModel_InventoryPanel(t *testing.T) {
	m := newModel(t, nil)
	w := m.engine.World
	worldtest.Give(t, w, types.ItemSecretGateKey)
	worldtest.Place(t, w, types.Point{X: worldtest.LockedGate.X, Y: worldtest.LockedGate.Y + 1})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if w.Mode.Kind != types.ModeUseInventory {
		t.Fatalf("Mode = %s, want use_inventory", w.Mode.Kind)
	}
	view := m.View()
	for _, want := range []string{"Something blocks the way", "1. Secret Gate Key", "Choose an item"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}

	m, _ = press(t, m, runes("1"))
	if w.Mode.Kind != types.ModeGame {
		t.Errorf("Mode = %s, want game", w.Mode.Kind)
	}
	if !historyHas(m, "Used item: Secret Gate Key") {
		t.Error("expected the unlock in the log")
	}
}

func TestModel_DialoguePanel(t *testing.T) {
	m := newModel(t, nil)
	worldtest.Place(t, m.engine.World, types.Point{X: worldtest.GuidePos.X - 1, Y: worldtest.GuidePos.Y})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	view := m.View()
	if !strings.Contains(view, "Guide") || !strings.Contains(view, "Hello.") {
		t.Errorf("expected the Guide's first line in view")
	}
	if strings.Contains(view, "Bring me a book.") {
		t.Error("second line shown before confirming")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Bring me a book.") {
		t.Error("expected the second line after enter")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.engine.World.Mode.Kind != types.ModeGame {
		t.Errorf("Mode = %s, want game after esc", m.engine.World.Mode.Kind)
	}
}

func TestModel_WinThenAnyKeyQuits(t *testing.T) {
	m := newModel(t, nil)
	worldtest.Give(t, m.engine.World, types.ItemOttomanKeyMain)

	m, cmd := press(t, m, runes("l"))
	if isQuit(cmd) {
		t.Fatal("quit before the win was shown")
	}
	if !strings.Contains(m.View(), "You made it back") {
		t.Error("expected the win panel")
	}

	m, cmd = press(t, m, runes("x"))
	if !isQuit(cmd) || !m.quitting {
		t.Error("expected any key to quit after the win")
	}
}

func TestModel_FatalTickQuits(t *testing.T) {
	m := newModel(t, nil)
	w := m.engine.World
	w.Players.Remove(w.Player)

	m, cmd := press(t, m, runes("l"))
	if !isQuit(cmd) {
		t.Error("expected quit on a broken world")
	}
	if m.err == nil {
		t.Error("expected the engine error to be kept for Run")
	}
}

func TestModel_SaveAndLoad(t *testing.T) {
	store := save.NewFileStore(filepath.Join(t.TempDir(), "save_game.json"))
	m := newModel(t, store)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !historyHas(m, "There is no saved game.") {
		t.Error("expected no-save notice")
	}

	m, _ = press(t, m, runes("l"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !historyHas(m, "Game saved.") {
		t.Error("expected save notice")
	}

	m, _ = press(t, m, runes("l"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !historyHas(m, "Game loaded.") {
		t.Error("expected load notice")
	}
	if got := m.engine.World.PlayerPos; got != worldtest.BookPos {
		t.Errorf("PlayerPos after load = %v, want %v", got, worldtest.BookPos)
	}
}

func TestModel_SaveWithoutStore(t *testing.T) {
	m := newModel(t, nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !historyHas(m, "Save failed: no save store configured") {
		t.Errorf("expected save failure, got %+v", m.history.entries())
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newModel(t, nil)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) || m.View() != "" {
		t.Error("expected ctrl+c to quit with an empty view")
	}
}
