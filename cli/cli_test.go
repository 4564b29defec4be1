package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/timeward/engine"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/engine/worldtest"
	"github.com/nathoo/timeward/types"
)

func newTestCLI(t *testing.T, input string, store save.Store) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng, err := engine.New(worldtest.Defs(), worldtest.Logger(), store)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func run(t *testing.T, c *CLI) {
	t.Helper()
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func assertOutput(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected %q in output:\n%s", w, output)
		}
	}
}

func TestCLI_WelcomeAndStartingPlace(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n", nil)
	run(t, c)

	assertOutput(t, out.String(),
		"Test World 0.1.0",
		"Welcome!",
		"== Home (2021) ==",
		"Objective: Find a book",
		"[Goodbye.]",
	)
}

func TestCLI_WalkAndPickUp(t *testing.T) {
	c, out := newTestCLI(t, "e\n/i\n/quit\n", nil)
	run(t, c)

	assertOutput(t, out.String(), "Picked up: Book", "  1. Book")
	if got, want := c.Engine.World.PlayerPos, worldtest.BookPos; got != want {
		t.Errorf("PlayerPos = %v, want %v", got, want)
	}
}

func TestCLI_RepeatSuffix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Point
	}{
		{"single", "go east\n", types.Point{X: 8, Y: 7}},
		{"x3", "e x3\n", types.Point{X: 10, Y: 7}},
		{"again", "e\ng\nagain\n", types.Point{X: 10, Y: 7}},
		// The wall stops the walk; the rest of the repeats are dropped.
		{"into wall", "n x20\n", types.Point{X: 7, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t, tt.input, nil)
			run(t, c)
			if got := c.Engine.World.PlayerPos; got != tt.want {
				t.Errorf("PlayerPos = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCLI_ThroughTheDoor(t *testing.T) {
	c, out := newTestCLI(t, "e\n", nil)
	worldtest.Place(t, c.Engine.World, types.Point{X: worldtest.HomeDoor.X - 1, Y: worldtest.HomeDoor.Y})
	run(t, c)

	assertOutput(t, out.String(), "== Hall (2021) ==")
	if c.Engine.World.Place != types.PlaceSchoolSouth {
		t.Errorf("Place = %v, want school_south", c.Engine.World.Place)
	}
}

func TestCLI_UnknownInput(t *testing.T) {
	c, out := newTestCLI(t, "dance wildly\n/bogus\ng\n/quit\n", nil)
	run(t, c)

	assertOutput(t, out.String(),
		"I don't understand that.",
		"[Unknown command: /bogus. Type /help for available commands.]",
	)
}

func TestCLI_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "g\n", nil)
	run(t, c)
	assertOutput(t, out.String(), "Nothing to repeat.")
}

func TestCLI_UseItemOnGate(t *testing.T) {
	c, out := newTestCLI(t, "n\n1\n/quit\n", nil)
	worldtest.Give(t, c.Engine.World, types.ItemSecretGateKey)
	worldtest.Place(t, c.Engine.World, types.Point{X: worldtest.LockedGate.X, Y: worldtest.LockedGate.Y + 1})
	run(t, c)

	assertOutput(t, out.String(),
		"Something blocks the way. Use an item? (number, or cancel)",
		"  1. Secret Gate Key",
		"Used item: Secret Gate Key",
	)
	if c.Engine.World.Mode.Kind != types.ModeGame {
		t.Errorf("Mode = %s, want game", c.Engine.World.Mode.Kind)
	}
}

func TestCLI_Conversation(t *testing.T) {
	c, out := newTestCLI(t, "e\nc\nq\n/quit\n", nil)
	worldtest.Place(t, c.Engine.World, types.Point{X: worldtest.GuidePos.X - 1, Y: worldtest.GuidePos.Y})
	run(t, c)

	output := out.String()
	assertOutput(t, output, "Guide: Hello.", "Guide: Bring me a book.")
	if strings.Index(output, "Guide: Hello.") > strings.Index(output, "Guide: Bring me a book.") {
		t.Error("conversation lines printed out of order")
	}
	if c.Engine.World.Mode.Kind != types.ModeGame {
		t.Errorf("Mode = %s, want game after leaving", c.Engine.World.Mode.Kind)
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	store := save.NewFileStore(filepath.Join(t.TempDir(), "save_game.json"))
	c, out := newTestCLI(t, "/load\ne\n/save\ne\ne\n/load\n/quit\n", store)
	run(t, c)

	assertOutput(t, out.String(), "[There is no saved game.]", "[Game saved.]", "[Game loaded.]")
	if got, want := c.Engine.World.PlayerPos, worldtest.BookPos; got != want {
		t.Errorf("PlayerPos after load = %v, want %v", got, want)
	}
}

func TestCLI_SaveWithoutStore(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n", nil)
	run(t, c)
	assertOutput(t, out.String(), "[Save failed: no save store configured]")
}

func TestCLI_Map(t *testing.T) {
	c, out := newTestCLI(t, "/map\n/quit\n", nil)
	run(t, c)

	output := out.String()
	row := ""
	for _, line := range strings.Split(output, "\n") {
		if strings.ContainsRune(line, '@') {
			row = line
		}
	}
	if row == "" {
		t.Fatalf("expected the player glyph on the map:\n%s", output)
	}
	// The book lies just east of the start.
	if !strings.Contains(row, "@*") {
		t.Errorf("row = %q, want the book right of the player", row)
	}
}

func TestCLI_WinEndsTheSession(t *testing.T) {
	c, out := newTestCLI(t, "z\n/quit\n", nil)
	worldtest.Give(t, c.Engine.World, types.ItemOttomanKeyMain)
	run(t, c)

	output := out.String()
	assertOutput(t, output, "You made it back to your own time. Well done!")
	if strings.Contains(output, "Goodbye.") {
		t.Error("expected input after the win to be ignored")
	}
}

func TestCLI_ScriptPlayback(t *testing.T) {
	c, out := newTestCLI(t, "# walk to the book\ne\n/quit\n", nil)
	c.EchoInput = true
	run(t, c)

	output := out.String()
	if strings.Contains(output, "walk to the book") {
		t.Error("comment lines must be skipped")
	}
	assertOutput(t, output, "> e\n")
}

func TestCLI_Trace(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ne\n/quit\n", nil)
	run(t, c)
	assertOutput(t, out.String(), "[Trace output enabled.]", "[[trace] game -> game at")
}

func TestCLI_Slots(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		store, err := save.OpenSQLite(filepath.Join(t.TempDir(), "saves.db"), "quicksave")
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		defer store.Close()

		c, out := newTestCLI(t, "/slots\n/save\n/slots\n/quit\n", store)
		run(t, c)

		output := out.String()
		assertOutput(t, output, "[There is no saved game.]", "[Saved slots: quicksave]")
		if strings.Index(output, "[There is no saved game.]") > strings.Index(output, "[Saved slots: quicksave]") {
			t.Error("slot listed before the game was saved")
		}
	})

	t.Run("file", func(t *testing.T) {
		store := save.NewFileStore(filepath.Join(t.TempDir(), "save_game.json"))
		c, out := newTestCLI(t, "/slots\n/quit\n", store)
		run(t, c)
		assertOutput(t, out.String(), "[This save backend keeps a single game.]")
	})
}
