// Package cli provides the plain line-based front end: terminal I/O, output
// formatting and meta-command dispatch. It also drives scripted playback.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/timeward/engine"
	"github.com/nathoo/timeward/engine/parser"
	"github.com/nathoo/timeward/engine/save"
	"github.com/nathoo/timeward/types"
)

// maxRepeat caps the "xN" suffix so a typo cannot spin forever.
const maxRepeat = 100

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine on stdin and stdout.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run shows the welcome and the starting place, then loops: prompt, input,
// dispatch, output. It returns nil when the player quits, wins or input runs
// out, and an error when the engine reports a broken world.
func (c *CLI) Run(ctx context.Context) error {
	g := c.Engine.Defs.Game
	c.printLine(fmt.Sprintf("%s %s", g.Title, g.Version))
	for _, line := range c.Engine.World.Log {
		c.printLine(line)
	}
	c.describePlace()

	scanner := bufio.NewScanner(c.In)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		c.print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return nil
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		done, err := c.command(input)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// command runs one game command, honouring an "xN" repeat suffix. done is
// true once the game is over.
func (c *CLI) command(input string) (done bool, err error) {
	times := 1
	if fields := strings.Fields(input); len(fields) > 1 {
		last := fields[len(fields)-1]
		if n, convErr := strconv.Atoi(strings.TrimPrefix(last, "x")); strings.HasPrefix(last, "x") && convErr == nil && n > 0 {
			times = min(n, maxRepeat)
			input = strings.Join(fields[:len(fields)-1], " ")
		}
	}

	in, ok := parser.Parse(input)
	if !ok {
		c.printLine("I don't understand that.")
		return false, nil
	}
	for i := 0; i < times; i++ {
		moved, err := c.step(in)
		if err != nil {
			return false, err
		}
		if c.Engine.World.Mode.Kind == types.ModeGameOver {
			c.printGameOver()
			return true, nil
		}
		// Stop repeating once something other than walking happens.
		if !moved {
			break
		}
	}
	return false, nil
}

// step sends the input plus the idle tick that follows every key press, then
// prints what changed. moved reports a plain step that stayed in play mode.
func (c *CLI) step(in types.Input) (moved bool, err error) {
	w := c.Engine.World
	before := w.PlayerPos
	tr, err := c.Engine.Advance(in)
	if err != nil {
		return false, fmt.Errorf("advance: %w", err)
	}
	idle, err := c.Engine.Advance(types.Idle)
	if err != nil {
		return false, fmt.Errorf("advance: %w", err)
	}

	for _, line := range append(tr.Lines, idle.Lines...) {
		c.printLine(line)
	}
	if c.Trace {
		c.printSystem(fmt.Sprintf("[trace] %s -> %s at %v", tr.From.Kind, idle.To.Kind, w.PlayerPos))
	}

	if tr.PlaceChanged || idle.PlaceChanged {
		c.describePlace()
	}
	switch w.Mode.Kind {
	case types.ModeUseInventory:
		if tr.From.Kind != types.ModeUseInventory {
			c.printLine("Something blocks the way. Use an item? (number, or cancel)")
		}
		c.printInventory()
	case types.ModeInteractNpc:
		c.printConversation()
	}
	return w.Mode.Kind == types.ModeGame && w.PlayerPos != before && !tr.PlaceChanged, nil
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	switch parts[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(ctx)

	case "/load":
		c.cmdLoad(ctx)

	case "/slots":
		c.cmdSlots(ctx)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/map":
		c.printMap()

	case "/inventory", "/i":
		c.printInventory()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0]))
	}
	return false
}

func (c *CLI) cmdSave(ctx context.Context) {
	if err := c.Engine.Save(ctx); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem("Game saved.")
}

func (c *CLI) cmdLoad(ctx context.Context) {
	err := c.Engine.Load(ctx)
	switch {
	case errors.Is(err, save.ErrNoSave):
		c.printSystem("There is no saved game.")
		return
	case err != nil:
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem("Game loaded.")
	c.describePlace()
}

// slotLister is implemented by stores that keep more than one game.
type slotLister interface {
	Slots(ctx context.Context) ([]string, error)
}

func (c *CLI) cmdSlots(ctx context.Context) {
	sl, ok := c.Engine.Store.(slotLister)
	if !ok {
		c.printSystem("This save backend keeps a single game.")
		return
	}
	slots, err := sl.Slots(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing slots failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("There is no saved game.")
		return
	}
	c.printSystem("Saved slots: " + strings.Join(slots, ", "))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save        Save the game",
		"  /load        Load the saved game",
		"  /slots       List saved slots (sqlite backend)",
		"  /map         Draw the current place",
		"  /inventory   List what you carry (/i)",
		"  /state       Debug: dump the session",
		"  /trace       Toggle debug trace output",
		"  /quit        Exit",
		"",
		"Game commands:",
		"  n/s/e/w, north, up, hjkl   Walk one step",
		"  go <dir> x<N>              Walk up to N steps",
		"  enter (c, talk, next)      Continue a conversation",
		"  cancel (q, esc, leave)     Leave a conversation or the item list",
		"  <N>, use <N>               Use the N-th item when something blocks the way",
		"  wait (z)                   Let a tick pass",
		"  again (g)                  Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	w := c.Engine.World
	c.printSystem(fmt.Sprintf("Place: %s (%s)", w.Place, c.Engine.PlaceName()))
	c.printSystem(fmt.Sprintf("Position: %d,%d", w.PlayerPos.X, w.PlayerPos.Y))
	c.printSystem(fmt.Sprintf("Mode: %s", w.Mode.Kind))
	c.printSystem(fmt.Sprintf("Objective %d/%d: %s", w.Objective.Index+1, len(w.Objective.Objectives), w.CurrentObjective()))
	c.printSystem(fmt.Sprintf("Inventory: %v", c.Engine.InventoryNames()))
	c.printSystem(fmt.Sprintf("Entities: %d", w.ECS.Len()))
}

func (c *CLI) describePlace() {
	w := c.Engine.World
	c.printLine("")
	c.printLine(fmt.Sprintf("== %s (%s) ==", c.Engine.PlaceName(), w.Place.Era()))
	if obj := w.CurrentObjective(); obj != "" {
		c.printLine("Objective: " + obj)
	}
}

func (c *CLI) printInventory() {
	names := c.Engine.InventoryNames()
	if len(names) == 0 {
		c.printLine("You are carrying nothing.")
		return
	}
	for i, n := range names {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, n))
	}
}

func (c *CLI) printConversation() {
	speaker, lines, ok := c.Engine.Conversation()
	if !ok || len(lines) == 0 {
		return
	}
	// Only the newest line; the earlier ones were printed on previous steps.
	c.printLine(fmt.Sprintf("%s: %s", speaker, lines[len(lines)-1]))
}

func (c *CLI) printGameOver() {
	if c.Engine.World.Mode.Won {
		c.printLine("")
		c.printLine("You made it back to your own time. Well done!")
		return
	}
	c.printLine("Game over.")
}

// printMap draws the current place with walls and entity glyphs.
func (c *CLI) printMap() {
	for _, row := range c.Engine.Screen() {
		var b strings.Builder
		for _, cell := range row {
			b.WriteRune(cell.Glyph)
		}
		if line := strings.TrimRight(b.String(), " "); line != "" {
			c.printLine(line)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
