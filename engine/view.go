package engine

import (
	"github.com/nathoo/timeward/engine/dialogue"
	"github.com/nathoo/timeward/engine/spawn"
	"github.com/nathoo/timeward/engine/tilemap"
	"github.com/nathoo/timeward/types"
)

// InventoryNames returns the display names of the held items in selection
// order.
func (e *Engine) InventoryNames() []string {
	w := e.World
	var out []string
	for _, ent := range w.StoredItems() {
		out = append(out, w.EntityName(ent))
	}
	return out
}

// Conversation returns the speaker and the revealed lines of the current
// interaction. ok is false outside the interaction mode.
func (e *Engine) Conversation() (speaker string, lines []string, ok bool) {
	w := e.World
	if w.Mode.Kind != types.ModeInteractNpc {
		return "", nil, false
	}
	npc, found := w.NpcAt(w.Targeted)
	if !found {
		return "", nil, false
	}
	return w.EntityName(npc), dialogue.Page(w, npc, w.Mode.Line), true
}

// PlaceName returns the display name of the current place.
func (e *Engine) PlaceName() string {
	if def, ok := e.Defs.Places[e.World.Place]; ok && def.Name != "" {
		return def.Name
	}
	return e.World.Place.String()
}

// Cell is one drawn grid position.
type Cell struct {
	Glyph rune
	FG    types.RGB
	BG    types.RGB
}

// Screen composes the current map with the visible entities of the place,
// painted in render order so the player ends up on top.
func (e *Engine) Screen() [][]Cell {
	w := e.World
	m := w.Map
	if m == nil {
		return nil
	}
	rows := make([][]Cell, m.Height)
	for y := range rows {
		rows[y] = make([]Cell, m.Width)
		for x := range rows[y] {
			rows[y][x] = tileCell(m, x, y)
		}
	}
	for _, ent := range w.RenderList() {
		pos, _ := w.Positions.Get(ent)
		r, _ := w.Renderables.Get(ent)
		if !m.InBounds(pos.X, pos.Y) {
			continue
		}
		c := &rows[pos.Y][pos.X]
		c.Glyph, c.FG = r.Glyph, r.FG
	}
	return rows
}

func tileCell(m *tilemap.Map, x, y int) Cell {
	switch m.At(x, y) {
	case types.TileFloor, types.TileNPC:
		return Cell{Glyph: '.', FG: spawn.TileColor, BG: spawn.Black}
	case types.TileWall:
		return Cell{Glyph: m.WallGlyph(x, y), FG: spawn.WallColor, BG: spawn.Black}
	case types.TileRequiresKey:
		return Cell{Glyph: spawn.DoorGlyph, FG: spawn.DoorColor, BG: spawn.Black}
	case types.TilePortal:
		return Cell{Glyph: spawn.PortalGlyph, FG: spawn.PortalColor, BG: spawn.Black}
	}
	return Cell{Glyph: ' ', FG: spawn.Black, BG: spawn.Black}
}
