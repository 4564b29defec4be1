package state

import (
	"fmt"

	"github.com/nathoo/timeward/engine/tilemap"
	"github.com/nathoo/timeward/types"
)

// EnsureMap regenerates the map when it does not describe the current place.
// Reports whether a new map was built.
func (w *World) EnsureMap() (bool, error) {
	if w.Map != nil && w.Map.Place == w.Place {
		return false, nil
	}
	if err := w.RegenerateMap(); err != nil {
		return false, err
	}
	return true, nil
}

// RegenerateMap builds the map of the current place from its room and
// overlays the portals and NPCs that belong to it. NPCs are laid last so an
// NPC standing on a portal tile wins.
func (w *World) RegenerateMap() error {
	def, ok := w.Defs.Places[w.Place]
	if !ok {
		return fmt.Errorf("regenerate map: no room defined for place %s", w.Place)
	}
	m := tilemap.Generate(w.Place, def.Room)

	for _, e := range w.ECS.Query().With(w.Portals).With(w.Positions).With(w.BelongsTo).Execute() {
		if !w.InCurrentPlace(e) {
			continue
		}
		p, _ := w.Positions.Get(e)
		if !m.InBounds(p.X, p.Y) {
			return fmt.Errorf("regenerate map: portal %s at (%d,%d) is off the grid", w.EntityName(e), p.X, p.Y)
		}
		if w.RequiresItem.Has(e) {
			m.Set(p.X, p.Y, types.TileRequiresKey)
		} else {
			m.Set(p.X, p.Y, types.TilePortal)
		}
	}

	for _, e := range w.ECS.Query().With(w.Npcs).With(w.Positions).With(w.BelongsTo).Execute() {
		if !w.InCurrentPlace(e) {
			continue
		}
		p, _ := w.Positions.Get(e)
		if !m.InBounds(p.X, p.Y) {
			return fmt.Errorf("regenerate map: npc %s at (%d,%d) is off the grid", w.EntityName(e), p.X, p.Y)
		}
		m.Set(p.X, p.Y, types.TileNPC)
	}

	w.Map = m
	return nil
}
