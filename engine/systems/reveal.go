package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Reveal materializes dormant barriers of the current place while the player
// stands in their trigger zone holding the revealer item, and hides them
// again when the condition lapses. A barrier stays put once unlocked.
func Reveal(w *state.World, log logrus.FieldLogger) error {
	for _, e := range w.ECS.Query().With(w.Revealers).With(w.BelongsTo).Execute() {
		if !w.InCurrentPlace(e) {
			continue
		}
		info, _ := w.Revealers.Get(e)
		active := inZone(info, w.PlayerPos) && w.HasItem(info.RevealerItem)

		switch {
		case active && w.Dormant.Has(e):
			if err := materialize(w, e); err != nil {
				return err
			}
			log.WithField("entity", w.EntityName(e)).Debug("barrier revealed")

		case !active && w.Positions.Has(e) && w.RequiresItem.Has(e):
			if err := dematerialize(w, e, info.BeforeReveal); err != nil {
				return err
			}
			log.WithField("entity", w.EntityName(e)).Debug("barrier hidden")
		}
	}
	return nil
}

func inZone(info types.RevealerInformation, p types.Point) bool {
	return p.X >= info.XEndPoints.From && p.X <= info.XEndPoints.To &&
		p.Y >= info.YEndPoints.From && p.Y <= info.YEndPoints.To
}

func materialize(w *state.World, e ecs.Entity) error {
	d, _ := w.Dormant.Get(e)
	if !w.Map.InBounds(d.X, d.Y) {
		return fmt.Errorf("dormant %s at (%d,%d) is off the grid", w.EntityName(e), d.X, d.Y)
	}
	w.Dormant.Remove(e)
	if err := w.Positions.Insert(e, types.Position{X: d.X, Y: d.Y}); err != nil {
		return err
	}
	tile := types.TilePortal
	if w.RequiresItem.Has(e) {
		tile = types.TileRequiresKey
	}
	w.Map.Set(d.X, d.Y, tile)
	return nil
}

func dematerialize(w *state.World, e ecs.Entity, before types.TileType) error {
	p, _ := w.Positions.Get(e)
	if !w.Map.InBounds(p.X, p.Y) {
		return fmt.Errorf("revealed %s at (%d,%d) is off the grid", w.EntityName(e), p.X, p.Y)
	}
	w.Positions.Remove(e)
	if err := w.Dormant.Insert(e, types.DormantPosition{X: p.X, Y: p.Y}); err != nil {
		return err
	}
	w.Map.Set(p.X, p.Y, before)
	return nil
}
