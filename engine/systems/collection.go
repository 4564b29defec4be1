package systems

import (
	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Collect picks up every item of the current place lying under the player.
func Collect(w *state.World, log logrus.FieldLogger) error {
	var picked []types.Item
	for _, e := range w.ECS.Query().With(w.Items).With(w.Positions).With(w.BelongsTo).Without(w.Stored).Execute() {
		pos, _ := w.Positions.Get(e)
		if pos.X != w.PlayerPos.X || pos.Y != w.PlayerPos.Y || !w.InCurrentPlace(e) {
			continue
		}
		w.Positions.Remove(e)
		if err := w.Stored.Insert(e, types.Stored{}); err != nil {
			return err
		}
		it, _ := w.Items.Get(e)
		picked = append(picked, it)
	}
	for _, it := range picked {
		w.AppendLog("Picked up: %s", it.Kind)
		log.WithField("item", it.Kind.ID()).Debug("item collected")
	}
	return nil
}
