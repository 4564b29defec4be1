package systems

import (
	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// UseItem tries the n-th stored item (zero-based, entity order) on the
// barrier at the targeted position.
func UseItem(w *state.World, log logrus.FieldLogger, n int) types.RunMode {
	game := types.RunMode{Kind: types.ModeGame}
	held := w.StoredItems()
	if n < 0 || n >= len(held) {
		w.ResetTarget()
		return game
	}
	barrier, ok := w.BarrierAt(w.Targeted)
	if !ok {
		log.WithField("at", w.Targeted).Warn("no locked barrier at targeted position")
		w.ResetTarget()
		return game
	}

	key := held[n]
	it, _ := w.Items.Get(key)
	req, _ := w.RequiresItem.Get(barrier)
	if it.Kind != req.Key {
		w.AppendLog("Wrong item")
		return types.RunMode{Kind: types.ModeUseInventory}
	}

	w.AppendLog("Used item: %s", it.Kind)
	w.RequiresItem.Remove(barrier)
	if !w.Permanent.Has(key) {
		w.Stored.Remove(key)
	}
	tile := types.TileFloor
	if w.Portals.Has(barrier) {
		tile = types.TilePortal
	}
	w.Map.Set(w.Targeted.X, w.Targeted.Y, tile)
	log.WithFields(logrus.Fields{
		"barrier": w.EntityName(barrier),
		"key":     it.Kind.ID(),
	}).Debug("barrier unlocked")
	w.ResetTarget()
	return game
}

// CancelUse leaves the inventory flow without touching the barrier.
func CancelUse(w *state.World) types.RunMode {
	w.ResetTarget()
	return types.RunMode{Kind: types.ModeGame}
}
