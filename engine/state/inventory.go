package state

import (
	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/types"
)

// StoredItems returns the items held in the inventory, in entity order.
func (w *World) StoredItems() []ecs.Entity {
	return w.ECS.Query().With(w.Items).With(w.Stored).Execute()
}

// HeldItem returns a stored item entity of the given kind.
func (w *World) HeldItem(kind types.ItemKind) (ecs.Entity, bool) {
	for _, e := range w.StoredItems() {
		if it, _ := w.Items.Get(e); it.Kind == kind {
			return e, true
		}
	}
	return 0, false
}

// HasItem reports whether an item of the given kind is in the inventory.
func (w *World) HasItem(kind types.ItemKind) bool {
	_, ok := w.HeldItem(kind)
	return ok
}

// LatentItem returns an item entity of the given kind that is neither held
// nor lying on the map: the one an NPC hands out or crafting produces.
func (w *World) LatentItem(kind types.ItemKind) (ecs.Entity, bool) {
	for _, e := range w.ECS.Query().With(w.Items).Without(w.Stored).Without(w.Positions).Execute() {
		if it, _ := w.Items.Get(e); it.Kind == kind {
			return e, true
		}
	}
	return 0, false
}
