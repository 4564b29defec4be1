package state

import (
	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/types"
)

// OpenPortalAt finds an unlocked portal of the current place at p.
func (w *World) OpenPortalAt(p types.Point) (ecs.Entity, bool) {
	return w.firstAt(p, w.ECS.Query().With(w.Portals).With(w.Positions).Without(w.RequiresItem))
}

// NpcAt finds the NPC of the current place standing at p.
func (w *World) NpcAt(p types.Point) (ecs.Entity, bool) {
	return w.firstAt(p, w.ECS.Query().With(w.Npcs).With(w.Positions))
}

// BarrierAt finds the locked barrier of the current place at p.
func (w *World) BarrierAt(p types.Point) (ecs.Entity, bool) {
	return w.firstAt(p, w.ECS.Query().With(w.RequiresItem).With(w.Positions).Without(w.Npcs))
}

func (w *World) firstAt(p types.Point, q *ecs.QueryBuilder) (ecs.Entity, bool) {
	for _, e := range q.Execute() {
		pos, _ := w.Positions.Get(e)
		if pos.X == p.X && pos.Y == p.Y && w.InCurrentPlace(e) {
			return e, true
		}
	}
	return 0, false
}
