// Package state owns the session context: the entity world with its typed
// component stores plus the resources every system reads (current place,
// map, tracked player position, log, objective, run mode).
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/tilemap"
	"github.com/nathoo/timeward/types"
)

// Defs holds the immutable world definitions loaded from Lua.
type Defs struct {
	Game    types.GameDef
	Places  map[types.Place]types.PlaceDef
	Portals []types.PortalDef
	Items   []types.ItemDef
	NPCs    []types.NpcDef
}

// SerializationHelper is attached to the scratch entity that carries the map
// and the UI resources through a snapshot.
type SerializationHelper struct {
	Map       tilemap.Map     `json:"map"`
	Objective types.Objective `json:"objective"`
	Log       []string        `json:"log"`
}

// World is the single owned session context passed into every system.
type World struct {
	ECS *ecs.World

	Positions     *ecs.Store[types.Position]
	Dormant       *ecs.Store[types.DormantPosition]
	BelongsTo     *ecs.Store[types.BelongsTo]
	Renderables   *ecs.Store[types.Renderable]
	Names         *ecs.Store[types.Name]
	Players       *ecs.Store[types.Player]
	Items         *ecs.Store[types.Item]
	Stored        *ecs.Store[types.Stored]
	Permanent     *ecs.Store[types.PermanentItem]
	RequiresItem  *ecs.Store[types.RequiresItem]
	RequiresItems *ecs.Store[types.RequiresItems]
	ContainsItem  *ecs.Store[types.ContainsItem]
	ContainsItems *ecs.Store[types.ContainsItems]
	Portals       *ecs.Store[types.Portal]
	Npcs          *ecs.Store[types.Npc]
	Interactions  *ecs.Store[types.Interaction]
	Revealers     *ecs.Store[types.RevealerInformation]
	Markers       *ecs.Store[types.Marker]
	Helpers       *ecs.Store[SerializationHelper]

	Place     types.Place
	Map       *tilemap.Map
	PlayerPos types.Point
	Targeted  types.Point
	Log       []string
	Objective types.Objective
	Mode      types.RunMode
	Player    ecs.Entity

	Defs *Defs
}

// New creates an empty session positioned at the start of defs. Entities
// are added by the spawn package.
func New(defs *Defs) *World {
	e := ecs.NewWorld()
	w := &World{
		ECS:           e,
		Positions:     ecs.NewStore[types.Position](e),
		Dormant:       ecs.NewStore[types.DormantPosition](e),
		BelongsTo:     ecs.NewStore[types.BelongsTo](e),
		Renderables:   ecs.NewStore[types.Renderable](e),
		Names:         ecs.NewStore[types.Name](e),
		Players:       ecs.NewStore[types.Player](e),
		Items:         ecs.NewStore[types.Item](e),
		Stored:        ecs.NewStore[types.Stored](e),
		Permanent:     ecs.NewStore[types.PermanentItem](e),
		RequiresItem:  ecs.NewStore[types.RequiresItem](e),
		RequiresItems: ecs.NewStore[types.RequiresItems](e),
		ContainsItem:  ecs.NewStore[types.ContainsItem](e),
		ContainsItems: ecs.NewStore[types.ContainsItems](e),
		Portals:       ecs.NewStore[types.Portal](e),
		Npcs:          ecs.NewStore[types.Npc](e),
		Interactions:  ecs.NewStore[types.Interaction](e),
		Revealers:     ecs.NewStore[types.RevealerInformation](e),
		Markers:       ecs.NewStore[types.Marker](e),
		Helpers:       ecs.NewStore[SerializationHelper](e),

		Place:     defs.Game.Start,
		PlayerPos: defs.Game.StartPos,
		Targeted:  types.NoTarget,
		Log:       []string{},
		Objective: types.Objective{
			Objectives: append([]string(nil), defs.Game.Objectives...),
		},
		Mode: types.RunMode{Kind: types.ModeGame},
		Defs: defs,
	}
	return w
}

// AppendLog adds a line to the player-facing log.
func (w *World) AppendLog(format string, args ...any) {
	w.Log = append(w.Log, fmt.Sprintf(format, args...))
}

// CurrentObjective returns the active objective text, or "" if none.
func (w *World) CurrentObjective() string {
	o := w.Objective
	if o.Index < 0 || o.Index >= len(o.Objectives) {
		return ""
	}
	return o.Objectives[o.Index]
}

// AdvanceObjective moves to the next objective, stopping at the last one.
func (w *World) AdvanceObjective() {
	if w.Objective.Index < len(w.Objective.Objectives)-1 {
		w.Objective.Index++
	}
}

// ResetTarget clears the targeted position.
func (w *World) ResetTarget() {
	w.Targeted = types.NoTarget
}

// InCurrentPlace reports whether e belongs to the current place.
func (w *World) InCurrentPlace(e ecs.Entity) bool {
	b, ok := w.BelongsTo.Get(e)
	return ok && b.Domain == w.Place
}

// SyncPlayer copies the tracked player position onto the player entity.
func (w *World) SyncPlayer() error {
	if !w.Players.Has(w.Player) {
		return fmt.Errorf("sync player: entity %d is not the player", w.Player)
	}
	return w.Positions.Insert(w.Player, types.Position{X: w.PlayerPos.X, Y: w.PlayerPos.Y})
}

// EntityName returns the display label of e, falling back to its item name.
func (w *World) EntityName(e ecs.Entity) string {
	if n, ok := w.Names.Get(e); ok {
		return n.Name
	}
	if it, ok := w.Items.Get(e); ok {
		return it.Kind.String()
	}
	return fmt.Sprintf("entity %d", e)
}

// RenderList returns the visible entities of the current place in painter's
// order: descending RenderOrder, ties by entity id.
func (w *World) RenderList() []ecs.Entity {
	ents := w.ECS.Query().With(w.Positions).With(w.Renderables).With(w.BelongsTo).Execute()
	out := ents[:0]
	for _, e := range ents {
		if w.InCurrentPlace(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, _ := w.Renderables.Get(out[i])
		rj, _ := w.Renderables.Get(out[j])
		return ri.RenderOrder > rj.RenderOrder
	})
	return out
}
