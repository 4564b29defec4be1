// Package spawn builds the entities of a world from its definitions. Every
// entity gets a Marker so it survives a save/load round trip.
package spawn

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// builder accumulates the first insert error so spawn helpers can chain
// inserts without checking each one.
type builder struct {
	w   *state.World
	e   ecs.Entity
	err error
}

func newBuilder(w *state.World) *builder {
	b := &builder{w: w, e: w.ECS.Create()}
	b.with(w.Markers.Insert(b.e, types.Marker{ID: uuid.NewString()}))
	return b
}

func (b *builder) with(err error) *builder {
	if b.err == nil && err != nil {
		b.err = err
	}
	return b
}

func (b *builder) build(what string) (ecs.Entity, error) {
	if b.err != nil {
		b.w.ECS.Destroy(b.e)
		return 0, fmt.Errorf("spawn %s: %w", what, b.err)
	}
	return b.e, nil
}

// Player creates the player entity and records it as the session player.
func Player(w *state.World, place types.Place, at types.Point) (ecs.Entity, error) {
	b := newBuilder(w)
	b.with(w.Players.Insert(b.e, types.Player{})).
		with(w.Names.Insert(b.e, types.Name{Name: "Player"})).
		with(w.Positions.Insert(b.e, types.Position{X: at.X, Y: at.Y})).
		with(w.BelongsTo.Insert(b.e, types.BelongsTo{Domain: place})).
		with(w.Renderables.Insert(b.e, types.Renderable{
			Glyph: PlayerGlyph, FG: PlayerColor, BG: Black, RenderOrder: PlayerOrder,
		}))
	e, err := b.build("player")
	if err != nil {
		return 0, err
	}
	w.Player = e
	w.Place = place
	w.PlayerPos = at
	return e, nil
}

// Portal creates an open portal, a locked door, or a dormant door depending
// on whether def carries a key and a reveal zone.
func Portal(w *state.World, def types.PortalDef) (ecs.Entity, error) {
	b := newBuilder(w)
	b.with(w.Names.Insert(b.e, types.Name{Name: def.Name})).
		with(w.BelongsTo.Insert(b.e, types.BelongsTo{Domain: def.Place})).
		with(w.Portals.Insert(b.e, types.Portal{Target: def.Target, Warp: def.Warp}))

	r := types.Renderable{Glyph: PortalGlyph, FG: PortalColor, BG: Black, RenderOrder: PortalOrder}
	if def.Key != nil {
		r.Glyph, r.FG = DoorGlyph, DoorColor
		b.with(w.RequiresItem.Insert(b.e, types.RequiresItem{Key: *def.Key}))
	}
	b.with(w.Renderables.Insert(b.e, r))

	if def.Reveal != nil {
		b.with(w.Dormant.Insert(b.e, types.DormantPosition{X: def.Pos.X, Y: def.Pos.Y})).
			with(w.Revealers.Insert(b.e, types.RevealerInformation{
				XEndPoints:   def.Reveal.X,
				YEndPoints:   def.Reveal.Y,
				RevealerItem: def.Reveal.Item,
				BeforeReveal: def.Reveal.Before,
			}))
	} else {
		b.with(w.Positions.Insert(b.e, types.Position{X: def.Pos.X, Y: def.Pos.Y}))
	}
	return b.build("portal " + def.Name)
}

// Item creates a quest item. Items without a position start latent.
func Item(w *state.World, def types.ItemDef) (ecs.Entity, error) {
	b := newBuilder(w)
	glyph, fg := ItemGlyph, KeyColor
	if isKey(def.Kind) {
		glyph = KeyGlyph
	}
	b.with(w.Items.Insert(b.e, types.Item{Kind: def.Kind})).
		with(w.Names.Insert(b.e, types.Name{Name: def.Kind.String()})).
		with(w.BelongsTo.Insert(b.e, types.BelongsTo{Domain: def.Place})).
		with(w.Renderables.Insert(b.e, types.Renderable{
			Glyph: glyph, FG: fg, BG: Black, RenderOrder: ItemOrder,
		}))
	if def.Pos != nil {
		b.with(w.Positions.Insert(b.e, types.Position{X: def.Pos.X, Y: def.Pos.Y}))
	}
	if def.Permanent {
		b.with(w.Permanent.Insert(b.e, types.PermanentItem{}))
	}
	return b.build("item " + def.Kind.ID())
}

// NPC creates a dialogue-capable character. A single-page script starts in
// the Done state.
func NPC(w *state.World, def types.NpcDef) (ecs.Entity, error) {
	b := newBuilder(w)
	glyph := def.Glyph
	if glyph == 0 {
		glyph = NpcGlyph
	}
	fg := NpcColor
	if def.Color != nil {
		fg = *def.Color
	}
	st := types.NpcHasDialogue
	if len(def.Dialogues) <= 1 {
		st = types.NpcDone
	}
	b.with(w.Npcs.Insert(b.e, types.Npc{State: st})).
		with(w.Names.Insert(b.e, types.Name{Name: def.Name})).
		with(w.Positions.Insert(b.e, types.Position{X: def.Pos.X, Y: def.Pos.Y})).
		with(w.BelongsTo.Insert(b.e, types.BelongsTo{Domain: def.Place})).
		with(w.Renderables.Insert(b.e, types.Renderable{
			Glyph: glyph, FG: fg, BG: Black, RenderOrder: NpcOrder,
		})).
		with(w.Interactions.Insert(b.e, types.Interaction{
			Dialogues:              copyPages(def.Dialogues),
			GetItemIndices:         append([]int{}, def.GetIndices...),
			GiveItemIndices:        append([]int{}, def.GiveIndices...),
			ChangeObjectiveIndices: append([]int{}, def.ObjectiveIndices...),
		}))
	if len(def.Wants) > 0 {
		b.with(w.RequiresItems.Insert(b.e, types.RequiresItems{Items: append([]types.ItemKind{}, def.Wants...)}))
	}
	if len(def.Gives) > 0 {
		b.with(w.ContainsItems.Insert(b.e, types.ContainsItems{Items: append([]types.ItemKind{}, def.Gives...)}))
	}
	return b.build("npc " + def.Name)
}

// Populate spawns every entity of w.Defs, logs the welcome line and builds
// the map of the start place.
func Populate(w *state.World) error {
	defs := w.Defs
	if _, err := Player(w, defs.Game.Start, defs.Game.StartPos); err != nil {
		return err
	}
	for _, p := range defs.Portals {
		if _, err := Portal(w, p); err != nil {
			return err
		}
	}
	for _, it := range defs.Items {
		if _, err := Item(w, it); err != nil {
			return err
		}
	}
	for _, n := range defs.NPCs {
		if _, err := NPC(w, n); err != nil {
			return err
		}
	}
	if defs.Game.Welcome != "" {
		w.AppendLog("%s", defs.Game.Welcome)
	}
	return w.RegenerateMap()
}

func isKey(k types.ItemKind) bool {
	switch k {
	case types.ItemSecretGateKey, types.ItemOttomanKey1, types.ItemOttomanKey2,
		types.ItemOttomanKey3, types.ItemOttomanKeyMain:
		return true
	}
	return false
}

func copyPages(pages [][]string) [][]string {
	out := make([][]string, len(pages))
	for i, p := range pages {
		out[i] = append([]string{}, p...)
	}
	return out
}
