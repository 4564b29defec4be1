// Package save implements snapshot serialization of the whole entity world.
//
// A snapshot lists, per component type, the (marker, value) pairs of every
// entity carrying a Marker. The map and the UI resources travel on a scratch
// entity holding a SerializationHelper, which exists only while saving and
// loading.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

var (
	// ErrNoSave is returned when no snapshot has been stored.
	ErrNoSave = errors.New("no saved game")
	// ErrMalformed is returned when a snapshot decodes but violates the
	// world invariants.
	ErrMalformed = errors.New("malformed save")
)

// Record is one component value keyed by the owning entity's marker.
type Record[T any] struct {
	Marker string `json:"marker"`
	Value  T      `json:"value"`
}

// SaveData is the JSON-serializable snapshot format.
type SaveData struct {
	Version string `json:"version"`
	Game    string `json:"game"`

	Positions     []Record[types.Position]            `json:"positions"`
	Dormant       []Record[types.DormantPosition]     `json:"dormant_positions"`
	BelongsTo     []Record[types.BelongsTo]           `json:"belongs_to"`
	Renderables   []Record[types.Renderable]          `json:"renderables"`
	Names         []Record[types.Name]                `json:"names"`
	Players       []Record[types.Player]              `json:"players"`
	Items         []Record[types.Item]                `json:"items"`
	Stored        []Record[types.Stored]              `json:"stored"`
	Permanent     []Record[types.PermanentItem]       `json:"permanent_items"`
	RequiresItem  []Record[types.RequiresItem]        `json:"requires_item"`
	RequiresItems []Record[types.RequiresItems]       `json:"requires_items"`
	ContainsItem  []Record[types.ContainsItem]        `json:"contains_item"`
	ContainsItems []Record[types.ContainsItems]       `json:"contains_items"`
	Portals       []Record[types.Portal]              `json:"portals"`
	Npcs          []Record[types.Npc]                 `json:"npcs"`
	Interactions  []Record[types.Interaction]         `json:"interactions"`
	Revealers     []Record[types.RevealerInformation] `json:"revealers"`
	Helpers       []Record[state.SerializationHelper] `json:"helpers"`
}

// Save serializes the world to JSON bytes. The scratch helper entity is
// destroyed before returning.
func Save(w *state.World) ([]byte, error) {
	if w.Map == nil {
		return nil, fmt.Errorf("save: no active map")
	}
	scratch := w.ECS.Create()
	defer w.ECS.Destroy(scratch)

	if err := w.Markers.Insert(scratch, types.Marker{ID: uuid.NewString()}); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	helper := state.SerializationHelper{
		Map:       *w.Map.Clone(),
		Objective: w.Objective,
		Log:       append([]string{}, w.Log...),
	}
	if err := w.Helpers.Insert(scratch, helper); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	data := SaveData{
		Version:       w.Defs.Game.Version,
		Game:          w.Defs.Game.Title,
		Positions:     collect(w, w.Positions),
		Dormant:       collect(w, w.Dormant),
		BelongsTo:     collect(w, w.BelongsTo),
		Renderables:   collect(w, w.Renderables),
		Names:         collect(w, w.Names),
		Players:       collect(w, w.Players),
		Items:         collect(w, w.Items),
		Stored:        collect(w, w.Stored),
		Permanent:     collect(w, w.Permanent),
		RequiresItem:  collect(w, w.RequiresItem),
		RequiresItems: collect(w, w.RequiresItems),
		ContainsItem:  collect(w, w.ContainsItem),
		ContainsItems: collect(w, w.ContainsItems),
		Portals:       collect(w, w.Portals),
		Npcs:          collect(w, w.Npcs),
		Interactions:  collect(w, w.Interactions),
		Revealers:     collect(w, w.Revealers),
		Helpers:       collect(w, w.Helpers),
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes and checks the snapshot invariants.
func Load(b []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := sd.validate(); err != nil {
		return nil, err
	}
	return &sd, nil
}

// Apply replaces the contents of w with the snapshot. Entities get fresh
// local ids, remapped through their markers.
func Apply(w *state.World, sd *SaveData) error {
	if err := sd.validate(); err != nil {
		return err
	}
	if err := sd.checkDefs(w.Defs); err != nil {
		return err
	}

	w.ECS.Clear()
	ids := map[string]ecs.Entity{}
	entity := func(marker string) (ecs.Entity, error) {
		if e, ok := ids[marker]; ok {
			return e, nil
		}
		e := w.ECS.Create()
		ids[marker] = e
		return e, w.Markers.Insert(e, types.Marker{ID: marker})
	}

	steps := []func() error{
		func() error { return restore(w.Positions, sd.Positions, entity) },
		func() error { return restore(w.Dormant, sd.Dormant, entity) },
		func() error { return restore(w.BelongsTo, sd.BelongsTo, entity) },
		func() error { return restore(w.Renderables, sd.Renderables, entity) },
		func() error { return restore(w.Names, sd.Names, entity) },
		func() error { return restore(w.Players, sd.Players, entity) },
		func() error { return restore(w.Items, sd.Items, entity) },
		func() error { return restore(w.Stored, sd.Stored, entity) },
		func() error { return restore(w.Permanent, sd.Permanent, entity) },
		func() error { return restore(w.RequiresItem, sd.RequiresItem, entity) },
		func() error { return restore(w.RequiresItems, sd.RequiresItems, entity) },
		func() error { return restore(w.ContainsItem, sd.ContainsItem, entity) },
		func() error { return restore(w.ContainsItems, sd.ContainsItems, entity) },
		func() error { return restore(w.Portals, sd.Portals, entity) },
		func() error { return restore(w.Npcs, sd.Npcs, entity) },
		func() error { return restore(w.Interactions, sd.Interactions, entity) },
		func() error { return restore(w.Revealers, sd.Revealers, entity) },
		func() error { return restore(w.Helpers, sd.Helpers, entity) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("apply save: %w", err)
		}
	}

	helperEntity := ids[sd.Helpers[0].Marker]
	helper, _ := w.Helpers.Get(helperEntity)
	m := helper.Map
	w.Map = &m
	w.Objective = helper.Objective
	w.Log = helper.Log
	if w.Log == nil {
		w.Log = []string{}
	}

	w.Player = ids[sd.Players[0].Marker]
	pos, _ := w.Positions.Get(w.Player)
	w.PlayerPos = types.Point{X: pos.X, Y: pos.Y}
	b, _ := w.BelongsTo.Get(w.Player)
	w.Place = b.Domain
	w.Mode = types.RunMode{Kind: types.ModeGame}
	w.ResetTarget()

	w.ECS.Destroy(helperEntity)
	return nil
}

// validate checks the invariants Apply relies on, before any state is touched.
func (sd *SaveData) validate() error {
	if len(sd.Players) != 1 {
		return fmt.Errorf("%w: expected exactly one player, got %d", ErrMalformed, len(sd.Players))
	}
	if len(sd.Helpers) != 1 {
		return fmt.Errorf("%w: expected exactly one map holder, got %d", ErrMalformed, len(sd.Helpers))
	}
	player := sd.Players[0].Marker
	if !hasMarker(sd.Positions, player) {
		return fmt.Errorf("%w: player has no position", ErrMalformed)
	}
	if !hasMarker(sd.BelongsTo, player) {
		return fmt.Errorf("%w: player belongs to no place", ErrMalformed)
	}
	for _, ok := range []bool{
		marked(sd.Positions), marked(sd.Dormant), marked(sd.BelongsTo), marked(sd.Renderables),
		marked(sd.Names), marked(sd.Players), marked(sd.Items), marked(sd.Stored),
		marked(sd.Permanent), marked(sd.RequiresItem), marked(sd.RequiresItems), marked(sd.ContainsItem),
		marked(sd.ContainsItems), marked(sd.Portals), marked(sd.Npcs), marked(sd.Interactions),
		marked(sd.Revealers), marked(sd.Helpers),
	} {
		if !ok {
			return fmt.Errorf("%w: record without marker", ErrMalformed)
		}
	}
	m := sd.Helpers[0].Value.Map
	if m.Width <= 0 || m.Height <= 0 || len(m.Tiles) != m.Width*m.Height {
		return fmt.Errorf("%w: map is %dx%d with %d tiles", ErrMalformed, m.Width, m.Height, len(m.Tiles))
	}
	return nil
}

// checkDefs checks the snapshot against the loaded world definitions, so a
// save from another world cannot leave the session unable to tick.
func (sd *SaveData) checkDefs(defs *state.Defs) error {
	for _, r := range sd.BelongsTo {
		if _, ok := defs.Places[r.Value.Domain]; !ok {
			return fmt.Errorf("%w: %s belongs to undefined place %s", ErrMalformed, r.Marker, r.Value.Domain)
		}
	}
	m := sd.Helpers[0].Value.Map
	for _, r := range sd.Positions {
		if !m.InBounds(r.Value.X, r.Value.Y) {
			return fmt.Errorf("%w: %s is off the map at (%d,%d)", ErrMalformed, r.Marker, r.Value.X, r.Value.Y)
		}
	}
	for _, r := range sd.Dormant {
		if !m.InBounds(r.Value.X, r.Value.Y) {
			return fmt.Errorf("%w: %s is off the map at dormant (%d,%d)", ErrMalformed, r.Marker, r.Value.X, r.Value.Y)
		}
	}
	dialogues := map[string]bool{}
	for _, r := range sd.Interactions {
		dialogues[r.Marker] = len(r.Value.Dialogues) > 0
	}
	for _, r := range sd.Npcs {
		if !dialogues[r.Marker] {
			return fmt.Errorf("%w: npc %s has no dialogue", ErrMalformed, r.Marker)
		}
	}
	return nil
}

func collect[T any](w *state.World, s *ecs.Store[T]) []Record[T] {
	out := make([]Record[T], 0, s.Len())
	for _, e := range s.Entities() {
		mk, ok := w.Markers.Get(e)
		if !ok {
			continue
		}
		v, _ := s.Get(e)
		out = append(out, Record[T]{Marker: mk.ID, Value: v})
	}
	return out
}

func restore[T any](s *ecs.Store[T], recs []Record[T], entity func(string) (ecs.Entity, error)) error {
	for _, r := range recs {
		e, err := entity(r.Marker)
		if err != nil {
			return err
		}
		if err := s.Insert(e, r.Value); err != nil {
			return err
		}
	}
	return nil
}

func marked[T any](recs []Record[T]) bool {
	for _, r := range recs {
		if r.Marker == "" {
			return false
		}
	}
	return true
}

func hasMarker[T any](recs []Record[T], marker string) bool {
	for _, r := range recs {
		if r.Marker == marker {
			return true
		}
	}
	return false
}
