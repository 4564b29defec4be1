// Package worldtest builds a small two-place world for engine tests.
//
// Home (interior x 5..14, y 5..12) holds the start position, an open door to
// the Hall, a locked gate, a dormant secret gate in the west wall, a few
// items and the Guide NPC. The Hall holds the door back and a one-line Cat.
package worldtest

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/spawn"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Well-known coordinates of the fixture.
var (
	Start      = types.Point{X: 7, Y: 7}
	HomeDoor   = types.Point{X: 14, Y: 8}
	HallDoor   = types.Point{X: 20, Y: 12}
	HallWarp   = types.Point{X: 21, Y: 11}
	HomeWarp   = types.Point{X: 13, Y: 8}
	LockedGate = types.Point{X: 10, Y: 5}
	SecretGate = types.Point{X: 4, Y: 10}
	GuidePos   = types.Point{X: 12, Y: 11}
	CatPos     = types.Point{X: 25, Y: 12}
	BookPos    = types.Point{X: 8, Y: 7}
	KeyPos     = types.Point{X: 7, Y: 8}
	PoemPos    = types.Point{X: 9, Y: 9}
	CoverPos   = types.Point{X: 10, Y: 9}
	GluePos    = types.Point{X: 11, Y: 9}
)

func key(k types.ItemKind) *types.ItemKind { return &k }
func at(p types.Point) *types.Point       { return &p }

// Defs returns the fixture definitions. Each call returns a fresh copy.
func Defs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:       "Test World",
			Version:     "0.1.0",
			Start:       types.PlaceHome,
			StartPos:    Start,
			FinishPlace: types.PlaceHome,
			FinalItem:   types.ItemOttomanKeyMain,
			Welcome:     "Welcome!",
			Objectives:  []string{"Find a book", "Talk again", "Take the key", "Leave"},
		},
		Places: map[types.Place]types.PlaceDef{
			types.PlaceHome: {ID: types.PlaceHome, Name: "Home", Room: types.NewRect(5, 5, 10, 8)},
			types.PlaceSchoolSouth: {
				ID: types.PlaceSchoolSouth, Name: "Hall", Room: types.NewRect(20, 10, 10, 10),
			},
		},
		Portals: []types.PortalDef{
			{Name: "Home Door", Place: types.PlaceHome, Pos: HomeDoor, Target: types.PlaceSchoolSouth, Warp: HallWarp},
			{Name: "Hall Door", Place: types.PlaceSchoolSouth, Pos: HallDoor, Target: types.PlaceHome, Warp: HomeWarp},
			{
				Name: "Locked Gate", Place: types.PlaceHome, Pos: LockedGate,
				Target: types.PlaceSchoolSouth, Warp: types.Point{X: 25, Y: 15},
				Key: key(types.ItemSecretGateKey),
			},
			{
				Name: "Secret Gate", Place: types.PlaceHome, Pos: SecretGate,
				Target: types.PlaceSchoolSouth, Warp: types.Point{X: 22, Y: 18},
				Key: key(types.ItemOttomanKey1),
				Reveal: &types.RevealDef{
					X:      types.Span{From: 4, To: 6},
					Y:      types.Span{From: 9, To: 11},
					Item:   types.ItemBook,
					Before: types.TileWall,
				},
			},
		},
		Items: []types.ItemDef{
			{Kind: types.ItemBook, Place: types.PlaceHome, Pos: at(BookPos)},
			{Kind: types.ItemSecretGateKey, Place: types.PlaceHome, Pos: at(KeyPos)},
			{Kind: types.ItemOttomanRewardPoem, Place: types.PlaceHome, Pos: at(PoemPos)},
			{Kind: types.ItemOttomanRewardBookCover, Place: types.PlaceHome, Pos: at(CoverPos)},
			{Kind: types.ItemOttomanRewardGlue, Place: types.PlaceHome, Pos: at(GluePos)},
			{Kind: types.ItemOttomanCombinedRewardPoemBook, Place: types.PlaceHome},
			{Kind: types.ItemOttomanKey1, Place: types.PlaceHome, Permanent: true},
			{Kind: types.ItemOttomanKeyMain, Place: types.PlaceHome},
		},
		NPCs: []types.NpcDef{
			{
				Name:  "Guide",
				Place: types.PlaceHome,
				Pos:   GuidePos,
				Dialogues: [][]string{
					{"Hello.", "Bring me a book."},
					{"Thanks for the book."},
					{"Take this key."},
					{"Farewell."},
				},
				Wants:            []types.ItemKind{types.ItemBook},
				Gives:            []types.ItemKind{types.ItemOttomanKey1},
				GetIndices:       []int{0},
				GiveIndices:      []int{2},
				ObjectiveIndices: []int{0, 2},
			},
			{
				Name:      "Cat",
				Place:     types.PlaceSchoolSouth,
				Pos:       CatPos,
				Dialogues: [][]string{{"Meow."}},
			},
		},
	}
}

// World returns a populated fixture world.
func World(t testing.TB) *state.World {
	t.Helper()
	w := state.New(Defs())
	if err := spawn.Populate(w); err != nil {
		t.Fatalf("populate: %v", err)
	}
	return w
}

// Logger returns a logger that discards everything.
func Logger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Named returns the entity carrying the given display name.
func Named(t testing.TB, w *state.World, name string) ecs.Entity {
	t.Helper()
	for _, e := range w.Names.Entities() {
		if n, _ := w.Names.Get(e); n.Name == name {
			return e
		}
	}
	t.Fatalf("no entity named %q", name)
	return 0
}

// ItemOf returns the first item entity of the given kind.
func ItemOf(t testing.TB, w *state.World, kind types.ItemKind) ecs.Entity {
	t.Helper()
	for _, e := range w.Items.Entities() {
		if it, _ := w.Items.Get(e); it.Kind == kind {
			return e
		}
	}
	t.Fatalf("no item of kind %s", kind.ID())
	return 0
}

// Give puts the first item of the given kind into the inventory.
func Give(t testing.TB, w *state.World, kind types.ItemKind) ecs.Entity {
	t.Helper()
	e := ItemOf(t, w, kind)
	w.Positions.Remove(e)
	if err := w.Stored.Insert(e, types.Stored{}); err != nil {
		t.Fatalf("give %s: %v", kind.ID(), err)
	}
	return e
}

// Place moves the player to p in the current place.
func Place(t testing.TB, w *state.World, p types.Point) {
	t.Helper()
	w.PlayerPos = p
	if err := w.SyncPlayer(); err != nil {
		t.Fatalf("sync player: %v", err)
	}
}
