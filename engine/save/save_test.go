package save

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/engine/worldtest"
	"github.com/nathoo/timeward/types"
)

// snapshotByMarker collects every component of every marked entity, keyed by
// marker, so two worlds can be compared independent of local ids.
func snapshotByMarker(t *testing.T, w *state.World) map[string]string {
	t.Helper()
	data, err := Save(w)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		t.Fatal(err)
	}
	sd.Helpers = nil // fresh marker on every save
	out := map[string]string{}
	v := reflect.ValueOf(sd)
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Slice {
			continue
		}
		for j := 0; j < f.Len(); j++ {
			rec := f.Index(j)
			marker := rec.FieldByName("Marker").String()
			b, _ := json.Marshal(rec.FieldByName("Value").Interface())
			out[marker] += v.Type().Field(i).Name + "=" + string(b) + ";"
		}
	}
	return out
}

func TestSave_RoundTrip(t *testing.T) {
	w := worldtest.World(t)
	worldtest.Give(t, w, types.ItemBook)
	worldtest.Place(t, w, types.Point{X: 6, Y: 6})
	w.AppendLog("Picked up: Book")
	w.Objective.Index = 2
	before := snapshotByMarker(t, w)
	entityCount := w.ECS.Len()

	data, err := Save(w)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if w.ECS.Len() != entityCount {
		t.Errorf("expected scratch entity destroyed, %d -> %d entities", entityCount, w.ECS.Len())
	}

	loaded := state.New(worldtest.Defs())
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Apply(loaded, sd); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	after := snapshotByMarker(t, loaded)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("components differ after round trip\nbefore: %v\nafter:  %v", before, after)
	}
	if loaded.Place != w.Place {
		t.Errorf("expected place %s, got %s", w.Place, loaded.Place)
	}
	if loaded.PlayerPos != w.PlayerPos {
		t.Errorf("expected player at %v, got %v", w.PlayerPos, loaded.PlayerPos)
	}
	if !reflect.DeepEqual(loaded.Map, w.Map) {
		t.Error("expected identical map")
	}
	if loaded.Objective.Index != 2 {
		t.Errorf("expected objective 2, got %d", loaded.Objective.Index)
	}
	if !reflect.DeepEqual(loaded.Log, w.Log) {
		t.Errorf("expected log %v, got %v", w.Log, loaded.Log)
	}
	if !loaded.Players.Has(loaded.Player) {
		t.Error("expected player entity resource set")
	}
	if loaded.Helpers.Len() != 0 {
		t.Error("expected scratch map holder discarded")
	}
	if loaded.Targeted != types.NoTarget || loaded.Mode.Kind != types.ModeGame {
		t.Errorf("expected fresh mode and target, got %+v %v", loaded.Mode, loaded.Targeted)
	}
}

func TestLoad_Malformed(t *testing.T) {
	w := worldtest.World(t)
	good, err := Save(w)
	if err != nil {
		t.Fatal(err)
	}

	mutate := func(fn func(sd *SaveData)) []byte {
		var sd SaveData
		if err := json.Unmarshal(good, &sd); err != nil {
			t.Fatal(err)
		}
		fn(&sd)
		b, _ := json.Marshal(sd)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("{nope")},
		{"no player", mutate(func(sd *SaveData) { sd.Players = nil })},
		{"two players", mutate(func(sd *SaveData) { sd.Players = append(sd.Players, sd.Players[0]) })},
		{"no map holder", mutate(func(sd *SaveData) { sd.Helpers = nil })},
		{"empty marker", mutate(func(sd *SaveData) { sd.Names[0].Marker = "" })},
		{"truncated map", mutate(func(sd *SaveData) { sd.Helpers[0].Value.Map.Tiles = sd.Helpers[0].Value.Map.Tiles[:10] })},
		{"unknown place", []byte(`{"players":[{"marker":"p","value":{}}],"belongs_to":[{"marker":"p","value":{"domain":"atlantis"}}]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.data)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestApply_MalformedLeavesWorldUntouched(t *testing.T) {
	w := worldtest.World(t)
	n := w.ECS.Len()
	if err := Apply(w, &SaveData{}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if w.ECS.Len() != n {
		t.Errorf("expected world untouched, %d -> %d entities", n, w.ECS.Len())
	}
}

func TestApply_SnapshotForeignToDefs(t *testing.T) {
	good, err := Save(worldtest.World(t))
	if err != nil {
		t.Fatal(err)
	}

	interactionOf := func(sd *SaveData, marker string) int {
		for i, r := range sd.Interactions {
			if r.Marker == marker {
				return i
			}
		}
		t.Fatalf("no interaction for %s", marker)
		return -1
	}

	tests := []struct {
		name   string
		mutate func(sd *SaveData)
	}{
		{"player in a place without a room", func(sd *SaveData) {
			for i, r := range sd.BelongsTo {
				if r.Marker == sd.Players[0].Marker {
					sd.BelongsTo[i].Value.Domain = types.PlaceLibrary
				}
			}
		}},
		{"position off the grid", func(sd *SaveData) { sd.Positions[0].Value.X = 99 }},
		{"dormant position off the grid", func(sd *SaveData) { sd.Dormant[0].Value.Y = -1 }},
		{"npc without interaction", func(sd *SaveData) {
			i := interactionOf(sd, sd.Npcs[0].Marker)
			sd.Interactions = append(sd.Interactions[:i], sd.Interactions[i+1:]...)
		}},
		{"npc with empty dialogues", func(sd *SaveData) {
			sd.Interactions[interactionOf(sd, sd.Npcs[0].Marker)].Value.Dialogues = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd, err := Load(good)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(sd)

			w := worldtest.World(t)
			n, place := w.ECS.Len(), w.Place
			if err := Apply(w, sd); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if w.ECS.Len() != n || w.Place != place {
				t.Errorf("expected world untouched, %d -> %d entities, place %v", n, w.ECS.Len(), w.Place)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "nested", "save_game.json"))

	if ok, err := fs.Exists(ctx); err != nil || ok {
		t.Fatalf("expected no save, got %v %v", ok, err)
	}
	if _, err := fs.Read(ctx); !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
	if err := fs.Write(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ok, _ := fs.Exists(ctx); !ok {
		t.Error("expected save to exist")
	}
	got, err := fs.Read(ctx)
	if err != nil || string(got) != `{"v":1}` {
		t.Errorf("Read = %q, %v", got, err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	a, err := OpenSQLite(path, "alpha")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer a.Close()

	if ok, err := a.Exists(ctx); err != nil || ok {
		t.Fatalf("expected empty slot, got %v %v", ok, err)
	}
	if _, err := a.Read(ctx); !errors.Is(err, ErrNoSave) {
		t.Fatalf("expected ErrNoSave, got %v", err)
	}
	if err := a.Write(ctx, []byte("one")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := a.Write(ctx, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := a.Read(ctx)
	if err != nil || string(got) != "two" {
		t.Errorf("Read = %q, %v", got, err)
	}

	b, err := OpenSQLite(path, "beta")
	if err != nil {
		t.Fatalf("OpenSQLite beta: %v", err)
	}
	defer b.Close()
	if ok, _ := b.Exists(ctx); ok {
		t.Error("slots should be independent")
	}
	if err := b.Write(ctx, []byte("three")); err != nil {
		t.Fatal(err)
	}
	slots, err := a.Slots(ctx)
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("expected 2 slots, got %v", slots)
	}
}

func TestOpenSQLite_RequiresPathAndSlot(t *testing.T) {
	if _, err := OpenSQLite("", "x"); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "s.db"), " "); err == nil {
		t.Error("expected error for empty slot")
	}
}
