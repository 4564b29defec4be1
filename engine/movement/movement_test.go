package movement

import (
	"testing"

	"github.com/nathoo/timeward/engine/worldtest"
	"github.com/nathoo/timeward/types"
)

func TestTryMove_Floor(t *testing.T) {
	w := worldtest.World(t)

	mode, err := TryMove(w, worldtest.Logger(), 1, 0)
	if err != nil {
		t.Fatalf("TryMove: %v", err)
	}
	if mode.Kind != types.ModeGame {
		t.Errorf("expected game mode, got %s", mode.Kind)
	}
	want := types.Point{X: worldtest.Start.X + 1, Y: worldtest.Start.Y}
	if w.PlayerPos != want {
		t.Errorf("expected player at %v, got %v", want, w.PlayerPos)
	}
}

func TestTryMove_WallBlocks(t *testing.T) {
	w := worldtest.World(t)
	worldtest.Place(t, w, types.Point{X: 5, Y: 7})

	mode, _ := TryMove(w, worldtest.Logger(), -1, 0)
	if mode.Kind != types.ModeGame {
		t.Errorf("expected game mode, got %s", mode.Kind)
	}
	if w.PlayerPos != (types.Point{X: 5, Y: 7}) {
		t.Errorf("expected position unchanged, got %v", w.PlayerPos)
	}
}

// Scenario A: stepping onto a locked barrier opens the inventory flow.
func TestTryMove_RequiresKey_OpensInventory(t *testing.T) {
	w := worldtest.World(t)
	below := types.Point{X: worldtest.LockedGate.X, Y: worldtest.LockedGate.Y + 1}
	worldtest.Place(t, w, below)
	logBefore := len(w.Log)

	mode, err := TryMove(w, worldtest.Logger(), 0, -1)
	if err != nil {
		t.Fatalf("TryMove: %v", err)
	}
	if mode.Kind != types.ModeUseInventory {
		t.Errorf("expected use_inventory, got %s", mode.Kind)
	}
	if w.PlayerPos != below {
		t.Errorf("expected position unchanged, got %v", w.PlayerPos)
	}
	if w.Targeted != worldtest.LockedGate {
		t.Errorf("expected targeted %v, got %v", worldtest.LockedGate, w.Targeted)
	}
	if len(w.Log) != logBefore {
		t.Errorf("expected log unchanged, got %v", w.Log[logBefore:])
	}
}

func TestTryMove_Portal_ChangesPlace(t *testing.T) {
	w := worldtest.World(t)
	worldtest.Place(t, w, types.Point{X: worldtest.HomeDoor.X - 1, Y: worldtest.HomeDoor.Y})

	mode, err := TryMove(w, worldtest.Logger(), 1, 0)
	if err != nil {
		t.Fatalf("TryMove: %v", err)
	}
	if mode.Kind != types.ModeGame {
		t.Errorf("expected game mode, got %s", mode.Kind)
	}
	if w.Place != types.PlaceSchoolSouth {
		t.Errorf("expected place school_south, got %s", w.Place)
	}
	if w.PlayerPos != worldtest.HallWarp {
		t.Errorf("expected player at warp %v, got %v", worldtest.HallWarp, w.PlayerPos)
	}
	b, _ := w.BelongsTo.Get(w.Player)
	if b.Domain != types.PlaceSchoolSouth {
		t.Errorf("expected player to belong to school_south, got %s", b.Domain)
	}
}

func TestTryMove_PortalTileWithoutEntity_NoChange(t *testing.T) {
	w := worldtest.World(t)
	p := types.Point{X: 6, Y: 6}
	w.Map.Set(p.X, p.Y, types.TilePortal)
	worldtest.Place(t, w, types.Point{X: 6, Y: 7})

	TryMove(w, worldtest.Logger(), 0, -1)

	if w.Place != types.PlaceHome {
		t.Errorf("expected place unchanged, got %s", w.Place)
	}
	if w.PlayerPos != (types.Point{X: 6, Y: 7}) {
		t.Errorf("expected position unchanged, got %v", w.PlayerPos)
	}
}

func TestTryMove_NPC_StartsInteraction(t *testing.T) {
	w := worldtest.World(t)
	worldtest.Place(t, w, types.Point{X: worldtest.GuidePos.X - 1, Y: worldtest.GuidePos.Y})

	mode, _ := TryMove(w, worldtest.Logger(), 1, 0)
	if mode.Kind != types.ModeInteractNpc || mode.Line != 0 {
		t.Errorf("expected interact_npc at line 0, got %+v", mode)
	}
	if w.Targeted != worldtest.GuidePos {
		t.Errorf("expected targeted %v, got %v", worldtest.GuidePos, w.Targeted)
	}
}

func TestTryMove_NPCTileWithoutNpc_NoInteraction(t *testing.T) {
	w := worldtest.World(t)
	p := types.Point{X: 6, Y: 6}
	w.Map.Set(p.X, p.Y, types.TileNPC)
	worldtest.Place(t, w, types.Point{X: 6, Y: 7})

	mode, _ := TryMove(w, worldtest.Logger(), 0, -1)
	if mode.Kind != types.ModeGame {
		t.Errorf("expected game mode, got %s", mode.Kind)
	}
	if w.Targeted != types.NoTarget {
		t.Errorf("expected no target, got %v", w.Targeted)
	}
}

func TestTryMove_ClampsAtMapEdge(t *testing.T) {
	w := worldtest.World(t)
	// Turn the whole map into floor so only the clamp can stop the player.
	for i := range w.Map.Tiles {
		w.Map.Tiles[i] = types.TileFloor
	}

	edges := []struct {
		name   string
		from   types.Point
		dx, dy int
	}{
		{"west", types.Point{X: 0, Y: 5}, -1, 0},
		{"north", types.Point{X: 5, Y: 0}, 0, -1},
		{"east", types.Point{X: w.Map.Width - 1, Y: 5}, 1, 0},
		{"south", types.Point{X: 5, Y: w.Map.Height - 1}, 0, 1},
	}
	for _, tt := range edges {
		t.Run(tt.name, func(t *testing.T) {
			worldtest.Place(t, w, tt.from)
			TryMove(w, worldtest.Logger(), tt.dx, tt.dy)
			if w.PlayerPos != tt.from {
				t.Errorf("expected %v, got %v", tt.from, w.PlayerPos)
			}
		})
	}
}
