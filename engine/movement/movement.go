// Package movement resolves a single player step against the current map.
package movement

import (
	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// TryMove applies one directional step and returns the resulting run mode.
// The target is clamped to the map, so stepping off an edge is a no-op.
func TryMove(w *state.World, log logrus.FieldLogger, dx, dy int) (types.RunMode, error) {
	game := types.RunMode{Kind: types.ModeGame}
	x, y := w.Map.Clamp(w.PlayerPos.X+dx, w.PlayerPos.Y+dy)
	target := types.Point{X: x, Y: y}

	switch w.Map.At(x, y) {
	case types.TileFloor:
		w.PlayerPos = target
		return game, nil

	case types.TileRequiresKey:
		w.Targeted = target
		return types.RunMode{Kind: types.ModeUseInventory}, nil

	case types.TilePortal:
		e, ok := w.OpenPortalAt(target)
		if !ok {
			log.WithField("at", target).Warn("portal tile without an open portal entity")
			return game, nil
		}
		p, _ := w.Portals.Get(e)
		from := w.Place
		w.Place = p.Target
		w.PlayerPos = p.Warp
		if err := w.BelongsTo.Insert(w.Player, types.BelongsTo{Domain: p.Target}); err != nil {
			return game, err
		}
		log.WithFields(logrus.Fields{
			"from": from,
			"to":   p.Target,
			"warp": p.Warp,
		}).Debug("place changed")
		return game, nil

	case types.TileNPC:
		if _, ok := w.NpcAt(target); !ok {
			return game, nil
		}
		w.Targeted = target
		return types.RunMode{Kind: types.ModeInteractNpc, Line: 0}, nil

	case types.TileWall, types.TileSpace:
		return game, nil
	}
	return game, nil
}
