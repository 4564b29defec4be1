package systems

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Recipe turns a complete set of held components into an artifact.
type Recipe struct {
	Parts  []types.ItemKind
	Result types.ItemKind
}

// Recipes are checked independently every tick.
var Recipes = []Recipe{
	{
		Parts: []types.ItemKind{
			types.ItemOttomanRewardPoem,
			types.ItemOttomanRewardBookCover,
			types.ItemOttomanRewardGlue,
		},
		Result: types.ItemOttomanCombinedRewardPoemBook,
	},
	{
		Parts: []types.ItemKind{
			types.ItemOttomanRewardMosquePart1,
			types.ItemOttomanRewardMosquePart2,
		},
		Result: types.ItemOttomanCombinedRewardMosqueModel,
	},
	{
		Parts: []types.ItemKind{
			types.ItemOttomanRewardNotePaper,
			types.ItemOttomanRewardCanvas,
			types.ItemOttomanRewardClay,
		},
		Result: types.ItemOttomanCombinedRewardWeirdCollage,
	},
}

// Combine crafts every recipe whose components are all held. Components
// leave the inventory, so a second pass is a no-op.
func Combine(w *state.World, log logrus.FieldLogger) error {
	for _, r := range Recipes {
		parts, ok := heldParts(w, r.Parts)
		if !ok {
			continue
		}
		artifact, ok := w.LatentItem(r.Result)
		if !ok {
			return fmt.Errorf("recipe %s: no artifact entity in the world", r.Result.ID())
		}
		for _, p := range parts {
			w.Stored.Remove(p)
		}
		if err := w.Stored.Insert(artifact, types.Stored{}); err != nil {
			return err
		}
		w.AppendLog("Crafted: %s", r.Result)
		log.WithField("artifact", r.Result.ID()).Debug("recipe crafted")
	}
	return nil
}

// heldParts returns one held entity per component, or false if any is missing.
func heldParts(w *state.World, kinds []types.ItemKind) ([]ecs.Entity, bool) {
	out := make([]ecs.Entity, 0, len(kinds))
	for _, k := range kinds {
		e, ok := w.HeldItem(k)
		if !ok {
			return nil, false
		}
		out = append(out, e)
	}
	return out, true
}
