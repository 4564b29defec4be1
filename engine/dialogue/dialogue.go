// Package dialogue implements the per-NPC quest state machine:
// HasDialogue -> WantsItem / WillGiveItem -> HasDialogue, ending in Done.
// Each Confirm performs exactly one transition.
package dialogue

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/timeward/engine/ecs"
	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// Page returns the lines of the NPC's current page revealed so far. A Done
// NPC shows its final page in full.
func Page(w *state.World, npc ecs.Entity, line int) []string {
	inter, ok := w.Interactions.Get(npc)
	if !ok || len(inter.Dialogues) == 0 {
		return nil
	}
	idx := clampIndex(inter.DialogueIndex, len(inter.Dialogues))
	page := inter.Dialogues[idx]
	if n, _ := w.Npcs.Get(npc); n.State == types.NpcDone {
		return page
	}
	if line >= len(page) {
		line = len(page) - 1
	}
	if line < 0 {
		return nil
	}
	return page[:line+1]
}

// Confirm advances the interaction with npc by one step and returns the
// next run mode.
func Confirm(w *state.World, log logrus.FieldLogger, npc ecs.Entity) (types.RunMode, error) {
	n, ok := w.Npcs.Get(npc)
	if !ok {
		return End(w), fmt.Errorf("confirm: entity %d is not an npc", npc)
	}
	inter, ok := w.Interactions.Get(npc)
	if !ok || len(inter.Dialogues) == 0 {
		return End(w), fmt.Errorf("confirm: npc %s has no dialogue", w.EntityName(npc))
	}
	line := w.Mode.Line

	switch n.State {
	case types.NpcHasDialogue:
		page := inter.Dialogues[clampIndex(inter.DialogueIndex, len(inter.Dialogues))]
		if line < len(page)-1 {
			return interact(line + 1), nil
		}
		switch {
		case contains(inter.GiveItemIndices, inter.DialogueIndex):
			return setState(w, log, npc, types.NpcWillGiveItem, line)
		case contains(inter.GetItemIndices, inter.DialogueIndex):
			return setState(w, log, npc, types.NpcWantsItem, line)
		}
		return advance(w, log, npc, inter)

	case types.NpcWantsItem:
		return wantsItem(w, log, npc, inter)

	case types.NpcWillGiveItem:
		return willGiveItem(w, log, npc, inter)

	case types.NpcDone:
		return End(w), nil
	}
	return End(w), fmt.Errorf("confirm: npc %s in unknown state %d", w.EntityName(npc), n.State)
}

// End leaves the interaction without touching the NPC.
func End(w *state.World) types.RunMode {
	w.ResetTarget()
	return types.RunMode{Kind: types.ModeGame}
}

func wantsItem(w *state.World, log logrus.FieldLogger, npc ecs.Entity, inter types.Interaction) (types.RunMode, error) {
	want, ok := frontWanted(w, npc)
	if !ok {
		return End(w), fmt.Errorf("npc %s wants an item but lists none", w.EntityName(npc))
	}

	held, ok := w.HeldItem(want)
	if !ok {
		if !inter.PrintNoItem {
			if inter.Repeat {
				w.AppendLog("Still missing: %s", want)
			} else {
				w.AppendLog("Missing item: %s", want)
			}
			inter.PrintNoItem = true
			if err := w.Interactions.Insert(npc, inter); err != nil {
				return End(w), err
			}
			return w.Mode, nil
		}
		inter.PrintNoItem = false
		inter.Repeat = true
		if err := w.Interactions.Insert(npc, inter); err != nil {
			return End(w), err
		}
		return End(w), nil
	}

	w.Stored.Remove(held)
	popWanted(w, npc)
	inter.GetItemIndices = remove(inter.GetItemIndices, inter.DialogueIndex)
	inter.Repeat = false
	inter.PrintNoItem = false
	w.AppendLog("Gave: %s", want)
	log.WithFields(logrus.Fields{"npc": w.EntityName(npc), "item": want.ID()}).Debug("item handed over")

	if err := w.Npcs.Insert(npc, types.Npc{State: types.NpcHasDialogue}); err != nil {
		return End(w), err
	}
	return advance(w, log, npc, inter)
}

func willGiveItem(w *state.World, log logrus.FieldLogger, npc ecs.Entity, inter types.Interaction) (types.RunMode, error) {
	give, ok := popGiven(w, npc)
	if !ok {
		return End(w), fmt.Errorf("npc %s has a give milestone but no items", w.EntityName(npc))
	}
	item, ok := w.LatentItem(give)
	if !ok {
		return End(w), fmt.Errorf("npc %s gives %s but no such item is available", w.EntityName(npc), give.ID())
	}
	if err := w.Stored.Insert(item, types.Stored{}); err != nil {
		return End(w), err
	}
	inter.GiveItemIndices = remove(inter.GiveItemIndices, inter.DialogueIndex)
	w.AppendLog("Received: %s", give)
	log.WithFields(logrus.Fields{"npc": w.EntityName(npc), "item": give.ID()}).Debug("item received")

	if err := w.Npcs.Insert(npc, types.Npc{State: types.NpcHasDialogue}); err != nil {
		return End(w), err
	}
	return advance(w, log, npc, inter)
}

// advance completes the current page: it moves to the next one, bumps the
// objective when the completed page is a milestone, and marks the NPC Done
// on reaching its final page.
func advance(w *state.World, log logrus.FieldLogger, npc ecs.Entity, inter types.Interaction) (types.RunMode, error) {
	completed := inter.DialogueIndex
	if contains(inter.ChangeObjectiveIndices, completed) {
		w.AdvanceObjective()
		inter.ChangeObjectiveIndices = remove(inter.ChangeObjectiveIndices, completed)
		log.WithField("objective", w.Objective.Index).Debug("objective advanced")
	}
	if inter.DialogueIndex < len(inter.Dialogues)-1 {
		inter.DialogueIndex++
	}
	if err := w.Interactions.Insert(npc, inter); err != nil {
		return End(w), err
	}
	if inter.DialogueIndex >= len(inter.Dialogues)-1 {
		if err := w.Npcs.Insert(npc, types.Npc{State: types.NpcDone}); err != nil {
			return End(w), err
		}
	}
	return interact(0), nil
}

func setState(w *state.World, log logrus.FieldLogger, npc ecs.Entity, s types.NpcState, line int) (types.RunMode, error) {
	if err := w.Npcs.Insert(npc, types.Npc{State: s}); err != nil {
		return End(w), err
	}
	log.WithFields(logrus.Fields{"npc": w.EntityName(npc), "state": s}).Debug("dialogue state changed")
	return interact(line), nil
}

// frontWanted returns the next required item: the head of RequiresItems, or
// the single RequiresItem.
func frontWanted(w *state.World, npc ecs.Entity) (types.ItemKind, bool) {
	if r, ok := w.RequiresItems.Get(npc); ok && len(r.Items) > 0 {
		return r.Items[0], true
	}
	if r, ok := w.RequiresItem.Get(npc); ok {
		return r.Key, true
	}
	return 0, false
}

func popWanted(w *state.World, npc ecs.Entity) {
	if w.RequiresItems.Update(npc, func(r *types.RequiresItems) {
		if len(r.Items) > 0 {
			r.Items = r.Items[1:]
		}
	}) {
		return
	}
	w.RequiresItem.Remove(npc)
}

func popGiven(w *state.World, npc ecs.Entity) (types.ItemKind, bool) {
	if c, ok := w.ContainsItems.Get(npc); ok && len(c.Items) > 0 {
		w.ContainsItems.Update(npc, func(c *types.ContainsItems) { c.Items = c.Items[1:] })
		return c.Items[0], true
	}
	if c, ok := w.ContainsItem.Get(npc); ok {
		w.ContainsItem.Remove(npc)
		return c.Item, true
	}
	return 0, false
}

func interact(line int) types.RunMode {
	return types.RunMode{Kind: types.ModeInteractNpc, Line: line}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// remove drops the first occurrence of v, keeping the order of the rest.
func remove(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			out := make([]int, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
