package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/engine/systems"
	"github.com/nathoo/timeward/engine/tilemap"
	"github.com/nathoo/timeward/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity and for the
// quest being completable with the items on offer.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}
	g := defs.Game

	if g.Title == "" {
		ve.errorf("Game.title is required")
	}
	if start, ok := defs.Places[g.Start]; !ok {
		ve.errorf("start place %s is not defined", g.Start)
	} else if !inRoom(start.Room, g.StartPos) {
		ve.errorf("start position %v lies outside the %s room", g.StartPos, g.Start)
	}
	if _, ok := defs.Places[g.FinishPlace]; !ok {
		ve.errorf("finish place %s is not defined", g.FinishPlace)
	}
	if len(g.Objectives) == 0 {
		ve.warnf("Game.objectives is empty")
	}

	for id, p := range defs.Places {
		r := p.Room
		if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
			ve.errorf("place %s has an empty room", id)
		}
		if r.X1 < 1 || r.Y1 < 1 || r.X2 > tilemap.Width-1 || r.Y2 > tilemap.Height-1 {
			ve.warnf("place %s: room walls fall off the %dx%d grid", id, tilemap.Width, tilemap.Height)
		}
	}

	validatePortals(defs, ve)
	latent := validateItems(defs, ve)
	validateNPCs(defs, ve, latent)

	if !offered(defs, g.FinalItem) {
		ve.errorf("final item %s is never placed, given or crafted", g.FinalItem.ID())
	}
	return ve
}

func validatePortals(defs *state.Defs, ve *ValidationError) {
	for _, p := range defs.Portals {
		if _, ok := defs.Places[p.Place]; !ok {
			ve.errorf("portal %q: place %s is not defined", p.Name, p.Place)
		}
		target, ok := defs.Places[p.Target]
		if !ok {
			ve.errorf("portal %q: target %s is not defined", p.Name, p.Target)
		} else if !inRoom(target.Room, p.Warp) {
			ve.errorf("portal %q: warp %v lies outside the %s room", p.Name, p.Warp, p.Target)
		}
		if !onGrid(p.Pos) {
			ve.errorf("portal %q: position %v is off the grid", p.Name, p.Pos)
		}
		if p.Key != nil && !offered(defs, *p.Key) {
			ve.errorf("portal %q: key %s is never placed, given or crafted", p.Name, p.Key.ID())
		}
		if r := p.Reveal; r != nil {
			if r.X.From > r.X.To || r.Y.From > r.Y.To {
				ve.errorf("portal %q: reveal zone spans run backwards", p.Name)
			}
			if r.X.From > p.Pos.X+1 || r.X.To < p.Pos.X-1 || r.Y.From > p.Pos.Y+1 || r.Y.To < p.Pos.Y-1 {
				ve.warnf("portal %q: reveal zone is not next to the door", p.Name)
			}
		}
	}
}

// validateItems checks placed items and returns how many latent copies of
// each kind exist.
func validateItems(defs *state.Defs, ve *ValidationError) map[types.ItemKind]int {
	latent := map[types.ItemKind]int{}
	for _, it := range defs.Items {
		place, ok := defs.Places[it.Place]
		if !ok {
			ve.errorf("item %s: place %s is not defined", it.Kind.ID(), it.Place)
			continue
		}
		if it.Pos == nil {
			latent[it.Kind]++
			continue
		}
		if !inRoom(place.Room, *it.Pos) {
			ve.errorf("item %s: position %v lies outside the %s room", it.Kind.ID(), *it.Pos, it.Place)
		}
	}
	for _, r := range systems.Recipes {
		if latent[r.Result] == 0 {
			ve.warnf("recipe for %s has no latent artifact to produce", r.Result.ID())
		}
	}
	return latent
}

func validateNPCs(defs *state.Defs, ve *ValidationError, latent map[types.ItemKind]int) {
	type spot struct {
		place types.Place
		at    types.Point
	}
	taken := map[spot]string{}
	gives := map[types.ItemKind]int{}
	advances := 0

	for _, n := range defs.NPCs {
		place, ok := defs.Places[n.Place]
		if !ok {
			ve.errorf("npc %q: place %s is not defined", n.Name, n.Place)
		} else if !inRoom(place.Room, n.Pos) {
			ve.errorf("npc %q: position %v lies outside the %s room", n.Name, n.Pos, n.Place)
		}
		s := spot{n.Place, n.Pos}
		if other, dup := taken[s]; dup {
			ve.errorf("npc %q stands on the same tile as %q", n.Name, other)
		}
		taken[s] = n.Name

		pages := len(n.Dialogues)
		if pages == 0 {
			ve.errorf("npc %q has no dialogue", n.Name)
			continue
		}
		for _, list := range []struct {
			name string
			idx  []int
		}{
			{"get_at", n.GetIndices},
			{"give_at", n.GiveIndices},
			{"objective_at", n.ObjectiveIndices},
		} {
			for _, i := range list.idx {
				switch {
				case i < 0 || i >= pages:
					ve.errorf("npc %q: %s page %d is outside 1..%d", n.Name, list.name, i+1, pages)
				case i == pages-1:
					// The final page is where the NPC goes Done; nothing fires there.
					ve.warnf("npc %q: %s page %d is the last page and never fires", n.Name, list.name, i+1)
				}
			}
		}
		for _, i := range n.GiveIndices {
			for _, j := range n.GetIndices {
				if i == j {
					ve.warnf("npc %q: page %d is in both give_at and get_at; the get never fires", n.Name, i+1)
				}
			}
		}
		if len(n.Wants) != len(n.GetIndices) {
			ve.errorf("npc %q wants %d item(s) at %d page(s)", n.Name, len(n.Wants), len(n.GetIndices))
		}
		if len(n.Gives) != len(n.GiveIndices) {
			ve.errorf("npc %q gives %d item(s) at %d page(s)", n.Name, len(n.Gives), len(n.GiveIndices))
		}
		for _, k := range n.Gives {
			gives[k]++
		}
		advances += len(n.ObjectiveIndices)
	}

	for k, n := range gives {
		if latent[k] < n {
			ve.errorf("npcs give %d %s but only %d latent cop(ies) exist", n, k.ID(), latent[k])
		}
	}
	if objs := len(defs.Game.Objectives); objs > 0 && advances > objs-1 {
		ve.warnf("npcs advance the objective %d times but only %d objectives follow the first", advances, objs-1)
	}
}

// offered reports whether k can ever reach the inventory.
func offered(defs *state.Defs, k types.ItemKind) bool {
	for _, it := range defs.Items {
		if it.Kind == k && it.Pos != nil {
			return true
		}
	}
	for _, n := range defs.NPCs {
		for _, g := range n.Gives {
			if g == k {
				return true
			}
		}
	}
	for _, r := range systems.Recipes {
		if r.Result == k {
			return true
		}
	}
	return false
}

func inRoom(r types.Rect, p types.Point) bool {
	return p.X >= r.X1 && p.X < r.X2 && p.Y >= r.Y1 && p.Y < r.Y2
}

func onGrid(p types.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < tilemap.Width && p.Y < tilemap.Height
}
