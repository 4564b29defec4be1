// Package loader loads the Lua world script into Go definitions.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/timeward/engine/state"
	"github.com/nathoo/timeward/types"
)

// rawDef holds a constructor body before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

type rawPortal struct {
	rawDef
	kind portalKind
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toInt converts a Lua number holding an integer.
func toInt(v lua.LValue) (int, bool) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, false
	}
	f := float64(n)
	if f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// pair reads a two-number table written either as {a, b} or with the named
// fields. {x = 1, y = 2} and {1, 2} are the same point.
func pair(tbl *lua.LTable, first, second string) (int, int, error) {
	a, b := tbl.RawGetString(first), tbl.RawGetString(second)
	if a == lua.LNil && b == lua.LNil {
		a, b = tbl.RawGetInt(1), tbl.RawGetInt(2)
	}
	x, ok1 := toInt(a)
	y, ok2 := toInt(b)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("expected {%s, %s} integers", first, second)
	}
	return x, y, nil
}

func getPoint(tbl *lua.LTable, key string) (*types.Point, error) {
	t := getTable(tbl, key)
	if t == nil {
		return nil, nil
	}
	x, y, err := pair(t, "x", "y")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &types.Point{X: x, Y: y}, nil
}

func requirePoint(tbl *lua.LTable, key string) (types.Point, error) {
	p, err := getPoint(tbl, key)
	if err != nil {
		return types.Point{}, err
	}
	if p == nil {
		return types.Point{}, fmt.Errorf("%s is required", key)
	}
	return *p, nil
}

func getSpan(tbl *lua.LTable, key string) (types.Span, error) {
	t := getTable(tbl, key)
	if t == nil {
		return types.Span{}, fmt.Errorf("%s is required", key)
	}
	from, to, err := pair(t, "from", "to")
	if err != nil {
		return types.Span{}, fmt.Errorf("%s: %w", key, err)
	}
	return types.Span{From: from, To: to}, nil
}

// getStrings reads the array part of a table of strings.
func getStrings(tbl *lua.LTable, key string) ([]string, error) {
	t := getTable(tbl, key)
	if t == nil {
		return nil, nil
	}
	out := make([]string, 0, t.MaxN())
	for i := 1; i <= t.MaxN(); i++ {
		s, ok := t.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a string", key, i)
		}
		out = append(out, string(s))
	}
	return out, nil
}

// getPages converts 1-based page numbers from the script to 0-based indices.
func getPages(tbl *lua.LTable, key string) ([]int, error) {
	t := getTable(tbl, key)
	if t == nil {
		return nil, nil
	}
	out := make([]int, 0, t.MaxN())
	for i := 1; i <= t.MaxN(); i++ {
		n, ok := toInt(t.RawGetInt(i))
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not an integer", key, i)
		}
		out = append(out, n-1)
	}
	return out, nil
}

func getItems(tbl *lua.LTable, key string) ([]types.ItemKind, error) {
	ids, err := getStrings(tbl, key)
	if err != nil {
		return nil, err
	}
	out := make([]types.ItemKind, 0, len(ids))
	for _, id := range ids {
		k, err := types.ParseItemKind(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, k)
	}
	return out, nil
}

func getPlace(tbl *lua.LTable, key string) (types.Place, error) {
	id := getString(tbl, key)
	if id == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	return types.ParsePlace(id)
}

func getColor(tbl *lua.LTable, key string) (*types.RGB, error) {
	t := getTable(tbl, key)
	if t == nil {
		return nil, nil
	}
	var c [3]int
	for i := range c {
		n, ok := toInt(t.RawGetInt(i + 1))
		if !ok || n < 0 || n > 255 {
			return nil, fmt.Errorf("%s must be {r, g, b} in 0..255", key)
		}
		c[i] = n
	}
	return &types.RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}, nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}
	defs := &state.Defs{
		Game:   game,
		Places: map[types.Place]types.PlaceDef{},
	}

	for _, raw := range coll.places {
		p, err := compilePlace(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling place %s: %w", raw.id, err)
		}
		if _, dup := defs.Places[p.ID]; dup {
			return nil, fmt.Errorf("place %s defined twice", raw.id)
		}
		defs.Places[p.ID] = p
	}

	for _, raw := range coll.portals {
		p, err := compilePortal(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling portal %s: %w", raw.id, err)
		}
		defs.Portals = append(defs.Portals, p)
	}

	for _, raw := range coll.items {
		it, err := compileItem(raw, game.Start)
		if err != nil {
			return nil, fmt.Errorf("compiling item %s: %w", raw.id, err)
		}
		defs.Items = append(defs.Items, it)
	}

	for _, raw := range coll.npcs {
		n, err := compileNPC(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling npc %s: %w", raw.id, err)
		}
		defs.NPCs = append(defs.NPCs, n)
	}
	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	g := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Welcome: getString(tbl, "welcome"),
	}
	var err error
	if g.Start, err = getPlace(tbl, "start"); err != nil {
		return g, err
	}
	if g.StartPos, err = requirePoint(tbl, "start_pos"); err != nil {
		return g, err
	}
	if g.FinishPlace, err = getPlace(tbl, "finish"); err != nil {
		return g, err
	}
	if id := getString(tbl, "final_item"); id != "" {
		if g.FinalItem, err = types.ParseItemKind(id); err != nil {
			return g, fmt.Errorf("final_item: %w", err)
		}
	} else {
		return g, fmt.Errorf("final_item is required")
	}
	if g.Objectives, err = getStrings(tbl, "objectives"); err != nil {
		return g, err
	}
	return g, nil
}

func compilePlace(raw rawDef) (types.PlaceDef, error) {
	id, err := types.ParsePlace(raw.id)
	if err != nil {
		return types.PlaceDef{}, err
	}
	room := getTable(raw.table, "room")
	if room == nil {
		return types.PlaceDef{}, fmt.Errorf("room is required")
	}
	x, y, w, h, err := roomBounds(room)
	if err != nil {
		return types.PlaceDef{}, fmt.Errorf("room: %w", err)
	}
	name := getString(raw.table, "name")
	if name == "" {
		name = raw.id
	}
	return types.PlaceDef{ID: id, Name: name, Room: types.NewRect(x, y, w, h)}, nil
}

// roomBounds reads {x = , y = , w = , h = } or the positional {x, y, w, h}.
func roomBounds(room *lua.LTable) (x, y, w, h int, err error) {
	if room.RawGetString("x") != lua.LNil {
		if x, y, err = pair(room, "x", "y"); err != nil {
			return
		}
		w, h, err = pair(room, "w", "h")
		return
	}
	var vals [4]int
	for i := range vals {
		n, ok := toInt(room.RawGetInt(i + 1))
		if !ok {
			return 0, 0, 0, 0, fmt.Errorf("expected {x, y, w, h} integers")
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func compilePortal(raw rawPortal) (types.PortalDef, error) {
	tbl := raw.table
	p := types.PortalDef{Name: raw.id}
	var err error
	if p.Place, err = getPlace(tbl, "place"); err != nil {
		return p, err
	}
	if p.Target, err = getPlace(tbl, "target"); err != nil {
		return p, err
	}
	if p.Pos, err = requirePoint(tbl, "at"); err != nil {
		return p, err
	}
	if p.Warp, err = requirePoint(tbl, "warp"); err != nil {
		return p, err
	}

	keyID := getString(tbl, "key")
	switch {
	case raw.kind == openPortal && keyID != "":
		return p, fmt.Errorf("an open Portal takes no key; use Door")
	case raw.kind != openPortal && keyID == "":
		return p, fmt.Errorf("key is required")
	case keyID != "":
		k, err := types.ParseItemKind(keyID)
		if err != nil {
			return p, fmt.Errorf("key: %w", err)
		}
		p.Key = &k
	}

	rev := getTable(tbl, "reveal")
	switch {
	case raw.kind != dormantDoor && rev != nil:
		return p, fmt.Errorf("reveal is only valid on a DormantDoor")
	case raw.kind == dormantDoor && rev == nil:
		return p, fmt.Errorf("reveal is required")
	case rev != nil:
		r, err := compileReveal(rev, *p.Key)
		if err != nil {
			return p, fmt.Errorf("reveal: %w", err)
		}
		p.Reveal = &r
	}
	return p, nil
}

// compileReveal reads a trigger zone. The revealing item defaults to the
// door's own key and the tile shown before the reveal defaults to wall.
func compileReveal(tbl *lua.LTable, key types.ItemKind) (types.RevealDef, error) {
	r := types.RevealDef{Item: key, Before: types.TileWall}
	var err error
	if r.X, err = getSpan(tbl, "x"); err != nil {
		return r, err
	}
	if r.Y, err = getSpan(tbl, "y"); err != nil {
		return r, err
	}
	if id := getString(tbl, "item"); id != "" {
		if r.Item, err = types.ParseItemKind(id); err != nil {
			return r, fmt.Errorf("item: %w", err)
		}
	}
	if id := getString(tbl, "before"); id != "" {
		if r.Before, err = types.ParseTileType(id); err != nil {
			return r, fmt.Errorf("before: %w", err)
		}
	}
	return r, nil
}

// compileItem reads an item. Items without a place belong to the start
// place; they are only ever seen once held.
func compileItem(raw rawDef, start types.Place) (types.ItemDef, error) {
	kind, err := types.ParseItemKind(raw.id)
	if err != nil {
		return types.ItemDef{}, err
	}
	it := types.ItemDef{Kind: kind, Place: start, Permanent: getBool(raw.table, "permanent", false)}
	if getString(raw.table, "place") != "" {
		if it.Place, err = getPlace(raw.table, "place"); err != nil {
			return it, err
		}
	}
	if it.Pos, err = getPoint(raw.table, "at"); err != nil {
		return it, err
	}
	return it, nil
}

func compileNPC(raw rawDef) (types.NpcDef, error) {
	tbl := raw.table
	n := types.NpcDef{Name: raw.id}
	var err error
	if n.Place, err = getPlace(tbl, "place"); err != nil {
		return n, err
	}
	if n.Pos, err = requirePoint(tbl, "at"); err != nil {
		return n, err
	}
	if g := []rune(getString(tbl, "glyph")); len(g) > 0 {
		n.Glyph = g[0]
	}
	if n.Color, err = getColor(tbl, "color"); err != nil {
		return n, err
	}

	if says := getString(tbl, "says"); says != "" {
		n.Dialogues = [][]string{{says}}
	}
	if pages := getTable(tbl, "dialogues"); pages != nil {
		if n.Dialogues != nil {
			return n, fmt.Errorf("says and dialogues are exclusive")
		}
		for i := 1; i <= pages.MaxN(); i++ {
			switch v := pages.RawGetInt(i).(type) {
			case lua.LString:
				n.Dialogues = append(n.Dialogues, []string{string(v)})
			case *lua.LTable:
				page := make([]string, 0, v.MaxN())
				for j := 1; j <= v.MaxN(); j++ {
					s, ok := v.RawGetInt(j).(lua.LString)
					if !ok {
						return n, fmt.Errorf("dialogues[%d][%d] is not a string", i, j)
					}
					page = append(page, string(s))
				}
				n.Dialogues = append(n.Dialogues, page)
			default:
				return n, fmt.Errorf("dialogues[%d] must be a string or a list of lines", i)
			}
		}
	}

	if n.Wants, err = getItems(tbl, "wants"); err != nil {
		return n, err
	}
	if n.Gives, err = getItems(tbl, "gives"); err != nil {
		return n, err
	}
	if n.GetIndices, err = getPages(tbl, "get_at"); err != nil {
		return n, err
	}
	if n.GiveIndices, err = getPages(tbl, "give_at"); err != nil {
		return n, err
	}
	if n.ObjectiveIndices, err = getPages(tbl, "objective_at"); err != nil {
		return n, err
	}
	return n, nil
}
