package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// portalKind distinguishes the three portal constructors.
type portalKind int

const (
	openPortal portalKind = iota
	lockedDoor
	dormantDoor
)

// registerAPI installs the world constructors as globals.
//
// Every constructor except Game is curried: Place "id" { ... } calls Place
// with the id, which returns a function taking the body table.
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Place", curried(L, func(id string, tbl *lua.LTable) {
		coll.places = append(coll.places, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Item", curried(L, func(id string, tbl *lua.LTable) {
		coll.items = append(coll.items, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("NPC", curried(L, func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
	}))

	for name, kind := range map[string]portalKind{
		"Portal":      openPortal,
		"Door":        lockedDoor,
		"DormantDoor": dormantDoor,
	} {
		L.SetGlobal(name, curried(L, func(id string, tbl *lua.LTable) {
			coll.portals = append(coll.portals, rawPortal{rawDef: rawDef{id: id, table: tbl}, kind: kind})
		}))
	}
}

func curried(L *lua.LState, collect func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			collect(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}
