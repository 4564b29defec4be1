package loader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/timeward/engine/state"
)

//go:embed world/*.lua
var defaultWorld embed.FS

// collector accumulates Lua definitions during script execution.
type collector struct {
	game    *lua.LTable
	places  []rawDef
	portals []rawPortal
	items   []rawDef
	npcs    []rawDef
}

// source is one Lua chunk and the name it is reported under.
type source struct {
	name string
	code string
}

// Load reads all .lua files from dir, compiles them into world definitions,
// validates references, and returns the immutable Defs. The Lua VM is
// discarded after loading.
func Load(dir string, log logrus.FieldLogger) (*state.Defs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	var srcs []source
	for _, name := range sortedLuaFiles(names) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		srcs = append(srcs, source{name: name, code: string(b)})
	}
	return load(srcs, log)
}

// LoadDefault compiles the world shipped inside the binary.
func LoadDefault(log logrus.FieldLogger) (*state.Defs, error) {
	names, err := fs.Glob(defaultWorld, "world/*.lua")
	if err != nil {
		return nil, fmt.Errorf("listing embedded world: %w", err)
	}
	var base []string
	for _, n := range names {
		base = append(base, filepath.Base(n))
	}
	var srcs []source
	for _, name := range sortedLuaFiles(base) {
		b, err := defaultWorld.ReadFile("world/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", name, err)
		}
		srcs = append(srcs, source{name: name, code: string(b)})
	}
	return load(srcs, log)
}

func load(srcs []source, log logrus.FieldLogger) (*state.Defs, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, src := range srcs {
		fn, err := L.Load(strings.NewReader(src.code), src.name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", src.name, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", src.name, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling world: %w", err)
	}

	ve := validate(defs)
	for _, w := range ve.Warnings {
		log.WithField("check", "world").Warn(w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	log.WithFields(logrus.Fields{
		"places":  len(defs.Places),
		"portals": len(defs.Portals),
		"items":   len(defs.Items),
		"npcs":    len(defs.NPCs),
	}).Debug("world loaded")
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the script.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// sortedLuaFiles puts game.lua first and the rest in alphabetical order.
func sortedLuaFiles(files []string) []string {
	var game string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			game = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if game != "" {
		return append([]string{game}, others...)
	}
	return others
}
