package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the spawn tables.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "spawn"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ==================== Spawn tables ====================

// SpawnKind says which prefab table a spawn entry refers to.
type SpawnKind string

const (
	SpawnMonster SpawnKind = "monster"
	SpawnItem    SpawnKind = "item"
)

// SpawnEntry is one weighted row of a depth's spawn table.
type SpawnEntry struct {
	ID     string
	Kind   SpawnKind
	Weight int
}

// DefaultSpawnTable is used when no spawn_table script is loaded.
func DefaultSpawnTable(depth int) []SpawnEntry {
	return []SpawnEntry{
		{ID: "goblin", Kind: SpawnMonster, Weight: 10},
		{ID: "orc", Kind: SpawnMonster, Weight: 1 + depth},
		{ID: "health_potion", Kind: SpawnItem, Weight: 7},
		{ID: "fireball_scroll", Kind: SpawnItem, Weight: depth - 1},
		{ID: "confusion_scroll", Kind: SpawnItem, Weight: depth + 1},
		{ID: "magic_missile_scroll", Kind: SpawnItem, Weight: 4},
		{ID: "dagger", Kind: SpawnItem, Weight: 3},
		{ID: "shield", Kind: SpawnItem, Weight: 3},
		{ID: "longsword", Kind: SpawnItem, Weight: depth - 5},
		{ID: "tower_shield", Kind: SpawnItem, Weight: depth - 5},
	}
}

// SpawnTable calls the Lua spawn_table(depth) function. Rows with a
// non-positive weight are dropped.
func (e *Engine) SpawnTable(depth int) []SpawnEntry {
	fn := e.vm.GetGlobal("spawn_table")
	if fn == lua.LNil {
		return positive(DefaultSpawnTable(depth))
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(depth)); err != nil {
		e.log.Error("lua spawn_table error", zap.Error(err))
		return positive(DefaultSpawnTable(depth))
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua spawn_table returned non-table")
		return positive(DefaultSpawnTable(depth))
	}

	var out []SpawnEntry
	rt.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		out = append(out, SpawnEntry{
			ID:     lStr(row, "id"),
			Kind:   SpawnKind(lStr(row, "kind")),
			Weight: lInt(row, "weight"),
		})
	})
	return positive(out)
}

func positive(in []SpawnEntry) []SpawnEntry {
	out := in[:0]
	for _, s := range in {
		if s.Weight > 0 && s.ID != "" {
			out = append(out, s)
		}
	}
	return out
}

// RoomSpawnCount returns how many spawns to place in one room. roll is a
// die result in [1, maxSpawns+3]. The result may be negative; callers treat
// that as zero.
func (e *Engine) RoomSpawnCount(depth, maxSpawns, roll int) int {
	fallback := roll + (depth - 1) - 3
	if e.vm.GetGlobal("room_spawn_count") == lua.LNil {
		return fallback
	}
	n, ok := e.callIntFunc("room_spawn_count", depth, maxSpawns, roll)
	if !ok {
		return fallback
	}
	return n
}

// ==================== Helpers ====================

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// callIntFunc calls a Lua function with int args and returns an int result.
func (e *Engine) callIntFunc(name string, args ...int) (int, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0, false
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("name", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result)), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
