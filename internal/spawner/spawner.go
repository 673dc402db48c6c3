// Package spawner builds entities from data prefabs and populates rooms
// from the scripted spawn tables.
package spawner

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/data"
	"github.com/rlcore/dungeon/internal/scripting"
	"github.com/rlcore/dungeon/internal/world"
)

// Spawner creates players, monsters and items.
type Spawner struct {
	prefabs   *data.PrefabTable
	scripts   *scripting.Engine
	maxSpawns int
	log       *zap.Logger
}

func New(prefabs *data.PrefabTable, scripts *scripting.Engine, maxSpawns int, log *zap.Logger) *Spawner {
	return &Spawner{prefabs: prefabs, scripts: scripts, maxSpawns: maxSpawns, log: log}
}

func color(c data.RGB) component.Color {
	return component.Color{R: c[0], G: c[1], B: c[2]}
}

// Player spawns the player at p.
func (s *Spawner) Player(w *ecs.World, p world.Point) ecs.EntityID {
	pf := s.prefabs.Player()
	e := s.actor(w, pf, p)
	ecs.AddTag[component.Player](w, e)
	return e
}

// Monster spawns the monster prefab id at p.
func (s *Spawner) Monster(w *ecs.World, id string, p world.Point) (ecs.EntityID, error) {
	pf := s.prefabs.Monster(id)
	if pf == nil {
		return 0, fmt.Errorf("unknown monster %q", id)
	}
	e := s.actor(w, pf, p)
	ecs.AddTag[component.Monster](w, e)
	ecs.AddTag[component.BlocksTile](w, e)
	return e, nil
}

func (s *Spawner) actor(w *ecs.World, pf *data.ActorPrefab, p world.Point) ecs.EntityID {
	e := w.Spawn()
	ecs.Set(w, e, component.Position{X: p.X, Y: p.Y})
	ecs.Set(w, e, component.Renderable{Glyph: pf.GlyphRune(), FG: color(pf.FG), RenderOrder: pf.RenderOrder})
	ecs.Set(w, e, component.Viewshed{Range: pf.ViewRange, Dirty: true})
	ecs.Set(w, e, component.Name{Name: pf.DisplayName})
	ecs.Set(w, e, component.CombatStats{
		MaxHP:   pf.Stats.MaxHP,
		HP:      pf.Stats.HP,
		Defense: pf.Stats.Defense,
		Power:   pf.Stats.Power,
	})
	ecs.AddTag[component.SerializeMe](w, e)
	return e
}

// Item spawns the item prefab id lying on the floor at p.
func (s *Spawner) Item(w *ecs.World, id string, p world.Point) (ecs.EntityID, error) {
	pf := s.prefabs.Item(id)
	if pf == nil {
		return 0, fmt.Errorf("unknown item %q", id)
	}
	e := w.Spawn()
	ecs.Set(w, e, component.Position{X: p.X, Y: p.Y})
	ecs.Set(w, e, component.Renderable{Glyph: pf.GlyphRune(), FG: color(pf.FG), RenderOrder: pf.RenderOrder})
	ecs.Set(w, e, component.Name{Name: pf.DisplayName})
	ecs.AddTag[component.Item](w, e)
	ecs.AddTag[component.SerializeMe](w, e)

	if pf.Consumable {
		ecs.AddTag[component.Consumable](w, e)
	}
	if pf.Healing > 0 {
		ecs.Set(w, e, component.ProvidesHealing{HealAmount: pf.Healing})
	}
	if pf.Damage > 0 {
		ecs.Set(w, e, component.InflictsDamage{Damage: pf.Damage})
	}
	if pf.Range > 0 {
		ecs.Set(w, e, component.Ranged{Range: pf.Range})
	}
	if pf.AreaRadius > 0 {
		ecs.Set(w, e, component.AreaOfEffect{Radius: pf.AreaRadius})
	}
	if pf.ConfusionTurns > 0 {
		ecs.Set(w, e, component.Confusion{Turns: pf.ConfusionTurns})
	}
	if pf.Slot != "" {
		ecs.Set(w, e, component.Equippable{Slot: component.EquipmentSlot(pf.Slot)})
	}
	if pf.PowerBonus > 0 {
		ecs.Set(w, e, component.MeleePowerBonus{Power: pf.PowerBonus})
	}
	if pf.DefenseBonus > 0 {
		ecs.Set(w, e, component.DefenseBonus{Defense: pf.DefenseBonus})
	}
	return e, nil
}

// Roll picks a weighted entry. It returns false for an empty table.
func Roll(rng *rand.Rand, table []scripting.SpawnEntry) (scripting.SpawnEntry, bool) {
	total := 0
	for _, s := range table {
		total += s.Weight
	}
	if total <= 0 {
		return scripting.SpawnEntry{}, false
	}
	n := rng.Intn(total)
	for _, s := range table {
		if n < s.Weight {
			return s, true
		}
		n -= s.Weight
	}
	return table[len(table)-1], true
}

// PopulateRoom places the depth's spawns on distinct interior tiles of room.
// It returns the entities created.
func (s *Spawner) PopulateRoom(w *ecs.World, rng *rand.Rand, m *world.Map, room world.Rect) []ecs.EntityID {
	table := s.scripts.SpawnTable(m.Depth)
	count := s.scripts.RoomSpawnCount(m.Depth, s.maxSpawns, rng.Intn(s.maxSpawns+3)+1)
	if count <= 0 || len(table) == 0 {
		return nil
	}

	// interior floor of the room is (X1+1..X2) x (Y1+1..Y2)
	width, height := room.X2-room.X1, room.Y2-room.Y1
	if width <= 0 || height <= 0 {
		return nil
	}
	count = min(count, width*height)

	used := make(map[world.Point]struct{}, count)
	var out []ecs.EntityID
	for tries := 0; len(used) < count && tries < count*20; tries++ {
		p := world.Point{X: room.X1 + 1 + rng.Intn(width), Y: room.Y1 + 1 + rng.Intn(height)}
		if _, taken := used[p]; taken || !m.Walkable(p) {
			continue
		}
		used[p] = struct{}{}

		entry, _ := Roll(rng, table)
		var (
			e   ecs.EntityID
			err error
		)
		switch entry.Kind {
		case scripting.SpawnMonster:
			e, err = s.Monster(w, entry.ID, p)
		case scripting.SpawnItem:
			e, err = s.Item(w, entry.ID, p)
		default:
			err = fmt.Errorf("unknown spawn kind %q", entry.Kind)
		}
		if err != nil {
			s.log.Warn("spawn skipped", zap.String("id", entry.ID), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out
}
