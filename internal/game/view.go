package game

import (
	"sort"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/world"
)

// Drawable is one entity as the renderer sees it.
type Drawable struct {
	At         world.Point
	Renderable component.Renderable
}

// Drawables returns every positioned renderable on a visible tile, highest
// render order first so the lowest is drawn last, on top.
func (s *Session) Drawables() []Drawable {
	m := s.res.Map
	var out []Drawable
	for row := range s.drawQ.Iter(s.w) {
		p := ecs.Field[component.Position](row).Point()
		if !m.InBounds(p) || !m.Visible[m.IdxOf(p)] {
			continue
		}
		out = append(out, Drawable{At: p, Renderable: *ecs.Field[component.Renderable](row)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Renderable.RenderOrder > out[j].Renderable.RenderOrder
	})
	return out
}

// InventoryItem is one line of an item menu.
type InventoryItem struct {
	Entity ecs.EntityID
	Name   string
}

// Backpack lists the items the player carries.
func (s *Session) Backpack() []InventoryItem {
	var out []InventoryItem
	for row := range s.backpackQ.Iter(s.w) {
		if ecs.Field[component.InBackpack](row).Owner.Is(s.res.Player) {
			out = append(out, InventoryItem{Entity: row.Entity(), Name: ecs.Field[component.Name](row).Name})
		}
	}
	return out
}

// Equipment lists the items the player wears.
func (s *Session) Equipment() []InventoryItem {
	var out []InventoryItem
	for row := range s.equippedQ.Iter(s.w) {
		if ecs.Field[component.Equipped](row).Owner.Is(s.res.Player) {
			out = append(out, InventoryItem{Entity: row.Entity(), Name: ecs.Field[component.Name](row).Name})
		}
	}
	return out
}

// PlayerStats returns the player's combat stats, if the player exists.
func (s *Session) PlayerStats() (component.CombatStats, bool) {
	st, ok := ecs.Get[component.CombatStats](s.w, s.res.Player)
	if !ok {
		return component.CombatStats{}, false
	}
	return *st, true
}
