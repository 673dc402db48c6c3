package system

import (
	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
)

// MapIndexSystem rebuilds the blocked flags and per-tile entity lists.
type MapIndexSystem struct {
	q *ecs.Query
}

func NewMapIndexSystem() *MapIndexSystem {
	return &MapIndexSystem{q: ecs.NewQuery(ecs.Read[component.Position]())}
}

func (s *MapIndexSystem) Name() string     { return "map_index" }
func (s *MapIndexSystem) Writes() []string { return []string{ResMap} }

func (s *MapIndexSystem) Run(w *ecs.World, _ *ecs.CommandBuffer, res *Resources) {
	m := res.Map
	m.PopulateBlocked()
	m.ClearContent()
	for row := range s.q.Iter(w) {
		p := ecs.Field[component.Position](row).Point()
		if !m.InBounds(p) {
			continue
		}
		idx := m.IdxOf(p)
		if ecs.HasTag[component.BlocksTile](w, row.Entity()) {
			m.Blocked[idx] = true
		}
		m.TileContent[idx] = append(m.TileContent[idx], row.Entity())
	}
}
