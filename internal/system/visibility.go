package system

import (
	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/world"
)

// VisibilitySystem recomputes dirty viewsheds. The player's viewshed also
// drives the map's visible and revealed flags.
type VisibilitySystem struct {
	q *ecs.Query
}

func NewVisibilitySystem() *VisibilitySystem {
	return &VisibilitySystem{
		q: ecs.NewQuery(ecs.Write[component.Viewshed](), ecs.Read[component.Position]()),
	}
}

func (s *VisibilitySystem) Name() string     { return "visibility" }
func (s *VisibilitySystem) Writes() []string { return []string{ResMap} }

func (s *VisibilitySystem) Run(w *ecs.World, _ *ecs.CommandBuffer, res *Resources) {
	m := res.Map
	for row := range s.q.Iter(w) {
		vs := ecs.Field[component.Viewshed](row)
		if !vs.Dirty {
			continue
		}
		vs.Dirty = false
		pos := ecs.Field[component.Position](row)
		vs.VisibleTiles = m.RetainInterior(world.FieldOfView(pos.Point(), vs.Range, m))

		if !ecs.HasTag[component.Player](w, row.Entity()) {
			continue
		}
		m.ClearVisible()
		for _, p := range vs.VisibleTiles {
			m.Reveal(p)
		}
	}
}
