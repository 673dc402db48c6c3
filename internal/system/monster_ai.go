package system

import (
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/turn"
	"github.com/rlcore/dungeon/internal/world"
)

// MonsterAISystem decides monster actions during the monster phase: attack
// when adjacent to the player, otherwise chase the player while in sight.
// Confused monsters lose their turn.
type MonsterAISystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewMonsterAISystem(log *zap.Logger) *MonsterAISystem {
	return &MonsterAISystem{
		log: log,
		q: ecs.NewQuery(
			ecs.Write[component.Viewshed](),
			ecs.Write[component.Position](),
			ecs.Optional[component.Confusion](),
		).Filter(ecs.With[component.Monster]()),
	}
}

func (s *MonsterAISystem) Name() string     { return "monster_ai" }
func (s *MonsterAISystem) Writes() []string { return []string{ResMap} }

func (s *MonsterAISystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	if res.Phase != turn.MonsterTurn {
		return
	}
	m := res.Map
	for row := range s.q.Iter(w) {
		e := row.Entity()
		if conf := ecs.Field[component.Confusion](row); conf != nil {
			conf.Turns--
			if conf.Turns < 1 {
				cmd.Remove(e, ecs.KindOf[component.Confusion]())
			}
			continue
		}

		pos := ecs.Field[component.Position](row)
		if world.Distance(pos.Point(), res.PlayerPos) < 1.5 {
			cmd.Insert(e, ecs.Value(component.WantsToMelee{Target: ecs.RefTo(res.Player)}))
			continue
		}
		vs := ecs.Field[component.Viewshed](row)
		if !vs.CanSee(res.PlayerPos) {
			continue
		}
		path, ok := world.FindPath(m, pos.Point(), res.PlayerPos)
		if !ok || len(path) < 2 {
			s.log.Debug("monster has no path to player", zap.Stringer("monster", e))
			continue
		}
		m.Blocked[m.IdxOf(pos.Point())] = false
		pos.X, pos.Y = path[1].X, path[1].Y
		m.Blocked[m.IdxOf(path[1])] = true
		vs.Dirty = true
	}
}
