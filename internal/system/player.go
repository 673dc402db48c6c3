package system

import (
	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/world"
)

// PlayerMoveSystem steps the player by res.Move, turning a step into a
// combatant into a melee intent.
type PlayerMoveSystem struct {
	q *ecs.Query
}

func NewPlayerMoveSystem() *PlayerMoveSystem {
	return &PlayerMoveSystem{
		q: ecs.NewQuery(ecs.Write[component.Position](), ecs.Write[component.Viewshed]()).
			Filter(ecs.With[component.Player]()),
	}
}

func (s *PlayerMoveSystem) Name() string     { return "player_move" }
func (s *PlayerMoveSystem) Writes() []string { return []string{ResPlayerPos} }

func (s *PlayerMoveSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	m := res.Map
	for row := range s.q.Iter(w) {
		e := row.Entity()
		pos := ecs.Field[component.Position](row)
		dest := pos.Point().Add(res.Move.DX, res.Move.DY)
		if !m.InBounds(dest) {
			continue
		}
		for _, t := range m.ContentAt(dest) {
			if t != e && ecs.Has[component.CombatStats](w, t) {
				cmd.Insert(e, ecs.Value(component.WantsToMelee{Target: ecs.RefTo(t)}))
				return
			}
		}
		if m.TileAt(dest) != world.TileWall {
			pos.X, pos.Y = dest.X, dest.Y
		}
		ecs.Field[component.Viewshed](row).Dirty = true
		res.PlayerPos = pos.Point()
	}
}

// GetItemSystem records a pickup intent for an item under the player.
type GetItemSystem struct {
	q *ecs.Query
}

func NewGetItemSystem() *GetItemSystem {
	return &GetItemSystem{
		q: ecs.NewQuery(ecs.Read[component.Position]()).Filter(ecs.With[component.Item]()),
	}
}

func (s *GetItemSystem) Name() string     { return "get_item" }
func (s *GetItemSystem) Writes() []string { return []string{ResGameLog} }

func (s *GetItemSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		if ecs.Field[component.Position](row).Point() != res.PlayerPos {
			continue
		}
		cmd.Spawn(ecs.Value(component.WantsToPickupItem{
			CollectedBy: ecs.RefTo(res.Player),
			Item:        ecs.RefTo(row.Entity()),
		}))
		return
	}
	res.Log.Add("There is nothing here to pick up.")
}

// SkipTurnSystem heals the player by one when no monster is in view.
type SkipTurnSystem struct {
	q *ecs.Query
}

func NewSkipTurnSystem() *SkipTurnSystem {
	return &SkipTurnSystem{
		q: ecs.NewQuery(ecs.Read[component.Viewshed](), ecs.Write[component.CombatStats]()).
			Filter(ecs.With[component.Player]()),
	}
}

func (s *SkipTurnSystem) Name() string { return "skip_turn" }

func (s *SkipTurnSystem) Run(w *ecs.World, _ *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		if monsterInView(w, res.Map, ecs.Field[component.Viewshed](row)) {
			continue
		}
		st := ecs.Field[component.CombatStats](row)
		st.HP = min(st.HP+1, st.MaxHP)
	}
}

func monsterInView(w *ecs.World, m *world.Map, vs *component.Viewshed) bool {
	for _, p := range vs.VisibleTiles {
		for _, e := range m.ContentAt(p) {
			if ecs.HasTag[component.Monster](w, e) {
				return true
			}
		}
	}
	return false
}

// TryDescend reports whether the player stands on down stairs, narrating
// the failure otherwise.
func TryDescend(res *Resources) bool {
	if res.Map.TileAt(res.PlayerPos) == world.TileDownStairs {
		return true
	}
	res.Log.Add("There is no way down from here.")
	return false
}
