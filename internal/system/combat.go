package system

import (
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
)

// Bonus is the equipment contribution to one wearer's combat values.
type Bonus struct {
	Power   int
	Defense int
}

// MeleeDamage returns max(0, offense - defense) where both sides add their
// equipment bonuses to the base stats.
func MeleeDamage(attacker component.CombatStats, atk Bonus, defender component.CombatStats, def Bonus) int {
	return max(0, attacker.Power+atk.Power-(defender.Defense+def.Defense))
}

// EquipmentBonuses sums power and defense bonuses of equipped items per
// wearer. q must declare Read[Equipped] and Optional of both bonus kinds.
func EquipmentBonuses(w *ecs.World, q *ecs.Query) map[ecs.EntityID]Bonus {
	out := make(map[ecs.EntityID]Bonus)
	for row := range q.Iter(w) {
		eq := ecs.Field[component.Equipped](row)
		if !eq.Owner.IsLive() {
			continue
		}
		b := out[eq.Owner.Entity()]
		if p := ecs.Field[component.MeleePowerBonus](row); p != nil {
			b.Power += p.Power
		}
		if d := ecs.Field[component.DefenseBonus](row); d != nil {
			b.Defense += d.Defense
		}
		out[eq.Owner.Entity()] = b
	}
	return out
}

func newEquipmentQuery() *ecs.Query {
	return ecs.NewQuery(
		ecs.Read[component.Equipped](),
		ecs.Optional[component.MeleePowerBonus](),
		ecs.Optional[component.DefenseBonus](),
	)
}

// MeleeCombatSystem resolves WantsToMelee intents into free-standing
// SufferDamage entries.
type MeleeCombatSystem struct {
	q         *ecs.Query
	equipment *ecs.Query
	log       *zap.Logger
}

func NewMeleeCombatSystem(log *zap.Logger) *MeleeCombatSystem {
	return &MeleeCombatSystem{
		log: log,
		q: ecs.NewQuery(
			ecs.Read[component.WantsToMelee](),
			ecs.Read[component.CombatStats](),
		),
		equipment: newEquipmentQuery(),
	}
}

func (s *MeleeCombatSystem) Name() string     { return "melee_combat" }
func (s *MeleeCombatSystem) Writes() []string { return []string{ResGameLog} }

func (s *MeleeCombatSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	bonuses := EquipmentBonuses(w, s.equipment)
	for row := range s.q.Iter(w) {
		e := row.Entity()
		cmd.Remove(e, ecs.KindOf[component.WantsToMelee]())

		stats := ecs.Field[component.CombatStats](row)
		want := ecs.Field[component.WantsToMelee](row)
		if stats.HP <= 0 || !want.Target.IsLive() {
			continue
		}
		target := want.Target.Entity()
		ts, ok := ecs.Get[component.CombatStats](w, target)
		if !ok || ts.HP <= 0 {
			continue
		}
		dmg := MeleeDamage(*stats, bonuses[e], *ts, bonuses[target])
		s.log.Debug("melee resolved",
			zap.Stringer("attacker", e),
			zap.Stringer("target", target),
			zap.Int("damage", dmg))
		if dmg == 0 {
			res.Log.Addf("%s is unable to hurt %s", nameOf(w, e), nameOf(w, target))
			continue
		}
		res.Log.Addf("%s hits %s, for %d hp.", nameOf(w, e), nameOf(w, target), dmg)
		cmd.Spawn(ecs.Value(component.SufferDamage{Victim: ecs.RefTo(target), Amount: dmg}))
	}
}

// DamageSystem applies and consumes SufferDamage entries. The victims'
// CombatStats are written through Get: they belong to other entities and
// are not rows of the query.
type DamageSystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewDamageSystem(log *zap.Logger) *DamageSystem {
	return &DamageSystem{q: ecs.NewQuery(ecs.Read[component.SufferDamage]()), log: log}
}

func (s *DamageSystem) Name() string { return "damage" }

func (s *DamageSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, _ *Resources) {
	for row := range s.q.Iter(w) {
		d := ecs.Field[component.SufferDamage](row)
		if d.Victim.IsLive() {
			if st, ok := ecs.Get[component.CombatStats](w, d.Victim.Entity()); ok {
				st.HP -= d.Amount
			} else {
				s.log.Debug("damage victim has no stats", zap.Stringer("victim", d.Victim.Entity()))
			}
		}
		cmd.Despawn(row.Entity())
	}
}

// DeleteTheDeadSystem removes entities left without health. The player is
// never removed; PlayerDied is emitted instead so the turn machine can end
// the game.
type DeleteTheDeadSystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewDeleteTheDeadSystem(log *zap.Logger) *DeleteTheDeadSystem {
	return &DeleteTheDeadSystem{q: ecs.NewQuery(ecs.Read[component.CombatStats]()), log: log}
}

func (s *DeleteTheDeadSystem) Name() string     { return "delete_the_dead" }
func (s *DeleteTheDeadSystem) Writes() []string { return []string{ResGameLog, ResEvents} }

func (s *DeleteTheDeadSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		if ecs.Field[component.CombatStats](row).HP >= 1 {
			continue
		}
		e := row.Entity()
		if ecs.HasTag[component.Player](w, e) {
			res.Log.Add("You are dead")
			event.Emit(res.Events, event.PlayerDied{Player: e})
			continue
		}
		name := nameOf(w, e)
		s.log.Debug("entity died", zap.Stringer("entity", e), zap.String("name", name))
		res.Log.Addf("%s is dead", name)
		event.Emit(res.Events, event.EntityKilled{Entity: e, Name: name})
		cmd.Despawn(e)
	}
}
