package system

import (
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
	"github.com/rlcore/dungeon/internal/world"
)

// InventorySystem moves picked-up items from the map into their collector's
// backpack.
type InventorySystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewInventorySystem(log *zap.Logger) *InventorySystem {
	return &InventorySystem{q: ecs.NewQuery(ecs.Read[component.WantsToPickupItem]()), log: log}
}

func (s *InventorySystem) Name() string     { return "inventory_pickup" }
func (s *InventorySystem) Writes() []string { return []string{ResGameLog} }

func (s *InventorySystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		p := ecs.Field[component.WantsToPickupItem](row)
		cmd.Despawn(row.Entity())
		if !p.Item.IsLive() || !p.CollectedBy.IsLive() {
			continue
		}
		item, owner := p.Item.Entity(), p.CollectedBy.Entity()
		s.log.Debug("item picked up", zap.Stringer("item", item), zap.Stringer("owner", owner))
		cmd.Remove(item, ecs.KindOf[component.Position]())
		cmd.Insert(item, ecs.Value(component.InBackpack{Owner: ecs.RefTo(owner)}))
		if owner == res.Player {
			res.Log.Addf("You pick up the %s.", nameOf(w, item))
		}
	}
}

// ItemUseSystem resolves WantsToUseItem: it picks targets, applies healing,
// damage and confusion, equips wearables and consumes single-use items.
type ItemUseSystem struct {
	q        *ecs.Query
	equipped *ecs.Query
	log      *zap.Logger
}

func NewItemUseSystem(log *zap.Logger) *ItemUseSystem {
	return &ItemUseSystem{
		log:      log,
		q:        ecs.NewQuery(ecs.Read[component.WantsToUseItem]()),
		equipped: ecs.NewQuery(ecs.Read[component.Equipped]()),
	}
}

func (s *ItemUseSystem) Name() string     { return "item_use" }
func (s *ItemUseSystem) Writes() []string { return []string{ResGameLog, ResEvents} }

func (s *ItemUseSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		user := row.Entity()
		use := ecs.Field[component.WantsToUseItem](row)
		cmd.Remove(user, ecs.KindOf[component.WantsToUseItem]())
		if !use.Item.IsLive() || !w.Alive(use.Item.Entity()) {
			continue
		}
		item := use.Item.Entity()
		itemName := nameOf(w, item)
		byPlayer := user == res.Player
		targets := s.targets(w, res.Map, user, item, use.Target)
		s.log.Debug("item used",
			zap.Stringer("user", user),
			zap.String("item", itemName),
			zap.Int("targets", len(targets)))

		if eq, ok := ecs.Get[component.Equippable](w, item); ok {
			s.equip(w, cmd, res, user, item, eq.Slot)
		}

		if heal, ok := ecs.Get[component.ProvidesHealing](w, item); ok {
			for _, t := range targets {
				st, ok := ecs.Get[component.CombatStats](w, t)
				if !ok {
					continue
				}
				st.HP = min(st.MaxHP, st.HP+heal.HealAmount)
				if byPlayer {
					res.Log.Addf("You use the %s, healing %d hp.", itemName, heal.HealAmount)
				}
			}
		}

		if dmg, ok := ecs.Get[component.InflictsDamage](w, item); ok {
			for _, t := range targets {
				if !ecs.Has[component.CombatStats](w, t) {
					continue
				}
				cmd.Spawn(ecs.Value(component.SufferDamage{Victim: ecs.RefTo(t), Amount: dmg.Damage}))
				if byPlayer {
					res.Log.Addf("You use %s on %s, inflicting %d hp.", itemName, nameOf(w, t), dmg.Damage)
				}
			}
		}

		if conf, ok := ecs.Get[component.Confusion](w, item); ok {
			for _, t := range targets {
				if !ecs.Has[component.CombatStats](w, t) {
					continue
				}
				cmd.Insert(t, ecs.Value(component.Confusion{Turns: conf.Turns}))
				if byPlayer {
					res.Log.Addf("You use %s on %s, confusing them.", itemName, nameOf(w, t))
				}
			}
		}

		if ecs.HasTag[component.Consumable](w, item) && !ecs.Has[component.Equippable](w, item) {
			cmd.Despawn(item)
			event.Emit(res.Events, event.ItemConsumed{Item: item, User: user})
		}
	}
}

// targets resolves who an item affects: the user when no point is given,
// the occupants of the point, or every occupant within the blast radius.
func (s *ItemUseSystem) targets(w *ecs.World, m *world.Map, user, item ecs.EntityID, at *world.Point) []ecs.EntityID {
	if at == nil {
		return []ecs.EntityID{user}
	}
	aoe, ok := ecs.Get[component.AreaOfEffect](w, item)
	if !ok {
		return append([]ecs.EntityID(nil), m.ContentAt(*at)...)
	}
	var out []ecs.EntityID
	for _, p := range m.RetainInterior(world.FieldOfView(*at, aoe.Radius, m)) {
		out = append(out, m.ContentAt(p)...)
	}
	return out
}

// equip wears item in slot, first returning whatever owner already wears
// there to the backpack.
func (s *ItemUseSystem) equip(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources, owner, item ecs.EntityID, slot component.EquipmentSlot) {
	for row := range s.equipped.Iter(w) {
		eq := ecs.Field[component.Equipped](row)
		other := row.Entity()
		if other == item || eq.Slot != slot || !eq.Owner.Is(owner) {
			continue
		}
		cmd.Remove(other, ecs.KindOf[component.Equipped]())
		cmd.Insert(other, ecs.Value(component.InBackpack{Owner: ecs.RefTo(owner)}))
		if owner == res.Player {
			res.Log.Addf("You unequip %s.", nameOf(w, other))
		}
	}
	cmd.Remove(item, ecs.KindOf[component.InBackpack]())
	cmd.Insert(item, ecs.Value(component.Equipped{Owner: ecs.RefTo(owner), Slot: slot}))
	if owner == res.Player {
		res.Log.Addf("You equip %s.", nameOf(w, item))
	}
}

// ItemDropSystem places dropped items at the dropper's feet.
type ItemDropSystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewItemDropSystem(log *zap.Logger) *ItemDropSystem {
	return &ItemDropSystem{
		log: log,
		q:   ecs.NewQuery(ecs.Read[component.WantsToDropItem](), ecs.Read[component.Position]()),
	}
}

func (s *ItemDropSystem) Name() string     { return "item_drop" }
func (s *ItemDropSystem) Writes() []string { return []string{ResGameLog} }

func (s *ItemDropSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		e := row.Entity()
		drop := ecs.Field[component.WantsToDropItem](row)
		cmd.Remove(e, ecs.KindOf[component.WantsToDropItem]())
		if !drop.Item.IsLive() {
			continue
		}
		item := drop.Item.Entity()
		s.log.Debug("item dropped", zap.Stringer("item", item), zap.Stringer("by", e))
		cmd.Insert(item, ecs.Value(*ecs.Field[component.Position](row)))
		cmd.Remove(item, ecs.KindOf[component.InBackpack](), ecs.KindOf[component.Equipped]())
		if e == res.Player {
			res.Log.Addf("You drop the %s.", nameOf(w, item))
		}
	}
}

// ItemRemoveSystem unequips items back into the wearer's backpack.
type ItemRemoveSystem struct {
	q   *ecs.Query
	log *zap.Logger
}

func NewItemRemoveSystem(log *zap.Logger) *ItemRemoveSystem {
	return &ItemRemoveSystem{q: ecs.NewQuery(ecs.Read[component.WantsToRemoveItem]()), log: log}
}

func (s *ItemRemoveSystem) Name() string     { return "item_remove" }
func (s *ItemRemoveSystem) Writes() []string { return []string{ResGameLog} }

func (s *ItemRemoveSystem) Run(w *ecs.World, cmd *ecs.CommandBuffer, res *Resources) {
	for row := range s.q.Iter(w) {
		e := row.Entity()
		rm := ecs.Field[component.WantsToRemoveItem](row)
		cmd.Remove(e, ecs.KindOf[component.WantsToRemoveItem]())
		if !rm.Item.IsLive() {
			continue
		}
		item := rm.Item.Entity()
		s.log.Debug("item unequipped", zap.Stringer("item", item), zap.Stringer("by", e))
		cmd.Remove(item, ecs.KindOf[component.Equipped]())
		cmd.Insert(item, ecs.Value(component.InBackpack{Owner: ecs.RefTo(e)}))
		if e == res.Player {
			res.Log.Addf("You unequip %s.", nameOf(w, item))
		}
	}
}
