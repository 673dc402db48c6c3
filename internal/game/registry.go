package game

import (
	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/persist"
)

// NewSnapshotRegistry registers every saved component and tag. Names are the
// snapshot's wire format; never rename one without a migration.
func NewSnapshotRegistry() *persist.Registry {
	r := persist.NewRegistry()

	persist.RegisterComponent[component.Position](r, "position")
	persist.RegisterComponent[component.Renderable](r, "renderable")
	persist.RegisterComponent[component.Viewshed](r, "viewshed")
	persist.RegisterComponent[component.Name](r, "name")
	persist.RegisterComponent[component.CombatStats](r, "combat_stats")
	persist.RegisterComponent[component.WantsToMelee](r, "wants_to_melee")
	persist.RegisterComponent[component.SufferDamage](r, "suffer_damage")
	persist.RegisterComponent[component.Confusion](r, "confusion")

	persist.RegisterComponent[component.ProvidesHealing](r, "provides_healing")
	persist.RegisterComponent[component.InflictsDamage](r, "inflicts_damage")
	persist.RegisterComponent[component.Ranged](r, "ranged")
	persist.RegisterComponent[component.AreaOfEffect](r, "area_of_effect")
	persist.RegisterComponent[component.Equippable](r, "equippable")
	persist.RegisterComponent[component.Equipped](r, "equipped")
	persist.RegisterComponent[component.MeleePowerBonus](r, "melee_power_bonus")
	persist.RegisterComponent[component.DefenseBonus](r, "defense_bonus")
	persist.RegisterComponent[component.InBackpack](r, "in_backpack")
	persist.RegisterComponent[component.WantsToPickupItem](r, "wants_to_pickup_item")
	persist.RegisterComponent[component.WantsToUseItem](r, "wants_to_use_item")
	persist.RegisterComponent[component.WantsToDropItem](r, "wants_to_drop_item")
	persist.RegisterComponent[component.WantsToRemoveItem](r, "wants_to_remove_item")

	persist.RegisterTag[component.Player](r, "player")
	persist.RegisterTag[component.Monster](r, "monster")
	persist.RegisterTag[component.Item](r, "item")
	persist.RegisterTag[component.Consumable](r, "consumable")
	persist.RegisterTag[component.BlocksTile](r, "blocks_tile")
	persist.RegisterTag[component.SerializeMe](r, "serialize_me")
	return r
}
