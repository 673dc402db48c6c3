package component

import (
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/world"
)

// ProvidesHealing restores HealAmount hit points, capped at max.
type ProvidesHealing struct {
	HealAmount int `json:"heal_amount"`
}

// InflictsDamage deals Damage to every target of the item.
type InflictsDamage struct {
	Damage int `json:"damage"`
}

// Ranged items require a target point within Range tiles.
type Ranged struct {
	Range int `json:"range"`
}

// AreaOfEffect spreads an item's effect over Radius tiles around the target.
type AreaOfEffect struct {
	Radius int `json:"radius"`
}

// EquipmentSlot names where an equippable item is worn.
type EquipmentSlot string

const (
	SlotMelee  EquipmentSlot = "melee"
	SlotShield EquipmentSlot = "shield"
)

// Equippable items are worn instead of consumed.
type Equippable struct {
	Slot EquipmentSlot `json:"slot"`
}

// Equipped records the wearer and slot of a worn item.
type Equipped struct {
	Owner ecs.Ref       `json:"owner"`
	Slot  EquipmentSlot `json:"slot"`
}

func (c *Equipped) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Owner} }

// MeleePowerBonus adds to the wearer's attack.
type MeleePowerBonus struct {
	Power int `json:"power"`
}

// DefenseBonus adds to the wearer's defense.
type DefenseBonus struct {
	Defense int `json:"defense"`
}

// InBackpack records the carrier of an item.
type InBackpack struct {
	Owner ecs.Ref `json:"owner"`
}

func (c *InBackpack) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Owner} }

// WantsToPickupItem is a free-standing pickup intent.
type WantsToPickupItem struct {
	CollectedBy ecs.Ref `json:"collected_by"`
	Item        ecs.Ref `json:"item"`
}

func (c *WantsToPickupItem) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.CollectedBy, &c.Item} }

// WantsToUseItem is attached to the user. Target is nil for self-use.
type WantsToUseItem struct {
	Item   ecs.Ref      `json:"item"`
	Target *world.Point `json:"target,omitempty"`
}

func (c *WantsToUseItem) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Item} }

// WantsToDropItem is attached to the dropper.
type WantsToDropItem struct {
	Item ecs.Ref `json:"item"`
}

func (c *WantsToDropItem) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Item} }

// WantsToRemoveItem is attached to the wearer of an item to unequip.
type WantsToRemoveItem struct {
	Item ecs.Ref `json:"item"`
}

func (c *WantsToRemoveItem) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Item} }
