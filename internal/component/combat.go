package component

import "github.com/rlcore/dungeon/internal/core/ecs"

// CombatStats holds health and base combat values.
type CombatStats struct {
	MaxHP   int `json:"max_hp"`
	HP      int `json:"hp"`
	Defense int `json:"defense"`
	Power   int `json:"power"`
}

// WantsToMelee is an attack intent resolved by the melee system.
type WantsToMelee struct {
	Target ecs.Ref `json:"target"`
}

func (c *WantsToMelee) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Target} }

// SufferDamage is a free-standing damage entry naming its victim. The damage
// system applies and deletes it.
type SufferDamage struct {
	Victim ecs.Ref `json:"victim"`
	Amount int     `json:"amount"`
}

func (c *SufferDamage) EntityRefs() []*ecs.Ref { return []*ecs.Ref{&c.Victim} }

// Confusion prevents a monster from acting for Turns monster turns. On an
// item it is the effect applied to targets.
type Confusion struct {
	Turns int `json:"turns"`
}
