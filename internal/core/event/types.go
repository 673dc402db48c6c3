package event

import "github.com/rlcore/dungeon/internal/core/ecs"

// PlayerDied is emitted when the player's health drops below 1.
type PlayerDied struct {
	Player ecs.EntityID
}

// EntityKilled is emitted when a non-player entity is removed for having no
// health left.
type EntityKilled struct {
	Entity ecs.EntityID
	Name   string
}

// ItemConsumed is emitted when a single-use item is used up.
type ItemConsumed struct {
	Item ecs.EntityID
	User ecs.EntityID
}
