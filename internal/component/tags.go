package component

// Player marks the player-controlled entity.
type Player struct{}

// Monster marks hostile AI-driven entities.
type Monster struct{}

// Item marks entities that can be picked up.
type Item struct{}

// Consumable marks single-use items.
type Consumable struct{}

// SerializeMe marks entities written to and restored from snapshots.
type SerializeMe struct{}

// BlocksTile marks an entity that occupies its tile for movement.
type BlocksTile struct{}
