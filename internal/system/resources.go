package system

import (
	"math/rand"

	"github.com/rlcore/dungeon/internal/component"
	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/rlcore/dungeon/internal/core/event"
	"github.com/rlcore/dungeon/internal/turn"
	"github.com/rlcore/dungeon/internal/world"
)

// Resource names declared by systems that write them.
const (
	ResMap       = "map"
	ResGameLog   = "gamelog"
	ResPlayerPos = "player_pos"
	ResEvents    = "events"
)

// MoveDelta is the pending player step consumed by the move pipeline.
type MoveDelta struct {
	DX, DY int
}

// Resources are the process-wide singletons injected into every system run.
// Systems must not keep them past Run.
type Resources struct {
	Map       *world.Map
	Log       *world.GameLog
	Player    ecs.EntityID
	PlayerPos world.Point
	Phase     turn.Kind
	Events    *event.Bus
	Rng       *rand.Rand
	Move      MoveDelta
}

// nameOf returns the display name of e, or a placeholder when e has none.
func nameOf(w *ecs.World, e ecs.EntityID) string {
	if n, ok := ecs.Get[component.Name](w, e); ok {
		return n.Name
	}
	return "something"
}
