package event

import (
	"testing"

	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/stretchr/testify/assert"
)

func TestBusDeliversAfterSwap(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e EntityKilled) { got = append(got, e.Name) })
	Subscribe(b, func(e PlayerDied) { got = append(got, "player") })

	Emit(b, EntityKilled{Name: "orc"})
	Emit(b, PlayerDied{Player: ecs.EntityID(1)})
	Emit(b, EntityKilled{Name: "goblin"})
	assert.Equal(t, 3, b.Pending())

	b.DispatchAll()
	assert.Empty(t, got, "back buffer is not readable before swap")

	b.Flush()
	assert.Equal(t, []string{"orc", "player", "goblin"}, got)
	assert.Equal(t, 0, b.Pending())

	b.Flush()
	assert.Len(t, got, 3, "events are delivered once")
}

func TestBusIgnoresUnsubscribedTypes(t *testing.T) {
	b := NewBus()
	Emit(b, ItemConsumed{})
	assert.NotPanics(t, b.Flush)
}
