package system

import (
	"testing"

	"github.com/rlcore/dungeon/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type marker struct{ From string }

type trace struct {
	seen []string
}

func TestSchedulerFlushVisibility(t *testing.T) {
	w := ecs.NewWorld()
	tr := &trace{}
	count := func(w *ecs.World) int { return len(w.EntitiesWith(ecs.KindOf[marker]())) }

	spawner := Func[*trace]{Label: "spawner", Fn: func(w *ecs.World, cmd *ecs.CommandBuffer, res *trace) {
		cmd.Spawn(ecs.Value(marker{From: "spawner"}))
	}}
	sibling := Func[*trace]{Label: "sibling", Fn: func(w *ecs.World, cmd *ecs.CommandBuffer, res *trace) {
		if count(w) == 0 {
			res.seen = append(res.seen, "sibling:none")
		}
	}}
	later := Func[*trace]{Label: "later", Fn: func(w *ecs.World, cmd *ecs.CommandBuffer, res *trace) {
		if count(w) == 1 {
			res.seen = append(res.seen, "later:one")
		}
	}}

	s := NewScheduler[*trace]("test", zap.NewNop())
	s.Register(spawner, sibling).Flush().Register(later)
	assert.Equal(t, 3, s.Len())

	stats := s.Run(w, tr)
	assert.Equal(t, []string{"sibling:none", "later:one"}, tr.seen)
	assert.Equal(t, 2, stats.Groups)
	assert.Equal(t, 1, stats.Commands)
	assert.Equal(t, 1, count(w))

	s.Run(w, tr)
	assert.Equal(t, 2, count(w), "buffers are replayed once per run")
}

func TestSchedulerAppliesGroupBuffersInDeclarationOrder(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Spawn()
	first := Func[*trace]{Label: "first", Fn: func(w *ecs.World, cmd *ecs.CommandBuffer, _ *trace) {
		cmd.Insert(e, ecs.Value(marker{From: "first"}))
	}}
	second := Func[*trace]{Label: "second", Fn: func(w *ecs.World, cmd *ecs.CommandBuffer, _ *trace) {
		cmd.Insert(e, ecs.Value(marker{From: "second"}))
	}}
	NewScheduler[*trace]("order", zap.NewNop()).Register(first, second).Run(w, &trace{})
	m, _ := ecs.Get[marker](w, e)
	assert.Equal(t, "second", m.From)
}

func TestSchedulerRejectsConflictingWriters(t *testing.T) {
	a := Func[*trace]{Label: "a", Resources: []string{"map"}, Fn: func(*ecs.World, *ecs.CommandBuffer, *trace) {}}
	b := Func[*trace]{Label: "b", Resources: []string{"log", "map"}, Fn: func(*ecs.World, *ecs.CommandBuffer, *trace) {}}

	assert.Panics(t, func() {
		NewScheduler[*trace]("conflict", zap.NewNop()).Register(a, b)
	})
	assert.NotPanics(t, func() {
		NewScheduler[*trace]("split", zap.NewNop()).Register(a).Flush().Register(b)
	})
}
