package ecs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBufferDefersUntilApply(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	Set(w, a, health{1})
	b := w.Spawn()
	Set(w, b, health{2})

	cb := NewCommandBuffer()
	q := NewQuery(Read[health]())
	for row := range q.Iter(w) {
		cb.Despawn(row.Entity())
		cb.Spawn(Value(position{X: Field[health](row).HP}), Marker[itemTag]())
	}
	assert.Equal(t, 2, q.Count(w), "world unchanged before apply")
	assert.Equal(t, 4, cb.Len())

	assert.Equal(t, 0, cb.Apply(w))
	assert.Equal(t, 0, cb.Len(), "buffer cleared")
	assert.Equal(t, 0, q.Count(w))
	items := w.EntitiesWith(KindOf[itemTag]())
	require.Len(t, items, 2)
	p0, _ := Get[position](w, items[0])
	p1, _ := Get[position](w, items[1])
	assert.ElementsMatch(t, []int{1, 2}, []int{p0.X, p1.X})

	assert.Equal(t, 0, cb.Apply(w), "second apply replays nothing")
	assert.Len(t, w.EntitiesWith(KindOf[itemTag]()), 2)
}

func TestCommandBufferRecordingOrder(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	cb := NewCommandBuffer()
	cb.Insert(e, Value(health{1}))
	cb.Insert(e, Value(health{2}))
	cb.Remove(e, KindOf[position]())
	cb.Insert(e, Value(position{5, 5}), Marker[monsterTag]())
	cb.Apply(w)

	h, _ := Get[health](w, e)
	assert.Equal(t, 2, h.HP, "later insert wins")
	assert.True(t, Has[position](w, e))
	assert.True(t, HasTag[monsterTag](w, e))

	cb.Remove(e, KindOf[monsterTag](), KindOf[health]())
	cb.Apply(w)
	assert.False(t, HasTag[monsterTag](w, e))
	assert.False(t, Has[health](w, e))
}

func TestCommandBufferSkipsDeadTargets(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	cb := NewCommandBuffer()
	cb.Despawn(e)
	cb.Despawn(e)
	cb.Insert(e, Value(health{1}))
	cb.Remove(e, KindOf[health]())
	assert.Equal(t, 3, cb.Apply(w))
	assert.False(t, w.Alive(e))
}

type holder struct {
	Owner Ref `json:"owner"`
	Note  string
}

func (h *holder) EntityRefs() []*Ref { return []*Ref{&h.Owner} }

func TestRefLifecycle(t *testing.T) {
	w := NewWorld()
	owner := w.Spawn()
	h := holder{Owner: RefTo(owner), Note: "x"}
	assert.True(t, h.Owner.Is(owner))

	_, err := json.Marshal(h)
	assert.ErrorIs(t, err, ErrLiveRef)

	for _, r := range h.EntityRefs() {
		r.Store()
	}
	assert.True(t, h.Owner.IsPending())
	assert.Panics(t, func() { h.Owner.Entity() })

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+owner.String()+`","Note":"x"}`, string(raw))

	var back holder
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, owner.String(), back.Owner.Key())

	fresh := w.Spawn()
	err = back.Owner.Restore(func(k string) (EntityID, bool) {
		return fresh, k == owner.String()
	})
	require.NoError(t, err)
	assert.Equal(t, fresh, back.Owner.Entity())

	missing := PendingRef("nope")
	assert.Error(t, missing.Restore(func(string) (EntityID, bool) { return 0, false }))
	assert.True(t, missing.IsPending())
}
