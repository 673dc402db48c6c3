package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y int }
type health struct{ HP int }
type monsterTag struct{}
type itemTag struct{}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero())
	assert.True(t, p.Alive(a))

	assert.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "stale destroy is a no-op")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.NotEqual(t, a, b, "identity is not")
	assert.NotEqual(t, a.String(), b.String())
	assert.Equal(t, 1, p.Len())
}

func TestEntitiesListsOnlyLive(t *testing.T) {
	w := NewWorld()
	a, b, c := w.Spawn(), w.Spawn(), w.Spawn()
	w.Despawn(b)
	assert.Equal(t, []EntityID{a, c}, w.Entities())
	d := w.Spawn()
	assert.ElementsMatch(t, []EntityID{a, c, d}, w.Entities())
	assert.Len(t, w.Entities(), w.Len())
}

func TestSetGetRemove(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	_, ok := Get[position](w, e)
	assert.False(t, ok)

	Set(w, e, position{X: 1, Y: 2})
	pos, ok := Get[position](w, e)
	require.True(t, ok)
	assert.Equal(t, position{1, 2}, *pos)

	pos.X = 9
	again, _ := Get[position](w, e)
	assert.Equal(t, 9, again.X, "Get hands out a mutable pointer")

	Set(w, e, position{X: 3})
	again, _ = Get[position](w, e)
	assert.Equal(t, position{X: 3}, *again)

	Remove[position](w, e)
	assert.False(t, Has[position](w, e))
}

func TestTags(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.False(t, HasTag[monsterTag](w, e))
	AddTag[monsterTag](w, e)
	AddTag[monsterTag](w, e)
	assert.True(t, HasTag[monsterTag](w, e))
	assert.Equal(t, []EntityID{e}, w.EntitiesWith(KindOf[monsterTag]()))
	RemoveTag[monsterTag](w, e)
	assert.False(t, HasTag[monsterTag](w, e))
}

func TestDespawnClearsEverything(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Set(w, e, position{1, 1})
	Set(w, e, health{5})
	AddTag[monsterTag](w, e)

	w.Despawn(e)
	assert.False(t, w.Alive(e))
	assert.False(t, Has[position](w, e))
	assert.False(t, Has[health](w, e))
	assert.False(t, HasTag[monsterTag](w, e))
	assert.Empty(t, w.EntitiesWith(KindOf[position]()))
	assert.Equal(t, 0, w.Len())
}

func TestDeadEntityMutationPanics(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	w.Despawn(e)

	assert.Panics(t, func() { Set(w, e, position{}) })
	assert.Panics(t, func() { AddTag[monsterTag](w, e) })
	assert.Panics(t, func() { w.Despawn(e) })
	assert.Panics(t, func() { Remove[position](w, e) })
}

func TestKindConfusionPanics(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	AddTag[monsterTag](w, e)
	assert.Panics(t, func() { Set(w, e, monsterTag{}) })
}

func TestRecycledIndexDoesNotInheritComponents(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	Set(w, a, health{3})
	w.Despawn(a)

	b := w.Spawn()
	require.Equal(t, a.Index(), b.Index())
	assert.False(t, Has[health](w, b))
	_, ok := Get[health](w, a)
	assert.False(t, ok)
}
