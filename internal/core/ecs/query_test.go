package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatchesRequiredAndOptional(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	Set(w, a, position{1, 1})
	Set(w, a, health{10})
	b := w.Spawn()
	Set(w, b, position{2, 2})
	c := w.Spawn()
	Set(w, c, health{4})

	q := NewQuery(Read[position](), Optional[health]())
	var seen []EntityID
	var healths []*health
	for row := range q.Iter(w) {
		seen = append(seen, row.Entity())
		healths = append(healths, Field[health](row))
	}
	assert.Equal(t, []EntityID{a, b}, seen)
	require.NotNil(t, healths[0])
	assert.Equal(t, 10, healths[0].HP)
	assert.Nil(t, healths[1])
}

func TestQueryWriteIsVisible(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Set(w, e, health{1})

	for row := range NewQuery(Write[health]()).Iter(w) {
		Field[health](row).HP = 7
	}
	h, _ := Get[health](w, e)
	assert.Equal(t, 7, h.HP)
}

func TestReadAccessIsNotEnforced(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Set(w, e, health{3})

	for row := range NewQuery(Read[health]()).Iter(w) {
		stored, _ := Get[health](w, e)
		assert.Same(t, stored, Field[health](row))
	}
}

func TestQueryTagFilters(t *testing.T) {
	w := NewWorld()
	m := w.Spawn()
	Set(w, m, position{})
	AddTag[monsterTag](w, m)
	i := w.Spawn()
	Set(w, i, position{})
	AddTag[itemTag](w, i)

	monsters := NewQuery(Read[position]()).Filter(With[monsterTag]())
	assert.Equal(t, []EntityID{m}, monsters.Entities(w))

	notMonsters := NewQuery(Read[position]()).Filter(Without[monsterTag]())
	assert.Equal(t, []EntityID{i}, notMonsters.Entities(w))

	untagged := NewQuery(Read[position]()).Filter(With[struct{ unused bool }]())
	assert.Empty(t, untagged.Entities(w))
}

func TestQueryMisusePanics(t *testing.T) {
	assert.Panics(t, func() { NewQuery(Write[health](), Write[health]()) })
	assert.Panics(t, func() { NewQuery(Read[health](), Write[health]()) })
	assert.Panics(t, func() { NewQuery(Read[health]()).Filter(With[health]()) })

	w := NewWorld()
	e := w.Spawn()
	Set(w, e, health{1})
	Set(w, e, position{})

	assert.Panics(t, func() {
		for row := range NewQuery(Read[health]()).Iter(w) {
			_ = Field[position](row)
		}
	}, "undeclared field access")

	assert.Panics(t, func() { NewQuery(Optional[health]()).Count(w) }, "no required terms")
}

func TestQuerySequenceIsSingleUse(t *testing.T) {
	w := NewWorld()
	Set(w, w.Spawn(), health{1})
	seq := NewQuery(Read[health]()).Iter(w)
	for range seq {
	}
	assert.Panics(t, func() {
		for range seq {
		}
	})
}

func TestStructuralChangeDuringIterationPanics(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Set(w, e, health{1})

	assert.Panics(t, func() {
		for row := range NewQuery(Read[health]()).Iter(w) {
			w.Despawn(row.Entity())
		}
	})
	assert.Panics(t, func() {
		for row := range NewQuery(Read[health]()).Iter(w) {
			Set(w, row.Entity(), position{})
		}
	})
	assert.Panics(t, func() {
		for range NewQuery(Read[health]()).Iter(w) {
			w.Spawn()
		}
	})

	// the guard is released once ranging stops, even via break
	for range NewQuery(Read[health]()).Iter(w) {
		break
	}
	assert.NotPanics(t, func() { w.Despawn(e) })
}

func TestQueryNeverYieldsDeletedEntities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := NewWorld()
	alive := map[EntityID]bool{}
	q := NewQuery(Read[health]())

	for step := 0; step < 500; step++ {
		if len(alive) == 0 || rng.Intn(3) > 0 {
			e := w.Spawn()
			Set(w, e, health{step})
			alive[e] = true
		} else {
			for e := range alive {
				w.Despawn(e)
				delete(alive, e)
				_, ok := Get[health](w, e)
				require.False(t, ok)
				break
			}
		}
		n := 0
		for row := range q.Iter(w) {
			require.True(t, alive[row.Entity()], "deleted entity %s yielded", row.Entity())
			n++
		}
		require.Equal(t, len(alive), n)
	}
}
