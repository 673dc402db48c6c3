package ecs

import "fmt"

// World is the top-level ECS container. It owns the entity pool and the
// store registry. Structural changes are refused while a query iterates; use
// a CommandBuffer to defer them.
type World struct {
	pool      *EntityPool
	registry  *Registry
	iterating int
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// Spawn allocates a fresh entity with no components.
func (w *World) Spawn() EntityID {
	w.mustNotIterate("Spawn")
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Despawn removes every component and tag of id and invalidates it.
func (w *World) Despawn(id EntityID) {
	w.mustAlive(id, "Despawn")
	w.mustNotIterate("Despawn")
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// Entities returns every live entity in ascending order.
func (w *World) Entities() []EntityID { return w.pool.Live() }

// EntitiesWith returns, in ascending order, the live entities holding the
// component or tag identified by k.
func (w *World) EntitiesWith(k Kind) []EntityID {
	s, ok := w.registry.Lookup(k)
	if !ok {
		return nil
	}
	return s.IDs()
}

// HasKind reports whether id holds the component or tag identified by k.
func (w *World) HasKind(id EntityID, k Kind) bool {
	if !w.Alive(id) {
		return false
	}
	s, ok := w.registry.Lookup(k)
	return ok && s.Has(id)
}

// RemoveKind detaches the component or tag identified by k from id.
func (w *World) RemoveKind(id EntityID, k Kind) {
	w.mustAlive(id, "Remove")
	s, ok := w.registry.Lookup(k)
	if !ok || !s.Has(id) {
		return
	}
	w.mustNotIterate("Remove")
	s.Remove(id)
}

// Set attaches v to e, replacing any existing value of the same kind.
// Replacing a value is not a structural change; adding a new kind is.
func Set[T any](w *World, e EntityID, v T) {
	w.mustAlive(e, "Set")
	s := componentStore[T](w)
	if c, ok := s.Get(e); ok {
		*c = v
		return
	}
	w.mustNotIterate("Set")
	s.Set(e, &v)
}

// Get returns a mutable pointer to e's component of type T. Dead entities
// have no components.
func Get[T any](w *World, e EntityID) (*T, bool) {
	if !w.Alive(e) {
		return nil, false
	}
	s, ok := lookupComponentStore[T](w)
	if !ok {
		return nil, false
	}
	return s.Get(e)
}

// Has reports whether e holds a component of type T.
func Has[T any](w *World, e EntityID) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove detaches e's component of type T, if any.
func Remove[T any](w *World, e EntityID) {
	w.RemoveKind(e, KindOf[T]())
}

// Store returns the typed store for T, creating it on first use.
func Store[T any](w *World) *PtrComponentStore[T] {
	return componentStore[T](w)
}

func componentStore[T any](w *World) *PtrComponentStore[T] {
	if s, ok := lookupComponentStore[T](w); ok {
		return s
	}
	s := NewPtrComponentStore[T]()
	w.registry.Register(KindOf[T](), s)
	return s
}

func lookupComponentStore[T any](w *World) (*PtrComponentStore[T], bool) {
	k := KindOf[T]()
	s, ok := w.registry.Lookup(k)
	if !ok {
		return nil, false
	}
	ps, isComp := s.(*PtrComponentStore[T])
	if !isComp {
		panic("ecs: " + k.String() + " is registered as a tag, not a component")
	}
	return ps, true
}

func (w *World) mustAlive(id EntityID, op string) {
	if !w.pool.Alive(id) {
		panic(fmt.Sprintf("ecs: %s on dead entity %s", op, id))
	}
}

func (w *World) mustNotIterate(op string) {
	if w.iterating > 0 {
		panic("ecs: " + op + " during query iteration; record it in a CommandBuffer")
	}
}
