package ecs

// Registry tracks all component and tag stores by kind and supports bulk
// cleanup on entity destroy.
type Registry struct {
	stores map[Kind]Removable
	order  []Kind
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[Kind]Removable, 32),
		order:  make([]Kind, 0, 32),
	}
}

// Register adds a store for kind k. Registering a kind twice panics.
func (r *Registry) Register(k Kind, store Removable) {
	if _, dup := r.stores[k]; dup {
		panic("ecs: store for " + k.String() + " registered twice")
	}
	r.stores[k] = store
	r.order = append(r.order, k)
}

// Lookup returns the store for kind k.
func (r *Registry) Lookup(k Kind) (Removable, bool) {
	s, ok := r.stores[k]
	return s, ok
}

// Kinds returns every registered kind in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}

// RemoveAll clears the given entity from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, k := range r.order {
		r.stores[k].Remove(id)
	}
}
