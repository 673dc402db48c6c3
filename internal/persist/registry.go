package persist

import (
	"encoding/json"
	"fmt"

	"github.com/rlcore/dungeon/internal/core/ecs"
)

// decoded is one component value read from a snapshot whose entity
// references are still pending.
type decoded struct {
	refs []*ecs.Ref
	part func() ecs.Part
}

// entry is the (kind, encoder, decoder, reference rewriter) tuple for one
// persistable kind.
type entry struct {
	name string
	kind ecs.Kind
	tag  bool

	// components only
	encode func(w *ecs.World, e ecs.EntityID) (json.RawMessage, []string, error)
	decode func(raw json.RawMessage) (decoded, error)

	// tags only
	marker func() ecs.Part
}

// Registry lists the component and tag kinds a Codec persists, under stable
// names. Kinds not registered are neither saved nor restored.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
	byKind  map[ecs.Kind]*entry
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*entry),
		byKind: make(map[ecs.Kind]*entry),
	}
}

func (r *Registry) add(e *entry) {
	if _, dup := r.byName[e.name]; dup {
		panic("persist: duplicate name " + e.name)
	}
	if _, dup := r.byKind[e.kind]; dup {
		panic("persist: " + e.kind.String() + " registered twice")
	}
	r.entries = append(r.entries, e)
	r.byName[e.name] = e
	r.byKind[e.kind] = e
}

// RegisterComponent makes component T persistable under name. If *T
// implements ecs.RefHolder its references are rewritten to durable keys on
// save and resolved on load.
func RegisterComponent[T any](r *Registry, name string) {
	r.add(&entry{
		name: name,
		kind: ecs.KindOf[T](),
		encode: func(w *ecs.World, e ecs.EntityID) (json.RawMessage, []string, error) {
			c, ok := ecs.Get[T](w, e)
			if !ok {
				return nil, nil, nil
			}
			v := *c
			var keys []string
			if h, ok := any(&v).(ecs.RefHolder); ok {
				for _, ref := range h.EntityRefs() {
					ref.Store()
					if ref.IsPending() {
						keys = append(keys, ref.Key())
					}
				}
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s of %s: %w", name, e, err)
			}
			return raw, keys, nil
		},
		decode: func(raw json.RawMessage) (decoded, error) {
			v := new(T)
			if err := json.Unmarshal(raw, v); err != nil {
				return decoded{}, fmt.Errorf("%w: decode %s: %v", ErrCorruptSnapshot, name, err)
			}
			d := decoded{part: func() ecs.Part { return ecs.Value(*v) }}
			if h, ok := any(v).(ecs.RefHolder); ok {
				d.refs = h.EntityRefs()
			}
			return d, nil
		},
	})
}

// RegisterTag makes tag T persistable under name.
func RegisterTag[T any](r *Registry, name string) {
	r.add(&entry{name: name, kind: ecs.KindOf[T](), tag: true, marker: ecs.Marker[T]})
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}
