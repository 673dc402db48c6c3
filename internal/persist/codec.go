package persist

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/core/ecs"
)

// Codec converts between a live World and a Snapshot. Only entities carrying
// the marker tag take part.
type Codec struct {
	reg      *Registry
	marker   ecs.Kind
	log      *zap.Logger
	now      func() time.Time
	requires []requirement
}

// requirement names a tag that at least one loaded entity must carry along
// with every listed component.
type requirement struct {
	tag  string
	with []string
}

func NewCodec(reg *Registry, marker ecs.Kind, log *zap.Logger) *Codec {
	return &Codec{reg: reg, marker: marker, log: log, now: time.Now}
}

// Require makes Load reject snapshots in which no entity carries tag together
// with all of the named components. It returns c.
func (c *Codec) Require(tag string, with ...string) *Codec {
	c.requires = append(c.requires, requirement{tag: tag, with: with})
	return c
}

// satisfied reports whether some owner of r.tag has a record of every
// component r names.
func (r requirement) satisfied(snap *Snapshot) bool {
	for _, owner := range snap.Tags[r.tag] {
		if r.hasAll(snap, owner) {
			return true
		}
	}
	return false
}

func (r requirement) hasAll(snap *Snapshot, owner string) bool {
	for _, name := range r.with {
		found := false
		for _, rec := range snap.Components[name] {
			if rec.Key == owner {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Save captures every marked entity and the level. Component values are
// copied before their references are rewritten, so the live world keeps its
// handles. A reference to an entity that is not saved fails the save.
func (c *Codec) Save(w *ecs.World, level any) (*Snapshot, error) {
	ids := w.EntitiesWith(c.marker)
	keys := make(map[string]struct{}, len(ids))
	snap := &Snapshot{
		ID:         uuid.New(),
		CreatedAt:  c.now().UTC(),
		Entities:   make([]string, 0, len(ids)),
		Components: make(map[string][]Record),
		Tags:       make(map[string][]string),
	}
	for _, e := range ids {
		k := e.String()
		keys[k] = struct{}{}
		snap.Entities = append(snap.Entities, k)
	}

	raw, err := json.Marshal(level)
	if err != nil {
		return nil, fmt.Errorf("encode map: %w", err)
	}
	snap.Map = raw

	for _, ent := range c.reg.entries {
		for _, e := range ids {
			if !w.HasKind(e, ent.kind) {
				continue
			}
			if ent.tag {
				snap.Tags[ent.name] = append(snap.Tags[ent.name], e.String())
				continue
			}
			val, refs, err := ent.encode(w, e)
			if err != nil {
				return nil, err
			}
			for _, k := range refs {
				if _, ok := keys[k]; !ok {
					return nil, fmt.Errorf("%w: %s of %s points at unsaved entity %s", ErrUnresolvedRef, ent.name, e, k)
				}
			}
			snap.Components[ent.name] = append(snap.Components[ent.name], Record{Key: e.String(), Value: val})
		}
	}

	c.log.Debug("snapshot saved",
		zap.String("id", snap.ID.String()),
		zap.Int("entities", len(snap.Entities)))
	return snap, nil
}

type pendingPart struct {
	key string
	d   decoded
}

// Load replaces the marked entities of w with the snapshot's, decoding the
// level into level (a non-nil pointer). Everything is decoded and checked
// before w is touched: on error w and level are unchanged. It returns the
// durable key to new entity mapping.
func (c *Codec) Load(w *ecs.World, snap *Snapshot, level any) (map[string]ecs.EntityID, error) {
	lv := reflect.ValueOf(level)
	if lv.Kind() != reflect.Pointer || lv.IsNil() {
		return nil, fmt.Errorf("load: level must be a non-nil pointer, got %T", level)
	}

	keys := make(map[string]struct{}, len(snap.Entities))
	for _, k := range snap.Entities {
		if k == "" {
			return nil, fmt.Errorf("%w: empty entity key", ErrCorruptSnapshot)
		}
		if _, dup := keys[k]; dup {
			return nil, fmt.Errorf("%w: duplicate entity key %s", ErrCorruptSnapshot, k)
		}
		keys[k] = struct{}{}
	}
	known := func(k string) error {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("%w: record for unknown entity %s", ErrCorruptSnapshot, k)
		}
		return nil
	}

	var parts []pendingPart
	for name, recs := range snap.Components {
		ent, ok := c.reg.byName[name]
		if !ok || ent.tag {
			return nil, fmt.Errorf("%w: unknown component %q", ErrCorruptSnapshot, name)
		}
		for _, rec := range recs {
			if err := known(rec.Key); err != nil {
				return nil, err
			}
			d, err := ent.decode(rec.Value)
			if err != nil {
				return nil, fmt.Errorf("%s of %s: %w", name, rec.Key, err)
			}
			for _, ref := range d.refs {
				if ref.IsLive() {
					return nil, fmt.Errorf("%w: live reference in %s", ErrCorruptSnapshot, name)
				}
				if !ref.IsPending() {
					continue
				}
				if _, ok := keys[ref.Key()]; !ok {
					return nil, fmt.Errorf("%w: %s of %s points at %s", ErrUnresolvedRef, name, rec.Key, ref.Key())
				}
			}
			parts = append(parts, pendingPart{key: rec.Key, d: d})
		}
	}
	for name, owners := range snap.Tags {
		ent, ok := c.reg.byName[name]
		if !ok || !ent.tag {
			return nil, fmt.Errorf("%w: unknown tag %q", ErrCorruptSnapshot, name)
		}
		for _, k := range owners {
			if err := known(k); err != nil {
				return nil, err
			}
			parts = append(parts, pendingPart{key: k, d: decoded{part: ent.marker}})
		}
	}

	for _, r := range c.requires {
		if !r.satisfied(snap) {
			return nil, fmt.Errorf("%w: no %s entity with %v", ErrCorruptSnapshot, r.tag, r.with)
		}
	}

	lvl := reflect.New(lv.Elem().Type())
	if err := json.Unmarshal(snap.Map, lvl.Interface()); err != nil {
		return nil, fmt.Errorf("%w: decode map: %v", ErrCorruptSnapshot, err)
	}
	if v, ok := lvl.Interface().(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: map: %v", ErrCorruptSnapshot, err)
		}
	}

	// Everything is validated; nothing below can fail.
	for _, e := range w.EntitiesWith(c.marker) {
		w.Despawn(e)
	}
	mapping := make(map[string]ecs.EntityID, len(snap.Entities))
	for _, k := range snap.Entities {
		mapping[k] = w.Spawn()
	}
	lookup := func(k string) (ecs.EntityID, bool) {
		e, ok := mapping[k]
		return e, ok
	}
	cmd := ecs.NewCommandBuffer()
	for _, p := range parts {
		for _, ref := range p.d.refs {
			if err := ref.Restore(lookup); err != nil {
				panic("persist: validated reference failed to resolve: " + err.Error())
			}
		}
		cmd.Insert(mapping[p.key], p.d.part())
	}
	cmd.Apply(w)
	lv.Elem().Set(lvl.Elem())

	c.log.Debug("snapshot loaded",
		zap.String("id", snap.ID.String()),
		zap.Int("entities", len(mapping)))
	return mapping, nil
}
