package ecs

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrLiveRef is returned when a live reference is marshalled before being
	// converted to its durable key.
	ErrLiveRef = errors.New("ecs: live entity reference must be stored before serialization")
	// ErrPendingRef is returned when a pending reference is used as a handle.
	ErrPendingRef = errors.New("ecs: entity reference is pending resolution")
)

type refState uint8

const (
	refUnset refState = iota
	refLive
	refPending
)

// Ref is a component field naming another entity. During simulation it holds
// a live EntityID; across a save it holds the referent's durable key. Exactly
// one of the two is valid at any time.
type Ref struct {
	state refState
	live  EntityID
	key   string
}

// RefTo returns a live reference to e.
func RefTo(e EntityID) Ref {
	return Ref{state: refLive, live: e}
}

// PendingRef returns a reference awaiting resolution of key.
func PendingRef(key string) Ref {
	return Ref{state: refPending, key: key}
}

func (r Ref) IsLive() bool    { return r.state == refLive }
func (r Ref) IsPending() bool { return r.state == refPending }

// Entity returns the referenced entity. Calling it on a pending or unset
// reference is a programming error.
func (r Ref) Entity() EntityID {
	if r.state != refLive {
		panic(ErrPendingRef)
	}
	return r.live
}

// Key returns the durable key of a pending reference.
func (r Ref) Key() string {
	if r.state != refPending {
		panic("ecs: Key on non-pending reference")
	}
	return r.key
}

// Is reports whether r is live and refers to e.
func (r Ref) Is(e EntityID) bool {
	return r.state == refLive && r.live == e
}

// Store converts a live reference to its durable key.
func (r *Ref) Store() {
	if r.state != refLive {
		return
	}
	r.key = r.live.String()
	r.live = 0
	r.state = refPending
}

// Restore resolves a pending reference through lookup.
func (r *Ref) Restore(lookup func(key string) (EntityID, bool)) error {
	if r.state != refPending {
		return nil
	}
	e, ok := lookup(r.key)
	if !ok {
		return fmt.Errorf("unresolved entity key %q", r.key)
	}
	r.live = e
	r.key = ""
	r.state = refLive
	return nil
}

func (r Ref) String() string {
	switch r.state {
	case refLive:
		return "live:" + r.live.String()
	case refPending:
		return "key:" + r.key
	}
	return "unset"
}

func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.state {
	case refPending:
		return json.Marshal(r.key)
	case refLive:
		return nil, ErrLiveRef
	}
	return []byte("null"), nil
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ref{}
		return nil
	}
	var key string
	if err := json.Unmarshal(b, &key); err != nil {
		return fmt.Errorf("entity reference: %w", err)
	}
	*r = PendingRef(key)
	return nil
}

// RefHolder is implemented (on the pointer) by components embedding entity
// references, so persistence can rewrite them generically.
type RefHolder interface {
	EntityRefs() []*Ref
}
