package persist

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCorruptSnapshot is returned when a snapshot is unreadable, malformed
	// or inconsistent.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	// ErrUnresolvedRef is returned when a stored entity reference names a key
	// that is not part of the snapshot.
	ErrUnresolvedRef = errors.New("unresolved entity reference")
)

// Record is one component value keyed by its owner's durable key.
type Record struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Snapshot is a self-contained serialized world: the level verbatim, the
// durable keys of every persisted entity, their component values per kind and
// their tag memberships per tag.
type Snapshot struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Map        json.RawMessage     `json:"map"`
	Entities   []string            `json:"entities"`
	Components map[string][]Record `json:"components"`
	Tags       map[string][]string `json:"tags"`
}
