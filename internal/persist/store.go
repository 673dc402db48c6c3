package persist

import "context"

// Store holds at most one snapshot. A missing snapshot is reported as
// absence, never as an error.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, bool, error)
	Delete(ctx context.Context) error
}
