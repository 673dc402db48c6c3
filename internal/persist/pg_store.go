package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PGStore keeps one snapshot per slot in the snapshots table.
type PGStore struct {
	db   *DB
	slot string
	log  *zap.Logger
}

func NewPGStore(db *DB, slot string, log *zap.Logger) *PGStore {
	return &PGStore{db: db, slot: slot, log: log}
}

func (s *PGStore) Exists(ctx context.Context) (bool, error) {
	var ok bool
	err := s.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM snapshots WHERE slot = $1)`, s.slot,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("snapshot exists: %w", err)
	}
	return ok, nil
}

func (s *PGStore) Save(ctx context.Context, snap *Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO snapshots (slot, snapshot_id, created_at, checksum, body)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slot) DO UPDATE SET
		   snapshot_id = EXCLUDED.snapshot_id,
		   created_at  = EXCLUDED.created_at,
		   checksum    = EXCLUDED.checksum,
		   body        = EXCLUDED.body,
		   saved_at    = now()`,
		s.slot, snap.ID.String(), snap.CreatedAt, checksum(body), body,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.log.Info("snapshot written", zap.String("slot", s.slot), zap.Int("bytes", len(body)))
	return nil
}

func (s *PGStore) Load(ctx context.Context) (*Snapshot, bool, error) {
	var (
		body []byte
		sum  string
	)
	err := s.db.Pool.QueryRow(ctx,
		`SELECT body, checksum FROM snapshots WHERE slot = $1`, s.slot,
	).Scan(&body, &sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	snap, err := decodeBody(body, sum)
	if err != nil {
		return nil, false, fmt.Errorf("slot %s: %w", s.slot, err)
	}
	return snap, true, nil
}

func (s *PGStore) Delete(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM snapshots WHERE slot = $1`, s.slot); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
