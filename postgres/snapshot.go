package postgres

import (
	"context"
	"database/sql"
	"fmt"

	ledger "github.com/pearltrails/engagement-ledger"
)

// SnapshotStore persists store snapshots in the snapshots table, one row
// per slot.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) ledger.SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

func (s SnapshotStore) Load(ctx context.Context, slot string) ([]byte, error) {
	const query = `
	SELECT body
	FROM snapshots
	WHERE slot = $1`

	var body []byte
	if err := s.db.QueryRowContext(ctx, query, slot).Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading snapshot %q: %w", slot, err)
	}

	return body, nil
}

func (s SnapshotStore) Save(ctx context.Context, slot string, body []byte) error {
	const query = `
	INSERT INTO snapshots (slot, body, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (slot) DO UPDATE
	SET body = EXCLUDED.body, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, slot, body); err != nil {
		return fmt.Errorf("saving snapshot %q: %w", slot, err)
	}

	return nil
}
