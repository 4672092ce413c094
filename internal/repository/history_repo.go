package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type HistorySQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite {
	return &HistorySQLite{db: db, now: time.Now}
}

// Ensure implementation of HistoryRepo interface at compile time.
var _ HistoryRepo = (*HistorySQLite)(nil)

const (
	historySnapshotRowID = 1

	upsertHistorySQL = `
		INSERT INTO history_snapshot (id, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload=excluded.payload,
			saved_at=excluded.saved_at
	`

	selectHistorySQL = `SELECT payload FROM history_snapshot WHERE id=?`
)

// SaveHistory updates or inserts the single snapshot row (id always 1).
func (r *HistorySQLite) SaveHistory(ctx context.Context, snapshot []byte) error {
	_, err := r.db.ExecContext(ctx, upsertHistorySQL,
		historySnapshotRowID,
		string(snapshot),
		r.now().UTC(),
	)
	return err
}

// LoadHistory fetches the snapshot row; (nil, nil) if nothing was saved yet.
func (r *HistorySQLite) LoadHistory(ctx context.Context) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, selectHistorySQL, historySnapshotRowID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(payload), nil
}
