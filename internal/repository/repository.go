package repository

import (
	"context"
	"database/sql"
	"time"

	"health_monitor/internal/models"
)

// HistoryRepo persists the serialized alert history snapshot.
type HistoryRepo interface {
	// LoadHistory returns the last saved snapshot, or nil if none was saved.
	LoadHistory(ctx context.Context) ([]byte, error)
	SaveHistory(ctx context.Context, snapshot []byte) error
}

// AlertRepo is the append-only audit log of every emitted alert.
type AlertRepo interface {
	Append(ctx context.Context, a models.Alert) error
	List(ctx context.Context, from, to time.Time, kind string) ([]models.Alert, error)
}

type Repository struct {
	HistoryRepo HistoryRepo
	AlertRepo   AlertRepo
}

// NewRepository wires SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		HistoryRepo: NewHistorySQLite(db),
		AlertRepo:   NewAlertSQLite(db),
	}
}
