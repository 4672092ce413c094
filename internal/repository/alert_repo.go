package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"health_monitor/internal/models"

	"github.com/google/uuid"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

// Ensure implementation of AlertRepo interface at compile time.
var _ AlertRepo = (*AlertSQLite)(nil)

const insertAlertSQL = `
		INSERT INTO alert_log (id, occurred_at, kind, message, heart_rate, blood_oxygen)
		VALUES (?, ?, ?, ?, ?, ?)
	`

// Append inserts a new alert. If ID or OccurredAt are empty, they’re set.
func (r *AlertSQLite) Append(ctx context.Context, a models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	} else {
		a.OccurredAt = a.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID,
		a.OccurredAt,
		strings.ToLower(strings.TrimSpace(string(a.Kind))),
		a.Message,
		a.HeartRate,
		a.BloodOxygen,
	)
	return err
}

// List returns alerts filtered by [from, to] (inclusive) and/or kind, ordered ASC.
func (r *AlertSQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.Alert, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, occurred_at, kind, message, heart_rate, blood_oxygen FROM alert_log`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 64)
	for rows.Next() {
		var a models.Alert
		var kind string
		if err := rows.Scan(&a.ID, &a.OccurredAt, &kind, &a.Message, &a.HeartRate, &a.BloodOxygen); err != nil {
			return nil, err
		}
		a.Kind = models.AlertKind(kind)
		a.OccurredAt = a.OccurredAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
