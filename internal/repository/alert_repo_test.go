package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"health_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var alertColumns = []string{"id", "occurred_at", "kind", "message", "heart_rate", "blood_oxygen"}

func TestAlertAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO alert_log")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "warning", "hello", 75.0, 88.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.Alert{
		// ID empty -> repo generates
		// OccurredAt zero -> repo sets UTC now
		Kind:        " Warning ",
		Message:     "hello",
		HeartRate:   75,
		BloodOxygen: 88,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertAppend_KeepsIDAndNormalizesTime(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	local := time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("X", 3*3600))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO alert_log")).
		WithArgs("a-1", local.UTC(), "emergency", "critical", 45.0, 98.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.Alert{
		ID:          "a-1",
		Kind:        models.AlertEmergency,
		Message:     "critical",
		OccurredAt:  local,
		HeartRate:   45,
		BloodOxygen: 98,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	mock.ExpectExec("INSERT INTO alert_log").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.Alert{Kind: models.AlertWarning, Message: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertList_NoFilters(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(alertColumns).
		AddRow("1", now, "warning", "m1", 75.0, 88.0).
		AddRow("2", now.Add(time.Hour), "emergency", "m2", 40.0, 85.0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, kind, message, heart_rate, blood_oxygen FROM alert_log ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected ids: %v, %v", got[0].ID, got[1].ID)
	}
	if got[1].Kind != models.AlertEmergency || got[1].HeartRate != 40 || got[1].BloodOxygen != 85 {
		t.Fatalf("unexpected second alert: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT id, occurred_at, kind, message, heart_rate, blood_oxygen FROM alert_log WHERE occurred_at >= ? AND occurred_at <= ? AND kind = ? ORDER BY occurred_at ASC`
	rows := sqlmock.NewRows(alertColumns).
		AddRow("2", from, "prediction", "b", 52.0, 90.0).
		AddRow("3", to, "prediction", "c", 51.0, 89.0)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "prediction").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " PREDICTION ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	rows := sqlmock.NewRows(alertColumns).
		// occurred_at wrong type to force scan error
		AddRow("x", 123, "warning", "msg", 1.0, 2.0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, kind, message, heart_rate, blood_oxygen FROM alert_log ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
