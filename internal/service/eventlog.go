package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"health_monitor/internal/models"
	"health_monitor/internal/repository"
)

type AlertLogService struct {
	alertRepo repository.AlertRepo
}

func NewAlertLogService(alertRepo repository.AlertRepo) *AlertLogService {
	return &AlertLogService{alertRepo: alertRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidKind      = errors.New("invalid kind: must be warning, emergency, prediction or emergency_call")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeKind trims spaces and lowercases the alert kind filter.
func normalizeKind(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range and kind.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	kind := normalizeKind(f.Kind)
	if kind != "" && !models.AlertKind(kind).Valid() {
		return time.Time{}, time.Time{}, "", errInvalidKind
	}
	return from, to, kind, nil
}

// List returns audit-log alerts matching f, oldest first.
func (s *AlertLogService) List(ctx context.Context, f LogFilter) ([]models.Alert, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.alertRepo.List(ctx, from, to, kind)
}
