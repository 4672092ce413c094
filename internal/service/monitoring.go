package service

import (
	"context"
	"time"

	"health_monitor/internal/models"
)

// GetState returns a snapshot of the session.
func (m *Monitor) GetState(ctx context.Context) (models.MonitorState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	esc := m.engine.State()
	esc.LastNormalAt = toUTC(esc.LastNormalAt)
	reading := m.current
	reading.CapturedAt = toUTC(reading.CapturedAt)

	return models.MonitorState{
		Reading:             reading,
		HeartRateSeverity:   m.hrSeverity,
		BloodOxygenSeverity: m.o2Severity,
		Escalation:          esc,
		DeviceStatus:        esc.DeviceStatus(),
		Monitoring:          m.monitoring,
		EmergencyActive:     m.modal.visible,
		EmergencyMessage:    m.modal.message,
		Contacts:            m.dispatcher.Statuses(),
		WindowSize:          m.tracker.Len(),
		HistorySize:         m.history.Len(),
	}, nil
}

// CurrentVitals returns the latest reading. Notifications quote it at delivery time.
func (m *Monitor) CurrentVitals() models.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// RecentAlerts returns the in-memory history, most recent first.
func (m *Monitor) RecentAlerts(ctx context.Context) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.All(), nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
