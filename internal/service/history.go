package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"health_monitor/internal/models"
)

// DefaultHistoryCapacity is the number of alerts retained.
const DefaultHistoryCapacity = 50

var errCorruptSnapshot = errors.New("corrupt history snapshot")

// HistoryStore is a bounded log of alerts, most recent first.
type HistoryStore struct {
	capacity int
	alerts   []models.Alert
}

// NewHistoryStore returns an empty store. Non-positive capacity uses DefaultHistoryCapacity.
func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryStore{capacity: capacity}
}

// Append inserts a at the front and evicts the oldest entries past capacity.
func (h *HistoryStore) Append(a models.Alert) {
	h.alerts = append(h.alerts, models.Alert{})
	copy(h.alerts[1:], h.alerts)
	h.alerts[0] = a
	if len(h.alerts) > h.capacity {
		h.alerts = h.alerts[:h.capacity]
	}
}

// All returns a copy of the alerts, most recent first.
func (h *HistoryStore) All() []models.Alert {
	out := make([]models.Alert, len(h.alerts))
	copy(out, h.alerts)
	return out
}

// Len returns the number of stored alerts.
func (h *HistoryStore) Len() int { return len(h.alerts) }

// Capacity returns the retention limit.
func (h *HistoryStore) Capacity() int { return h.capacity }

// Snapshot serializes the store as a JSON array, most recent first.
func (h *HistoryStore) Snapshot() ([]byte, error) {
	alerts := h.alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}
	b, err := json.Marshal(alerts)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	return b, nil
}

// Restore replaces the content with a snapshot. An empty payload clears the store.
// On error the store is left untouched.
func (h *HistoryStore) Restore(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		h.alerts = nil
		return nil
	}

	var alerts []models.Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return fmt.Errorf("%w: %v", errCorruptSnapshot, err)
	}
	for i := range alerts {
		if !alerts[i].Kind.Valid() {
			return fmt.Errorf("%w: entry %d has unknown kind %q", errCorruptSnapshot, i, alerts[i].Kind)
		}
		alerts[i].OccurredAt = alerts[i].OccurredAt.UTC()
	}
	if len(alerts) > h.capacity {
		alerts = alerts[:h.capacity]
	}
	if len(alerts) == 0 {
		alerts = nil
	}
	h.alerts = alerts
	return nil
}
