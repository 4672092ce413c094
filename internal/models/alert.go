package models

import "time"

// AlertKind classifies a history entry.
type AlertKind string

const (
	AlertWarning       AlertKind = "warning"
	AlertEmergency     AlertKind = "emergency"
	AlertPrediction    AlertKind = "prediction"
	AlertEmergencyCall AlertKind = "emergency_call"
)

// Valid reports whether k is one of the known kinds.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertWarning, AlertEmergency, AlertPrediction, AlertEmergencyCall:
		return true
	}
	return false
}

// Alert is a single immutable history entry.
type Alert struct {
	ID          string    `json:"id"`
	Kind        AlertKind `json:"kind"`    // warning | emergency | prediction | emergency_call
	Message     string    `json:"message"` // human-readable
	OccurredAt  time.Time `json:"occurred_at"`
	HeartRate   float64   `json:"heart_rate"`
	BloodOxygen float64   `json:"blood_oxygen"`
}
