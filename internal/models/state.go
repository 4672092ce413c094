package models

import "time"

// EscalationState tracks sustained abnormality across evaluation cycles.
type EscalationState struct {
	ConsecutiveAbnormal int       `json:"consecutive_abnormal"`
	LastNormalAt        time.Time `json:"last_normal_at"`
}

// DeviceStatus is the coarse status shown on the wearable.
type DeviceStatus string

const (
	DeviceConnected DeviceStatus = "connected" // everything normal
	DeviceWatching  DeviceStatus = "watching"  // abnormal readings seen
	DeviceAlerting  DeviceStatus = "alerting"  // sustained abnormality
)

// alertingAfter is the number of consecutive abnormal cycles that switch the device to alerting.
const alertingAfter = 3

// DeviceStatus derives the device status from the escalation counter.
func (s EscalationState) DeviceStatus() DeviceStatus {
	switch {
	case s.ConsecutiveAbnormal >= alertingAfter:
		return DeviceAlerting
	case s.ConsecutiveAbnormal > 0:
		return DeviceWatching
	default:
		return DeviceConnected
	}
}

// MonitorState is the read-only snapshot of the monitoring session.
type MonitorState struct {
	Reading             Reading                       `json:"reading"`
	HeartRateSeverity   Severity                      `json:"heart_rate_severity"`
	BloodOxygenSeverity Severity                      `json:"blood_oxygen_severity"`
	Escalation          EscalationState               `json:"escalation"`
	DeviceStatus        DeviceStatus                  `json:"device_status"`
	Monitoring          bool                          `json:"monitoring"`
	EmergencyActive     bool                          `json:"emergency_active"`
	EmergencyMessage    string                        `json:"emergency_message,omitempty"`
	Contacts            map[string]NotificationStatus `json:"contacts,omitempty"`
	WindowSize          int                           `json:"window_size"`
	HistorySize         int                           `json:"history_size"`
}
