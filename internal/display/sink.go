package display

import (
	"health_monitor/internal/logger"
	"health_monitor/internal/models"
	"health_monitor/internal/service"
)

// LogSink writes display updates to the structured log.
// Vitals are logged at debug level since they arrive every tick.
type LogSink struct {
	log *logger.Logger
}

var _ service.DisplaySink = LogSink{}

// NewLogSink returns a sink writing to log; a nil log discards everything.
func NewLogSink(log *logger.Logger) LogSink {
	if log == nil {
		log = logger.NewNop()
	}
	return LogSink{log: log}
}

func (s LogSink) Render(r models.Reading, hr, o2 models.Severity, status models.DeviceStatus) {
	s.log.Debugw("display_render",
		"heart_rate", r.HeartRate, "blood_oxygen", r.BloodOxygen,
		"heart_rate_severity", hr.String(), "blood_oxygen_severity", o2.String(),
		"device_status", status)
}

func (s LogSink) ShowAlertBanner(message string, severity models.Severity) {
	s.log.Infow("display_banner", "message", message, "severity", severity.String())
}

func (s LogSink) ShowHistory(alerts []models.Alert) {
	s.log.Debugw("display_history", "alerts", len(alerts))
}

func (s LogSink) ShowEmergencyModal(message string) {
	s.log.Warnw("display_emergency_modal", "message", message)
}

func (s LogSink) HideEmergencyModal() {
	s.log.Debugw("display_emergency_modal_hidden")
}

// Multi forwards every update to each sink in order.
type Multi []service.DisplaySink

func (m Multi) Render(r models.Reading, hr, o2 models.Severity, status models.DeviceStatus) {
	for _, s := range m {
		s.Render(r, hr, o2, status)
	}
}

func (m Multi) ShowAlertBanner(message string, severity models.Severity) {
	for _, s := range m {
		s.ShowAlertBanner(message, severity)
	}
}

func (m Multi) ShowHistory(alerts []models.Alert) {
	for _, s := range m {
		s.ShowHistory(alerts)
	}
}

func (m Multi) ShowEmergencyModal(message string) {
	for _, s := range m {
		s.ShowEmergencyModal(message)
	}
}

func (m Multi) HideEmergencyModal() {
	for _, s := range m {
		s.HideEmergencyModal()
	}
}
