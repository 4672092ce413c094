package service

import (
	"context"
	"io"
	"time"

	"health_monitor/internal/models"
	"health_monitor/internal/repository"
)

// Monitoring exposes the read-only session state.
type Monitoring interface {
	GetState(ctx context.Context) (models.MonitorState, error)
}

// Commands is the control surface triggered by UI actions.
type Commands interface {
	ForceEmergency(ctx context.Context, message string) (models.Alert, error)
	Reset(ctx context.Context) error
	InjectScenario(ctx context.Context, name string) (Evaluation, error)
	InjectVitals(ctx context.Context, heartRate, bloodOxygen float64) (Evaluation, error)
	Acknowledge(ctx context.Context) (bool, error)
	CallEmergencyServices(ctx context.Context) (EmergencyCall, error)
	SetMonitoring(ctx context.Context, enabled bool) error
}

// AlertHistory exposes the bounded in-memory alert history.
type AlertHistory interface {
	RecentAlerts(ctx context.Context) ([]models.Alert, error)
}

// AlertLog exposes the persisted alert audit log with filtering access.
type AlertLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Alert, error)
}

// Exporter produces downloadable health data.
type Exporter interface {
	Export(ctx context.Context) (ExportData, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

// Simulator runs the background tick loop.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// DisplaySink receives semantic display updates; it never sees presentation detail.
type DisplaySink interface {
	Render(r models.Reading, hr, o2 models.Severity, status models.DeviceStatus)
	ShowAlertBanner(message string, severity models.Severity)
	ShowHistory(alerts []models.Alert)
	ShowEmergencyModal(message string)
	HideEmergencyModal()
}

// FeedbackSink emits fire-and-forget haptic/audio cues on the device.
type FeedbackSink interface {
	SignalEmergency()
	SignalWarning()
	SignalPrediction()
}

// Recorder observes the monitoring pipeline for metrics.
type Recorder interface {
	ObserveReading(r models.Reading, hr, o2 models.Severity)
	AlertEmitted(kind models.AlertKind)
	SetEscalation(consecutiveAbnormal int)
}

// Service aggregates all sub-services.
type Service struct {
	Monitoring
	Commands
	AlertHistory
	AlertLog
	Exporter
	Simulator
}

// NewService wires the monitor session and the repository layer into the root service.
func NewService(monitor *Monitor, repos *repository.Repository) *Service {
	return &Service{
		Monitoring:   monitor,
		Commands:     monitor,
		AlertHistory: monitor,
		AlertLog:     NewAlertLogService(repos.AlertRepo),
		Exporter:     monitor,
		Simulator:    monitor,
	}
}

type noopDisplay struct{}

func (noopDisplay) Render(models.Reading, models.Severity, models.Severity, models.DeviceStatus) {}
func (noopDisplay) ShowAlertBanner(string, models.Severity)                                      {}
func (noopDisplay) ShowHistory([]models.Alert)                                                   {}
func (noopDisplay) ShowEmergencyModal(string)                                                    {}
func (noopDisplay) HideEmergencyModal()                                                          {}

type noopFeedback struct{}

func (noopFeedback) SignalEmergency()  {}
func (noopFeedback) SignalWarning()    {}
func (noopFeedback) SignalPrediction() {}

type noopRecorder struct{}

func (noopRecorder) ObserveReading(models.Reading, models.Severity, models.Severity) {}
func (noopRecorder) AlertEmitted(models.AlertKind)                                   {}
func (noopRecorder) SetEscalation(int)                                               {}
