package service

import (
	"context"
	"sync"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
	"health_monitor/internal/repository"
)

// Session timing defaults.
const (
	DefaultModalTimeout = 30 * time.Second
	DefaultHousekeeping = 30 * time.Second
)

const (
	msgWelcome      = "Smart health monitor ready - monitoring vital signs"
	msgAcknowledged = "Alert acknowledged by the user"
	msgReset        = "System reset - all vital signs normal"
	msgCallPlaced   = "Emergency services contacted - help is on the way"
	msgCallLogged   = "Emergency services contacted"
)

// MonitorConfig is the immutable session configuration.
type MonitorConfig struct {
	Thresholds      models.ThresholdSet
	Pattern         PatternConfig
	WindowCapacity  int
	HistoryCapacity int
	ModalTimeout    time.Duration
	Housekeeping    time.Duration
	Contacts        []models.Contact
	Location        string
	User            string
}

// MonitorDeps are the collaborators of a Monitor. Nil sinks are replaced by no-ops.
type MonitorDeps struct {
	Generator   *VitalsGenerator
	Dispatcher  *NotificationDispatcher
	Scheduler   Scheduler
	Display     DisplaySink
	Feedback    FeedbackSink
	Recorder    Recorder
	HistoryRepo repository.HistoryRepo
	AlertRepo   repository.AlertRepo
	Log         *logger.Logger
	Now         func() time.Time
}

// emergencyModal tracks the modal and its pending auto-dismiss.
type emergencyModal struct {
	visible bool
	message string
	gen     uint64
	dismiss Task
}

// Monitor is the monitoring session: it owns the current vitals, the rolling
// window, escalation and history, and drives the alerting pipeline.
// All mutable state is guarded by mu; ticks, timers and commands serialize on it.
type Monitor struct {
	cfg MonitorConfig

	generator  *VitalsGenerator
	tracker    *TrendTracker
	engine     *AlertEngine
	history    *HistoryStore
	dispatcher *NotificationDispatcher
	sched      Scheduler

	display     DisplaySink
	feedback    FeedbackSink
	recorder    Recorder
	historyRepo repository.HistoryRepo
	alertRepo   repository.AlertRepo
	log         *logger.Logger
	now         func() time.Time

	mu         sync.Mutex
	current    models.Reading
	hrSeverity models.Severity
	o2Severity models.Severity
	monitoring bool
	modal      emergencyModal
}

// NewMonitor builds a session at baseline vitals with monitoring enabled.
func NewMonitor(cfg MonitorConfig, deps MonitorDeps) *Monitor {
	if cfg.ModalTimeout <= 0 {
		cfg.ModalTimeout = DefaultModalTimeout
	}
	if cfg.Housekeeping <= 0 {
		cfg.Housekeeping = DefaultHousekeeping
	}
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.User == "" {
		cfg.User = "Smart health monitor"
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Scheduler == nil {
		deps.Scheduler = NewTimerScheduler()
	}
	if deps.Generator == nil {
		deps.Generator = NewVitalsGenerator(nil)
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = NewNotificationDispatcher(DispatcherConfig{Location: cfg.Location}, deps.Scheduler, nil, deps.Log)
	}
	if deps.Display == nil {
		deps.Display = noopDisplay{}
	}
	if deps.Feedback == nil {
		deps.Feedback = noopFeedback{}
	}
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}

	now := deps.Now()
	deps.Dispatcher.Register(cfg.Contacts)

	m := &Monitor{
		cfg:         cfg,
		generator:   deps.Generator,
		tracker:     NewTrendTracker(cfg.WindowCapacity),
		engine:      NewAlertEngine(cfg.Thresholds, NewPatternDetector(cfg.Pattern), now),
		history:     NewHistoryStore(cfg.HistoryCapacity),
		dispatcher:  deps.Dispatcher,
		sched:       deps.Scheduler,
		display:     deps.Display,
		feedback:    deps.Feedback,
		recorder:    deps.Recorder,
		historyRepo: deps.HistoryRepo,
		alertRepo:   deps.AlertRepo,
		log:         deps.Log,
		now:         deps.Now,
		current:     models.BaselineReading(now.UTC()),
		monitoring:  true,
	}
	m.dispatcher.SetVitalsSource(m.CurrentVitals)
	return m
}

// Init restores persisted history and paints the initial display.
// A missing or corrupt snapshot leaves the history empty.
func (m *Monitor) Init(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restoreHistory(ctx)
	m.display.ShowHistory(m.history.All())
	m.display.ShowAlertBanner(msgWelcome, models.SeverityNormal)
	m.render()
}

func (m *Monitor) restoreHistory(ctx context.Context) {
	if m.historyRepo == nil {
		return
	}
	data, err := m.historyRepo.LoadHistory(ctx)
	if err != nil {
		m.warn("history_load_failed", "err", err)
		return
	}
	if data == nil {
		return
	}
	if err := m.history.Restore(data); err != nil {
		m.warn("history_restore_failed", "err", err)
		return
	}
	m.info("history_restored", "alerts", m.history.Len())
}

// apply performs the side effects of an evaluation. Must be called with mu held.
func (m *Monitor) apply(ctx context.Context, ev Evaluation) {
	m.hrSeverity, m.o2Severity = ev.HeartRateSeverity, ev.BloodOxygenSeverity
	m.recorder.ObserveReading(ev.Reading, ev.HeartRateSeverity, ev.BloodOxygenSeverity)

	if a := ev.Primary; a != nil {
		switch a.Kind {
		case models.AlertEmergency:
			m.raiseEmergency(ctx, *a, ev.Severity())
		case models.AlertWarning:
			m.raiseWarning(ctx, *a)
		}
	}
	if ev.Pattern.Trend == TrendNotice {
		m.info("vitals_trend_notice", "heart_rate_delta", ev.Pattern.HeartRateDelta,
			"blood_oxygen_delta", ev.Pattern.BloodOxygenDelta)
	}
	if ev.Recovered {
		m.display.ShowAlertBanner(msgRecovered, models.SeverityNormal)
		m.info("vitals_recovered", "heart_rate", ev.Reading.HeartRate, "blood_oxygen", ev.Reading.BloodOxygen)
	}
	if ev.Prediction != nil {
		m.raisePrediction(ctx, *ev.Prediction)
	}

	m.recorder.SetEscalation(ev.Escalation.ConsecutiveAbnormal)
}

// raiseEmergency runs the full emergency workflow; critical readings take the same path.
func (m *Monitor) raiseEmergency(ctx context.Context, a models.Alert, sev models.Severity) {
	m.record(ctx, a)
	m.showModal(a.Message)
	m.dispatcher.Notify(m.cfg.Contacts, a)
	m.display.ShowAlertBanner(a.Message, sev)
	m.feedback.SignalEmergency()
}

func (m *Monitor) raiseWarning(ctx context.Context, a models.Alert) {
	m.record(ctx, a)
	m.display.ShowAlertBanner(a.Message, models.SeverityWarning)
	m.feedback.SignalWarning()
}

func (m *Monitor) raisePrediction(ctx context.Context, a models.Alert) {
	m.record(ctx, a)
	m.display.ShowAlertBanner(a.Message, models.SeverityWarning)
	m.feedback.SignalPrediction()
}

// record appends a to history and the audit log, then persists the snapshot.
func (m *Monitor) record(ctx context.Context, a models.Alert) {
	m.history.Append(a)
	m.display.ShowHistory(m.history.All())
	m.recorder.AlertEmitted(a.Kind)
	m.info("alert_emitted", "kind", a.Kind, "message", a.Message,
		"heart_rate", a.HeartRate, "blood_oxygen", a.BloodOxygen)

	if m.alertRepo != nil {
		if err := m.alertRepo.Append(ctx, a); err != nil {
			m.logErr("alert_log_append_failed", "err", err, "alert_id", a.ID)
		}
	}
	m.persist(ctx)
}

// persist saves the history snapshot; failures are logged and never stop the tick.
func (m *Monitor) persist(ctx context.Context) {
	if m.historyRepo == nil {
		return
	}
	data, err := m.history.Snapshot()
	if err != nil {
		m.logErr("history_snapshot_failed", "err", err)
		return
	}
	if err := m.historyRepo.SaveHistory(ctx, data); err != nil {
		m.logErr("history_save_failed", "err", err)
	}
}

// showModal shows the emergency modal and (re)arms its auto-dismiss.
func (m *Monitor) showModal(message string) {
	stopTask(m.modal.dismiss)
	m.modal.gen++
	gen := m.modal.gen
	m.modal.visible = true
	m.modal.message = message
	m.display.ShowEmergencyModal(message)
	m.modal.dismiss = m.sched.AfterFunc(m.cfg.ModalTimeout, func() { m.autoDismiss(gen) })
}

// autoDismiss acknowledges the modal unless it was already acknowledged or replaced.
func (m *Monitor) autoDismiss(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.modal.visible || m.modal.gen != gen {
		return
	}
	m.modal.dismiss = nil
	m.acknowledgeLocked()
	m.info("emergency_modal_auto_dismissed")
}

// hideModal cancels the auto-dismiss and hides the modal. Reports whether it was visible.
func (m *Monitor) hideModal() bool {
	stopTask(m.modal.dismiss)
	m.modal.dismiss = nil
	wasVisible := m.modal.visible
	m.modal.visible = false
	m.modal.message = ""
	m.display.HideEmergencyModal()
	return wasVisible
}

func (m *Monitor) acknowledgeLocked() bool {
	if !m.hideModal() {
		return false
	}
	m.display.ShowAlertBanner(msgAcknowledged, models.SeverityNormal)
	return true
}

// render pushes the current vitals to the display. Must be called with mu held.
func (m *Monitor) render() {
	m.display.Render(m.current, m.hrSeverity, m.o2Severity, m.engine.State().DeviceStatus())
}

func (m *Monitor) info(msg string, kv ...interface{}) {
	if m.log != nil {
		m.log.Infow(msg, kv...)
	}
}

func (m *Monitor) warn(msg string, kv ...interface{}) {
	if m.log != nil {
		m.log.Warnw(msg, kv...)
	}
}

func (m *Monitor) logErr(msg string, kv ...interface{}) {
	if m.log != nil {
		m.log.Errorw(msg, kv...)
	}
}
