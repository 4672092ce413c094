package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"health_monitor/internal/models"
)

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrInvalidVitals   = errors.New("vitals out of simulation range")
)

// ForceEmergency runs the emergency workflow for the current vitals, e.g. as a system test.
// It does not touch the escalation counter.
func (m *Monitor) ForceEmergency(ctx context.Context, message string) (models.Alert, error) {
	if strings.TrimSpace(message) == "" {
		message = msgManualEmergency
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.engine.NewAlert(models.AlertEmergency, message, m.current, m.now())
	m.raiseEmergency(ctx, a, models.SeverityEmergency)
	return a, nil
}

// Reset restores baseline vitals and clears escalation, the window, contact
// statuses and any active emergency modal. History is kept.
func (m *Monitor) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.current = models.BaselineReading(now.UTC())
	m.hrSeverity, m.o2Severity = models.SeverityNormal, models.SeverityNormal
	m.engine.Reset(now)
	m.tracker.Reset()
	m.dispatcher.Reset()
	m.hideModal()
	m.recorder.SetEscalation(0)

	m.render()
	m.display.ShowAlertBanner(msgReset, models.SeverityNormal)
	m.info("system_reset")
	return nil
}

// InjectScenario applies one of the named Scenarios.
func (m *Monitor) InjectScenario(ctx context.Context, name string) (Evaluation, error) {
	sc, ok := Scenarios[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	m.info("scenario_injected", "scenario", sc.Name, "description", sc.Description)
	return m.InjectVitals(ctx, sc.HeartRate, sc.BloodOxygen)
}

// InjectVitals sets the current vitals and analyzes them immediately.
// The injected reading is classified on its own; it is not added to the trend window.
func (m *Monitor) InjectVitals(ctx context.Context, heartRate, bloodOxygen float64) (Evaluation, error) {
	if err := validateVitals(heartRate, bloodOxygen); err != nil {
		return Evaluation{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.current = models.Reading{HeartRate: heartRate, BloodOxygen: bloodOxygen, CapturedAt: now.UTC()}
	ev := m.engine.Evaluate(m.current, nil, now)
	m.apply(ctx, ev)
	m.render()
	return ev, nil
}

// Acknowledge hides the active emergency modal and cancels its auto-dismiss.
// It reports false when no emergency was active.
func (m *Monitor) Acknowledge(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok := m.acknowledgeLocked()
	if ok {
		m.info("emergency_acknowledged")
	}
	return ok, nil
}

// CallEmergencyServices simulates calling emergency services and logs the call in history.
func (m *Monitor) CallEmergencyServices(ctx context.Context) (EmergencyCall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	call := EmergencyCall{
		User:        m.cfg.User,
		Location:    m.cfg.Location,
		Time:        now,
		HeartRate:   int(math.Round(m.current.HeartRate)),
		BloodOxygen: int(math.Round(m.current.BloodOxygen)),
		Status:      "calling emergency services",
	}

	m.hideModal()
	m.display.ShowAlertBanner(msgCallPlaced, models.SeverityNormal)
	m.record(ctx, m.engine.NewAlert(models.AlertEmergencyCall, msgCallLogged, m.current, now))
	m.info("emergency_services_called", "location", call.Location,
		"heart_rate", call.HeartRate, "blood_oxygen", call.BloodOxygen)
	return call, nil
}

// SetMonitoring pauses or resumes the tick loop.
func (m *Monitor) SetMonitoring(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monitoring = enabled
	m.info("monitoring_toggled", "enabled", enabled)
	return nil
}

func validateVitals(heartRate, bloodOxygen float64) error {
	if math.IsNaN(heartRate) || heartRate < models.MinHeartRate || heartRate > models.MaxHeartRate {
		return fmt.Errorf("%w: heart rate %.1f not in [%.0f, %.0f]",
			ErrInvalidVitals, heartRate, models.MinHeartRate, models.MaxHeartRate)
	}
	if math.IsNaN(bloodOxygen) || bloodOxygen < models.MinBloodOxygen || bloodOxygen > models.MaxBloodOxygen {
		return fmt.Errorf("%w: blood oxygen %.1f not in [%.0f, %.0f]",
			ErrInvalidVitals, bloodOxygen, models.MinBloodOxygen, models.MaxBloodOxygen)
	}
	return nil
}
