package service

import (
	"fmt"
	"math"
	"time"

	"health_monitor/internal/models"

	"github.com/google/uuid"
)

// Alert messages shown on the banner and stored in history.
const (
	msgEmergency       = "Emergency: vital signs at emergency level, immediate medical attention required!"
	msgCritical        = "Critical vital signs detected, immediate attention required!"
	msgWarningFormat   = "Abnormal vital signs, monitoring closely | heart rate: %d | oxygen: %d%%"
	msgTrendFormat     = "Rapid change in vital signs detected - heart rate: %+.1f, oxygen: %+.1f"
	msgFaintingRisk    = "Possible fainting predicted - vital signs dropping"
	msgRecovered       = "Vital signs back to normal"
	msgManualEmergency = "Emergency alert triggered manually - system test"
)

// Evaluation is the outcome of one AlertEngine cycle. It carries decisions only;
// the caller performs the side effects.
type Evaluation struct {
	Reading             models.Reading
	HeartRateSeverity   models.Severity
	BloodOxygenSeverity models.Severity
	Pattern             PatternSignal

	// Primary is the warning or emergency alert of this cycle, if any.
	Primary *models.Alert
	// Prediction is set when the fainting-risk pattern fired.
	Prediction *models.Alert
	// Recovered is set when the cycle returned to normal after abnormal readings.
	Recovered bool

	Escalation models.EscalationState
}

// Severity is the highest severity of the two metrics.
func (e Evaluation) Severity() models.Severity {
	return models.Max(e.HeartRateSeverity, e.BloodOxygenSeverity)
}

// AlertEngine decides which alerts a reading produces and tracks escalation.
// It is not safe for concurrent use; the owning Monitor serializes access.
type AlertEngine struct {
	thresholds models.ThresholdSet
	detector   *PatternDetector
	state      models.EscalationState
	newID      func() string
}

// NewAlertEngine returns an engine in the quiet state.
func NewAlertEngine(thresholds models.ThresholdSet, detector *PatternDetector, now time.Time) *AlertEngine {
	if detector == nil {
		detector = NewPatternDetector(DefaultPatternConfig())
	}
	return &AlertEngine{
		thresholds: thresholds,
		detector:   detector,
		state:      models.EscalationState{LastNormalAt: now.UTC()},
		newID:      uuid.NewString,
	}
}

// Thresholds returns the configured threshold set.
func (e *AlertEngine) Thresholds() models.ThresholdSet { return e.thresholds }

// State returns the current escalation state.
func (e *AlertEngine) State() models.EscalationState { return e.state }

// Reset returns the engine to the quiet state.
func (e *AlertEngine) Reset(now time.Time) {
	e.state = models.EscalationState{LastNormalAt: now.UTC()}
}

// Evaluate runs one cycle for r against the rolling window.
func (e *AlertEngine) Evaluate(r models.Reading, window *TrendTracker, now time.Time) Evaluation {
	now = now.UTC()
	ev := Evaluation{Reading: r}
	ev.HeartRateSeverity, ev.BloodOxygenSeverity = ClassifyReading(r, e.thresholds)
	ev.Pattern = e.detector.Detect(window)

	switch sev := ev.Severity(); {
	case sev >= models.SeverityCritical:
		msg := msgCritical
		if sev == models.SeverityEmergency {
			msg = msgEmergency
		}
		a := e.NewAlert(models.AlertEmergency, msg, r, now)
		ev.Primary = &a
		e.state.ConsecutiveAbnormal++

	case sev == models.SeverityWarning:
		a := e.NewAlert(models.AlertWarning, warningMessage(r), r, now)
		ev.Primary = &a
		e.state.ConsecutiveAbnormal++

	case ev.Pattern.Trend == TrendEscalated:
		a := e.NewAlert(models.AlertWarning, trendMessage(ev.Pattern), r, now)
		ev.Primary = &a
		e.state.ConsecutiveAbnormal++

	default:
		if e.state.ConsecutiveAbnormal > 0 {
			e.state.ConsecutiveAbnormal = 0
			e.state.LastNormalAt = now
			ev.Recovered = true
		}
	}

	if ev.Pattern.FaintingRisk {
		a := e.NewAlert(models.AlertPrediction, msgFaintingRisk, r, now)
		ev.Prediction = &a
	}

	ev.Escalation = e.state
	return ev
}

// NewAlert builds an alert stamped with the reading's vitals.
func (e *AlertEngine) NewAlert(kind models.AlertKind, message string, r models.Reading, now time.Time) models.Alert {
	return models.Alert{
		ID:          e.newID(),
		Kind:        kind,
		Message:     message,
		OccurredAt:  now.UTC(),
		HeartRate:   r.HeartRate,
		BloodOxygen: r.BloodOxygen,
	}
}

func warningMessage(r models.Reading) string {
	return fmt.Sprintf(msgWarningFormat, int(math.Round(r.HeartRate)), int(math.Round(r.BloodOxygen)))
}

func trendMessage(p PatternSignal) string {
	return fmt.Sprintf(msgTrendFormat, p.HeartRateDelta, p.BloodOxygenDelta)
}
