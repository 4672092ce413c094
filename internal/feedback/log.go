package feedback

import (
	"health_monitor/internal/logger"
	"health_monitor/internal/service"
)

// LogSink records feedback cues in the log instead of driving hardware.
type LogSink struct {
	log *logger.Logger
}

var _ service.FeedbackSink = LogSink{}

func NewLogSink(log *logger.Logger) LogSink {
	if log == nil {
		log = logger.NewNop()
	}
	return LogSink{log: log}
}

func (s LogSink) SignalEmergency()  { s.emit(EmergencyCue()) }
func (s LogSink) SignalWarning()    { s.emit(WarningCue()) }
func (s LogSink) SignalPrediction() { s.emit(PredictionCue()) }

func (s LogSink) emit(c Cue) {
	s.log.Infow("device_feedback", "kind", c.Kind, "tone_hz", c.ToneHz, "beeps", c.Beeps, "vibration_ms", c.Vibration)
}
