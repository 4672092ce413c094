package feedback

// Cue describes one haptic/audio signal played by the wearable.
type Cue struct {
	Kind        string `json:"kind"`
	Vibration   []int  `json:"vibration_ms,omitempty"` // on/off pattern in milliseconds
	ToneHz      int    `json:"tone_hz"`
	ToneMs      int    `json:"tone_ms"`
	Beeps       int    `json:"beeps"`
	BeepSpacing int    `json:"beep_spacing_ms,omitempty"`
}

// Cue kinds.
const (
	KindEmergency  = "emergency"
	KindWarning    = "warning"
	KindPrediction = "prediction"
)

func EmergencyCue() Cue {
	return Cue{
		Kind:        KindEmergency,
		Vibration:   []int{300, 100, 300, 100, 300, 200, 500},
		ToneHz:      800,
		ToneMs:      200,
		Beeps:       3,
		BeepSpacing: 300,
	}
}

func WarningCue() Cue {
	return Cue{Kind: KindWarning, ToneHz: 600, ToneMs: 150, Beeps: 1}
}

func PredictionCue() Cue {
	return Cue{Kind: KindPrediction, ToneHz: 400, ToneMs: 100, Beeps: 1}
}
