package service

import (
	"math"

	"health_monitor/internal/models"
)

// TrendTier grades a short-term rate of change.
type TrendTier int

const (
	TrendNone TrendTier = iota
	TrendNotice
	TrendEscalated
)

func (t TrendTier) String() string {
	switch t {
	case TrendNotice:
		return "notice"
	case TrendEscalated:
		return "escalated"
	default:
		return "none"
	}
}

// PatternConfig holds the multi-sample heuristics.
type PatternConfig struct {
	FaintSamples     int     `mapstructure:"faint_samples"`
	FaintHeartRate   float64 `mapstructure:"faint_heart_rate"`   // mean HR strictly below
	FaintBloodOxygen float64 `mapstructure:"faint_blood_oxygen"` // mean SpO2 strictly below

	TrendSamples              int     `mapstructure:"trend_samples"`
	NoticeHeartRateDelta      float64 `mapstructure:"notice_heart_rate_delta"`
	NoticeBloodOxygenDelta    float64 `mapstructure:"notice_blood_oxygen_delta"`
	EscalatedHeartRateDelta   float64 `mapstructure:"escalated_heart_rate_delta"`
	EscalatedBloodOxygenDelta float64 `mapstructure:"escalated_blood_oxygen_delta"`
}

// DefaultPatternConfig returns the heuristics the device ships with.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		FaintSamples:              5,
		FaintHeartRate:            55,
		FaintBloodOxygen:          92,
		TrendSamples:              3,
		NoticeHeartRateDelta:      5,
		NoticeBloodOxygenDelta:    2,
		EscalatedHeartRateDelta:   10,
		EscalatedBloodOxygenDelta: 3,
	}
}

// PatternSignal is the outcome of one detection pass.
type PatternSignal struct {
	FaintingRisk    bool
	MeanHeartRate   float64
	MeanBloodOxygen float64

	Trend            TrendTier
	HeartRateDelta   float64
	BloodOxygenDelta float64
}

// PatternDetector looks for sustained patterns in the rolling window.
type PatternDetector struct {
	cfg PatternConfig
}

// NewPatternDetector returns a detector; zero-valued sample counts fall back to defaults.
func NewPatternDetector(cfg PatternConfig) *PatternDetector {
	def := DefaultPatternConfig()
	if cfg.FaintSamples <= 0 {
		cfg.FaintSamples = def.FaintSamples
	}
	if cfg.TrendSamples < 2 {
		cfg.TrendSamples = def.TrendSamples
	}
	return &PatternDetector{cfg: cfg}
}

// Detect evaluates the fainting-risk and trend heuristics over window.
func (d *PatternDetector) Detect(window *TrendTracker) PatternSignal {
	var sig PatternSignal
	if window == nil {
		return sig
	}

	if window.Len() >= d.cfg.FaintSamples {
		recent := window.Recent(d.cfg.FaintSamples)
		sig.MeanHeartRate = mean(recent, models.MetricHeartRate)
		sig.MeanBloodOxygen = mean(recent, models.MetricBloodOxygen)
		sig.FaintingRisk = sig.MeanHeartRate < d.cfg.FaintHeartRate &&
			sig.MeanBloodOxygen < d.cfg.FaintBloodOxygen
	}

	if window.Len() >= d.cfg.TrendSamples {
		sig.HeartRateDelta = window.Trend(models.MetricHeartRate, d.cfg.TrendSamples)
		sig.BloodOxygenDelta = window.Trend(models.MetricBloodOxygen, d.cfg.TrendSamples)
		sig.Trend = d.tier(sig.HeartRateDelta, sig.BloodOxygenDelta)
	}
	return sig
}

func (d *PatternDetector) tier(hrDelta, o2Delta float64) TrendTier {
	hr, o2 := math.Abs(hrDelta), math.Abs(o2Delta)
	switch {
	case hr > d.cfg.EscalatedHeartRateDelta || o2 > d.cfg.EscalatedBloodOxygenDelta:
		return TrendEscalated
	case hr > d.cfg.NoticeHeartRateDelta || o2 > d.cfg.NoticeBloodOxygenDelta:
		return TrendNotice
	default:
		return TrendNone
	}
}

func mean(rs []models.Reading, m models.Metric) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rs {
		sum += r.Value(m)
	}
	return sum / float64(len(rs))
}
