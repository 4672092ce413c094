package models

import (
	"errors"
	"fmt"
	"time"
)

// Metric names a vital sign tracked by the device.
type Metric string

const (
	MetricHeartRate   Metric = "heart_rate"
	MetricBloodOxygen Metric = "blood_oxygen"
)

// HasUpperBound reports whether values above Max count as abnormal.
// Blood oxygen is only checked against its floor.
func (m Metric) HasUpperBound() bool {
	return m == MetricHeartRate
}

// Simulation bounds.
const (
	MinHeartRate   = 30.0
	MaxHeartRate   = 150.0
	MinBloodOxygen = 70.0
	MaxBloodOxygen = 100.0

	BaselineHeartRate   = 75.0
	BaselineBloodOxygen = 98.0
)

// Reading is one sample produced by the wearable.
type Reading struct {
	HeartRate   float64   `json:"heart_rate"`   // bpm
	BloodOxygen float64   `json:"blood_oxygen"` // SpO2 %
	CapturedAt  time.Time `json:"captured_at"`
}

// Value returns the reading's value for metric.
func (r Reading) Value(m Metric) float64 {
	if m == MetricBloodOxygen {
		return r.BloodOxygen
	}
	return r.HeartRate
}

// BaselineReading is the resting reading the device starts from and resets to.
func BaselineReading(at time.Time) Reading {
	return Reading{
		HeartRate:   BaselineHeartRate,
		BloodOxygen: BaselineBloodOxygen,
		CapturedAt:  at,
	}
}

// Threshold holds the bands for a single metric. Critical and Emergency are floor cutoffs (inclusive).
type Threshold struct {
	Min       float64 `json:"min" mapstructure:"min"`
	Max       float64 `json:"max" mapstructure:"max"`
	Critical  float64 `json:"critical" mapstructure:"critical"`
	Emergency float64 `json:"emergency" mapstructure:"emergency"`
}

// ThresholdSet is the immutable per-metric configuration loaded at startup.
type ThresholdSet struct {
	HeartRate   Threshold `json:"heart_rate" mapstructure:"heart_rate"`
	BloodOxygen Threshold `json:"blood_oxygen" mapstructure:"blood_oxygen"`
}

// For returns the threshold for metric.
func (s ThresholdSet) For(m Metric) Threshold {
	if m == MetricBloodOxygen {
		return s.BloodOxygen
	}
	return s.HeartRate
}

// DefaultThresholds mirrors the bands shipped with the device.
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		HeartRate:   Threshold{Min: 60, Max: 100, Critical: 50, Emergency: 40},
		BloodOxygen: Threshold{Min: 95, Max: 100, Critical: 90, Emergency: 85},
	}
}

var errInvalidThreshold = errors.New("invalid threshold")

// Validate checks band ordering: Emergency <= Critical <= Min <= Max.
func (t Threshold) Validate() error {
	if t.Max < t.Min {
		return fmt.Errorf("%w: max %.1f < min %.1f", errInvalidThreshold, t.Max, t.Min)
	}
	if t.Critical > t.Min {
		return fmt.Errorf("%w: critical %.1f > min %.1f", errInvalidThreshold, t.Critical, t.Min)
	}
	if t.Emergency > t.Critical {
		return fmt.Errorf("%w: emergency %.1f > critical %.1f", errInvalidThreshold, t.Emergency, t.Critical)
	}
	return nil
}

// Validate checks both metrics.
func (s ThresholdSet) Validate() error {
	if err := s.HeartRate.Validate(); err != nil {
		return fmt.Errorf("heart_rate: %w", err)
	}
	if err := s.BloodOxygen.Validate(); err != nil {
		return fmt.Errorf("blood_oxygen: %w", err)
	}
	return nil
}
