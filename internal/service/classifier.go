package service

import "health_monitor/internal/models"

// Classify maps a single value to a severity. Checks run from the highest
// severity down so that a value below both Min and Emergency reports emergency.
func Classify(value float64, m models.Metric, thresholds models.ThresholdSet) models.Severity {
	th := thresholds.For(m)
	switch {
	case value <= th.Emergency:
		return models.SeverityEmergency
	case value <= th.Critical:
		return models.SeverityCritical
	case value < th.Min:
		return models.SeverityWarning
	case m.HasUpperBound() && value > th.Max:
		return models.SeverityWarning
	default:
		return models.SeverityNormal
	}
}

// ClassifyReading classifies both metrics of r.
func ClassifyReading(r models.Reading, thresholds models.ThresholdSet) (hr, o2 models.Severity) {
	return Classify(r.HeartRate, models.MetricHeartRate, thresholds),
		Classify(r.BloodOxygen, models.MetricBloodOxygen, thresholds)
}
