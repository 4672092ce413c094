package service

import "health_monitor/internal/models"

// DefaultWindowCapacity is the number of readings kept for trend analysis.
const DefaultWindowCapacity = 20

// TrendTracker keeps a bounded rolling window of recent readings, oldest first.
type TrendTracker struct {
	capacity int
	window   []models.Reading
}

// NewTrendTracker returns an empty tracker. Non-positive capacity uses DefaultWindowCapacity.
func NewTrendTracker(capacity int) *TrendTracker {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &TrendTracker{
		capacity: capacity,
		window:   make([]models.Reading, 0, capacity),
	}
}

// Push appends r and evicts the oldest reading once capacity is exceeded.
func (t *TrendTracker) Push(r models.Reading) {
	t.window = append(t.window, r)
	if over := len(t.window) - t.capacity; over > 0 {
		t.window = append(t.window[:0], t.window[over:]...)
	}
}

// Recent returns a copy of the last n readings, most recent last.
func (t *TrendTracker) Recent(n int) []models.Reading {
	if n <= 0 {
		return nil
	}
	if n > len(t.window) {
		n = len(t.window)
	}
	out := make([]models.Reading, n)
	copy(out, t.window[len(t.window)-n:])
	return out
}

// Trend returns last minus first value of metric over the last n samples,
// or 0 when fewer than two samples are available.
func (t *TrendTracker) Trend(m models.Metric, n int) float64 {
	recent := t.Recent(n)
	if len(recent) < 2 {
		return 0
	}
	return recent[len(recent)-1].Value(m) - recent[0].Value(m)
}

// Len returns the number of readings held.
func (t *TrendTracker) Len() int { return len(t.window) }

// Capacity returns the nominal window size.
func (t *TrendTracker) Capacity() int { return t.capacity }

// Trim cuts the window back to capacity if it grew past twice its nominal size.
// Returns true if readings were dropped.
func (t *TrendTracker) Trim() bool {
	if len(t.window) <= t.capacity*2 {
		return false
	}
	t.window = append(t.window[:0], t.window[len(t.window)-t.capacity:]...)
	return true
}

// Reset drops all readings.
func (t *TrendTracker) Reset() {
	t.window = t.window[:0]
}
