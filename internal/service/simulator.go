package service

import (
	"context"
	"time"
)

// Run ticks at the given interval until ctx is canceled. A second, slower
// ticker runs housekeeping.
func (m *Monitor) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	hk := time.NewTicker(m.cfg.Housekeeping)
	defer hk.Stop()

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case now := <-t.C:
			m.Tick(ctx, now)
		case now := <-hk.C:
			m.Housekeeping(now)
		}
	}
}

// Tick runs one monitoring cycle: generate, track, evaluate, display.
// It is a no-op while monitoring is paused.
func (m *Monitor) Tick(ctx context.Context, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.monitoring {
		return
	}

	r := m.generator.Next(m.current, now)
	m.current = r
	m.tracker.Push(r)

	ev := m.engine.Evaluate(r, m.tracker, now)
	m.apply(ctx, ev)
	m.render()
}

// Housekeeping logs a health snapshot and trims the rolling window if it overgrew.
func (m *Monitor) Housekeeping(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.info("system_health_check",
		"at", now.UTC(),
		"monitoring", m.monitoring,
		"history_len", m.history.Len(),
		"window_len", m.tracker.Len(),
		"consecutive_abnormal", m.engine.State().ConsecutiveAbnormal,
	)
	if m.tracker.Trim() {
		m.info("vitals_window_trimmed", "window_len", m.tracker.Len())
	}
}

// shutdown cancels the pending modal auto-dismiss and notification timers.
func (m *Monitor) shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	stopTask(m.modal.dismiss)
	m.modal.dismiss = nil
	m.dispatcher.Reset()
}
