package service

import "time"

// Task is a handle to a pending one-shot task.
type Task interface {
	// Stop cancels the task; it reports false if the task already ran or was stopped.
	Stop() bool
}

// Scheduler runs delayed one-shot tasks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// stopTask stops t if it is set.
func stopTask(t Task) {
	if t != nil {
		t.Stop()
	}
}
