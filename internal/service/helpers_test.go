package service

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// manualScheduler runs tasks only when the test advances its clock.
type manualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s       *manualScheduler
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func newManualScheduler(start time.Time) *manualScheduler {
	return &manualScheduler{now: start}
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, at: s.now.Add(d), seq: s.seq, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, running due tasks in time order.
// Tasks run without the scheduler lock held.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*manualTask
		for _, t := range s.tasks {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at.Equal(due[j].at) {
				return due[i].seq < due[j].seq
			}
			return due[i].at.Before(due[j].at)
		})
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

// Pending counts tasks that neither fired nor were stopped.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type banner struct {
	message  string
	severity models.Severity
}

// recordingDisplay captures display calls.
type recordingDisplay struct {
	mu        sync.Mutex
	renders   []models.Reading
	statuses  []models.DeviceStatus
	banners   []banner
	histories [][]models.Alert
	modals    []string
	hides     int
}

func (d *recordingDisplay) Render(r models.Reading, _, _ models.Severity, status models.DeviceStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders = append(d.renders, r)
	d.statuses = append(d.statuses, status)
}

func (d *recordingDisplay) ShowAlertBanner(message string, severity models.Severity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.banners = append(d.banners, banner{message, severity})
}

func (d *recordingDisplay) ShowHistory(alerts []models.Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.histories = append(d.histories, alerts)
}

func (d *recordingDisplay) ShowEmergencyModal(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modals = append(d.modals, message)
}

func (d *recordingDisplay) HideEmergencyModal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hides++
}

func (d *recordingDisplay) lastBanner() banner {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.banners) == 0 {
		return banner{}
	}
	return d.banners[len(d.banners)-1]
}

type recordingFeedback struct {
	emergency, warning, prediction int
}

func (f *recordingFeedback) SignalEmergency()  { f.emergency++ }
func (f *recordingFeedback) SignalWarning()    { f.warning++ }
func (f *recordingFeedback) SignalPrediction() { f.prediction++ }

type recordingSender struct {
	mu   sync.Mutex
	sent []models.Notification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

// memHistoryRepo is an in-memory repository.HistoryRepo.
type memHistoryRepo struct {
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (r *memHistoryRepo) LoadHistory(context.Context) ([]byte, error) {
	return r.data, r.loadErr
}

func (r *memHistoryRepo) SaveHistory(_ context.Context, data []byte) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.data = append([]byte(nil), data...)
	return nil
}

var testContacts = []models.Contact{
	{Name: "Dr. Ahmed", Phone: "+966-555-0123", DisplayRef: "contact1", Role: "doctor"},
	{Name: "Family member", Phone: "+966-555-0456", DisplayRef: "contact2", Role: "family"},
}

type monitorFixture struct {
	m        *Monitor
	sched    *manualScheduler
	display  *recordingDisplay
	feedback *recordingFeedback
	sender   *recordingSender
	history  *memHistoryRepo
	alerts   *fakeAlertRepo
}

func newMonitorFixture() *monitorFixture {
	f := &monitorFixture{
		sched:    newManualScheduler(t0),
		display:  &recordingDisplay{},
		feedback: &recordingFeedback{},
		sender:   &recordingSender{},
		history:  &memHistoryRepo{},
		alerts:   &fakeAlertRepo{},
	}
	log := logger.NewNop()
	disp := NewNotificationDispatcher(DispatcherConfig{}, f.sched, f.sender, log)
	disp.now = f.sched.Now

	f.m = NewMonitor(MonitorConfig{
		Thresholds: models.DefaultThresholds(),
		Pattern:    DefaultPatternConfig(),
		Contacts:   testContacts,
	}, MonitorDeps{
		Generator:   NewVitalsGenerator(rand.New(rand.NewSource(1))),
		Dispatcher:  disp,
		Scheduler:   f.sched,
		Display:     f.display,
		Feedback:    f.feedback,
		HistoryRepo: f.history,
		AlertRepo:   f.alerts,
		Log:         log,
		Now:         f.sched.Now,
	})
	return f
}
