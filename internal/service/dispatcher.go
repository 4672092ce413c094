package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
)

// Notification timing defaults.
const (
	DefaultNotifyStagger = 1500 * time.Millisecond
	DefaultNotifyRevert  = 15 * time.Second
	DefaultLocation      = "home"

	sendTimeout = 5 * time.Second
	roleDoctor  = "doctor"
)

// Sender performs the actual delivery of a notification payload.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// DispatcherConfig tunes notification timing.
type DispatcherConfig struct {
	Stagger  time.Duration
	Revert   time.Duration
	Location string
}

// VitalsSource reports the vitals to quote in a notification at delivery time.
type VitalsSource func() models.Reading

// contactTasks holds the pending tasks for one contact.
type contactTasks struct {
	deliver Task
	revert  Task
}

// NotificationDispatcher fans an emergency alert out to contacts with staggered
// delivery. Each contact is an independent scheduled task.
type NotificationDispatcher struct {
	cfg    DispatcherConfig
	sched  Scheduler
	sender Sender
	log    *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	vitals   VitalsSource
	statuses map[string]models.NotificationStatus
	pending  map[string]*contactTasks
	// gens invalidates deliveries that already fired but have not run yet.
	gens map[string]uint64
}

// NewNotificationDispatcher returns a dispatcher. Zero durations fall back to defaults.
func NewNotificationDispatcher(cfg DispatcherConfig, sched Scheduler, sender Sender, log *logger.Logger) *NotificationDispatcher {
	if cfg.Stagger <= 0 {
		cfg.Stagger = DefaultNotifyStagger
	}
	if cfg.Revert <= 0 {
		cfg.Revert = DefaultNotifyRevert
	}
	if cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if sched == nil {
		sched = NewTimerScheduler()
	}
	return &NotificationDispatcher{
		cfg:      cfg,
		sched:    sched,
		sender:   sender,
		log:      log,
		now:      time.Now,
		statuses: make(map[string]models.NotificationStatus),
		pending:  make(map[string]*contactTasks),
		gens:     make(map[string]uint64),
	}
}

// SetVitalsSource makes deliveries quote src() instead of the alert's vitals.
// src is called without the dispatcher lock held.
func (d *NotificationDispatcher) SetVitalsSource(src VitalsSource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vitals = src
}

// Notify schedules delivery of alert to every contact, contact i after i*stagger.
func (d *NotificationDispatcher) Notify(contacts []models.Contact, alert models.Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, c := range contacts {
		c := c
		key := contactKey(c)
		if _, ok := d.statuses[key]; !ok {
			d.statuses[key] = models.NotificationIdle
		}
		tasks := d.tasksFor(key)
		stopTask(tasks.deliver)
		d.gens[key]++
		gen := d.gens[key]
		tasks.deliver = d.sched.AfterFunc(time.Duration(i)*d.cfg.Stagger, func() {
			d.deliver(c, alert, gen)
		})
	}
}

// deliver marks the contact sent, hands the payload to the sender and schedules the revert.
// A delivery superseded by a later Notify or canceled by Reset is dropped.
func (d *NotificationDispatcher) deliver(c models.Contact, alert models.Alert, gen uint64) {
	key := contactKey(c)

	d.mu.Lock()
	if d.gens[key] != gen {
		d.mu.Unlock()
		return
	}
	d.statuses[key] = models.NotificationSent
	tasks := d.tasksFor(key)
	tasks.deliver = nil
	stopTask(tasks.revert)
	tasks.revert = d.sched.AfterFunc(d.cfg.Revert, func() { d.revert(key, gen) })
	src := d.vitals
	d.mu.Unlock()

	vitals := models.Reading{HeartRate: alert.HeartRate, BloodOxygen: alert.BloodOxygen}
	if src != nil {
		vitals = src()
	}
	n := d.buildNotification(c, alert, vitals)

	if d.sender == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := d.sender.Send(ctx, n); err != nil {
		if d.log != nil {
			d.log.Errorw("notification_send_failed", "err", err, "contact", c.Name, "alert_id", alert.ID)
		}
		return
	}
	if d.log != nil {
		d.log.Infow("notification_sent", "contact", c.Name, "phone", c.Phone, "alert_id", alert.ID)
	}
}

func (d *NotificationDispatcher) revert(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gens[key] != gen {
		return
	}
	d.statuses[key] = models.NotificationIdle
	if tasks, ok := d.pending[key]; ok {
		tasks.revert = nil
	}
}

// Statuses returns a copy of the per-contact status, keyed by display ref.
func (d *NotificationDispatcher) Statuses() map[string]models.NotificationStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]models.NotificationStatus, len(d.statuses))
	for k, v := range d.statuses {
		out[k] = v
	}
	return out
}

// Register marks contacts idle so they show up in Statuses before any alert.
func (d *NotificationDispatcher) Register(contacts []models.Contact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range contacts {
		if _, ok := d.statuses[contactKey(c)]; !ok {
			d.statuses[contactKey(c)] = models.NotificationIdle
		}
	}
}

// Reset cancels pending deliveries and reverts, and marks every contact idle.
func (d *NotificationDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, tasks := range d.pending {
		stopTask(tasks.deliver)
		stopTask(tasks.revert)
		delete(d.pending, key)
	}
	for key := range d.gens {
		d.gens[key]++
	}
	for key := range d.statuses {
		d.statuses[key] = models.NotificationIdle
	}
}

// tasksFor must be called with d.mu held.
func (d *NotificationDispatcher) tasksFor(key string) *contactTasks {
	tasks, ok := d.pending[key]
	if !ok {
		tasks = &contactTasks{}
		d.pending[key] = tasks
	}
	return tasks
}

func (d *NotificationDispatcher) buildNotification(c models.Contact, alert models.Alert, vitals models.Reading) models.Notification {
	subject := "relative"
	if strings.EqualFold(c.Role, roleDoctor) {
		subject = "patient"
	}
	hr := int(math.Round(vitals.HeartRate))
	o2 := int(math.Round(vitals.BloodOxygen))
	sentAt := d.now().UTC()

	return models.Notification{
		AlertID:     alert.ID,
		ContactName: c.Name,
		Phone:       c.Phone,
		Subject:     subject,
		Message: fmt.Sprintf(
			"Urgent health alert from your %s\nLocation: %s\nHeart rate: %d bpm\nBlood oxygen: %d%%\nTime: %s\nPlease check on them immediately",
			subject, d.cfg.Location, hr, o2, sentAt.Format(time.Kitchen),
		),
		HeartRate:   vitals.HeartRate,
		BloodOxygen: vitals.BloodOxygen,
		Location:    d.cfg.Location,
		SentAt:      sentAt,
	}
}

func contactKey(c models.Contact) string {
	if c.DisplayRef != "" {
		return c.DisplayRef
	}
	return c.Name
}
