package display

import (
	"sync"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
	"health_monitor/internal/service"
)

// Event types pushed to display subscribers.
const (
	EventVitals      = "vitals"
	EventBanner      = "alert_banner"
	EventHistory     = "history"
	EventModalShown  = "emergency_modal"
	EventModalHidden = "emergency_modal_hidden"
)

const defaultBuffer = 32

// Event is one display update.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"at"`
}

type VitalsView struct {
	HeartRate           float64             `json:"heart_rate"`
	BloodOxygen         float64             `json:"blood_oxygen"`
	HeartRateSeverity   models.Severity     `json:"heart_rate_severity"`
	BloodOxygenSeverity models.Severity     `json:"blood_oxygen_severity"`
	DeviceStatus        models.DeviceStatus `json:"device_status"`
	CapturedAt          time.Time           `json:"captured_at"`
}

type BannerView struct {
	Message  string          `json:"message"`
	Severity models.Severity `json:"severity"`
}

type ModalView struct {
	Message string `json:"message"`
}

// Hub fans display updates out to subscribers (WebSocket connections).
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	log    *logger.Logger
	now    func() time.Time
}

var _ service.DisplaySink = (*Hub)(nil)

// NewHub returns a hub whose subscriber channels hold buffer events.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
		log:    log,
		now:    time.Now,
	}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) publish(typ string, data interface{}) {
	ev := Event{Type: typ, Data: data, At: h.now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			if h.log != nil {
				h.log.Debugw("display_event_dropped", "subscriber", id, "type", typ)
			}
		}
	}
}

func (h *Hub) Render(r models.Reading, hr, o2 models.Severity, status models.DeviceStatus) {
	h.publish(EventVitals, VitalsView{
		HeartRate:           r.HeartRate,
		BloodOxygen:         r.BloodOxygen,
		HeartRateSeverity:   hr,
		BloodOxygenSeverity: o2,
		DeviceStatus:        status,
		CapturedAt:          r.CapturedAt,
	})
}

func (h *Hub) ShowAlertBanner(message string, severity models.Severity) {
	h.publish(EventBanner, BannerView{Message: message, Severity: severity})
}

func (h *Hub) ShowHistory(alerts []models.Alert) {
	h.publish(EventHistory, alerts)
}

func (h *Hub) ShowEmergencyModal(message string) {
	h.publish(EventModalShown, ModalView{Message: message})
}

func (h *Hub) HideEmergencyModal() {
	h.publish(EventModalHidden, nil)
}
