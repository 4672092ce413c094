package handlers

import (
	"context"
	"io"
	"sync"
	"time"

	"health_monitor/internal/display"
	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	state models.MonitorState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.MonitorState, error) {
	return m.state, m.err
}

type mockCommands struct {
	alert      models.Alert
	evaluation service.Evaluation
	acked      bool
	call       service.EmergencyCall
	err        error

	lastMessage  string
	lastScenario string
	lastHR       float64
	lastO2       float64
	lastEnabled  *bool
	calls        map[string]int
}

func (m *mockCommands) hit(name string) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockCommands) ForceEmergency(ctx context.Context, message string) (models.Alert, error) {
	m.hit("emergency")
	m.lastMessage = message
	return m.alert, m.err
}

func (m *mockCommands) Reset(ctx context.Context) error {
	m.hit("reset")
	return m.err
}

func (m *mockCommands) InjectScenario(ctx context.Context, name string) (service.Evaluation, error) {
	m.hit("scenario")
	m.lastScenario = name
	return m.evaluation, m.err
}

func (m *mockCommands) InjectVitals(ctx context.Context, hr, o2 float64) (service.Evaluation, error) {
	m.hit("vitals")
	m.lastHR, m.lastO2 = hr, o2
	return m.evaluation, m.err
}

func (m *mockCommands) Acknowledge(ctx context.Context) (bool, error) {
	m.hit("acknowledge")
	return m.acked, m.err
}

func (m *mockCommands) CallEmergencyServices(ctx context.Context) (service.EmergencyCall, error) {
	m.hit("call")
	return m.call, m.err
}

func (m *mockCommands) SetMonitoring(ctx context.Context, enabled bool) error {
	m.hit("monitoring")
	m.lastEnabled = &enabled
	return m.err
}

type mockHistory struct {
	alerts []models.Alert
	err    error
}

func (m *mockHistory) RecentAlerts(ctx context.Context) ([]models.Alert, error) {
	return m.alerts, m.err
}

type mockAlertLog struct {
	resp     []models.Alert
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastKind string
	calls    int
}

func (m *mockAlertLog) List(ctx context.Context, f service.LogFilter) ([]models.Alert, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastKind = f.Kind
	return m.resp, m.err
}

type mockExporter struct {
	data service.ExportData
	xlsx []byte
	err  error
}

func (m *mockExporter) Export(ctx context.Context) (service.ExportData, error) {
	return m.data, m.err
}

func (m *mockExporter) ExportXLSX(ctx context.Context, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := w.Write(m.xlsx)
	return err
}

// mockEvents is an EventSource whose events are pushed by the test.
type mockEvents struct {
	mu  sync.Mutex
	chs []chan display.Event
}

func (m *mockEvents) Subscribe() (<-chan display.Event, func()) {
	ch := make(chan display.Event, 8)
	m.mu.Lock()
	m.chs = append(m.chs, ch)
	m.mu.Unlock()
	return ch, func() {}
}

func (m *mockEvents) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chs)
}

func (m *mockEvents) push(ev display.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.chs {
		ch <- ev
	}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
