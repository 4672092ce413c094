package display

import (
	"testing"

	"health_monitor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLogSink_NilLoggerIsSafe(t *testing.T) {
	s := NewLogSink(nil)
	assert.NotPanics(t, func() {
		s.Render(models.Reading{HeartRate: 75, BloodOxygen: 98}, models.SeverityNormal, models.SeverityNormal, models.DeviceConnected)
		s.ShowAlertBanner("Vitals back to normal", models.SeverityNormal)
		s.ShowHistory(nil)
		s.ShowEmergencyModal("Critical vitals detected")
		s.HideEmergencyModal()
	})
}

func TestMulti_ForwardsToEverySink(t *testing.T) {
	h := NewHub(4, nil)
	ch, unsub := h.Subscribe()
	defer unsub()

	m := Multi{h, NewLogSink(nil)}
	m.ShowEmergencyModal("Critical vitals detected")

	ev := recv(t, ch)
	assert.Equal(t, EventModalShown, ev.Type)
}
