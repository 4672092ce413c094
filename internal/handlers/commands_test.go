package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"health_monitor/internal/models"
	"health_monitor/internal/service"
)

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type statusResponse struct {
	Status string              `json:"status"`
	State  models.MonitorState `json:"state"`
	Error  string              `json:"error"`
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	var out statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

func TestGetStateAndHistory(t *testing.T) {
	mon := &mockMonitoring{state: models.MonitorState{
		Reading:      models.Reading{HeartRate: 72, BloodOxygen: 97},
		DeviceStatus: models.DeviceConnected,
		Monitoring:   true,
	}}
	hist := &mockHistory{alerts: []models.Alert{{ID: "a1", Kind: models.AlertWarning}}}
	r := newTestRouter(&service.Service{Monitoring: mon, AlertHistory: hist})

	w := do(t, r, http.MethodGet, "/api/v1/vitals/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.MonitorState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Reading.HeartRate != 72 || !st.Monitoring || st.DeviceStatus != models.DeviceConnected {
		t.Fatalf("unexpected state: %+v", st)
	}

	w = do(t, r, http.MethodGet, "/api/v1/history", "")
	var out struct {
		Count  int            `json:"count"`
		Alerts []models.Alert `json:"alerts"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if w.Code != http.StatusOK || out.Count != 1 || out.Alerts[0].ID != "a1" {
		t.Fatalf("history status=%d body=%s", w.Code, w.Body.String())
	}

	mon.err = errors.New("boom")
	w = do(t, r, http.MethodGet, "/api/v1/vitals/state", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestCommands_EmergencyResetAcknowledgeCall(t *testing.T) {
	mon := &mockMonitoring{state: models.MonitorState{EmergencyActive: true}}
	cmd := &mockCommands{
		alert: models.Alert{ID: "e1", Kind: models.AlertEmergency},
		acked: true,
		call:  service.EmergencyCall{Location: "home", HeartRate: 40, BloodOxygen: 85},
	}
	r := newTestRouter(&service.Service{Monitoring: mon, Commands: cmd})

	w := do(t, r, http.MethodPost, "/api/v1/commands/emergency", `{"message":"drill"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("emergency status=%d, body=%s", w.Code, w.Body.String())
	}
	if cmd.lastMessage != "drill" {
		t.Fatalf("message not forwarded: %q", cmd.lastMessage)
	}
	if resp := decodeStatus(t, w); resp.Status != statusEmergency || !resp.State.EmergencyActive {
		t.Fatalf("bad emergency response: %+v", resp)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/emergency", "")
	if w.Code != http.StatusOK || cmd.lastMessage != "" {
		t.Fatalf("emergency without body: status=%d message=%q", w.Code, cmd.lastMessage)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/reset", "")
	if resp := decodeStatus(t, w); w.Code != http.StatusOK || resp.Status != statusReset {
		t.Fatalf("reset: status=%d resp=%+v", w.Code, resp)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/acknowledge", "")
	if resp := decodeStatus(t, w); resp.Status != statusAcknowledged {
		t.Fatalf("acknowledge resp=%+v", resp)
	}
	cmd.acked = false
	w = do(t, r, http.MethodPost, "/api/v1/commands/acknowledge", "")
	if resp := decodeStatus(t, w); resp.Status != statusNoEmergency {
		t.Fatalf("acknowledge without emergency resp=%+v", resp)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/call-emergency", "")
	var callResp struct {
		Status string                `json:"status"`
		Call   service.EmergencyCall `json:"call"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &callResp)
	if callResp.Status != statusCalling || callResp.Call.HeartRate != 40 {
		t.Fatalf("call resp=%s", w.Body.String())
	}

	want := map[string]int{"emergency": 2, "reset": 1, "acknowledge": 2, "call": 1}
	for k, v := range want {
		if cmd.calls[k] != v {
			t.Fatalf("calls[%s]=%d; want %d", k, cmd.calls[k], v)
		}
	}
}

func TestCommands_Scenario(t *testing.T) {
	alert := models.Alert{ID: "a", Kind: models.AlertEmergency}
	cmd := &mockCommands{evaluation: service.Evaluation{
		HeartRateSeverity: models.SeverityCritical,
		Primary:           &alert,
		Escalation:        models.EscalationState{ConsecutiveAbnormal: 1},
	}}
	r := newTestRouter(&service.Service{Monitoring: &mockMonitoring{}, Commands: cmd})

	w := do(t, r, http.MethodPost, "/api/v1/commands/scenario", `{"name":"low_hr"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("scenario status=%d, body=%s", w.Code, w.Body.String())
	}
	if cmd.lastScenario != "low_hr" {
		t.Fatalf("scenario not forwarded: %q", cmd.lastScenario)
	}
	var resp struct {
		Status     string             `json:"status"`
		Evaluation EvaluationResponse `json:"evaluation"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusInjected || resp.Evaluation.HeartRateSeverity != models.SeverityCritical ||
		resp.Evaluation.Alert == nil || resp.Evaluation.ConsecutiveAbnormal != 1 {
		t.Fatalf("bad scenario response: %s", w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/scenario", `{"heart_rate":45,"blood_oxygen":97.5}`)
	if w.Code != http.StatusOK || cmd.lastHR != 45 || cmd.lastO2 != 97.5 {
		t.Fatalf("vitals injection: status=%d hr=%v o2=%v", w.Code, cmd.lastHR, cmd.lastO2)
	}

	cases := []struct {
		name string
		body string
		err  error
	}{
		{"empty body", `{}`, nil},
		{"only heart rate", `{"heart_rate":45}`, nil},
		{"malformed", `{"name":`, nil},
		{"unknown scenario", `{"name":"x"}`, fmt.Errorf("%w: %q", service.ErrUnknownScenario, "x")},
		{"out of range", `{"heart_rate":500,"blood_oxygen":98}`, service.ErrInvalidVitals},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd.err = tc.err
			w := do(t, r, http.MethodPost, "/api/v1/commands/scenario", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
			}
		})
	}

	cmd.err = errors.New("unexpected")
	w = do(t, r, http.MethodPost, "/api/v1/commands/scenario", `{"name":"normal"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestCommands_Monitoring(t *testing.T) {
	cmd := &mockCommands{}
	r := newTestRouter(&service.Service{Monitoring: &mockMonitoring{}, Commands: cmd})

	w := do(t, r, http.MethodPost, "/api/v1/commands/monitoring", `{"enabled":false}`)
	if resp := decodeStatus(t, w); w.Code != http.StatusOK || resp.Status != statusPaused {
		t.Fatalf("pause: status=%d resp=%+v", w.Code, resp)
	}
	if cmd.lastEnabled == nil || *cmd.lastEnabled {
		t.Fatalf("expected enabled=false, got %v", cmd.lastEnabled)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/monitoring", `{"enabled":true}`)
	if resp := decodeStatus(t, w); resp.Status != statusMonitoring {
		t.Fatalf("resume resp=%+v", resp)
	}

	w = do(t, r, http.MethodPost, "/api/v1/commands/monitoring", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing enabled: expected 400, got %d", w.Code)
	}
}

func TestCommands_ServiceErrors(t *testing.T) {
	cmd := &mockCommands{err: errors.New("down")}
	r := newTestRouter(&service.Service{Monitoring: &mockMonitoring{}, Commands: cmd})

	for _, path := range []string{"emergency", "reset", "acknowledge", "call-emergency"} {
		w := do(t, r, http.MethodPost, "/api/v1/commands/"+path, "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, w.Code)
		}
	}
}
