package handlers

import (
	"errors"
	"net/http"

	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusEmergency    = "emergency_triggered"
	statusReset        = "reset"
	statusInjected     = "injected"
	statusAcknowledged = "acknowledged"
	statusNoEmergency  = "no_active_emergency"
	statusCalling      = "calling"
	statusMonitoring   = "monitoring"
	statusPaused       = "paused"

	errForceEmergency  = "failed to trigger emergency"
	errReset           = "failed to reset"
	errInject          = "failed to inject vitals"
	errAcknowledge     = "failed to acknowledge"
	errCallEmergency   = "failed to call emergency services"
	errSetMonitoring   = "failed to toggle monitoring"
	errGetState        = "failed to load state"
	errGetHistory      = "failed to load history"
	errInvalidBodyPref = "invalid body: "
	errScenarioBody    = "provide either name or both heart_rate and blood_oxygen"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// EmergencyRequest is the optional payload of a manual emergency.
type EmergencyRequest struct {
	Message string `json:"message,omitempty" example:"Emergency alert triggered manually - system test"`
}

// ScenarioRequest selects a named scenario or explicit vitals.
type ScenarioRequest struct {
	// Scenario name. Allowed: normal, low_hr, low_o2, critical
	Name        string   `json:"name,omitempty" example:"low_hr"`
	HeartRate   *float64 `json:"heart_rate,omitempty" example:"45"`
	BloodOxygen *float64 `json:"blood_oxygen,omitempty" example:"98"`
}

// MonitoringRequest pauses or resumes monitoring.
type MonitoringRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"false"`
}

// EvaluationResponse summarizes one analysis cycle.
type EvaluationResponse struct {
	HeartRateSeverity   models.Severity `json:"heart_rate_severity"`
	BloodOxygenSeverity models.Severity `json:"blood_oxygen_severity"`
	Alert               *models.Alert   `json:"alert,omitempty"`
	Prediction          *models.Alert   `json:"prediction,omitempty"`
	Recovered           bool            `json:"recovered"`
	ConsecutiveAbnormal int             `json:"consecutive_abnormal"`
}

func toEvaluationResponse(ev service.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		HeartRateSeverity:   ev.HeartRateSeverity,
		BloodOxygenSeverity: ev.BloodOxygenSeverity,
		Alert:               ev.Primary,
		Prediction:          ev.Prediction,
		Recovered:           ev.Recovered,
		ConsecutiveAbnormal: ev.Escalation.ConsecutiveAbnormal,
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get monitor state
// @Tags         vitals
// @Produce      json
// @Success      200  {object}  models.MonitorState
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/vitals/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "monitor_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Recent alert history
// @Description  Bounded in-memory history, most recent first.
// @Tags         vitals
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	alerts, err := h.services.AlertHistory.RecentAlerts(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetHistory, "history_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// @Summary      Trigger emergency
// @Description  Runs the full emergency workflow for the current vitals.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body   EmergencyRequest  false  "Optional message"
// @Success      200   {object}  map[string]interface{}  "status, alert, state"
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/commands/emergency [post]
func (h *Handler) forceEmergency(c *gin.Context) {
	var req EmergencyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}
	a, err := h.services.Commands.ForceEmergency(c.Request.Context(), req.Message)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errForceEmergency, "force_emergency_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusEmergency, gin.H{"alert": a})
}

// @Summary      Reset to baseline
// @Tags         commands
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/commands/reset [post]
func (h *Handler) reset(c *gin.Context) {
	if err := h.services.Commands.Reset(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReset, "reset_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusReset, gin.H{})
}

// @Summary      Inject scenario
// @Description  Inject a named scenario or explicit vitals and analyze them immediately.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body   ScenarioRequest  true  "Scenario payload"
// @Success      200   {object}  map[string]interface{}  "status, evaluation, state"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/commands/scenario [post]
func (h *Handler) injectScenario(c *gin.Context) {
	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		ev  service.Evaluation
		err error
	)
	switch {
	case req.Name != "":
		ev, err = h.services.Commands.InjectScenario(ctx, req.Name)
	case req.HeartRate != nil && req.BloodOxygen != nil:
		ev, err = h.services.Commands.InjectVitals(ctx, *req.HeartRate, *req.BloodOxygen)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errScenarioBody})
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrUnknownScenario) || errors.Is(err, service.ErrInvalidVitals) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInject, "inject_failed", err, "scenario", req.Name)
		return
	}
	h.respondWithStatusAndState(c, statusInjected, gin.H{"evaluation": toEvaluationResponse(ev)})
}

// @Summary      Acknowledge emergency
// @Tags         commands
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/commands/acknowledge [post]
func (h *Handler) acknowledge(c *gin.Context) {
	ok, err := h.services.Commands.Acknowledge(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAcknowledge, "acknowledge_failed", err)
		return
	}
	status := statusAcknowledged
	if !ok {
		status = statusNoEmergency
	}
	h.respondWithStatusAndState(c, status, gin.H{})
}

// @Summary      Call emergency services
// @Description  Simulated call; the call is recorded in the alert history.
// @Tags         commands
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, call, state"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/commands/call-emergency [post]
func (h *Handler) callEmergency(c *gin.Context) {
	call, err := h.services.Commands.CallEmergencyServices(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCallEmergency, "call_emergency_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusCalling, gin.H{"call": call})
}

// @Summary      Pause or resume monitoring
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body   MonitoringRequest  true  "Toggle payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/commands/monitoring [post]
func (h *Handler) setMonitoring(c *gin.Context) {
	var req MonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Commands.SetMonitoring(c.Request.Context(), *req.Enabled); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetMonitoring, "set_monitoring_failed", err)
		return
	}
	status := statusMonitoring
	if !*req.Enabled {
		status = statusPaused
	}
	h.respondWithStatusAndState(c, status, gin.H{})
}
