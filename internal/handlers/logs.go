package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errKindInvalid  = "invalid 'kind'; use warning, emergency, prediction or emergency_call"
	errRangeInvalid = "'from' must be <= 'to'"
	errLogs         = "failed to load alert log"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List alert log
// @Description  Persisted alert audit log, oldest first. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to    query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only treated as end of day."  example(2025-08-31)
// @Param        kind  query   string  false  "Alert kind"  Enums(warning,emergency,prediction,emergency_call)
// @Success      200   {object}  map[string]interface{}  "count, alerts"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	filter, msg := parseLogFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	alerts, err := h.services.AlertLog.List(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLogs, "logs_list_failed", err,
			"from", filter.From, "to", filter.To, "kind", filter.Kind)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// parseLogFilter reads from/to/kind; a non-empty message means a bad request.
func parseLogFilter(c *gin.Context) (service.LogFilter, string) {
	var (
		f   service.LogFilter
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return f, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return f, errToInvalid
		}
		// date-only "to" covers the whole day
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errRangeInvalid
	}
	f.Kind = strings.ToLower(strings.TrimSpace(c.Query("kind")))
	if f.Kind != "" && !models.AlertKind(f.Kind).Valid() {
		return f, errKindInvalid
	}
	return f, ""
}

// parseQueryTime accepts RFC3339, date-time or date-only input and returns UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
