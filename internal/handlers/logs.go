package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"growbox_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const errLogsFailed = "failed to load logs"

// logQuery is the query string of GET /api/logs.
type logQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Actuator string `form:"actuator"`
	Type     string `form:"type"`
}

// filter parses the bounds. A date-only "to" covers that whole day.
func (q logQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Actuator: q.Actuator, Type: q.Type}
	var err error
	if q.From != "" {
		if f.From, _, err = parseBound(q.From); err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
	}
	if q.To != "" {
		var dateOnly bool
		if f.To, dateOnly, err = parseBound(q.To); err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if dateOnly {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return f, nil
}

// Accepted layouts for log bounds, most specific first.
var boundLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly}

// parseBound parses s in UTC and reports whether it had no time of day.
func parseBound(s string) (time.Time, bool, error) {
	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), layout == time.DateOnly, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%q is not RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}

// @Summary      Actuation log
// @Description  Relay switches, target changes and sensor faults, oldest first. 'actuator' narrows to one relay; 'type' to one event. A date-only 'to' covers the whole day. switch_ons counts ON transitions per relay in the result.
// @Tags         logs
// @Produce      json
// @Param        from      query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to        query   string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        actuator  query   string  false  "Relay"  Enums(light,humidifier)
// @Param        type      query   string  false  "Event type"  Enums(LIGHT_ON,LIGHT_OFF,HUMIDIFIER_ON,HUMIDIFIER_OFF,TARGETS_UPDATED,SENSOR_FAULT)
// @Success      200   {object}  service.ActuationLog
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var q logQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case errors.Is(err, service.ErrInvalidLogFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errLogsFailed, "logs_list_failed", err,
			"actuator", f.Actuator, "type", f.Type)
	default:
		c.JSON(http.StatusOK, out)
	}
}
