package handlers

import (
	"errors"
	"net/http"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	msgTargetsUpdated = "Targets updated successfully."
	msgInvalidJSON    = "Invalid JSON format"
	msgTargetsFailed  = "Failed to save targets"

	errGetSensors = "failed to load sensors"
	errGetStatus  = "failed to load status"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Latest sensor readings
// @Description  A null value means the sensor could not be read.
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.SensorSnapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/sensors [get]
func (h *Handler) getSensors(c *gin.Context) {
	s, err := h.services.Monitoring.Sensors(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSensors, "get_sensors_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Actuator status
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.DeviceStatusSnapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update targets
// @Description  Humidity must be in (0, 100]; times are HH:MM. An on time equal to the off time keeps the light off.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body      models.TargetUpdateRequest  true  "Targets"
// @Success      200   {object}  models.TargetUpdateResult
// @Failure      400   {object}  models.TargetUpdateResult
// @Failure      500   {object}  models.TargetUpdateResult
// @Router       /api/targets [post]
func (h *Handler) postTargets(c *gin.Context) {
	var req models.TargetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.TargetUpdateResult{Success: false, Message: msgInvalidJSON})
		return
	}

	if _, err := h.services.Targets.Update(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrInvalidTargets) {
			c.JSON(http.StatusBadRequest, models.TargetUpdateResult{Success: false, Message: err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("targets_update_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, models.TargetUpdateResult{Success: false, Message: msgTargetsFailed})
		return
	}
	c.JSON(http.StatusOK, models.TargetUpdateResult{Success: true, Message: msgTargetsUpdated})
}
