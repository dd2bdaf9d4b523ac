package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// routeUnmatched labels requests that hit no registered route.
const routeUnmatched = "unmatched"

// requestMiddleware logs each request and counts it by route and status.
// Streaming routes are logged when the stream ends.
func (h *Handler) requestMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = routeUnmatched
	}
	code := c.Writer.Status()

	if h.requests != nil {
		h.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	}
	if h.log != nil {
		h.log.Debugw("http_request",
			"method", c.Request.Method,
			"route", route,
			"status", code,
			"duration", time.Since(start),
		)
	}
}
