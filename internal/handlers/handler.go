package handlers

import (
	"net/http"

	_ "growbox_dashboard/docs"
	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	// Set only when a registry is given.
	requests *prometheus.CounterVec
	gatherer prometheus.Gatherer
}

// NewHandler constructs a new HTTP handler with dependencies.
// When reg is non-nil, request counters are registered with it and
// served on /metrics.
func NewHandler(services *service.Service, log *logger.Logger, reg *prometheus.Registry) *Handler {
	h := &Handler{services: services, log: log}
	if reg != nil {
		h.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growbox_device_http_requests_total",
			Help: "HTTP requests served by the device, by route and status code.",
		}, []string{"route", "code"})
		reg.MustRegister(h.requests)
		h.gatherer = reg
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Push streams, same port
	router.GET("/events", h.sseConnect)
	router.GET("/ws", h.wsConnect)

	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/sensors", h.getSensors)
		api.GET("/status", h.getStatus)
		// Body example: {"targetAirHumidity":65,"lightOnTime":"06:00","lightOffTime":"18:00"}
		api.POST("/targets", h.postTargets)
		api.GET("/logs", h.getLogs)
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
