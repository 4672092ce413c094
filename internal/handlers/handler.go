package handlers

import (
	"net/http"

	"health_monitor/internal/display"
	"health_monitor/internal/logger"
	"health_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// EventSource streams display updates to WebSocket clients.
type EventSource interface {
	Subscribe() (<-chan display.Event, func())
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	events   EventSource
	metrics  http.Handler
}

// Option customizes a Handler.
type Option func(*Handler)

// WithEvents streams display events over /ws in addition to state snapshots.
func WithEvents(src EventSource) Option {
	return func(h *Handler) { h.events = src }
}

// WithMetrics exposes h under /metrics.
func WithMetrics(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAPIRoutes(router)

	// Live display stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerVitalsRoutes(api)
		h.registerCommandRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/export", h.export)
	}
}

func (h *Handler) registerVitalsRoutes(api *gin.RouterGroup) {
	vitals := api.Group("/vitals")
	{
		vitals.GET("/state", h.getState)
	}
	api.GET("/history", h.getHistory)
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	cmd := api.Group("/commands")
	{
		// Body (optional): {"message":"drill"}
		cmd.POST("/emergency", h.forceEmergency)
		cmd.POST("/reset", h.reset)
		// Body: {"name":"low_hr"} or {"heart_rate":45,"blood_oxygen":98}
		cmd.POST("/scenario", h.injectScenario)
		cmd.POST("/acknowledge", h.acknowledge)
		cmd.POST("/call-emergency", h.callEmergency)
		// Body: {"enabled":false}
		cmd.POST("/monitoring", h.setMonitoring)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
