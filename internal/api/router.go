package api

import (
	"reroute-service/internal/adapters/events"
	"reroute-service/internal/api/handlers"
	"reroute-service/internal/ports"
	"reroute-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer needs. Zones and Hub are
// optional.
type Dependencies struct {
	Routes      *services.RouteService
	Simulations *services.SimulationService
	Zones       ports.ZoneRepository
	Hub         *events.Hub
	Logger      *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns the gin
// engine. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(recoveryMiddleware(logger))
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(logger))

	routeHandler := &handlers.RouteHandler{Service: deps.Routes, Logger: logger}
	zoneHandler := &handlers.ZoneHandler{Repo: deps.Zones, Logger: logger}
	simHandler := &handlers.SimulationHandler{
		Service: deps.Simulations,
		Hub:     deps.Hub,
		Logger:  logger,
	}

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		api.POST("/route", routeHandler.Route)
		api.GET("/zones", zoneHandler.List)

		sims := api.Group("/simulations/:agent")
		sims.POST("", simHandler.Start)
		sims.GET("", simHandler.Get)
		sims.DELETE("", simHandler.Stop)
		sims.GET("/events", simHandler.Events)
	}

	return r
}
