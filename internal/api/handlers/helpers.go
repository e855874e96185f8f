package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reroute-service/internal/api/dto"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
	"reroute-service/internal/services"
	"reroute-service/internal/simulation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// writeServiceError maps service errors to a status and a client-safe
// message. Unexpected errors are logged and reported as 500.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnknownAgent):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ports.ErrNoRoute):
		writeError(c, http.StatusBadGateway, "no route found")
	case errors.Is(err, simulation.ErrControllerClosed):
		writeError(c, http.StatusServiceUnavailable, "service is shutting down")
	default:
		logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, http.StatusBadGateway, "failed to calculate route")
	}
}

// toServiceRequest converts the wire body into a service request. Blocked
// roads are named by their position in the request.
func toServiceRequest(req dto.RouteRequest) (services.RouteRequest, error) {
	start, err := parsePoint("start", req.Start)
	if err != nil {
		return services.RouteRequest{}, err
	}
	end, err := parsePoint("end", req.End)
	if err != nil {
		return services.RouteRequest{}, err
	}

	zones := make([]domain.ExclusionZone, 0, len(req.BlockedRoads))
	for i, ring := range req.BlockedRoads {
		zones = append(zones, domain.ZoneFromLists(fmt.Sprintf("blocked-%d", i), ring))
	}

	return services.RouteRequest{Start: start, End: end, Zones: zones, ZoneIDs: req.ZoneIDs}, nil
}

func parsePoint(field string, pair []float64) (domain.Coordinate, error) {
	if len(pair) != 2 {
		return domain.Coordinate{}, fmt.Errorf("%w: %s must be [lon, lat]", services.ErrInvalidRequest, field)
	}
	c, _ := domain.CoordinateFromList(pair)
	return c, nil
}
