package ports

import (
	"context"
	"errors"
	"reroute-service/internal/domain"
)

// ErrNoRoute is returned when the routing service answers without a usable
// geometry. Callers treat it the same as a transport failure.
var ErrNoRoute = errors.New("no usable route geometry")

// Input for a single routing request.
type RouteRequest struct {
	Start domain.Coordinate
	End   domain.Coordinate
	Avoid []domain.ExclusionZone
}

// Contract for requesting a driving route from an external routing service.
type RouteProvider interface {
	// Return a route from Start to End that avoids the given zones.
	GetRoute(ctx context.Context, req RouteRequest) (domain.Route, error)
}
