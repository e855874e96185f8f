package ports

import (
	"context"
	"reroute-service/internal/domain"
)

// Cache for routing service responses keyed by a request fingerprint.
type RouteCache interface {
	// Return the cached route and whether it was found.
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	Put(ctx context.Context, key string, route domain.Route) error
}
