package ports

import (
	"context"
	"reroute-service/internal/domain"
)

// Port: a boundary for retrieving saved exclusion zones.
type ZoneRepository interface {
	ListZones(ctx context.Context) ([]domain.ExclusionZone, error)
	// Return the zones with the given ids. Unknown ids are an error.
	GetZones(ctx context.Context, ids []string) ([]domain.ExclusionZone, error)
}
