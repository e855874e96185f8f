package services

import (
	"context"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
)

// ErrInvalidRequest marks caller errors. Handlers surface it as 400.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// RouteRequest asks for a route between two points. Zones are inline
// exclusion zones; ZoneIDs reference saved zones. The union of both is
// avoided.
type RouteRequest struct {
	Start   domain.Coordinate
	End     domain.Coordinate
	Zones   []domain.ExclusionZone
	ZoneIDs []string
}

// RouteService forwards route requests to the routing service after
// resolving saved zones.
type RouteService struct {
	Provider ports.RouteProvider
	// Zones is optional; requests naming saved zones fail without it.
	Zones ports.ZoneRepository
}

func NewRouteService(provider ports.RouteProvider, zones ports.ZoneRepository) *RouteService {
	return &RouteService{Provider: provider, Zones: zones}
}

func (s *RouteService) GetRoute(ctx context.Context, req RouteRequest) (domain.Route, error) {
	if err := validateEndpoints(req); err != nil {
		return domain.Route{}, err
	}

	zones, err := s.ResolveZones(ctx, req.Zones, req.ZoneIDs)
	if err != nil {
		return domain.Route{}, err
	}

	route, err := s.Provider.GetRoute(ctx, ports.RouteRequest{Start: req.Start, End: req.End, Avoid: zones})
	if err != nil {
		return domain.Route{}, fmt.Errorf("get route: %w", err)
	}
	return route, nil
}

// ResolveZones returns the inline zones followed by the saved zones named by
// ids. Saved zones already present inline by id are not repeated.
func (s *RouteService) ResolveZones(ctx context.Context, inline []domain.ExclusionZone, ids []string) ([]domain.ExclusionZone, error) {
	out := make([]domain.ExclusionZone, 0, len(inline)+len(ids))
	out = append(out, inline...)
	if len(ids) == 0 {
		return out, nil
	}
	if s.Zones == nil {
		return nil, invalidf("saved zones are not available")
	}

	saved, err := s.Zones.GetZones(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve zone_ids: %w", ErrInvalidRequest, err)
	}

	seen := make(map[string]struct{}, len(inline))
	for _, z := range inline {
		if z.ID != "" {
			seen[z.ID] = struct{}{}
		}
	}
	for _, z := range saved {
		if _, dup := seen[z.ID]; dup {
			continue
		}
		out = append(out, z)
	}
	return out, nil
}

func validateEndpoints(req RouteRequest) error {
	if !req.Start.Valid() {
		return invalidf("start must be a finite [lon, lat] within WGS84 bounds")
	}
	if !req.End.Valid() {
		return invalidf("end must be a finite [lon, lat] within WGS84 bounds")
	}
	return nil
}
