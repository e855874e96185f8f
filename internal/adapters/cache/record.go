package cache

import (
	"encoding/json"
	"fmt"
	"reroute-service/internal/domain"
)

// routeRecord is the stored form of a domain.Route. Geometry is kept as
// GeoJSON style [lon, lat] pairs so entries stay readable in the database.
type routeRecord struct {
	Geometry        [][]float64 `json:"geometry"`
	DistanceMeters  int         `json:"distance_meters"`
	DurationSeconds int         `json:"duration_seconds"`
}

func encodeRoute(r domain.Route) ([]byte, error) {
	b, err := json.Marshal(routeRecord{
		Geometry:        r.Path.ToLists(),
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	return b, nil
}

func decodeRoute(b []byte) (domain.Route, error) {
	var rec routeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Route{}, fmt.Errorf("decode route: %w", err)
	}
	return rec.route()
}

func (rec routeRecord) route() (domain.Route, error) {
	path, err := domain.PathFromLists(rec.Geometry)
	if err != nil {
		return domain.Route{}, fmt.Errorf("decode route geometry: %w", err)
	}
	return domain.Route{
		Path:            path,
		DistanceMeters:  rec.DistanceMeters,
		DurationSeconds: rec.DurationSeconds,
	}, nil
}
