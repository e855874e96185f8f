package dto

import "reroute-service/internal/domain"

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string          `json:"type"`
	Geometry   LineString      `json:"geometry"`
	Properties RouteProperties `json:"properties"`
}

type LineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type RouteProperties struct {
	Summary RouteSummary `json:"summary"`
}

type RouteSummary struct {
	Distance int `json:"distance"`
	Duration int `json:"duration"`
}

// NewRouteCollection renders a route the way the routing service returns it:
// a FeatureCollection holding one LineString feature.
func NewRouteCollection(r domain.Route) FeatureCollection {
	return FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{{
			Type: "Feature",
			Geometry: LineString{
				Type:        "LineString",
				Coordinates: r.Path.ToLists(),
			},
			Properties: RouteProperties{
				Summary: RouteSummary{Distance: r.DistanceMeters, Duration: r.DurationSeconds},
			},
		}},
	}
}
