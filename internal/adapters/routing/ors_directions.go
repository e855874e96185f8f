package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
)

type directionsRequest struct {
	Coordinates  [][]float64        `json:"coordinates"`
	Instructions bool               `json:"instructions"`
	Options      *directionsOptions `json:"options,omitempty"`
}

type directionsOptions struct {
	AvoidPolygons *multiPolygon `json:"avoid_polygons,omitempty"`
}

type multiPolygon struct {
	Type        string          `json:"type"`
	Coordinates [][][][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// buildDirectionsRequest converts a route request to the ORS body. Only valid
// zones are sent and every ring is explicitly closed.
func buildDirectionsRequest(req ports.RouteRequest) directionsRequest {
	body := directionsRequest{
		Coordinates: [][]float64{req.Start.CoordsToList(), req.End.CoordsToList()},
	}

	zones := domain.ValidZones(req.Avoid)
	if len(zones) == 0 {
		return body
	}

	polys := make([][][][]float64, 0, len(zones))
	for _, z := range zones {
		polys = append(polys, [][][]float64{z.ClosedRing()})
	}

	body.Options = &directionsOptions{
		AvoidPolygons: &multiPolygon{Type: "MultiPolygon", Coordinates: polys},
	}
	return body
}

// fetchDirections requests a single route from the ORS directions endpoint
// in GeoJSON format.
func (o *ORSRouteProvider) fetchDirections(ctx context.Context, req ports.RouteRequest) (domain.Route, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(buildDirectionsRequest(req))
	if err != nil {
		return domain.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.postJSON(ctx, endpoint, payload)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return domain.Route{}, fmt.Errorf("directions request: %w: %v", ports.ErrNoRoute, err)
		}
		return domain.Route{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return domain.Route{}, fmt.Errorf("directions response has no features: %w", ports.ErrNoRoute)
	}

	f := dr.Features[0]
	path, err := domain.PathFromLists(f.Geometry.Coordinates)
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions response geometry: %w", ports.ErrNoRoute)
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return domain.Route{
		Path:            path,
		DistanceMeters:  int(math.Round(f.Properties.Summary.Distance)),
		DurationSeconds: int(math.Round(f.Properties.Summary.Duration)),
	}, nil
}
