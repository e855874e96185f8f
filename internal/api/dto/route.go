package dto

// RouteRequest is the body of POST /api/route and POST /api/simulations/:agent.
// Coordinates are [lon, lat]; each blocked road is a polygon ring.
type RouteRequest struct {
	Start        []float64     `json:"start" binding:"required"`
	End          []float64     `json:"end" binding:"required"`
	BlockedRoads [][][]float64 `json:"blockedRoads"`
	ZoneIDs      []string      `json:"zone_ids"`
}
