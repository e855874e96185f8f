package domain

import "math"

// Immutable geographic coordinate (latitude, longitude).
type Coordinate struct {
	Lat float64
	Lon float64
}

// Build a Coordinate from a [lon, lat] pair as used by GeoJSON and ORS.
func CoordinateFromList(pair []float64) (Coordinate, bool) {
	if len(pair) < 2 {
		return Coordinate{}, false
	}
	return Coordinate{Lon: pair[0], Lat: pair[1]}, true
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinate) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// IsFinite reports whether both components are finite numbers.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// Valid reports whether the coordinate is finite and inside WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.IsFinite() && c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Squared planar distance, treating lon as x and lat as y.
func (c Coordinate) distance2(o Coordinate) float64 {
	dx := c.Lon - o.Lon
	dy := c.Lat - o.Lat
	return dx*dx + dy*dy
}
