package domain

// ExclusionZone is a polygon ring the agent must not drive through.
//
// The ring is implicitly closed: a trailing vertex that repeats the first one
// is dropped at construction, so vertices always hold the open ring and the
// last vertex is treated as connected back to the first.
type ExclusionZone struct {
	ID        string
	// Name is a display label for saved zones. It is empty for inline zones.
	Name      string
	vertices  []Coordinate
	malformed bool
}

func NewExclusionZone(id string, vertices []Coordinate) ExclusionZone {
	cp := make([]Coordinate, len(vertices))
	copy(cp, vertices)

	for len(cp) > 1 && cp[len(cp)-1] == cp[0] {
		cp = cp[:len(cp)-1]
	}

	return ExclusionZone{ID: id, vertices: cp}
}

// Build a zone from GeoJSON style [lon, lat] pairs. A pair with fewer than two
// components marks the whole zone as malformed.
func ZoneFromLists(id string, ring [][]float64) ExclusionZone {
	coords := make([]Coordinate, 0, len(ring))
	malformed := false
	for _, pair := range ring {
		c, ok := CoordinateFromList(pair)
		if !ok {
			malformed = true
			continue
		}
		coords = append(coords, c)
	}

	z := NewExclusionZone(id, coords)
	z.malformed = malformed
	return z
}

// Valid reports whether the zone has at least 3 finite vertices and was
// parsed without malformed pairs. Invalid zones never block.
func (z ExclusionZone) Valid() bool {
	if z.malformed || len(z.vertices) < 3 {
		return false
	}
	for _, v := range z.vertices {
		if !v.IsFinite() {
			return false
		}
	}
	return true
}

// Vertices returns a copy of the open ring.
func (z ExclusionZone) Vertices() []Coordinate {
	cp := make([]Coordinate, len(z.vertices))
	copy(cp, z.vertices)
	return cp
}

// Contains reports whether p lies inside the zone or on its boundary.
func (z ExclusionZone) Contains(p Coordinate) bool {
	if !z.Valid() {
		return false
	}
	return PointInPolygon(p, z.vertices)
}

// ClosedRing returns the ring as [lon, lat] pairs with the first vertex
// repeated at the end, as GeoJSON polygons require.
func (z ExclusionZone) ClosedRing() [][]float64 {
	if len(z.vertices) == 0 {
		return [][]float64{}
	}
	out := make([][]float64, 0, len(z.vertices)+1)
	for _, v := range z.vertices {
		out = append(out, v.CoordsToList())
	}
	out = append(out, z.vertices[0].CoordsToList())
	return out
}

// ValidZones filters zones down to the ones that can block.
func ValidZones(zones []ExclusionZone) []ExclusionZone {
	out := make([]ExclusionZone, 0, len(zones))
	for _, z := range zones {
		if z.Valid() {
			out = append(out, z)
		}
	}
	return out
}
