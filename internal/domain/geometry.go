package domain

import "math"

// PointInPolygon reports whether point lies inside ring using an even-odd ray
// cast, with lon as x and lat as y. The ring may be given in either winding
// order and is treated as closed whether or not it repeats its first vertex.
//
// Points exactly on an edge or vertex are inside. Rings with fewer than 3
// vertices, and rings or points with non-finite components, contain nothing.
func PointInPolygon(point Coordinate, ring []Coordinate) bool {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n < 3 || !point.IsFinite() {
		return false
	}
	for i := 0; i < n; i++ {
		if !ring[i].IsFinite() {
			return false
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]

		if onSegment(point, a, b) {
			return true
		}

		// Half-open crossing rule: a vertex on the ray is counted once.
		if (a.Lat > point.Lat) != (b.Lat > point.Lat) {
			x := (b.Lon-a.Lon)*(point.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if point.Lon < x {
				inside = !inside
			}
		}
	}

	return inside
}

func onSegment(p, a, b Coordinate) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if cross != 0 {
		return false
	}
	return p.Lon >= min(a.Lon, b.Lon) && p.Lon <= max(a.Lon, b.Lon) &&
		p.Lat >= min(a.Lat, b.Lat) && p.Lat <= max(a.Lat, b.Lat)
}

// NearestIndex returns the index of the path coordinate closest to point by
// squared planar distance. Ties resolve to the first occurrence. It returns -1
// for an empty path.
func NearestIndex(path Path, point Coordinate) int {
	best := -1
	bestDist := 0.0
	for i, c := range path.coords {
		d := c.distance2(point)
		if math.IsNaN(d) {
			d = math.Inf(1)
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
