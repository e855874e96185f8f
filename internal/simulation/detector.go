package simulation

import "reroute-service/internal/domain"

// IsBlocked reports whether point falls inside at least one valid zone.
// Malformed zones are skipped rather than failing the whole check.
func IsBlocked(point domain.Coordinate, zones []domain.ExclusionZone) bool {
	_, ok := BlockingZone(point, zones)
	return ok
}

// BlockingZone returns the first zone containing point.
func BlockingZone(point domain.Coordinate, zones []domain.ExclusionZone) (domain.ExclusionZone, bool) {
	for _, z := range zones {
		if zoneContains(z, point) {
			return z, true
		}
	}
	return domain.ExclusionZone{}, false
}

// zoneContains treats an evaluation failure as non-blocking for that zone.
func zoneContains(z domain.ExclusionZone, point domain.Coordinate) (inside bool) {
	defer func() {
		if recover() != nil {
			inside = false
		}
	}()
	return z.Contains(point)
}
