package simulation

import (
	"reroute-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

// linePath builds n points along the equator at lon 0..n-1.
func linePath(t *testing.T, n int) domain.Path {
	t.Helper()
	coords := make([]domain.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		coords = append(coords, domain.Coordinate{Lat: 0, Lon: float64(i)})
	}
	p, err := domain.NewPath(coords)
	require.NoError(t, err)
	return p
}

func pathOf(t *testing.T, coords ...domain.Coordinate) domain.Path {
	t.Helper()
	p, err := domain.NewPath(coords)
	require.NoError(t, err)
	return p
}

// zoneAround returns a small square zone centred on lon, lat 0.
func zoneAround(id string, lon float64) domain.ExclusionZone {
	return domain.ZoneFromLists(id, [][]float64{
		{lon - 0.5, -0.5}, {lon + 0.5, -0.5}, {lon + 0.5, 0.5}, {lon - 0.5, 0.5},
	})
}
