package routing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reroute-service/internal/domain"
	"reroute-service/internal/ports"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsBody = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "geometry": {"type": "LineString", "coordinates": [[88.36, 22.57], [88.37, 22.58], [88.40, 22.60]]},
    "properties": {"summary": {"distance": 4210.6, "duration": 512.4}}
  }]
}`

type memCache struct {
	mu     sync.Mutex
	routes map[string]domain.Route
}

func (m *memCache) Get(_ context.Context, key string) (domain.Route, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.routes[key]
	return r, ok, nil
}

func (m *memCache) Put(_ context.Context, key string, r domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.routes == nil {
		m.routes = map[string]domain.Route{}
	}
	m.routes[key] = r
	return nil
}

func newTestProvider(t *testing.T, url string, cache ports.RouteCache) *ORSRouteProvider {
	t.Helper()
	p, err := NewORSRouteProvider("test-key", ORSOptions{BaseURL: url, Cache: cache})
	require.NoError(t, err)
	p.backoff = time.Millisecond
	return p
}

func testRequest() ports.RouteRequest {
	return ports.RouteRequest{
		Start: domain.Coordinate{Lat: 22.57, Lon: 88.36},
		End:   domain.Coordinate{Lat: 22.60, Lon: 88.40},
		Avoid: []domain.ExclusionZone{
			domain.ZoneFromLists("open", [][]float64{{88.37, 22.57}, {88.38, 22.57}, {88.38, 22.58}}),
			domain.ZoneFromLists("bad", [][]float64{{88.37, 22.57}}),
		},
	}
}

func TestGetRouteSendsDirectionsRequest(t *testing.T) {
	var got directionsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/directions/driving-car/geojson", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)
	route, err := p.GetRoute(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, route.Path.Len())
	assert.Equal(t, domain.Coordinate{Lat: 22.57, Lon: 88.36}, route.Path.Start())
	assert.Equal(t, 4211, route.DistanceMeters)
	assert.Equal(t, 512, route.DurationSeconds)

	assert.Equal(t, [][]float64{{88.36, 22.57}, {88.40, 22.60}}, got.Coordinates)
	require.NotNil(t, got.Options)
	require.NotNil(t, got.Options.AvoidPolygons)
	assert.Equal(t, "MultiPolygon", got.Options.AvoidPolygons.Type)
	// The malformed zone is dropped and the open ring is closed.
	require.Len(t, got.Options.AvoidPolygons.Coordinates, 1)
	assert.Equal(t,
		[][]float64{{88.37, 22.57}, {88.38, 22.57}, {88.38, 22.58}, {88.37, 22.57}},
		got.Options.AvoidPolygons.Coordinates[0][0],
	)
}

func TestGetRouteWithoutZonesOmitsOptions(t *testing.T) {
	req := testRequest()
	req.Avoid = nil
	body := buildDirectionsRequest(req)
	assert.Nil(t, body.Options)
}

func TestGetRouteNoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, nil).GetRoute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ports.ErrNoRoute)
}

func TestGetRouteNotFoundIsNoRoute(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":2009,"message":"Route could not be found"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, nil).GetRoute(context.Background(), testRequest())
	assert.ErrorIs(t, err, ports.ErrNoRoute)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")
}

func TestGetRouteRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	route, err := newTestProvider(t, srv.URL, nil).GetRoute(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, route.Path.Len())
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetRouteGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, nil).GetRoute(context.Background(), testRequest())
	require.Error(t, err)

	var he *httpStatusError
	assert.True(t, errors.As(err, &he))
	assert.Equal(t, int32(4), calls.Load())
}

func TestGetRouteUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, &memCache{})
	for i := 0; i < 3; i++ {
		_, err := p.GetRoute(context.Background(), testRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRouteRejectsInvalidCoordinates(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:0", nil)
	req := testRequest()
	req.Start = domain.Coordinate{Lat: 120, Lon: 0}

	_, err := p.GetRoute(context.Background(), req)
	assert.Error(t, err)
}

func TestRouteKeyIgnoresInvalidZonesAndClosing(t *testing.T) {
	p := newTestProvider(t, "http://example.invalid", nil)

	a := testRequest()
	b := testRequest()
	b.Avoid = []domain.ExclusionZone{
		domain.ZoneFromLists("closed", [][]float64{{88.37, 22.57}, {88.38, 22.57}, {88.38, 22.58}, {88.37, 22.57}}),
	}
	assert.Equal(t, p.RouteKey(a), p.RouteKey(b))

	c := testRequest()
	c.End = domain.Coordinate{Lat: 22.61, Lon: 88.40}
	assert.NotEqual(t, p.RouteKey(a), p.RouteKey(c))
}
