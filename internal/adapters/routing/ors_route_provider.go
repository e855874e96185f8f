package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/obs"
	"reroute-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ORSRouteProvider implements RouteProvider using OpenRouteService.
//
// It coordinates:
//   - Request validation
//   - Optional route caching keyed by request fingerprint
//   - Collapsing concurrent identical requests into one call
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	cache       ports.RouteCache
	logger      *zap.Logger
	flight      singleflight.Group
	maxAttempts int
	backoff     time.Duration
}

type ORSOptions struct {
	BaseURL string
	Profile string
	Cache   ports.RouteCache
	Logger  *zap.Logger
	Client  *http.Client
}

func NewORSRouteProvider(apiKey string, opts ORSOptions) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSRouteProvider{
		session:     opts.Client,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		profile:     opts.Profile,
		cache:       opts.Cache,
		logger:      opts.Logger,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	if provider.session == nil {
		provider.session = &http.Client{Timeout: 10 * time.Second}
	}
	if provider.baseURL == "" {
		provider.baseURL = "https://api.openrouteservice.org"
	}
	if provider.profile == "" {
		provider.profile = "driving-car"
	}
	if provider.logger == nil {
		provider.logger = zap.NewNop()
	}

	return provider, nil
}

// GetRoute returns a route from req.Start to req.End avoiding the valid zones
// in req.Avoid. A response without usable geometry yields ports.ErrNoRoute.
func (o *ORSRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) (_ domain.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	if !req.Start.Valid() || !req.End.Valid() {
		return domain.Route{}, errors.New("get ORS route: start and end must be valid coordinates")
	}

	key := o.RouteKey(req)

	// Check the route cache before issuing external API calls.
	if o.cache != nil {
		cached, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			o.logger.Warn("route cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	// The shared call is detached from any one caller so an abandoned caller
	// does not cancel the others; the client timeout still bounds it.
	ch := o.flight.DoChan(key, func() (any, error) {
		return o.fetchDirections(context.WithoutCancel(ctx), req)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.Route{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return domain.Route{}, fmt.Errorf("get ORS route: %w", res.Err)
	}

	route := res.Val.(domain.Route)

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, route); err != nil {
			o.logger.Warn("route cache write failed", zap.Error(err))
		}
	}

	return route, nil
}

// RouteKey fingerprints a request for caching. Only valid zones contribute,
// matching what is sent to ORS.
func (o *ORSRouteProvider) RouteKey(req ports.RouteRequest) string {
	var b strings.Builder
	b.WriteString(o.profile)

	writeCoord := func(c domain.Coordinate) {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(c.Lon, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(c.Lat, 'g', -1, 64))
	}

	writeCoord(req.Start)
	writeCoord(req.End)
	for _, z := range domain.ValidZones(req.Avoid) {
		b.WriteString("|zone")
		for _, v := range z.Vertices() {
			writeCoord(v)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
