package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/db"
	"reroute-service/internal/platform/obs"
	"time"
)

// SQLRouteCache is a SQL-backed cache of routing responses keyed by request
// fingerprint. Entries older than TTL are treated as missing; a zero TTL
// keeps entries forever.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	TTL     time.Duration

	now func() time.Time
}

func NewSQLRouteCache(sqlDB *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: sqlDB, Dialect: dialect, TTL: ttl, now: time.Now}
}

func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	if key == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT geometry, distance_meters, duration_seconds, created_at
	FROM route_cache
	WHERE cache_key = ?;
	`)

	var (
		geometry  string
		rec       routeRecord
		createdAt int64
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&geometry, &rec.DistanceMeters, &rec.DurationSeconds, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && s.clock().Sub(time.Unix(createdAt, 0)) > s.TTL {
		return domain.Route{}, false, nil
	}

	if err := json.Unmarshal([]byte(geometry), &rec.Geometry); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode geometry for key=%q: %w", key, err)
	}
	route, err := rec.route()
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}
	return route, true, nil
}

// Put stores or replaces the entry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.Route) (err error) {
	defer obs.Time(ctx, "route.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if route.Path.IsEmpty() {
		return errors.New("insert route cache: route has no geometry")
	}

	geometry, err := json.Marshal(route.Path.ToLists())
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO route_cache (cache_key, geometry, distance_meters, duration_seconds, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET geometry = EXCLUDED.geometry,
		distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		created_at = EXCLUDED.created_at;
	`)

	if _, err := s.DB.ExecContext(ctx, q,
		key, string(geometry), route.DistanceMeters, route.DurationSeconds, s.clock().Unix(),
	); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLRouteCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
