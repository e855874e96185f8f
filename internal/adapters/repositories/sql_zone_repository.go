package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/db"
	"reroute-service/internal/platform/obs"
	"strings"
)

// ErrZoneNotFound is returned by GetZones when an id has no saved zone.
var ErrZoneNotFound = errors.New("zone not found")

// SQL-backed implementation of the ZoneRepository port.
type SQLZoneRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLZoneRepository(sqlDB *sql.DB, dialect db.Dialect) *SQLZoneRepository {
	return &SQLZoneRepository{DB: sqlDB, Dialect: dialect}
}

// Return all saved zones ordered by id.
func (s *SQLZoneRepository) ListZones(ctx context.Context) (_ []domain.ExclusionZone, err error) {
	defer obs.Time(ctx, "zones.ListZones")(&err)

	if s.DB == nil {
		return nil, errors.New("sql zone repository: DB is nil")
	}

	query := `
	SELECT
		zone_id,
		name,
		ring
	FROM zones
	ORDER BY zone_id;
	`
	return s.query(ctx, "list zones", query)
}

// Return the zones with the given ids in request order. Duplicate ids are
// collapsed; an unknown id fails the whole lookup with ErrZoneNotFound.
func (s *SQLZoneRepository) GetZones(ctx context.Context, ids []string) (_ []domain.ExclusionZone, err error) {
	defer obs.Time(ctx, "zones.GetZones")(&err)

	if s.DB == nil {
		return nil, errors.New("sql zone repository: DB is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(ids))
	ph := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return []domain.ExclusionZone{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		args = append(args, id)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	query := fmt.Sprintf(`
	SELECT
		zone_id,
		name,
		ring
	FROM zones
	WHERE zone_id IN (%s);
	`, strings.Join(ph, ","))

	found, err := s.query(ctx, "get zones", s.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.ExclusionZone, len(found))
	for _, z := range found {
		byID[z.ID] = z
	}

	out := make([]domain.ExclusionZone, 0, len(uniq))
	for _, id := range uniq {
		z, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("get zones: %w: %q", ErrZoneNotFound, id)
		}
		out = append(out, z)
	}
	return out, nil
}

func (s *SQLZoneRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.ExclusionZone, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query zones table: %w", op, err)
	}
	defer rows.Close()

	zones := make([]domain.ExclusionZone, 0, 16)
	for rows.Next() {
		var id, name, ring string
		if err := rows.Scan(&id, &name, &ring); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		var pairs [][]float64
		if err := json.Unmarshal([]byte(ring), &pairs); err != nil {
			return nil, fmt.Errorf("%s: decode ring for zone_id=%q: %w", op, id, err)
		}

		z := domain.ZoneFromLists(id, pairs)
		z.Name = name
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return zones, nil
}
