package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reroute-service/internal/domain"
	"reroute-service/internal/platform/db"
	"strings"
)

// ZoneSeed is one saved zone in the seed file. Ring holds [lon, lat] pairs
// and may be open or closed.
type ZoneSeed struct {
	ZoneID string      `json:"zone_id"`
	Name   string      `json:"name"`
	Ring   [][]float64 `json:"ring"`
}

// SeedZonesFromJSON populates the zones table from a JSON file, replacing
// zones that already exist.
func SeedZonesFromJSON(sqlDB *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed zones: read %q: %w", jsonPath, err)
	}

	var data []ZoneSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed zones: parse json: %w", err)
	}

	return SeedZones(sqlDB, dialect, data)
}

// SeedZones validates and upserts the given zones in one transaction.
func SeedZones(sqlDB *sql.DB, dialect db.Dialect, data []ZoneSeed) error {
	if sqlDB == nil {
		return errors.New("seed zones: DB is nil")
	}

	type row struct {
		id, name, ring string
	}
	rows := make([]row, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ZoneID)
		if id == "" {
			return fmt.Errorf("seed zones: item at index %d: zone_id cannot be empty", i+1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("seed zones: duplicate zone_id %q", id)
		}
		seen[id] = struct{}{}

		zone := domain.ZoneFromLists(id, item.Ring)
		if !zone.Valid() {
			return fmt.Errorf("seed zones: zone %q needs at least 3 finite [lon, lat] vertices", id)
		}

		ring, err := json.Marshal(zone.ClosedRing())
		if err != nil {
			return fmt.Errorf("seed zones: encode ring for %q: %w", id, err)
		}
		rows = append(rows, row{id: id, name: strings.TrimSpace(item.Name), ring: string(ring)})
	}

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("seed zones: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := dialect.Rebind(`
	INSERT INTO zones (zone_id, name, ring)
	VALUES (?, ?, ?)
	ON CONFLICT (zone_id) DO UPDATE
	SET name = EXCLUDED.name,
		ring = EXCLUDED.ring;
	`)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed zones: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.id, r.name, r.ring); err != nil {
			return fmt.Errorf("seed zones: insert zone_id=%q: %w", r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed zones: commit tx: %w", err)
	}

	return nil
}
