package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the route cache and saved zone tables. The statements
// are valid for both SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		geometry TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		created_at BIGINT NOT NULL
	);
	`

	createZonesQuery := `
	CREATE TABLE IF NOT EXISTS zones (
		zone_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		ring TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_cache_created_at
	ON route_cache(created_at);
	`

	statements := []string{
		createRouteCacheQuery,
		createZonesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
