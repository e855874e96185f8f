package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"reroute-service/internal/adapters/repositories"
	"reroute-service/internal/config"
	"reroute-service/internal/platform/db"
	"reroute-service/internal/platform/logger"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool initializes the schema and seeds saved zones. It targets Postgres
// when DATABASE_URL is set and the SQLite file at DB_PATH otherwise.
func main() {
	envLoaded := godotenv.Load() == nil

	seedPath := flag.String("zones", config.Get("ZONES_SEED_PATH", "data/seeds/zones.json"), "saved zones JSON file")
	schemaOnly := flag.Bool("schema-only", false, "initialize the schema without seeding")
	flag.Parse()

	log, err := logger.New(config.Get("APP_ENV", "development"), "dbtool")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !envLoaded {
		log.Info("no .env file found, using environment variables")
	}

	dialect := db.DialectSqlite
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL != "" {
		dialect = db.DialectPostgres
	}

	var (
		conn    *sql.DB
		openErr error
	)
	if dialect == db.DialectPostgres {
		conn, openErr = db.Open(databaseURL)
	} else {
		conn, openErr = db.OpenSqlite(config.Get("DB_PATH", "data/app.db"))
	}
	if openErr != nil {
		log.Fatal("failed to open database", zap.Error(openErr))
	}
	defer conn.Close()

	log.Info("initializing database schema", zap.String("dialect", dialect.String()))
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}
	log.Info("schema ready")

	if *schemaOnly {
		return
	}

	log.Info("seeding saved zones", zap.String("path", *seedPath))
	if err := repositories.SeedZonesFromJSON(conn, dialect, *seedPath); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete")
}
