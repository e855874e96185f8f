package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"reroute-service/internal/adapters/cache"
	"reroute-service/internal/adapters/events"
	"reroute-service/internal/adapters/repositories"
	"reroute-service/internal/adapters/routing"
	"reroute-service/internal/api"
	"reroute-service/internal/config"
	"reroute-service/internal/platform/db"
	"reroute-service/internal/platform/logger"
	"reroute-service/internal/ports"
	"reroute-service/internal/services"
	"reroute-service/internal/simulation"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (SQL/Redis caches, ORS, Kafka) behind ports and
// starts the HTTP server.
func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "reroute-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if !envLoaded {
		log.Info("no .env file found, using environment variables")
	}

	sqlDB, dialect, err := openDatabase(cfg)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	// Initialize schema and seed saved zones on startup for local runs.
	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal("failed to initialize schema", zap.Error(err))
	}
	if cfg.ZonesSeedPath != "" {
		if err := repositories.SeedZonesFromJSON(sqlDB, dialect, cfg.ZonesSeedPath); err != nil {
			log.Fatal("failed to seed zones", zap.Error(err))
		}
		log.Info("saved zones seeded", zap.String("path", cfg.ZonesSeedPath))
	}

	routeCache, closeCache, err := openRouteCache(cfg, sqlDB, dialect, log)
	if err != nil {
		log.Fatal("failed to open route cache", zap.Error(err))
	}
	defer closeCache()

	provider, err := routing.NewORSRouteProvider(cfg.ORSAPIKey, routing.ORSOptions{
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Cache:   routeCache,
		Logger:  log.Named("ors"),
	})
	if err != nil {
		log.Fatal("failed to create routing provider", zap.Error(err))
	}

	hub := events.NewHub(0, log.Named("hub"))
	sinks := simulation.MultiSink{hub, events.NewLogPublisher(log.Named("events"))}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log.Named("kafka"))
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, publisher)
		log.Info("publishing simulation events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	coordinator := simulation.NewCoordinator(provider, log.Named("reroute"))
	registry := simulation.NewRegistry(func(agentID string) *simulation.Controller {
		return simulation.NewController(simulation.ControllerConfig{
			AgentID:     agentID,
			Interval:    cfg.TickInterval,
			Coordinator: coordinator,
			Sink:        sinks,
			Logger:      log.Named("simulation"),
		})
	})

	zones := repositories.NewSQLZoneRepository(sqlDB, dialect)
	routes := services.NewRouteService(provider, zones)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Dependencies{
		Routes:      routes,
		Simulations: services.NewSimulationService(routes, registry, log.Named("simulation")),
		Zones:       zones,
		Hub:         hub,
		Logger:      log.Named("http"),
	})

	// No write timeout: event streams stay open for the life of a simulation.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down reroute-service...")

	// Stop simulations first so open event streams see their last events.
	registry.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("reroute-service stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file otherwise.
func openDatabase(cfg *config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		return sqlDB, db.DialectPostgres, err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, db.DialectSqlite, fmt.Errorf("create database directory %q: %w", dir, err)
		}
	}
	sqlDB, err := db.OpenSqlite(cfg.DBPath)
	return sqlDB, db.DialectSqlite, err
}

// openRouteCache prefers Redis when configured and uses the SQL database
// otherwise.
func openRouteCache(cfg *config.Config, sqlDB *sql.DB, dialect db.Dialect, log *zap.Logger) (ports.RouteCache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("route cache: sql", zap.String("dialect", dialect.String()), zap.Duration("ttl", cfg.RouteCacheTTL))
		return cache.NewSQLRouteCache(sqlDB, dialect, cfg.RouteCacheTTL), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("route cache: redis", zap.Duration("ttl", cfg.RouteCacheTTL))
	return cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), func() { _ = client.Close() }, nil
}
