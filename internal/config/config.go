package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the reroute service.
type Config struct {
	Port   string
	AppEnv string

	ORSAPIKey  string
	ORSBaseURL string
	ORSProfile string

	DatabaseURL   string
	DBPath        string
	RedisURL      string
	RouteCacheTTL time.Duration

	TickInterval time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ZonesSeedPath string
}

// Load reads a .env file when present and then the process environment.
// The bool result reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load() == nil

	ttl, err := GetDuration("ROUTE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, loaded, err
	}
	tick, err := GetDuration("SIM_TICK_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, loaded, err
	}

	cfg := &Config{
		Port:          Get("PORT", "8080"),
		AppEnv:        Get("APP_ENV", "development"),
		ORSAPIKey:     strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSBaseURL:    Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSProfile:    Get("ORS_PROFILE", "driving-car"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:        Get("DB_PATH", "data/app.db"),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		RouteCacheTTL: ttl,
		TickInterval:  tick,
		KafkaBrokers:  GetList("KAFKA_BROKERS"),
		KafkaTopic:    Get("KAFKA_TOPIC", "simulation.events"),
		ZonesSeedPath: strings.TrimSpace(os.Getenv("ZONES_SEED_PATH")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, loaded, err
	}
	return cfg, loaded, nil
}

func (c *Config) Validate() error {
	if c.ORSAPIKey == "" {
		return errors.New("config: ORS_API_KEY is required")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: SIM_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}

// GetList splits a comma separated value, dropping empty items.
func GetList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
