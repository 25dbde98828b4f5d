package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"itinerary-service/internal/domain"
	"itinerary-service/internal/platform/db"
)

const (
	DefaultPort     = "8080"
	DefaultDBDriver = "sqlite"
	DefaultDBPath   = "data/itinerary.db"
	DefaultSeedPath = "data/seeds/trips.yaml"

	DefaultEventsKeepAliveSeconds = 25
)

// Config is the process configuration read from the environment.
// Callers load .env beforehand when they want one.
type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string
	RedisURL    string
	Timezone    string

	// EventsKeepAlive is the interval between SSE keep-alive comments.
	EventsKeepAlive time.Duration
}

// Get returns the env value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

func Load() (Config, error) {
	keepAlive, err := GetInt("EVENTS_KEEPALIVE_SECONDS", DefaultEventsKeepAliveSeconds)
	if err != nil {
		return Config{}, err
	}
	if keepAlive < 1 {
		return Config{}, fmt.Errorf("config: EVENTS_KEEPALIVE_SECONDS must be at least 1, got %d", keepAlive)
	}

	return Config{
		Port:            Get("PORT", DefaultPort),
		DBDriver:        strings.ToLower(Get("DB_DRIVER", DefaultDBDriver)),
		DBPath:          Get("DB_PATH", DefaultDBPath),
		DatabaseURL:     Get("DATABASE_URL", ""),
		SeedPath:        Get("SEED_PATH", DefaultSeedPath),
		RedisURL:        Get("REDIS_URL", ""),
		Timezone:        Get("TRIP_TIMEZONE", ""),
		EventsKeepAlive: time.Duration(keepAlive) * time.Second,
	}, nil
}

// driver is DBDriver normalized; flags may set it in any case.
func (c Config) driver() string {
	return strings.ToLower(strings.TrimSpace(c.DBDriver))
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() (string, error) {
	switch c.driver() {
	case "sqlite":
		return c.DBPath, nil
	case "postgres":
		if c.DatabaseURL == "" {
			return "", fmt.Errorf("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
		return c.DatabaseURL, nil
	default:
		return "", fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// SQLDriver returns the database/sql driver name for DBDriver.
func (c Config) SQLDriver() string {
	if c.driver() == "postgres" {
		return db.DriverPostgres
	}
	return db.DriverSqlite
}

// Rules returns the default timing rules evaluated in the configured zone.
// An empty Timezone keeps UTC.
func (c Config) Rules() (domain.TimingRules, error) {
	rules := domain.DefaultTimingRules()
	if c.Timezone == "" {
		return rules, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.TimingRules{}, fmt.Errorf("config: TRIP_TIMEZONE: %w", err)
	}
	rules.Location = loc
	return rules, nil
}
