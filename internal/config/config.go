package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "retailadmin-dev-session-secret"

// Config holds all configuration for the gateway.
type Config struct {
	SupabaseURL      string
	ServiceRoleKey   string
	SessionSecret    string
	Environment      string
	Addr             string
	RPCSocket        string
	DBPath           string
	UpstreamTimeout  time.Duration
	SessionMaxAge    int
	SeedConcurrency  int
	SeedRandomSeed   uint64
	SeedRouteEnabled bool
	DefaultUserEmail string
	DefaultUserPass  string
	CustomerPassword string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		ServiceRoleKey:   strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_ROLE")),
		SessionSecret:    os.Getenv("ADMIN_SESSION_SECRET"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		Addr:             getEnv("ADDR", ":3000"),
		RPCSocket:        getEnv("RPC_SOCKET", "/tmp/retailadmin.sock"),
		DBPath:           getEnv("DB_PATH", "retailadmin.db"),
		DefaultUserEmail: getEnv("DEFAULT_USER_EMAIL", "gildas@marmelab.com"),
		DefaultUserPass:  getEnv("DEFAULT_USER_PASSWORD", "password"),
		CustomerPassword: getEnv("CUSTOMER_PASSWORD", "password"),
	}

	if cfg.SupabaseURL == "" {
		return nil, errors.New("SUPABASE_URL is required")
	}
	if cfg.ServiceRoleKey == "" {
		return nil, errors.New("SUPABASE_SERVICE_ROLE is required")
	}
	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return nil, errors.New("ADMIN_SESSION_SECRET is required in production")
		}
		log.Printf("ADMIN_SESSION_SECRET not set, using development secret")
		cfg.SessionSecret = devSessionSecret
	}

	var err error
	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getInt("SESSION_MAX_AGE", 0); err != nil {
		return nil, err
	}
	if cfg.SeedConcurrency, err = getInt("SEED_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.SeedConcurrency < 1 {
		return nil, errors.New("SEED_CONCURRENCY must be at least 1")
	}
	seed, err := getInt("SEED_RANDOM_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.SeedRandomSeed = uint64(seed)
	if cfg.SeedRouteEnabled, err = getBool("SEED_ROUTE_ENABLED", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
