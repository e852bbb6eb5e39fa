package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"todo_backend/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	AppPort       string
	Version       string
	Environment   string
	StorageDriver string
	DatabaseURL   string
	AutoMigrate   bool

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string

	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit     int
	APIRateWindow    time.Duration
	TenantRateLimit  int
	TenantRateWindow time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env (if present) and the environment, exiting on invalid config
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment
func FromEnv() (*Config, error) {
	driver := strings.ToLower(envOr("STORAGE_DRIVER", StorageDriverPostgres))
	if driver != StorageDriverPostgres && driver != StorageDriverMemory {
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, driver)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if driver == StorageDriverPostgres && dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	jwtTTL := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("JWT_TTL must be a positive duration, got %q", v)
		}
		jwtTTL = d
	}

	// comma separated
	var origins []string
	for _, o := range strings.Split(envOr("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:          envOr("APP_PORT", "8080"),
		Version:          envOr("VERSION", "dev"),
		Environment:      envOr("ENVIRONMENT", "development"),
		StorageDriver:    driver,
		DatabaseURL:      dbURL,
		AutoMigrate:      envOr("AUTO_MIGRATE", "true") == "true",
		JWTSecret:        jwtSecret,
		JWTTTL:           jwtTTL,
		AllowedOrigins:   origins,
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogJSON:          strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          positiveInt("REDIS_DB", 0),
		APIRateLimit:     positiveInt("API_RATE_LIMIT", 120),
		APIRateWindow:    time.Duration(positiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		TenantRateLimit:  positiveInt("TENANT_RATE_LIMIT", 60),
		TenantRateWindow: time.Duration(positiveInt("TENANT_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// positiveInt falls back to def on missing or malformed values
func positiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
