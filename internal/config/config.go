package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	// DBDSN is optional. Without it the console runs in demo mode on the
	// built-in fixture, and BackendConfigured is false.
	DBDSN             string
	BackendConfigured bool
	RunMigrations     bool
	StoreTimeout      time.Duration

	LockBackend   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	OTelEnabled       bool
	OTelEndpoint      string
	OTelSamplingRatio float64
	ServiceName       string

	LogLevel  string
	LogFormat string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	StaffEmail        string
	StaffPasswordHash string
	BcryptCost        int

	Location *time.Location
	// DemoToday pins the calendar's notion of today in demo mode (YYYY-MM-DD).
	DemoToday string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	var err error

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Storage
	cfg.DBDSN = strings.TrimSpace(os.Getenv("DB_DSN"))
	cfg.BackendConfigured = cfg.DBDSN != ""
	if cfg.RunMigrations, err = getEnvAsBool("RUN_MIGRATIONS", false); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getEnvAsDuration("STORE_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be positive")
	}

	// Slot locking
	cfg.LockBackend = strings.ToLower(getEnv("LOCK_BACKEND", LockBackendMemory))
	switch cfg.LockBackend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return nil, fmt.Errorf("invalid LOCK_BACKEND %q: want %q or %q", cfg.LockBackend, LockBackendMemory, LockBackendRedis)
	}
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	if cfg.LockBackend == LockBackendRedis && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when LOCK_BACKEND=redis")
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.LockTTL, err = getEnvAsDuration("LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	// The lock spans the availability read and the insert, each bounded by STORE_TIMEOUT.
	if cfg.LockTTL < 2*cfg.StoreTimeout {
		return nil, fmt.Errorf("LOCK_TTL (%s) must be at least twice STORE_TIMEOUT (%s)", cfg.LockTTL, cfg.StoreTimeout)
	}

	// Booking events
	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "appointments.booked")

	// Tracing
	if cfg.OTelEnabled, err = getEnvAsBool("OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.OTelEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	if cfg.OTelSamplingRatio, err = getEnvAsFloat("OTEL_SAMPLING_RATIO", 1.0); err != nil {
		return nil, err
	}
	if cfg.OTelSamplingRatio < 0 || cfg.OTelSamplingRatio > 1 {
		return nil, fmt.Errorf("OTEL_SAMPLING_RATIO must be between 0 and 1")
	}
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", "academy-console")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or console", cfg.LogFormat)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	cfg.StaffEmail = getEnv("STAFF_EMAIL", "")
	cfg.StaffPasswordHash = getEnv("STAFF_PASSWORD_HASH", "")

	// Bcrypt cost for password hashing (default: 12)
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}

	// Academy timezone; appointment dates and times are wall-clock values in it.
	tz := getEnv("TIMEZONE", "America/Mexico_City")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.DemoToday = getEnv("DEMO_TODAY", "")
	if cfg.DemoToday != "" {
		if _, err := time.Parse("2006-01-02", cfg.DemoToday); err != nil {
			return nil, fmt.Errorf("invalid DEMO_TODAY %q: want YYYY-MM-DD", cfg.DemoToday)
		}
	}

	return cfg, nil
}

// Mode names the storage mode for logs and the health endpoint.
func (c *Config) Mode() string {
	if c.BackendConfigured {
		return "backend"
	}
	return "demo"
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}

// getEnvAsDuration parses values like "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
