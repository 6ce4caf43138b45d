// Package config loads moodscope configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string
	DeviceID  string

	// Storage. DatabaseURL selects postgres; empty means local sqlite.
	DatabaseURL string
	SQLitePath  string
	RedisURL    string
	RabbitMQURL string

	// Scoring
	CacheTTL             time.Duration
	HistoryRetentionDays int
	BaselineMinDays      int

	// Stress API
	StressAPIURL          string
	StressAPIToken        string
	StressAPIClientID     string
	StressAPIClientSecret string
	StressAPITokenURL     string

	// Report generator
	ReportAPIURL string

	// Outbound HTTP
	HTTPTimeout             time.Duration
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration

	// Processes
	APIAddr          string
	WorkerHealthAddr string

	// Device data and profile file
	DeviceDataDir string
	ProfilePath   string
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		UserID:    getEnv("MOODSCOPE_USER_ID", "00000000-0000-0000-0000-000000000001"),
		DeviceID:  getEnv("MOODSCOPE_DEVICE_ID", "local-device"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		CacheTTL:             getDurationEnv("CACHE_TTL", 10*time.Minute),
		HistoryRetentionDays: getIntEnv("HISTORY_RETENTION_DAYS", 365),
		BaselineMinDays:      getIntEnv("BASELINE_MIN_DAYS", 7),

		StressAPIURL:          getEnv("STRESS_API_URL", ""),
		StressAPIToken:        getEnv("STRESS_API_TOKEN", ""),
		StressAPIClientID:     getEnv("STRESS_API_CLIENT_ID", ""),
		StressAPIClientSecret: getEnv("STRESS_API_CLIENT_SECRET", ""),
		StressAPITokenURL:     getEnv("STRESS_API_TOKEN_URL", ""),

		ReportAPIURL: getEnv("REPORT_API_URL", ""),

		HTTPTimeout:             getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerOpenTimeout:      getDurationEnv("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		APIAddr:          getEnv("API_ADDR", "0.0.0.0:8080"),
		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		DeviceDataDir: getEnv("DEVICE_DATA_DIR", defaultDir("data")),
		ProfilePath:   getEnv("PROFILE_PATH", defaultProfilePath()),
	}

	if cfg.HistoryRetentionDays <= 0 {
		return nil, fmt.Errorf("HISTORY_RETENTION_DAYS must be positive, got %d", cfg.HistoryRetentionDays)
	}
	if cfg.BaselineMinDays <= 0 || cfg.BaselineMinDays > cfg.HistoryRetentionDays {
		return nil, fmt.Errorf("BASELINE_MIN_DAYS must be in [1, %d], got %d", cfg.HistoryRetentionDays, cfg.BaselineMinDays)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LocalMode reports whether storage is the embedded sqlite database.
func (c *Config) LocalMode() bool {
	return c.DatabaseURL == ""
}

// LoadProfileFile decodes the TOML file at path into v, which should be
// pre-populated with defaults; keys absent from the file keep them.
// A missing file is not an error and reports found=false.
func LoadProfileFile(path string, v any) (found bool, err error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat profile file: %w", err)
	}
	if _, err := toml.DecodeFile(path, v); err != nil {
		return false, fmt.Errorf("failed to decode profile file: %w", err)
	}
	return true, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func defaultDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".moodscope", name)
	}
	return filepath.Join(home, ".moodscope", name)
}

func defaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "moodscope", "profile.toml")
}
