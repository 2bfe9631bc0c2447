package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const maxTopCategories = 50

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	RateLimit       int // mutating requests per client per minute

	// Storage
	StorageBackend    string
	DataDir           string
	SQLiteDBPath      string
	StorageKey        string
	StorageQuotaBytes int

	// Presentation
	SortLocale    string
	TopCategories int

	LogLevel string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		StorageBackend:    getEnv("STORAGE_BACKEND", BackendFile),
		DataDir:           getEnv("DATA_DIR", "./data"),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/finproject.db"),
		StorageKey:        getEnv("STORAGE_KEY", "finproject-transactions"),
		StorageQuotaBytes: getEnvInt("STORAGE_QUOTA_BYTES", 0),

		SortLocale:    getEnv("SORT_LOCALE", "ru"),
		TopCategories: getEnvInt("TOP_CATEGORIES", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finproject"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),
	}
}

// Locale returns the parsed SortLocale. Call Validate first.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.SortLocale)
	if err != nil {
		return language.Russian
	}
	return tag
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimit))
	}

	validBackends := []string{BackendMemory, BackendFile, BackendSQLite}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.StorageBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.StorageBackend, validBackends))
	}

	switch c.StorageBackend {
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		} else if err := ensureDir(c.DataDir); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := ensureDir(dir); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}
	if c.StorageQuotaBytes < 0 {
		errors = append(errors, fmt.Sprintf("invalid storage quota %d: must not be negative", c.StorageQuotaBytes))
	}

	if _, err := language.Parse(c.SortLocale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid sort locale '%s': %v", c.SortLocale, err))
	}
	if c.TopCategories < 1 || c.TopCategories > maxTopCategories {
		errors = append(errors, fmt.Sprintf("invalid top categories %d: must be between 1 and %d", c.TopCategories, maxTopCategories))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
