package backend

import (
	"fmt"

	"finproject/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.StorageBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.StorageBackend)
	}

	return Config{
		Type:          backendType,
		QuotaBytes:    appConfig.StorageQuotaBytes,
		DataDirectory: appConfig.DataDir,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		AMQPURL:       appConfig.AMQPURL,
		AMQPExchange:  appConfig.AMQPExchange,
		AMQPQueue:     appConfig.AMQPQueue,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.DataDirectory == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		if c.QuotaBytes < 0 {
			return fmt.Errorf("memory quota must not be negative")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, FileBackend, SQLiteBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
