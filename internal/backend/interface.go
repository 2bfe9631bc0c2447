package backend

import (
	"context"

	"finproject/internal/amqp"
	"finproject/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the storage slot and, when configured, the event publisher.
type BackendResult struct {
	Store     kv.Store
	Publisher *amqp.Client // nil when AMQP is disabled or unreachable
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Memory specific; zero means unlimited.
	QuotaBytes int

	// File specific
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
