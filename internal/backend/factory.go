package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finproject/internal/amqp"
	"finproject/internal/kv/file"
	"finproject/internal/kv/memory"
	"finproject/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend opens the configured slot and, when an AMQP URL is set, the
// event publisher. An unreachable broker is logged and events stay disabled.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case MemoryBackend:
		result = f.createMemoryBackend(config)
	case FileBackend:
		result, err = f.createFileBackend(config)
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result.Publisher = f.createPublisher(ctx, config)
	result.Cleanup = chainCleanup(result.Cleanup, result.Publisher)
	return result, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	f.logger.Warn("Initialized memory backend, data is lost on restart", "quota_bytes", config.QuotaBytes)
	return &BackendResult{Store: memory.NewWithQuota(config.QuotaBytes)}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)
	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Store: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func chainCleanup(storeCleanup CleanupFunc, publisher *amqp.Client) CleanupFunc {
	return func() error {
		var errs []error
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
}
