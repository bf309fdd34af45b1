package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledgerly/internal/kv"
	"ledgerly/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateMedium implements Factory.CreateMedium.
func (f *DefaultFactory) CreateMedium(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{Medium: store, Cleanup: store.Close}, nil

	case FileBackend:
		store, err := storage.NewFileStore(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)
		return &BackendResult{Medium: store}, nil

	case MongoBackend:
		store, err := storage.ConnectMongoStore(ctx, config.MongoURI, config.MongoDatabase, config.MongoCollection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
		}
		f.logger.Info("Initialized MongoDB backend",
			"database", config.MongoDatabase,
			"collection", config.MongoCollection)
		cleanup := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Close(ctx)
		}
		return &BackendResult{Medium: store, Cleanup: cleanup}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Medium: kv.NewMemory()}, nil

	case NoneBackend:
		f.logger.Warn("Persistence disabled, data lives only in memory")
		return &BackendResult{Medium: kv.Nop{}}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
