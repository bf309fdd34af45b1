package backend

import (
	"context"

	"ledgerly/internal/kv"
)

// CleanupFunc releases resources held by a medium.
type CleanupFunc func() error

// BackendResult contains the medium and an optional cleanup function.
type BackendResult struct {
	Medium  kv.Medium
	Cleanup CleanupFunc
}

// Factory creates persistence media based on configuration.
type Factory interface {
	CreateMedium(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for medium creation.
type Config struct {
	Type BackendType

	// SQLite
	SQLiteDBPath string

	// File
	DataDirectory string

	// MongoDB
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// BackendType names a persistence medium.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MongoBackend  BackendType = "mongo"
	MemoryBackend BackendType = "memory"
	NoneBackend   BackendType = "none"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MongoBackend, MemoryBackend, NoneBackend:
		return true
	default:
		return false
	}
}
