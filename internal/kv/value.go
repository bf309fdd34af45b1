package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Value is a typed, persisted value with an in-memory mirror.
//
// The mirror is authoritative: reads never touch the medium, and a failed
// write is logged while the new value stays visible to readers.
type Value[T any] struct {
	mu     sync.RWMutex
	key    string
	medium Medium
	logger *slog.Logger
	value  T
}

// NewValue loads key from medium. Absent or undecodable data falls back to
// initial; the failure is logged and never returned.
func NewValue[T any](ctx context.Context, medium Medium, key string, initial T, logger *slog.Logger) *Value[T] {
	if medium == nil {
		medium = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	v := &Value[T]{key: key, medium: medium, logger: logger, value: initial}

	loaded, err := Read[T](ctx, medium, key)
	switch {
	case err == nil:
		v.value = loaded
	case errors.Is(err, ErrNotFound):
		logger.DebugContext(ctx, "No persisted value, using initial", "key", key)
	default:
		logger.WarnContext(ctx, "Failed to load persisted value, using initial", "key", key, "error", err)
	}
	return v
}

// Key returns the storage key.
func (v *Value[T]) Key() string { return v.key }

// Get returns the mirrored value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the mirror and writes the encoded value synchronously.
func (v *Value[T]) Set(ctx context.Context, value T) {
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()

	data, err := encode(value)
	if err != nil {
		v.logger.ErrorContext(ctx, "Failed to encode value", "key", v.key, "error", err)
		return
	}
	if err := v.medium.Store(ctx, v.key, data); err != nil {
		v.logger.ErrorContext(ctx, "Failed to persist value", "key", v.key, "error", err)
	}
}

// Read decodes key once, without keeping a mirror.
func Read[T any](ctx context.Context, medium Medium, key string) (T, error) {
	var out T
	data, err := medium.Load(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// encode marshals without HTML escaping, matching exported documents.
func encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
