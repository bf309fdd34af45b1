// Package kv keeps typed values mirrored in memory and persisted, as JSON,
// to a pluggable byte-oriented medium.
package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when the key has never been stored.
var ErrNotFound = errors.New("kv: key not found")

// Medium is the raw persistence layer behind a Value.
type Medium interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, data []byte) error
}

// Nop discards every write and reports every key as absent.
type Nop struct{}

func (Nop) Load(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (Nop) Store(context.Context, string, []byte) error { return nil }

// Memory is a map-backed Medium, safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	data   map[string][]byte
	writes int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Store(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Writes returns how many Store calls succeeded.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
