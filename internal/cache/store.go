// Package cache keeps generated timetables in a persistent key-value store so
// views do not call the scheduler on every open.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by a Store when a write does not fit.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the persistent key-value boundary used by the Manager.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key. Quota failures wrap ErrQuotaExceeded.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is an in-process Store with an optional byte quota.
// A write must fit next to the value it replaces, so an oversized rewrite
// only succeeds after the old entry is removed.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]string
	maxBytes int
}

// NewMemoryStore creates a memory store. maxBytes <= 0 disables the quota.
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{data: make(map[string]string), maxBytes: maxBytes}
}

// Get returns the value for key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set writes the value, failing with ErrQuotaExceeded when it does not fit.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxBytes > 0 && m.usedLocked()+len(key)+len(value) > m.maxBytes {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	return nil
}

// Remove deletes the key.
func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// Used returns the bytes currently held.
func (m *MemoryStore) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedLocked()
}

func (m *MemoryStore) usedLocked() int {
	total := 0
	for k, v := range m.data {
		total += len(k) + len(v)
	}
	return total
}

// NopStore discards writes and never hits. It backs the "off" cache backend.
type NopStore struct{}

// Get always misses.
func (NopStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set discards the value.
func (NopStore) Set(context.Context, string, string) error { return nil }

// Remove is a no-op.
func (NopStore) Remove(context.Context, string) error { return nil }

// Close is a no-op.
func (NopStore) Close() error { return nil }
