// Package store implements the visitor key-value store behind the cart: in-memory,
// Redis, SQLite and Postgres backends, a circuit breaker around any of them, and
// Session, which scopes a backend to one visitor.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

var _ ports.KV = (*Memory)(nil)

// Memory keeps values in process memory. It is the default backend and the one tests use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
