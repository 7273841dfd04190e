package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager hands out one Cart instance per cart key so concurrent
// requests for the same cart share state and a single debouncer.
type Manager struct {
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewManager creates a cart manager over the given store
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		carts:  make(map[string]*Cart),
	}
}

// Get returns the cart for a key, loading it from storage on first use
func (m *Manager) Get(ctx context.Context, key string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.carts[key]; ok {
		return c
	}
	c := New(ctx, key, m.store, m.logger)
	m.carts[key] = c
	return c
}

// Close flushes every cart's pending writes
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.carts {
		c.Close()
	}
}
