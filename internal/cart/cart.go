// Package cart implements the persisted cart aggregate: a line-item
// collection mutated through tagged actions, with derived totals and a
// debounced write-behind to durable storage.
package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
)

// saveDelay debounces storage writes across rapid mutations
const saveDelay = 500 * time.Millisecond

type Cart struct {
	key    string
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	items []domain.CartItem
	deb   *Debouncer
}

// New loads a cart from storage. Any structural problem in the stored
// payload discards the whole blob and resets storage: an empty cart is
// safer than a partially corrupt one.
func New(ctx context.Context, key string, store Store, logger *zap.Logger) *Cart {
	c := &Cart{
		key:    key,
		store:  store,
		logger: logger,
		deb:    NewDebouncer(saveDelay),
	}

	items, err := store.Load(ctx, key)
	if err != nil {
		logger.Warn("Discarding unreadable cart", zap.String("cart", key), zap.Error(err))
		c.resetStorage(ctx)
		return c
	}
	for _, item := range items {
		if !item.Valid() {
			logger.Warn("Discarding structurally invalid cart", zap.String("cart", key))
			c.resetStorage(ctx)
			return c
		}
	}
	c.items = items
	return c
}

func (c *Cart) resetStorage(ctx context.Context) {
	if err := c.store.Reset(ctx, c.key); err != nil {
		c.logger.Error("Failed to reset cart storage", zap.String("cart", c.key), zap.Error(err))
	}
}

// AddItem merges by id, incrementing quantity, or inserts with quantity 1
func (c *Cart) AddItem(item domain.CartItem) {
	c.dispatch(AddItem{Item: item})
}

// RemoveItem deletes a line item; no-op when absent
func (c *Cart) RemoveItem(id int) {
	c.dispatch(RemoveItem{ID: id})
}

// UpdateQuantity sets a line's quantity; 0 or less removes the line
func (c *Cart) UpdateQuantity(id, quantity int) {
	c.dispatch(UpdateQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.dispatch(Clear{})
}

func (c *Cart) dispatch(action Action) {
	c.mu.Lock()
	c.items = apply(c.items, action)
	snapshot := append([]domain.CartItem(nil), c.items...)
	c.mu.Unlock()

	c.deb.Schedule(func() { c.save(snapshot) })
}

// save writes the snapshot; on failure it resets storage and retries
// once, then gives up with a log line. Persistence problems never
// surface to the shopper.
func (c *Cart) save(items []domain.CartItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.store.Save(ctx, c.key, items)
	if err == nil {
		return
	}
	c.logger.Warn("Cart save failed, clearing storage and retrying",
		zap.String("cart", c.key), zap.Error(err))

	if err := c.store.Reset(ctx, c.key); err != nil {
		c.logger.Error("Failed to clear cart storage", zap.String("cart", c.key), zap.Error(err))
	}
	if err := c.store.Save(ctx, c.key, items); err != nil {
		c.logger.Error("Cart save failed after retry, giving up",
			zap.String("cart", c.key), zap.Error(err))
	}
}

// Items returns a copy of the current line items
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartItem(nil), c.items...)
}

// Total is the sum of price times quantity over all items
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all items
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Flush writes any pending persistence immediately
func (c *Cart) Flush() {
	c.deb.Flush()
}

// Close flushes pending writes and stops the debouncer
func (c *Cart) Close() {
	c.deb.Flush()
	c.deb.Stop()
}
