package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
)

type mockStore struct {
	mu      sync.Mutex
	items   map[string][]domain.CartItem
	loadErr error
	saveErr error
	saves   int
	resets  int
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string][]domain.CartItem)}
}

func (s *mockStore) Load(_ context.Context, key string) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.items[key], nil
}

func (s *mockStore) Save(_ context.Context, key string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items[key] = append([]domain.CartItem(nil), items...)
	return nil
}

func (s *mockStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	delete(s.items, key)
	s.saveErr = nil
	return nil
}

func (s *mockStore) saved(key string) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key]
}

func book(id int, price float64) domain.CartItem {
	return domain.CartItem{
		ID:     id,
		Title:  fmt.Sprintf("Livro %d", id),
		Author: "Autor",
		Price:  price,
	}
}

func TestAddItemMergesByID(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 35.00))
	c.AddItem(book(2, 20.00))
	c.AddItem(book(1, 35.00))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAddItemForcesQuantityOne(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	item := book(1, 10.00)
	item.Quantity = 7
	c.AddItem(item)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 10.00))
	c.AddItem(book(2, 20.00))

	c.UpdateQuantity(1, 3)
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)

	c.UpdateQuantity(1, 0)
	items = c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)

	// Negative quantities clamp to 0 and remove too
	c.UpdateQuantity(2, -5)
	assert.Empty(t, c.Items())
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 10.00))
	c.RemoveItem(99)

	assert.Len(t, c.Items(), 1)
}

func TestTotalAndItemCount(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 35.00))
	c.AddItem(book(1, 35.00))
	c.AddItem(book(2, 20.00))

	assert.InDelta(t, 90.00, c.Total(), 0.001)
	assert.Equal(t, 3, c.ItemCount())
}

func TestClearEmptiesCart(t *testing.T) {
	c := New(context.Background(), "c1", newMockStore(), zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 10.00))
	c.Clear()

	assert.Empty(t, c.Items())
	assert.Zero(t, c.Total())
}

func TestLoadRestoresStoredCart(t *testing.T) {
	store := newMockStore()
	store.items["c1"] = []domain.CartItem{
		{ID: 1, Title: "Dom Casmurro", Author: "Machado de Assis", Price: 35.00, Quantity: 2},
	}

	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.InDelta(t, 70.00, c.Total(), 0.001)
}

func TestLoadDiscardsInvalidCart(t *testing.T) {
	store := newMockStore()
	// One bad item poisons the whole stored cart
	store.items["c1"] = []domain.CartItem{
		{ID: 1, Title: "Dom Casmurro", Author: "Machado de Assis", Price: 35.00, Quantity: 2},
		{ID: 2, Title: "", Author: "Autor", Price: 10.00, Quantity: 1},
	}

	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	assert.Empty(t, c.Items())
	assert.Equal(t, 1, store.resets)
}

func TestLoadDiscardsUnreadableCart(t *testing.T) {
	store := newMockStore()
	store.loadErr = fmt.Errorf("corrupt cart payload")

	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	assert.Empty(t, c.Items())
	assert.Equal(t, 1, store.resets)
}

func TestFlushPersistsPendingWrite(t *testing.T) {
	store := newMockStore()
	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	c.AddItem(book(1, 10.00))
	c.Flush()

	saved := store.saved("c1")
	require.Len(t, saved, 1)
	assert.Equal(t, 1, saved[0].ID)
}

func TestRapidMutationsCoalesceIntoOneSave(t *testing.T) {
	store := newMockStore()
	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.AddItem(book(1, 10.00))
	}
	c.Flush()

	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	assert.Equal(t, 1, saves)

	saved := store.saved("c1")
	require.Len(t, saved, 1)
	assert.Equal(t, 10, saved[0].Quantity)
}

func TestSaveRetriesAfterReset(t *testing.T) {
	store := newMockStore()
	c := New(context.Background(), "c1", store, zap.NewNop())
	defer c.Close()

	store.mu.Lock()
	store.saveErr = fmt.Errorf("write refused")
	store.mu.Unlock()

	c.AddItem(book(1, 10.00))
	c.Flush()

	// Reset clears the injected failure, so the retry lands
	assert.Equal(t, 1, store.resets)
	saved := store.saved("c1")
	require.Len(t, saved, 1)
}

func TestDebouncerCoalescesAndFlushes(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var got []int

	for i := 1; i <= 3; i++ {
		i := i
		d.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, []int{3}, got)
	mu.Unlock()

	d.Schedule(func() {
		mu.Lock()
		got = append(got, 4)
		mu.Unlock()
	})
	d.Flush()

	mu.Lock()
	assert.Equal(t, []int{3, 4}, got)
	mu.Unlock()
}

func TestManagerReturnsSameCartForKey(t *testing.T) {
	m := NewManager(newMockStore(), zap.NewNop())
	defer m.Close()

	ctx := context.Background()
	a := m.Get(ctx, "c1")
	b := m.Get(ctx, "c1")
	other := m.Get(ctx, "c2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}
