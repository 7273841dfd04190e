package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/cart"
)

// Sessions tracks live checkout workflows by session id. A session is
// discarded on successful submission or explicit abandonment.
type Sessions struct {
	carts     *cart.Manager
	quotes    QuoteClient
	addresses AddressClient
	payments  PaymentClient
	recorder  OrderRecorder
	logger    *zap.Logger

	mu sync.Mutex
	m  map[string]*Workflow
}

// NewSessions creates the checkout session registry
func NewSessions(carts *cart.Manager, quotes QuoteClient, addresses AddressClient, payments PaymentClient, recorder OrderRecorder, logger *zap.Logger) *Sessions {
	return &Sessions{
		carts:     carts,
		quotes:    quotes,
		addresses: addresses,
		payments:  payments,
		recorder:  recorder,
		logger:    logger,
		m:         make(map[string]*Workflow),
	}
}

// Start opens a checkout session for a cart and returns its id
func (s *Sessions) Start(ctx context.Context, cartKey string) (string, *Workflow) {
	c := s.carts.Get(ctx, cartKey)
	w := New(c, s.quotes, s.addresses, s.payments, s.recorder, s.logger)

	id := uuid.New().String()
	s.mu.Lock()
	s.m[id] = w
	s.mu.Unlock()
	return id, w
}

// Get returns a live session
func (s *Sessions) Get(id string) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.m[id]
	return w, ok
}

// Remove discards a session
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}
