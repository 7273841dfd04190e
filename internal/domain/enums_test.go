package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPaymentPending.IsValid())
	assert.True(t, OrderStatusPaid.IsValid())
	assert.True(t, OrderStatusShipped.IsValid())
	assert.True(t, OrderStatusDelivered.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("DESPACHADO").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPaymentPending.CanTransitionTo(OrderStatusPaid))
	assert.True(t, OrderStatusPaymentPending.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusPaymentPending.CanTransitionTo(OrderStatusShipped))

	assert.True(t, OrderStatusPaid.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusPaid.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusPaid.CanTransitionTo(OrderStatusDelivered))

	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	// Terminal states never move
	for _, to := range []OrderStatus{OrderStatusPaymentPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		assert.False(t, OrderStatusDelivered.CanTransitionTo(to))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(to))
	}
}

func TestCartItemValid(t *testing.T) {
	good := CartItem{ID: 1, Title: "Dom Casmurro", Author: "Machado de Assis", Price: 35.00, Quantity: 1}
	assert.True(t, good.Valid())

	// Free promotional items are structurally fine
	free := good
	free.Price = 0
	assert.True(t, free.Valid())

	for _, bad := range []CartItem{
		{ID: 0, Title: "T", Author: "A", Price: 1, Quantity: 1},
		{ID: 1, Title: "", Author: "A", Price: 1, Quantity: 1},
		{ID: 1, Title: "T", Author: "", Price: 1, Quantity: 1},
		{ID: 1, Title: "T", Author: "A", Price: -1, Quantity: 1},
		{ID: 1, Title: "T", Author: "A", Price: 1, Quantity: 0},
	} {
		assert.False(t, bad.Valid())
	}
}
