package domain

// OrderStatus represents the lifecycle state of a store order
type OrderStatus string

const (
	OrderStatusPaymentPending OrderStatus = "PAGAMENTO_PENDENTE"
	OrderStatusPaid           OrderStatus = "PAGO"
	OrderStatusShipped        OrderStatus = "ENVIADO"
	OrderStatusDelivered      OrderStatus = "ENTREGUE"
	OrderStatusCancelled      OrderStatus = "CANCELADO"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPaymentPending,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPaymentPending:
		return newStatus == OrderStatusPaid || newStatus == OrderStatusCancelled
	case OrderStatusPaid:
		return newStatus == OrderStatusShipped || newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}
