package domain

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a title in the store catalog
type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"titulo"`
	Author      string    `json:"autor"`
	Description string    `json:"descricao"`
	Price       float64   `json:"preco"`
	Stock       int       `json:"estoque"`
	Image       string    `json:"img1"`
	Category    string    `json:"categoria"`
	ISBN        string    `json:"isbn,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Book status values
const (
	BookStatusActive   = "ativo"
	BookStatusInactive = "inativo"
)

// CartItem is a line item in a customer cart. The JSON layout matches
// the persisted cart blob, so a stored cart survives deploys unchanged.
type CartItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"titulo"`
	Author   string  `json:"autor"`
	Price    float64 `json:"price"`
	Image    string  `json:"img1"`
	Quantity int     `json:"quantity"`
}

// Valid reports whether a persisted cart item is structurally sound.
// A single invalid item invalidates the whole stored cart.
func (i CartItem) Valid() bool {
	return i.ID > 0 && i.Title != "" && i.Author != "" && i.Price >= 0 && i.Quantity > 0
}

// Order is a completed checkout recorded for the back office
type Order struct {
	ID              uuid.UUID              `json:"id"`
	Reference       string                 `json:"referencia"`
	GatewayOrderID  string                 `json:"gateway_order_id,omitempty"`
	Status          OrderStatus            `json:"status"`
	CustomerName    string                 `json:"cliente_nome"`
	CustomerEmail   string                 `json:"cliente_email"`
	CustomerTaxID   string                 `json:"cliente_cpf"`
	CustomerPhone   string                 `json:"cliente_telefone"`
	ShippingAddress map[string]interface{} `json:"endereco"` // JSONB
	ShippingService string                 `json:"frete_servico"`
	ShippingPrice   float64                `json:"frete_valor"`
	Subtotal        float64                `json:"subtotal"`
	Total           float64                `json:"total"`
	PaymentMethod   string                 `json:"forma_pagamento"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// OrderItem is a purchased line item
type OrderItem struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"pedido_id"`
	BookID   int       `json:"livro_id"`
	Title    string    `json:"titulo"`
	Price    float64   `json:"preco"`
	Quantity int       `json:"quantidade"`
}

// AdminUser represents a back-office operator authenticated by API key
type AdminUser struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
