package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/repository"
	"github.com/movase/bookstore/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Record persists an order with its items; it satisfies the checkout
// workflow's OrderRecorder.
func (r *orderRepository) Record(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	return r.Create(ctx, order, items)
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pedidos (id, referencia, gateway_order_id, status, cliente_nome, cliente_email,
			cliente_cpf, cliente_telefone, endereco, frete_servico, frete_valor, subtotal, total,
			forma_pagamento, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.ExecContext(ctx, query,
		order.ID,
		order.Reference,
		order.GatewayOrderID,
		order.Status,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerTaxID,
		order.CustomerPhone,
		addressJSON,
		order.ShippingService,
		order.ShippingPrice,
		order.Subtotal,
		order.Total,
		order.PaymentMethod,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	itemQuery := `
		INSERT INTO pedido_itens (id, pedido_id, livro_id, titulo, preco, quantidade)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
		_, err = tx.ExecContext(ctx, itemQuery,
			items[i].ID,
			items[i].OrderID,
			items[i].BookID,
			items[i].Title,
			items[i].Price,
			items[i].Quantity,
		)
		if err != nil {
			r.logger.Error("Failed to create order item", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, referencia, gateway_order_id, status, cliente_nome, cliente_email,
			cliente_cpf, cliente_telefone, endereco, frete_servico, frete_valor, subtotal, total,
			forma_pagamento, created_at, updated_at
		FROM pedidos
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "pedido", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	return order, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var addressJSON []byte

	err := row.Scan(
		&order.ID,
		&order.Reference,
		&order.GatewayOrderID,
		&order.Status,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerTaxID,
		&order.CustomerPhone,
		&addressJSON,
		&order.ShippingService,
		&order.ShippingPrice,
		&order.Subtotal,
		&order.Total,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addressJSON) > 0 {
		if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
			return nil, err
		}
	}

	return &order, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, pedido_id, livro_id, titulo, preco, quantidade
		FROM pedido_itens
		WHERE pedido_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.BookID,
			&item.Title,
			&item.Price,
			&item.Quantity,
		)
		if err != nil {
			continue
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT id, referencia, gateway_order_id, status, cliente_nome, cliente_email,
			cliente_cpf, cliente_telefone, endereco, frete_servico, frete_valor, subtotal, total,
			forma_pagamento, created_at, updated_at
		FROM pedidos
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	rows, err := r.db.QueryContext(ctx, query, string(filter.Status), limit, (page-1)*limit)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			continue
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pedidos SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return &errors.ErrNotFound{Resource: "pedido", ID: id.String()}
	}

	return nil
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pedidos`).Scan(&count)
	return count, err
}

func (r *orderRepository) Revenue(ctx context.Context) (float64, error) {
	var revenue sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(total) FROM pedidos WHERE status NOT IN ($1, $2)`,
		domain.OrderStatusPaymentPending, domain.OrderStatusCancelled,
	).Scan(&revenue)
	return revenue.Float64, err
}
