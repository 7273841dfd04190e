package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/movase/bookstore/internal/domain"
)

// BookFilter narrows catalog listings
type BookFilter struct {
	Category string
	Status   string
	Page     int
	Limit    int
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int) (*domain.Book, error)
	List(ctx context.Context, filter BookFilter) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
}

// OrderFilter narrows back-office order listings
type OrderFilter struct {
	Status domain.OrderStatus
	Page   int
	Limit  int
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	// Record is the checkout-facing alias for Create; it satisfies the
	// checkout workflow's OrderRecorder.
	Record(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Count(ctx context.Context) (int, error)
	Revenue(ctx context.Context) (float64, error)
}

type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.AdminUser, error)
}

// Repositories bundles all repository implementations
type Repositories struct {
	Books      BookRepository
	Orders     OrderRepository
	AdminUsers AdminUserRepository
}
