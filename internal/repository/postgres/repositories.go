package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/repository"
)

// NewRepositories wires all Postgres repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Books:      NewBookRepository(db, logger),
		Orders:     NewOrderRepository(db, logger),
		AdminUsers: NewAdminUserRepository(db, logger),
	}
}
