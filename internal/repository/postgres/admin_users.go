package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/pkg/errors"
)

type adminUserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db *sql.DB, logger *zap.Logger) *adminUserRepository {
	return &adminUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *adminUserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.AdminUser, error) {
	// bcrypt hashes are salted, so there is no direct lookup: iterate
	// active users and verify the key against each hash. The admin user
	// set is tiny, so the scan is acceptable.
	query := `
		SELECT id, name, api_key_hash, is_active, created_at, updated_at
		FROM admin_users
		WHERE is_active = true
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query admin users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user domain.AdminUser

		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.APIKeyHash,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.APIKeyHash), []byte(apiKey)); err == nil {
			return &user, nil
		}
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (r *adminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, name, api_key_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.APIKeyHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create admin user", zap.Error(err))
		return err
	}

	return nil
}
