package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/repository"
	"github.com/movase/bookstore/pkg/errors"
)

type bookRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *sql.DB, logger *zap.Logger) *bookRepository {
	return &bookRepository{
		db:     db,
		logger: logger,
	}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO livros (titulo, autor, descricao, preco, estoque, img1, categoria, isbn, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	now := time.Now()
	if book.Status == "" {
		book.Status = domain.BookStatusActive
	}
	book.CreatedAt = now
	book.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		book.Title,
		book.Author,
		book.Description,
		book.Price,
		book.Stock,
		book.Image,
		book.Category,
		book.ISBN,
		book.Status,
		book.CreatedAt,
		book.UpdatedAt,
	).Scan(&book.ID)

	if err != nil {
		r.logger.Error("Failed to create book", zap.Error(err))
		return err
	}

	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int) (*domain.Book, error) {
	query := `
		SELECT id, titulo, autor, descricao, preco, estoque, img1, categoria, isbn, status, created_at, updated_at
		FROM livros
		WHERE id = $1
	`

	var book domain.Book
	var isbn sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Price,
		&book.Stock,
		&book.Image,
		&book.Category,
		&isbn,
		&book.Status,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "livro", ID: strconv.Itoa(id)}
	}
	if err != nil {
		r.logger.Error("Failed to get book by ID", zap.Error(err))
		return nil, err
	}

	if isbn.Valid {
		book.ISBN = isbn.String
	}

	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter repository.BookFilter) ([]*domain.Book, error) {
	query := `
		SELECT id, titulo, autor, descricao, preco, estoque, img1, categoria, isbn, status, created_at, updated_at
		FROM livros
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR categoria = $2)
		ORDER BY titulo
		LIMIT $3 OFFSET $4
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

	rows, err := r.db.QueryContext(ctx, query, filter.Status, filter.Category, limit, (page-1)*limit)
	if err != nil {
		r.logger.Error("Failed to list books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		var book domain.Book
		var isbn sql.NullString

		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.Price,
			&book.Stock,
			&book.Image,
			&book.Category,
			&isbn,
			&book.Status,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan book row", zap.Error(err))
			continue
		}
		if isbn.Valid {
			book.ISBN = isbn.String
		}
		books = append(books, &book)
	}

	return books, rows.Err()
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	query := `
		UPDATE livros
		SET titulo = $2, autor = $3, descricao = $4, preco = $5, estoque = $6,
		    img1 = $7, categoria = $8, isbn = $9, status = $10, updated_at = $11
		WHERE id = $1
	`

	book.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Price,
		book.Stock,
		book.Image,
		book.Category,
		book.ISBN,
		book.Status,
		book.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update book", zap.Error(err))
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return &errors.ErrNotFound{Resource: "livro", ID: strconv.Itoa(book.ID)}
	}

	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM livros WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete book", zap.Error(err))
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return &errors.ErrNotFound{Resource: "livro", ID: strconv.Itoa(id)}
	}

	return nil
}

func (r *bookRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM livros`).Scan(&count)
	return count, err
}

func (r *bookRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM livros WHERE estoque <= $1 AND status = $2`,
		threshold, domain.BookStatusActive,
	).Scan(&count)
	return count, err
}
