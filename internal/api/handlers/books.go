package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/repository"
	"github.com/movase/bookstore/pkg/errors"
)

// HandleListBooks handles GET /api/livros
func HandleListBooks(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		filter := repository.BookFilter{
			Category: c.Query("categoria"),
			Status:   domain.BookStatusActive,
			Page:     page,
			Limit:    limit,
		}

		books, err := repos.Books.List(c.Request.Context(), filter)
		if err != nil {
			logger.Error("Failed to list books", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if books == nil {
			books = []*domain.Book{}
		}
		c.JSON(http.StatusOK, gin.H{"livros": books, "page": page})
	}
}

// HandleGetBook handles GET /api/livros/:id
func HandleGetBook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
			return
		}

		book, err := repos.Books.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "livro não encontrado"})
				return
			}
			logger.Error("Failed to get book", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, book)
	}
}
