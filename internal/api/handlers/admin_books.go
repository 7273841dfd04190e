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

type bookRequest struct {
	Title       string  `json:"titulo" binding:"required"`
	Author      string  `json:"autor" binding:"required"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" binding:"required,gt=0"`
	Stock       int     `json:"estoque" binding:"gte=0"`
	Image       string  `json:"img1"`
	Category    string  `json:"categoria"`
	ISBN        string  `json:"isbn"`
	Status      string  `json:"status"`
}

// HandleAdminListBooks handles GET /api/admin/livros. Unlike the public
// listing, inactive books are included unless a status filter is given.
func HandleAdminListBooks(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		filter := repository.BookFilter{
			Category: c.Query("categoria"),
			Status:   c.Query("status"),
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

// HandleCreateBook handles POST /api/admin/livros
func HandleCreateBook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		status := req.Status
		if status == "" {
			status = domain.BookStatusActive
		}
		if status != domain.BookStatusActive && status != domain.BookStatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
			return
		}

		book := &domain.Book{
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Image:       req.Image,
			Category:    req.Category,
			ISBN:        req.ISBN,
			Status:      status,
		}

		if err := repos.Books.Create(c.Request.Context(), book); err != nil {
			logger.Error("Failed to create book", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, book)
	}
}

// HandleUpdateBook handles PUT /api/admin/livros/:id
func HandleUpdateBook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
			return
		}

		var req bookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
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

		book.Title = req.Title
		book.Author = req.Author
		book.Description = req.Description
		book.Price = req.Price
		book.Stock = req.Stock
		book.Image = req.Image
		book.Category = req.Category
		book.ISBN = req.ISBN
		if req.Status != "" {
			if req.Status != domain.BookStatusActive && req.Status != domain.BookStatusInactive {
				c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
				return
			}
			book.Status = req.Status
		}

		if err := repos.Books.Update(c.Request.Context(), book); err != nil {
			logger.Error("Failed to update book", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, book)
	}
}

// HandleDeleteBook handles DELETE /api/admin/livros/:id
func HandleDeleteBook(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book ID"})
			return
		}

		if err := repos.Books.Delete(c.Request.Context(), id); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "livro não encontrado"})
				return
			}
			logger.Error("Failed to delete book", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "livro removido"})
	}
}
