package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/repository"
	"github.com/movase/bookstore/pkg/errors"
)

// HandleAdminListOrders handles GET /api/admin/vendas
func HandleAdminListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		status := domain.OrderStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
			return
		}

		orders, err := repos.Orders.List(c.Request.Context(), repository.OrderFilter{
			Status: status,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if orders == nil {
			orders = []*domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"pedidos": orders, "page": page})
	}
}

// HandleAdminGetOrder handles GET /api/admin/vendas/:id
func HandleAdminGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := repos.Orders.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "pedido não encontrado"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		items, err := repos.Orders.GetItems(c.Request.Context(), id)
		if err != nil {
			logger.Error("Failed to get order items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"pedido": order, "itens": items})
	}
}

// HandleUpdateOrderStatus handles PATCH /api/admin/vendas/:id/status.
// Transitions are checked against the order lifecycle before persisting.
func HandleUpdateOrderStatus(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req struct {
			Status domain.OrderStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status é obrigatório"})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
			return
		}

		order, err := repos.Orders.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "pedido não encontrado"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if !order.Status.CanTransitionTo(req.Status) {
			err := &errors.ErrInvalidStateTransition{From: string(order.Status), To: string(req.Status)}
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		if err := repos.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
			logger.Error("Failed to update order status", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		logger.Info("Order status updated",
			zap.String("order_id", id.String()),
			zap.String("from", string(order.Status)),
			zap.String("to", string(req.Status)),
		)
		c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
	}
}

const lowStockThreshold = 5

// HandleDashboard handles GET /api/admin/dashboard
func HandleDashboard(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		orderCount, err := repos.Orders.Count(ctx)
		if err != nil {
			logger.Error("Failed to count orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		revenue, err := repos.Orders.Revenue(ctx)
		if err != nil {
			logger.Error("Failed to compute revenue", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		bookCount, err := repos.Books.Count(ctx)
		if err != nil {
			logger.Error("Failed to count books", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		lowStock, err := repos.Books.CountLowStock(ctx, lowStockThreshold)
		if err != nil {
			logger.Error("Failed to count low-stock books", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_pedidos": orderCount,
			"receita":       revenue,
			"total_livros":  bookCount,
			"estoque_baixo": lowStock,
		})
	}
}
