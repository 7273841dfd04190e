package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/cart"
	"github.com/movase/bookstore/internal/domain"
)

func cartResponse(c *cart.Cart) gin.H {
	return gin.H{
		"items": c.Items(),
		"total": c.Total(),
		"count": c.ItemCount(),
	}
}

// HandleGetCart handles GET /api/cart/:key
func HandleGetCart(carts *cart.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := carts.Get(c.Request.Context(), c.Param("key"))
		c.JSON(http.StatusOK, cartResponse(ct))
	}
}

// HandleAddCartItem handles POST /api/cart/:key/items
func HandleAddCartItem(carts *cart.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.CartItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		// Quantity in the request is ignored: adding always merges one
		// unit into the line for that book.
		item.Quantity = 1
		if !item.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item inválido"})
			return
		}

		ct := carts.Get(c.Request.Context(), c.Param("key"))
		ct.AddItem(item)
		c.JSON(http.StatusOK, cartResponse(ct))
	}
}

// HandleUpdateCartItem handles PATCH /api/cart/:key/items/:id
func HandleUpdateCartItem(carts *cart.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ct := carts.Get(c.Request.Context(), c.Param("key"))
		ct.UpdateQuantity(id, req.Quantity)
		c.JSON(http.StatusOK, cartResponse(ct))
	}
}

// HandleRemoveCartItem handles DELETE /api/cart/:key/items/:id
func HandleRemoveCartItem(carts *cart.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		ct := carts.Get(c.Request.Context(), c.Param("key"))
		ct.RemoveItem(id)
		c.JSON(http.StatusOK, cartResponse(ct))
	}
}

// HandleClearCart handles DELETE /api/cart/:key
func HandleClearCart(carts *cart.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := carts.Get(c.Request.Context(), c.Param("key"))
		ct.Clear()
		c.JSON(http.StatusOK, cartResponse(ct))
	}
}
