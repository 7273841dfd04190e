package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/domain"
	"github.com/movase/bookstore/internal/repository"
)

const adminContextKey = "adminUser"

// AuthMiddleware authenticates back-office requests by API key
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		apiKey := strings.TrimPrefix(auth, "Bearer ")

		user, err := repos.AdminUsers.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logger.Warn("Admin authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set(adminContextKey, user)
		c.Next()
	}
}

// GetAdminFromContext returns the authenticated admin user
func GetAdminFromContext(c *gin.Context) (*domain.AdminUser, bool) {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.AdminUser)
	return user, ok
}
