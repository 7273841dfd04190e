package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/api/handlers"
	"github.com/movase/bookstore/internal/api/middleware"
	"github.com/movase/bookstore/internal/cart"
	"github.com/movase/bookstore/internal/checkout"
	"github.com/movase/bookstore/internal/config"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/internal/repository"
	"github.com/movase/bookstore/internal/viacep"
)

// Clients groups the external service clients the API depends on
type Clients struct {
	Correios *correios.Client
	ViaCEP   *viacep.Client
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, carts *cart.Manager, sessions *checkout.Sessions, clients Clients, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiRoutes := router.Group("/api")
	{
		// Storefront
		apiRoutes.GET("/livros", handlers.HandleListBooks(repos, logger))
		apiRoutes.GET("/livros/:id", handlers.HandleGetBook(repos, logger))
		apiRoutes.GET("/correios", handlers.HandleCorreiosProxy(clients.Correios, logger))
		apiRoutes.GET("/cep/:cep", handlers.HandleCEPLookup(clients.ViaCEP, logger))

		// Cart
		apiRoutes.GET("/cart/:key", handlers.HandleGetCart(carts, logger))
		apiRoutes.DELETE("/cart/:key", handlers.HandleClearCart(carts, logger))
		apiRoutes.POST("/cart/:key/items", handlers.HandleAddCartItem(carts, logger))
		apiRoutes.PATCH("/cart/:key/items/:id", handlers.HandleUpdateCartItem(carts, logger))
		apiRoutes.DELETE("/cart/:key/items/:id", handlers.HandleRemoveCartItem(carts, logger))

		// Checkout
		apiRoutes.POST("/checkout", handlers.HandleStartCheckout(sessions, logger))
		apiRoutes.GET("/checkout/:id", handlers.HandleCheckoutState(sessions, logger))
		apiRoutes.POST("/checkout/:id/next", handlers.HandleCheckoutNext(sessions, logger))
		apiRoutes.POST("/checkout/:id/back", handlers.HandleCheckoutBack(sessions, logger))
		apiRoutes.PUT("/checkout/:id/cliente", handlers.HandleCheckoutCustomer(sessions, logger))
		apiRoutes.PUT("/checkout/:id/endereco", handlers.HandleCheckoutAddress(sessions, logger))
		apiRoutes.GET("/checkout/:id/fretes", handlers.HandleCheckoutQuotes(sessions, logger))
		apiRoutes.PUT("/checkout/:id/frete", handlers.HandleCheckoutSelectQuote(sessions, logger))
		apiRoutes.PUT("/checkout/:id/pagamento", handlers.HandleCheckoutPayment(sessions, logger))
		apiRoutes.POST("/checkout/:id/confirmar", handlers.HandleCheckoutSubmit(sessions, logger))

		// Back office (requires authentication)
		adminRoutes := apiRoutes.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(repos, logger))
		{
			adminRoutes.GET("/dashboard", handlers.HandleDashboard(repos, logger))

			adminRoutes.GET("/livros", handlers.HandleAdminListBooks(repos, logger))
			adminRoutes.POST("/livros", handlers.HandleCreateBook(repos, logger))
			adminRoutes.PUT("/livros/:id", handlers.HandleUpdateBook(repos, logger))
			adminRoutes.DELETE("/livros/:id", handlers.HandleDeleteBook(repos, logger))

			adminRoutes.GET("/vendas", handlers.HandleAdminListOrders(repos, logger))
			adminRoutes.GET("/vendas/:id", handlers.HandleAdminGetOrder(repos, logger))
			adminRoutes.PATCH("/vendas/:id/status", handlers.HandleUpdateOrderStatus(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
