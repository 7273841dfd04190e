package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/api"
	"github.com/movase/bookstore/internal/cart"
	"github.com/movase/bookstore/internal/checkout"
	"github.com/movase/bookstore/internal/config"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/internal/pagseguro"
	"github.com/movase/bookstore/internal/repository/postgres"
	"github.com/movase/bookstore/internal/viacep"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	// Cart storage
	carts := cart.NewManager(cart.NewRedisStore(cfg.Redis), logger)
	defer carts.Close()

	// External service clients
	correiosClient := correios.NewClient(cfg.Correios, logger)
	viacepClient := viacep.NewClient(cfg.ViaCEP, logger)
	pagseguroClient := pagseguro.NewClient(cfg.PagSeguro, logger)

	sessions := checkout.NewSessions(carts, correiosClient, viacepClient, pagseguroClient, repos.Orders, logger)

	router := api.NewRouter(cfg, repos, carts, sessions, api.Clients{
		Correios: correiosClient,
		ViaCEP:   viacepClient,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
