package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glowcart/backend/config"
	httpDelivery "github.com/glowcart/backend/internal/delivery/http"
	"github.com/glowcart/backend/internal/domain"
	"github.com/glowcart/backend/internal/infrastructure/cache"
	"github.com/glowcart/backend/internal/infrastructure/catalog"
	"github.com/glowcart/backend/internal/infrastructure/checkout"
	"github.com/glowcart/backend/internal/logging"
	"github.com/glowcart/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
		Output: os.Stdout,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting GlowCart backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer closeCache.Close()

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerMinute: cfg.RateLimit.Catalog,
	})

	// Enable debug mode in development environment
	if cfg.Catalog.Debug || cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		logging.Debug().Msg("Catalog client debug mode enabled")
	}

	checkoutClient := checkout.NewClient(checkout.ClientConfig{
		BaseURL:           cfg.Checkout.BaseURL,
		Timeout:           cfg.Checkout.Timeout,
		RequestsPerMinute: cfg.RateLimit.Checkout,
	})

	logging.Info().
		Str("catalog", cfg.Catalog.BaseURL).
		Bool("catalog_api_key", cfg.Catalog.APIKey != "").
		Str("checkout", cfg.Checkout.BaseURL).
		Msg("Upstream services configured")

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(store, catalogClient, usecase.CatalogServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	storefront := usecase.NewStorefrontService(catalogService, checkoutClient)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(storefront)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		return
	}
	logging.Info().Msg("Server stopped")
}

// newCache builds the configured cache backend
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logging.Info().Msg("Using Redis cache")
		return redisCache, redisCache, nil
	default:
		memoryCache := cache.NewMemoryCache()
		logging.Info().Msg("Using in-memory cache")
		return memoryCache, memoryCache, nil
	}
}
