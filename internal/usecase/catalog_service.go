package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowcart/backend/internal/domain"
	"github.com/glowcart/backend/internal/logging"
	"github.com/glowcart/backend/internal/metrics"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// catalogCacheKey holds the encoded full catalog
const catalogCacheKey = "catalog:all"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
	// FetchTimeout bounds a shared upstream fetch, which outlives any one caller
	FetchTimeout time.Duration
}

// CatalogService reads the product catalog with caching.
// Concurrent misses share a single upstream fetch.
type CatalogService struct {
	cache        domain.CacheRepository
	client       domain.CatalogClient
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(cache domain.CacheRepository, client domain.CatalogClient, config CatalogServiceConfig) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	fetchTimeout := config.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}

	return &CatalogService{
		cache:        cache,
		client:       client,
		cacheTTL:     cacheTTL,
		fetchTimeout: fetchTimeout,
	}
}

// ListProducts returns the full catalog.
// Flow: check cache -> fetch catalog -> cache -> return
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if products, err := s.getFromCache(ctx); err == nil {
		metrics.CatalogCacheHits.Inc()
		return products, nil
	}
	metrics.CatalogCacheMisses.Inc()

	ch := s.group.DoChan(catalogCacheKey, func() (interface{}, error) {
		// the fetch is shared, so one caller going away must not cancel it
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		// a fetch that finished since our miss may already have filled the cache
		if products, err := s.getFromCache(fetchCtx); err == nil {
			return products, nil
		}

		products, err := s.client.ListProducts(fetchCtx)
		if err != nil {
			return nil, err
		}
		if err := s.setInCache(fetchCtx, products); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to cache catalog")
		}
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.Ctx(ctx).Debug().Msg("Catalog fetch shared with concurrent request")
		}
		return res.Val.([]domain.Product), nil
	}
}

// GetProduct returns one product, preferring the cached catalog
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	if products, err := s.getFromCache(ctx); err == nil {
		metrics.CatalogCacheHits.Inc()
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				return &p, nil
			}
		}
	}

	return s.client.GetProduct(ctx, id)
}

// Invalidate drops the cached catalog so the next read refetches it
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	logging.Ctx(ctx).Info().Msg("Catalog cache invalidated")
	return nil
}

// getFromCache decodes the cached catalog
func (s *CatalogService) getFromCache(ctx context.Context) ([]domain.Product, error) {
	data, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logging.Ctx(ctx).Warn().Err(err).Msg("Catalog cache read failed")
		}
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Discarding undecodable catalog cache entry")
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}

// setInCache encodes and stores the catalog
func (s *CatalogService) setInCache(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, catalogCacheKey, data, s.cacheTTL)
}
