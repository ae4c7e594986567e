package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowcart/backend/internal/domain"
	"github.com/glowcart/backend/internal/logging"
	"github.com/glowcart/backend/internal/metrics"
)

// ProductSource is the read side of the catalog used by the storefront
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	Invalidate(ctx context.Context) error
}

// StorefrontService serves search, recommendations and cart pricing over the catalog
type StorefrontService struct {
	catalog  ProductSource
	checkout domain.CheckoutClient
}

// NewStorefrontService creates a new storefront service with dependencies
func NewStorefrontService(catalog ProductSource, checkout domain.CheckoutClient) *StorefrontService {
	return &StorefrontService{
		catalog:  catalog,
		checkout: checkout,
	}
}

// ListProducts returns the whole catalog
func (s *StorefrontService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

// RefreshCatalog drops the cached catalog and reloads it, returning the product count
func (s *StorefrontService) RefreshCatalog(ctx context.Context) (int, error) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		return 0, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// GetProduct returns a single product
func (s *StorefrontService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	return s.catalog.GetProduct(ctx, id)
}

// Search runs a text query and the structured filters.
// A blank query starts from the whole catalog; facets always cover the whole catalog.
func (s *StorefrontService) Search(ctx context.Context, query string, filter domain.SearchFilter) (*domain.SearchResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	candidates := products
	if strings.TrimSpace(query) != "" {
		candidates = MatchProducts(products, query)
	}

	results := FilterAndSort(candidates, filter)

	logging.Ctx(ctx).Debug().
		Str("query", query).
		Int("matched", len(candidates)).
		Int("returned", len(results)).
		Msg("Search completed")

	return &domain.SearchResult{
		Query:    query,
		Filter:   filter,
		Products: results,
		Total:    len(results),
		Facets:   FacetValues(products),
	}, nil
}

// Suggest returns autocomplete suggestions for a partial query
func (s *StorefrontService) Suggest(ctx context.Context, query string) ([]string, error) {
	if normalizeQuery(query) == "" {
		return []string{}, nil
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return SuggestSearches(products, query), nil
}

// Facets returns the category and brand values of the catalog
func (s *StorefrontService) Facets(ctx context.Context) (domain.Facets, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return domain.Facets{}, err
	}
	return FacetValues(products), nil
}

// Recommend scores the catalog against a user profile and adds skincare tips
func (s *StorefrontService) Recommend(ctx context.Context, request domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	if strings.TrimSpace(request.SkinType) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	recommendations := ScoreProducts(request, products)
	metrics.RecommendationsServed.Observe(float64(len(recommendations)))

	logging.Ctx(ctx).Info().
		Str("skin_type", request.SkinType).
		Strs("concerns", request.Concerns).
		Str("budget", request.Budget).
		Int("recommendations", len(recommendations)).
		Msg("Recommendations generated")

	return &domain.RecommendationResult{
		Recommendations: recommendations,
		Tips:            PersonalizedTips(request),
	}, nil
}

// Tips returns skincare tips for a profile without scoring the catalog
func (s *StorefrontService) Tips(request domain.RecommendationRequest) []string {
	return PersonalizedTips(request)
}

// PriceCart resolves client-held cart lines against the catalog.
// Repeated product IDs are merged into one line.
func (s *StorefrontService) PriceCart(ctx context.Context, lines []domain.CartLine) (*domain.CartSummary, error) {
	cart, err := s.buildCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	summary := cart.Summary()
	return &summary, nil
}

// Checkout prices the cart and creates a hosted checkout session for it
func (s *StorefrontService) Checkout(ctx context.Context, lines []domain.CartLine) (*domain.CheckoutSession, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	cart, err := s.buildCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	session, err := s.checkout.CreateSession(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Int("items", cart.TotalItems()).
		Str("total", cart.TotalPrice().StringFixed(2)).
		Msg("Checkout session created")

	return session, nil
}

// buildCart looks up every line's product, using a single catalog read
func (s *StorefrontService) buildCart(ctx context.Context, lines []domain.CartLine) (domain.Cart, error) {
	cart := domain.NewCart()
	if len(lines) == 0 {
		return cart, nil
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return cart, err
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return cart, domain.ErrInvalidRequest
		}
		p, ok := byID[line.ProductID]
		if !ok {
			return cart, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, line.ProductID)
		}
		cart = cart.Add(p, line.Quantity)
	}
	return cart, nil
}
