package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowcart/backend/internal/domain"
	"github.com/glowcart/backend/internal/logging"
)

const (
	serviceName    = "glowcart-backend"
	serviceVersion = "1.0.0"
)

// StorefrontService is the use-case surface served over HTTP
type StorefrontService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	Search(ctx context.Context, query string, filter domain.SearchFilter) (*domain.SearchResult, error)
	Suggest(ctx context.Context, query string) ([]string, error)
	Facets(ctx context.Context) (domain.Facets, error)
	Recommend(ctx context.Context, request domain.RecommendationRequest) (*domain.RecommendationResult, error)
	Tips(request domain.RecommendationRequest) []string
	PriceCart(ctx context.Context, lines []domain.CartLine) (*domain.CartSummary, error)
	Checkout(ctx context.Context, lines []domain.CartLine) (*domain.CheckoutSession, error)
	RefreshCatalog(ctx context.Context) (int, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	storefront StorefrontService
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront StorefrontService) *Handler {
	return &Handler{storefront: storefront}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListProducts returns the whole catalog
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	products, err := h.storefront.ListProducts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product by numeric id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product id must be a positive integer"})
		return
	}

	product, err := h.storefront.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Search runs the text query and structured filters from the query string
func (h *Handler) Search(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	filter, err := parseSearchFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.storefront.Search(c.Request.Context(), c.Query("q"), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Suggestions returns autocomplete strings for a partial query
func (h *Handler) Suggestions(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	suggestions, err := h.storefront.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// RefreshCatalog reloads the catalog from the catalog service
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	count, err := h.storefront.RefreshCatalog(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	logging.Ctx(c.Request.Context()).Info().Int("products", count).Msg("Catalog refreshed")
	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "products": count})
}

// Facets returns the category and brand filter values
func (h *Handler) Facets(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	facets, err := h.storefront.Facets(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// Recommend scores the catalog against the submitted skin profile
func (h *Handler) Recommend(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.RecommendationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	result, err := h.storefront.Recommend(c.Request.Context(), request)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Tips returns skincare tips for the submitted skin profile
func (h *Handler) Tips(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.RecommendationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": h.storefront.Tips(request)})
}

// CartSummary prices a client-held cart
func (h *Handler) CartSummary(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.CartRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	summary, err := h.storefront.PriceCart(c.Request.Context(), request.Items)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Checkout creates a hosted checkout session and returns its redirect URL
func (h *Handler) Checkout(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.CartRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	session, err := h.storefront.Checkout(c.Request.Context(), request.Items)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ready answers 503 when the handler was built without a storefront service
func (h *Handler) ready(c *gin.Context) bool {
	if h.storefront == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storefront service not configured"})
		return false
	}
	return true
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded, try again later"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog service temporarily unavailable"})
	case errors.Is(err, domain.ErrCheckoutFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Checkout service temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Upstream request timed out"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseSearchFilter reads the search page filters from the query string.
// Missing values fall back to the cleared filter state.
func parseSearchFilter(c *gin.Context) (domain.SearchFilter, error) {
	filter := domain.DefaultSearchFilter()

	if v := c.Query("price"); v != "" {
		filter.PriceRange = domain.PriceRange(v)
	}
	if v := c.Query("category"); v != "" {
		filter.Category = v
	}
	if v := c.Query("brand"); v != "" {
		filter.Brand = v
	}
	if v := c.Query("sort"); v != "" {
		filter.Sort = domain.SortKey(v)
	}

	rating := strings.TrimSpace(c.Query("rating"))
	if rating != "" && rating != domain.FilterAll {
		minRating, err := strconv.ParseFloat(rating, 64)
		if err != nil || math.IsNaN(minRating) || minRating < 0 || minRating > 5 {
			return filter, errors.New("rating must be a number between 0 and 5 or 'all'")
		}
		filter.MinRating = &minRating
	}

	return filter, nil
}
