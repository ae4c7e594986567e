package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glowcart/backend/internal/domain"
	"github.com/glowcart/backend/internal/infrastructure/breaker"
	"github.com/glowcart/backend/internal/logging"
	"github.com/glowcart/backend/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	serviceName     = "catalog"
	maxAttempts     = 3
	backoffBase     = 500 * time.Millisecond
	maxResponseSize = 10 << 20 // 10 MiB
	maxErrorBody    = 512
	userAgent       = "GlowCart-Backend/1.0"
)

// ClientConfig configures the catalog client
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	Breaker           breaker.Settings
}

// statusError carries a non-200 response from the catalog service
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

// retryable reports whether the request may succeed if repeated
func (e *statusError) retryable() bool {
	return e.code >= http.StatusInternalServerError || e.code == http.StatusTooManyRequests
}

// Client handles communication with the external product catalog service
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]byte]
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new catalog client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 600
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 10) // burst of 10 requests

	settings := cfg.Breaker
	if settings.MinRequests == 0 {
		settings = breaker.DefaultSettings()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		rateLimiter: limiter,
		breaker:     breaker.New[[]byte](serviceName, settings, countsAsSuccess),
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// countsAsSuccess keeps client errors such as 404 from tripping the breaker
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return !se.retryable()
	}
	return errors.Is(err, context.Canceled)
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return backoffBase << (attempt - 1)
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		logging.Debug().Str("client", serviceName).Msgf(format, args...)
	}
}

// doRequest executes one GET through the circuit breaker
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBody)
			return nil, &statusError{code: resp.StatusCode, body: string(body)}
		}

		return readLimitedBody(resp.Body, maxResponseSize)
	})
}

// get fetches a path with rate limiting and retries on transient failures
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		c.debugLog("GET %s (attempt %d)", reqURL, attempt)
		body, err := c.doRequest(ctx, reqURL)
		if err == nil {
			metrics.RecordUpstream(serviceName, "success")
			return body, nil
		}

		if breaker.IsRejection(err) {
			metrics.RecordUpstream(serviceName, "rejected")
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		metrics.RecordUpstream(serviceName, "failure")

		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusNotFound {
				return nil, domain.ErrProductNotFound
			}
			if !se.retryable() {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logging.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Str("url", reqURL).Msg("Catalog request failed")
		lastErr = err

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, lastErr)
}

// ListProducts fetches the full product catalog
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, "/api/products")
	if err != nil {
		return nil, err
	}

	var records []catalogProduct
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	c.debugLog("fetched %d products", len(records))
	return MapToProducts(records), nil
}

// GetProduct fetches one product by ID
func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	body, err := c.get(ctx, "/api/products/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var record catalogProduct
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	product := MapToProduct(&record)
	return &product, nil
}
