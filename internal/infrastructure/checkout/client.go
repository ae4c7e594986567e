package checkout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
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
	serviceName     = "checkout"
	sessionPath     = "/api/create-checkout-session"
	maxResponseSize = 1 << 20
	userAgent       = "GlowCart-Backend/1.0"
)

// ClientConfig configures the checkout client
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	Breaker           breaker.Settings
}

// Client creates hosted checkout sessions through the external payment collaborator.
// Session creation is not idempotent, so requests are never retried.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[*domain.CheckoutSession]
}

// sessionRequest is the body expected by the checkout service
type sessionRequest struct {
	CartItems []domain.CartItem `json:"cartItems"`
}

// sessionResponse carries either a redirect URL or an error message
type sessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// rejectedError is a 4xx answer from the checkout service
type rejectedError struct {
	code    int
	message string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.message)
}

// NewClient creates a new checkout client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 120
	}

	settings := cfg.Breaker
	if settings.MinRequests == 0 {
		settings = breaker.DefaultSettings()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 5),
		breaker: breaker.New[*domain.CheckoutSession](serviceName, settings, func(err error) bool {
			var re *rejectedError
			return err == nil || errors.As(err, &re)
		}),
	}
}

// CreateSession posts the cart to the checkout service and returns the hosted page
func (c *Client) CreateSession(ctx context.Context, items []domain.CartItem) (*domain.CheckoutSession, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(sessionRequest{CartItems: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	session, err := c.breaker.Execute(func() (*domain.CheckoutSession, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		outcome := "failure"
		if breaker.IsRejection(err) {
			outcome = "rejected"
		}
		metrics.RecordUpstream(serviceName, outcome)
		logging.Ctx(ctx).Error().Err(err).Int("items", len(items)).Msg("Checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}

	metrics.RecordUpstream(serviceName, "success")
	return session, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*domain.CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sessionPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out sessionResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		message := out.Error
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, &rejectedError{code: resp.StatusCode, message: message}
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, message)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out.URL == "" {
		return nil, errors.New("checkout response missing url")
	}

	return &domain.CheckoutSession{ID: out.ID, URL: out.URL}, nil
}
