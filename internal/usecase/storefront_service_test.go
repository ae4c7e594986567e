package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/glowcart/backend/internal/domain"
)

// MockCheckoutClient is a mock implementation of domain.CheckoutClient
type MockCheckoutClient struct {
	session  *domain.CheckoutSession
	err      error
	received []domain.CartItem
}

func (m *MockCheckoutClient) CreateSession(ctx context.Context, items []domain.CartItem) (*domain.CheckoutSession, error) {
	m.received = items
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func newTestStorefront(client *MockCatalogClient, checkout *MockCheckoutClient) *StorefrontService {
	catalog := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{})
	return NewStorefrontService(catalog, checkout)
}

func TestStorefrontService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newTestStorefront(NewMockCatalogClient(testCatalog()), &MockCheckoutClient{})

	t.Run("empty query filters the whole catalog", func(t *testing.T) {
		filter := domain.DefaultSearchFilter()
		filter.PriceRange = domain.Price25To50

		result, err := svc.Search(ctx, "  ", filter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 3 || len(result.Products) != 3 {
			t.Errorf("Total = %d, want 3", result.Total)
		}
	})

	t.Run("query then filter and sort", func(t *testing.T) {
		filter := domain.DefaultSearchFilter()
		filter.Sort = domain.SortPriceHigh

		result, err := svc.Search(ctx, "acid", filter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := ids(result.Products)
		want := []int64{1, 2, 3}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("products = %v, want %v", got, want)
			}
		}
		if result.Query != "acid" {
			t.Errorf("Query = %q, want acid", result.Query)
		}
	})

	t.Run("facets cover the whole catalog", func(t *testing.T) {
		result, err := svc.Search(ctx, "retinol", domain.DefaultSearchFilter())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Products) != 1 {
			t.Errorf("got %d products, want 1", len(result.Products))
		}
		if len(result.Facets.Brands) != 4 || len(result.Facets.Categories) != 4 {
			t.Errorf("facets = %+v, want 4 brands and 4 categories", result.Facets)
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		client := NewMockCatalogClient(nil)
		client.listError = domain.ErrCatalogUnavailable
		failing := newTestStorefront(client, &MockCheckoutClient{})

		if _, err := failing.Search(ctx, "serum", domain.DefaultSearchFilter()); !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, want ErrCatalogUnavailable", err)
		}
	})
}

func TestStorefrontService_Suggest(t *testing.T) {
	ctx := context.Background()
	client := NewMockCatalogClient(testCatalog())
	svc := newTestStorefront(client, &MockCheckoutClient{})

	got, err := svc.Suggest(ctx, "")
	if err != nil || len(got) != 0 {
		t.Errorf("Suggest(\"\") = %v, %v; want empty", got, err)
	}
	if client.listCalls != 0 {
		t.Errorf("empty query fetched the catalog")
	}

	got, err = svc.Suggest(ctx, "glow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "GlowLab" {
		t.Errorf("Suggest(glow) = %v, want [GlowLab]", got)
	}
}

func TestStorefrontService_Recommend(t *testing.T) {
	ctx := context.Background()
	svc := newTestStorefront(NewMockCatalogClient(testCatalog()), &MockCheckoutClient{})

	t.Run("requires skin type", func(t *testing.T) {
		if _, err := svc.Recommend(ctx, domain.RecommendationRequest{}); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns recommendations and tips", func(t *testing.T) {
		result, err := svc.Recommend(ctx, domain.RecommendationRequest{
			SkinType: "Dry",
			Concerns: []string{"Dryness"},
			Budget:   domain.BudgetMid,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Recommendations) == 0 || len(result.Recommendations) > 3 {
			t.Fatalf("got %d recommendations, want 1..3", len(result.Recommendations))
		}
		// Hydrating Cream: skin 30 + concern 25 + mid-range 20
		if top := result.Recommendations[0]; top.Product.ID != 2 || top.MatchScore != 75 {
			t.Errorf("top = %d (%d), want product 2 with 75", top.Product.ID, top.MatchScore)
		}
		if len(result.Tips) != 3 || result.Tips[0] != tipDry {
			t.Errorf("tips = %v", result.Tips)
		}
	})
}

func TestStorefrontService_PriceCart(t *testing.T) {
	ctx := context.Background()
	svc := newTestStorefront(NewMockCatalogClient(testCatalog()), &MockCheckoutClient{})

	t.Run("prices and merges lines", func(t *testing.T) {
		summary, err := svc.PriceCart(ctx, []domain.CartLine{
			{ProductID: 3, Quantity: 2},
			{ProductID: 2, Quantity: 1},
			{ProductID: 3, Quantity: 1},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(summary.Items) != 2 {
			t.Errorf("got %d lines, want 2", len(summary.Items))
		}
		if summary.TotalItems != 4 {
			t.Errorf("TotalItems = %d, want 4", summary.TotalItems)
		}
		// 3 x 18.00 + 32.50
		if got := summary.TotalPrice.StringFixed(2); got != "86.50" {
			t.Errorf("TotalPrice = %s, want 86.50", got)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		summary, err := svc.PriceCart(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.TotalItems != 0 || !summary.TotalPrice.IsZero() {
			t.Errorf("summary = %+v, want empty", summary)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.PriceCart(ctx, []domain.CartLine{{ProductID: 42, Quantity: 1}})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := svc.PriceCart(ctx, []domain.CartLine{{ProductID: 1, Quantity: 0}})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestStorefrontService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		svc := newTestStorefront(NewMockCatalogClient(testCatalog()), &MockCheckoutClient{})
		if _, err := svc.Checkout(ctx, nil); !errors.Is(err, domain.ErrEmptyCart) {
			t.Errorf("error = %v, want ErrEmptyCart", err)
		}
	})

	t.Run("hands priced items to checkout", func(t *testing.T) {
		checkout := &MockCheckoutClient{session: &domain.CheckoutSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"}}
		svc := newTestStorefront(NewMockCatalogClient(testCatalog()), checkout)

		session, err := svc.Checkout(ctx, []domain.CartLine{{ProductID: 1, Quantity: 2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.URL != "https://pay.example.com/cs_1" {
			t.Errorf("URL = %q", session.URL)
		}
		if len(checkout.received) != 1 || checkout.received[0].Quantity != 2 || checkout.received[0].Price != 45.99 {
			t.Errorf("checkout received %+v", checkout.received)
		}
	})

	t.Run("checkout failure", func(t *testing.T) {
		checkout := &MockCheckoutClient{err: domain.ErrCheckoutFailed}
		svc := newTestStorefront(NewMockCatalogClient(testCatalog()), checkout)

		if _, err := svc.Checkout(ctx, []domain.CartLine{{ProductID: 1, Quantity: 1}}); !errors.Is(err, domain.ErrCheckoutFailed) {
			t.Errorf("error = %v, want ErrCheckoutFailed", err)
		}
	})
}

func TestStorefrontService_RefreshCatalog(t *testing.T) {
	ctx := context.Background()
	client := NewMockCatalogClient(testCatalog())
	svc := newTestStorefront(client, &MockCheckoutClient{})

	if _, err := svc.ListProducts(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.products = testCatalog()[:2]

	count, err := svc.RefreshCatalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if calls := atomic.LoadInt32(&client.listCalls); calls != 2 {
		t.Errorf("client called %d times, want 2", calls)
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("got %d products after refresh, want 2", len(products))
	}
}
