package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Add(t *testing.T) {
	serum := Product{ID: 1, Name: "Serum", Price: 45.99}
	cream := Product{ID: 2, Name: "Cream", Price: 32.50}

	empty := NewCart()
	one := empty.Add(serum, 1)
	merged := one.Add(serum, 2)
	two := merged.Add(cream, 0)

	assert.True(t, empty.IsEmpty())
	assert.Len(t, one.Items, 1)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, 3, merged.Items[0].Quantity)
	require.Len(t, two.Items, 2)
	assert.Equal(t, 1, two.Items[1].Quantity, "non-positive quantity adds one unit")

	// earlier values are untouched
	assert.Equal(t, 1, one.Items[0].Quantity)
	assert.Len(t, merged.Items, 1)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart().Add(Product{ID: 1, Price: 10}, 1).Add(Product{ID: 2, Price: 5}, 1)

	updated := cart.UpdateQuantity(1, 4)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	removed := cart.UpdateQuantity(2, 0)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, int64(1), removed.Items[0].ID)

	unknown := cart.UpdateQuantity(99, 3)
	assert.Equal(t, cart.Items, unknown.Items)
}

func TestCart_Remove(t *testing.T) {
	cart := NewCart().Add(Product{ID: 1}, 1).Add(Product{ID: 2}, 1)

	removed := cart.Remove(1)

	require.Len(t, removed.Items, 1)
	assert.Equal(t, int64(2), removed.Items[0].ID)
	assert.Len(t, cart.Items, 2)
}

func TestCart_NewCartCopiesItems(t *testing.T) {
	items := []CartItem{{Product: Product{ID: 1}, Quantity: 1}}
	cart := NewCart(items...)

	items[0].Quantity = 7

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCart_Totals(t *testing.T) {
	tests := []struct {
		name      string
		cart      Cart
		wantPrice string
		wantItems int
	}{
		{
			name:      "empty",
			cart:      NewCart(),
			wantPrice: "0.00",
			wantItems: 0,
		},
		{
			name:      "decimal arithmetic",
			cart:      NewCart().Add(Product{ID: 1, Price: 0.1}, 3),
			wantPrice: "0.30",
			wantItems: 3,
		},
		{
			name:      "several lines",
			cart:      NewCart().Add(Product{ID: 1, Price: 45.99}, 2).Add(Product{ID: 2, Price: 18}, 1),
			wantPrice: "109.98",
			wantItems: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPrice, tt.cart.TotalPrice().StringFixed(2))
			assert.Equal(t, tt.wantItems, tt.cart.TotalItems())

			summary := tt.cart.Summary()
			assert.Equal(t, tt.wantItems, summary.TotalItems)
			assert.True(t, summary.TotalPrice.Equal(tt.cart.TotalPrice()))
		})
	}
}

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{Product: Product{Price: 19.99}, Quantity: 3}
	assert.Equal(t, "59.97", item.Subtotal().StringFixed(2))
}
