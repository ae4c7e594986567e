package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestProduct_DiscountPercent(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		originalPrice *float64
		want          int
	}{
		{"no original price", 30, nil, 0},
		{"rounded percentage", 45.99, floatPtr(59.99), 23},
		{"half off", 25, floatPtr(50), 50},
		{"original equals price", 30, floatPtr(30), 0},
		{"original below price", 30, floatPtr(20), 0},
		{"zero original", 30, floatPtr(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, OriginalPrice: tt.originalPrice}
			assert.Equal(t, tt.want, p.DiscountPercent())
		})
	}
}

func TestRecommendationRequest_HasConcern(t *testing.T) {
	r := RecommendationRequest{Concerns: []string{"Dark spots", "Wrinkles"}}

	assert.True(t, r.HasConcern("Dark spots"))
	assert.False(t, r.HasConcern("dark spots"))
	assert.False(t, r.HasConcern("Acne"))
}

func TestDefaultSearchFilter(t *testing.T) {
	f := DefaultSearchFilter()

	assert.Equal(t, PriceAll, f.PriceRange)
	assert.Equal(t, FilterAll, f.Category)
	assert.Equal(t, FilterAll, f.Brand)
	assert.Nil(t, f.MinRating)
	assert.Equal(t, SortRelevance, f.Sort)
}
