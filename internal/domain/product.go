package domain

import "math"

// Product represents a catalog entry as served by the external catalog service.
// The core never mutates a Product; search and scoring only read and reorder.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	ImageURL      string   `json:"image_url,omitempty"`
	Badge         string   `json:"badge,omitempty"`
	Description   string   `json:"description,omitempty"`
	Ingredients   []string `json:"ingredients,omitempty"`
	HowToUse      string   `json:"howToUse,omitempty"`
	Benefits      []string `json:"benefits,omitempty"`
	SkinType      string   `json:"skinType,omitempty"`
	Category      string   `json:"category,omitempty"`
	Concerns      []string `json:"concerns,omitempty"`
}

// DiscountPercent returns the whole-number percentage saved against OriginalPrice.
// Zero when there is no original price or it does not exceed the current price.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}
