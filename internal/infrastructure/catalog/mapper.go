package catalog

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/glowcart/backend/internal/domain"
	"github.com/goccy/go-json"
)

// flexFloat decodes a JSON number, a numeric string or null.
// Anything else, NaN and infinities included, decodes to zero instead of
// failing the whole catalog.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = flexFloat{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = flexFloat{}
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{Value: v, Valid: true}
	return nil
}

// catalogProduct is a product as served by the catalog service
type catalogProduct struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         flexFloat `json:"price"`
	OriginalPrice flexFloat `json:"originalPrice"`
	Rating        flexFloat `json:"rating"`
	Reviews       flexFloat `json:"reviews"`
	ImageURL      string    `json:"image_url"`
	Badge         string    `json:"badge"`
	Description   string    `json:"description"`
	Ingredients   []string  `json:"ingredients"`
	HowToUse      string    `json:"howToUse"`
	Benefits      []string  `json:"benefits"`
	SkinType      string    `json:"skinType"`
	Category      string    `json:"category"`
	Concerns      []string  `json:"concerns"`
}

// MapToProduct converts a catalog record into the domain Product
func MapToProduct(p *catalogProduct) domain.Product {
	product := domain.Product{
		ID:          p.ID,
		Name:        strings.TrimSpace(p.Name),
		Brand:       strings.TrimSpace(p.Brand),
		Price:       p.Price.Value,
		Rating:      p.Rating.Value,
		Reviews:     int(p.Reviews.Value),
		ImageURL:    p.ImageURL,
		Badge:       p.Badge,
		Description: strings.TrimSpace(p.Description),
		Ingredients: cleanTags(p.Ingredients),
		HowToUse:    p.HowToUse,
		Benefits:    cleanTags(p.Benefits),
		SkinType:    strings.TrimSpace(p.SkinType),
		Category:    strings.TrimSpace(p.Category),
		Concerns:    cleanTags(p.Concerns),
	}

	if p.OriginalPrice.Valid {
		original := p.OriginalPrice.Value
		product.OriginalPrice = &original
	}
	if product.Reviews < 0 {
		product.Reviews = 0
	}

	return product
}

// MapToProducts converts a whole catalog listing
func MapToProducts(records []catalogProduct) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, MapToProduct(&records[i]))
	}
	return products
}

// cleanTags trims entries and drops empty ones, keeping order
func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}
