package domain

// PriceRange is a price bracket used by the search filters
type PriceRange string

// Price brackets. 25-50 and 50-75 are both inclusive, so 50.00 falls in both.
const (
	PriceAll     PriceRange = "all"
	PriceUnder25 PriceRange = "under-25"
	Price25To50  PriceRange = "25-50"
	Price50To75  PriceRange = "50-75"
	PriceOver75  PriceRange = "over-75"
)

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// FilterAll disables the category and brand filters
const FilterAll = "all"

// SearchFilter holds the structured refinement state of the search page
type SearchFilter struct {
	PriceRange PriceRange `json:"priceRange"`
	Category   string     `json:"category"`
	Brand      string     `json:"brand"`
	MinRating  *float64   `json:"minRating,omitempty"` // nil means any rating
	Sort       SortKey    `json:"sort"`
}

// DefaultSearchFilter returns the cleared filter state
func DefaultSearchFilter() SearchFilter {
	return SearchFilter{
		PriceRange: PriceAll,
		Category:   FilterAll,
		Brand:      FilterAll,
		Sort:       SortRelevance,
	}
}

// Facets lists the distinct values offered in the category and brand dropdowns
type Facets struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

// SearchResult is the response of a search run
type SearchResult struct {
	Query    string       `json:"query"`
	Filter   SearchFilter `json:"filter"`
	Products []Product    `json:"products"`
	Total    int          `json:"total"`
	Facets   Facets       `json:"facets"`
}
