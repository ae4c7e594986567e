package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/glowcart/backend/internal/domain"
)

// maxSuggestions caps the number of search suggestions returned
const maxSuggestions = 5

// normalizeQuery trims and lower-cases a search query.
// Returns "" for an empty or whitespace-only query.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// containsFold reports whether the lower-cased field contains term.
// An empty field never matches.
func containsFold(field, term string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), term)
}

// anyContainsFold reports whether any entry of fields contains term
func anyContainsFold(fields []string, term string) bool {
	for _, f := range fields {
		if containsFold(f, term) {
			return true
		}
	}
	return false
}

// matchesQuery checks every searchable field of a product against a normalized term
func matchesQuery(p domain.Product, term string) bool {
	return containsFold(p.Name, term) ||
		containsFold(p.Brand, term) ||
		containsFold(p.Description, term) ||
		containsFold(p.Category, term) ||
		anyContainsFold(p.Concerns, term) ||
		anyContainsFold(p.Ingredients, term) ||
		anyContainsFold(p.Benefits, term) ||
		containsFold(p.SkinType, term)
}

// MatchProducts returns the products whose name, brand, description, category,
// concerns, ingredients, benefits or skin type contain the query, ignoring case.
// An empty or whitespace-only query matches nothing. Input order is preserved.
func MatchProducts(products []domain.Product, query string) []domain.Product {
	term := normalizeQuery(query)
	if term == "" {
		return []domain.Product{}
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, term) {
			matched = append(matched, p)
		}
	}
	return matched
}

// inPriceRange applies a price bracket. Unknown brackets let everything through.
func inPriceRange(price float64, bracket domain.PriceRange) bool {
	switch bracket {
	case domain.PriceUnder25:
		return price < 25
	case domain.Price25To50:
		return price >= 25 && price <= 50
	case domain.Price50To75:
		return price >= 50 && price <= 75
	case domain.PriceOver75:
		return price > 75
	default:
		return true
	}
}

// isAll reports whether an equality filter is disabled
func isAll(value string) bool {
	return value == "" || value == domain.FilterAll
}

// matchesFilter applies the conjunction of all structured filters
func matchesFilter(p domain.Product, filter domain.SearchFilter) bool {
	if !inPriceRange(p.Price, filter.PriceRange) {
		return false
	}
	if !isAll(filter.Category) && p.Category != filter.Category {
		return false
	}
	if !isAll(filter.Brand) && p.Brand != filter.Brand {
		return false
	}
	if filter.MinRating != nil && !(p.Rating >= *filter.MinRating) {
		return false
	}
	return true
}

// sortComparator returns the ordering for a sort key, or nil for relevance
func sortComparator(key domain.SortKey) func(a, b domain.Product) int {
	switch key {
	case domain.SortPriceLow:
		return func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) }
	case domain.SortPriceHigh:
		return func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) }
	case domain.SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case domain.SortName:
		return func(a, b domain.Product) int { return strings.Compare(a.Name, b.Name) }
	default:
		return nil
	}
}

// FilterAndSort applies the price, category, brand and rating filters and then
// orders the survivors by filter.Sort. The sort is stable, and relevance keeps
// the input order. The input slice is never reordered.
func FilterAndSort(products []domain.Product, filter domain.SearchFilter) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(p, filter) {
			filtered = append(filtered, p)
		}
	}

	if compare := sortComparator(filter.Sort); compare != nil {
		slices.SortStableFunc(filtered, compare)
	}
	return filtered
}

// suggestionSet collects distinct suggestions in discovery order
type suggestionSet struct {
	seen  map[string]bool
	items []string
}

func (s *suggestionSet) add(value string) {
	if value == "" || s.seen[value] {
		return
	}
	s.seen[value] = true
	s.items = append(s.items, value)
}

// SuggestSearches returns up to five distinct brand names, product names,
// categories and concern tags containing the query, in discovery order.
func SuggestSearches(products []domain.Product, query string) []string {
	term := normalizeQuery(query)
	if term == "" {
		return []string{}
	}

	set := &suggestionSet{seen: make(map[string]bool)}
	for _, p := range products {
		if containsFold(p.Brand, term) {
			set.add(p.Brand)
		}
		if containsFold(p.Name, term) {
			set.add(p.Name)
		}
		if containsFold(p.Category, term) {
			set.add(p.Category)
		}
		for _, concern := range p.Concerns {
			if containsFold(concern, term) {
				set.add(concern)
			}
		}
	}

	if len(set.items) > maxSuggestions {
		return set.items[:maxSuggestions]
	}
	if set.items == nil {
		return []string{}
	}
	return set.items
}

// FacetValues lists the distinct non-empty categories and brands in first-seen order
func FacetValues(products []domain.Product) domain.Facets {
	categories := &suggestionSet{seen: make(map[string]bool)}
	brands := &suggestionSet{seen: make(map[string]bool)}
	for _, p := range products {
		categories.add(p.Category)
		brands.add(p.Brand)
	}

	facets := domain.Facets{Categories: categories.items, Brands: brands.items}
	if facets.Categories == nil {
		facets.Categories = []string{}
	}
	if facets.Brands == nil {
		facets.Brands = []string{}
	}
	return facets
}
