package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/glowcart/backend/internal/domain"
)

// Scoring weights
const (
	skinTypeMatchPoints = 30
	concernMatchPoints  = 25 // per matching product concern tag
	budgetFitPoints     = 20
	highRatingPoints    = 15
)

// Recommendation output policy
const (
	minRecommendationScore = 20 // strictly greater than this is kept
	maxRecommendations     = 3
	highRatingThreshold    = 4.7
	allSkinTypesPhrase     = "All skin types"
	reasonSeparator        = " • "
)

// Budget band price predicates. The bands overlap by price; only the band the
// user picked is ever evaluated.
const (
	budgetBandCeiling = 40.0
	midRangeBandFloor = 30.0
	midRangeBandCeil  = 60.0
	premiumBandFloor  = 50.0
)

// Tips
const (
	tipOily       = "Use products with salicylic acid or niacinamide to control oil production"
	tipDry        = "Look for ingredients like hyaluronic acid and ceramides for deep hydration"
	tipDarkSpots  = "Always use SPF 30+ during the day when using brightening products"
	tipWrinkles   = "Start with lower concentrations of retinol and gradually increase usage"
	tipPatchTest  = "Patch test new products on a small area before full application"
	tipOneAtATime = "Introduce new products one at a time to monitor your skin's reaction"
)

// Concern tags with a dedicated tip
const (
	concernDarkSpots = "Dark spots"
	concernWrinkles  = "Wrinkles"
)

// matchesSkinType checks the product's skin type text against the user's choice
func matchesSkinType(productSkinType, userSkinType string) bool {
	if productSkinType == "" {
		return false
	}
	if userSkinType != "" && strings.Contains(strings.ToLower(productSkinType), userSkinType) {
		return true
	}
	return strings.Contains(productSkinType, allSkinTypesPhrase)
}

// matchingConcerns returns the product concern tags related to any user concern.
// Related means either string contains the other, ignoring case.
func matchingConcerns(productConcerns, userConcerns []string) []string {
	var matched []string
	for _, concern := range productConcerns {
		if concern == "" {
			continue
		}
		tag := strings.ToLower(concern)
		for _, userConcern := range userConcerns {
			if userConcern == "" {
				continue
			}
			want := strings.ToLower(userConcern)
			if strings.Contains(tag, want) || strings.Contains(want, tag) {
				matched = append(matched, concern)
				break
			}
		}
	}
	return matched
}

// budgetFit evaluates the single band chosen by the user and returns its reason
func budgetFit(budget string, price float64) (string, bool) {
	switch budget {
	case domain.BudgetLow:
		if price < budgetBandCeiling {
			return "Budget-friendly option", true
		}
	case domain.BudgetMid:
		if price >= midRangeBandFloor && price <= midRangeBandCeil {
			return "Great value for money", true
		}
	case domain.BudgetPremium:
		if price > premiumBandFloor {
			return "Premium quality product", true
		}
	}
	return "", false
}

// scoreProduct runs every rule against one product.
// Reasons are collected in rule order: skin type, concerns, budget, rating.
func scoreProduct(request domain.RecommendationRequest, skinType string, p domain.Product) domain.Recommendation {
	score := 0
	var reasons []string

	if matchesSkinType(p.SkinType, skinType) {
		score += skinTypeMatchPoints
		reasons = append(reasons, fmt.Sprintf("Perfect for %s skin", skinType))
	}

	if concerns := matchingConcerns(p.Concerns, request.Concerns); len(concerns) > 0 {
		score += concernMatchPoints * len(concerns)
		reasons = append(reasons, fmt.Sprintf("Addresses your %s concerns", strings.Join(concerns, ", ")))
	}

	if reason, ok := budgetFit(request.Budget, p.Price); ok {
		score += budgetFitPoints
		reasons = append(reasons, reason)
	}

	if p.Rating >= highRatingThreshold {
		score += highRatingPoints
		reasons = append(reasons, "Highly rated by customers")
	}

	return domain.Recommendation{
		Product:    p,
		Reason:     strings.Join(reasons, reasonSeparator),
		MatchScore: score,
	}
}

// ScoreProducts ranks the catalog against a user profile. Only products scoring
// above 20 are kept, ordered by score (ties keep catalog order), top three.
func ScoreProducts(request domain.RecommendationRequest, products []domain.Product) []domain.Recommendation {
	skinType := strings.ToLower(strings.TrimSpace(request.SkinType))

	scored := make([]domain.Recommendation, 0, len(products))
	for _, p := range products {
		rec := scoreProduct(request, skinType, p)
		if rec.MatchScore > minRecommendationScore {
			scored = append(scored, rec)
		}
	}

	slices.SortStableFunc(scored, func(a, b domain.Recommendation) int {
		return b.MatchScore - a.MatchScore
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}

// PersonalizedTips returns skincare advice for a profile in a fixed order:
// skin-type tip, dark-spots tip, wrinkles tip, then the two universal tips.
func PersonalizedTips(request domain.RecommendationRequest) []string {
	tips := make([]string, 0, 5)

	switch request.SkinType {
	case domain.SkinTypeOily:
		tips = append(tips, tipOily)
	case domain.SkinTypeDry:
		tips = append(tips, tipDry)
	}
	if request.HasConcern(concernDarkSpots) {
		tips = append(tips, tipDarkSpots)
	}
	if request.HasConcern(concernWrinkles) {
		tips = append(tips, tipWrinkles)
	}

	return append(tips, tipPatchTest, tipOneAtATime)
}
