package domain

// Skin types offered by the recommendation form
const (
	SkinTypeOily        = "Oily"
	SkinTypeDry         = "Dry"
	SkinTypeCombination = "Combination"
	SkinTypeSensitive   = "Sensitive"
)

// Budget bands understood by the recommendation scorer
const (
	BudgetLow     = "budget"
	BudgetMid     = "mid-range"
	BudgetPremium = "premium"
)

// RecommendationRequest is the user profile submitted from the recommendation form
type RecommendationRequest struct {
	SkinType    string   `json:"skinType" binding:"required,skintype"`
	Concerns    []string `json:"concerns"`
	Budget      string   `json:"budget" binding:"omitempty,budget"`
	Age         string   `json:"age,omitempty"`
	Preferences string   `json:"preferences,omitempty"`
	Routine     string   `json:"routine,omitempty"`
}

// HasConcern reports whether the exact concern tag was selected
func (r RecommendationRequest) HasConcern(concern string) bool {
	for _, c := range r.Concerns {
		if c == concern {
			return true
		}
	}
	return false
}

// Recommendation pairs a product with the reasons it was picked
type Recommendation struct {
	Product    Product `json:"product"`
	Reason     string  `json:"reason"`
	MatchScore int     `json:"matchScore"`
}

// RecommendationResult is the response of a recommendation run
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Tips            []string         `json:"tips"`
}
