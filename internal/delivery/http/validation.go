package http

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/glowcart/backend/internal/domain"
)

var registerOnce sync.Once

// skinTypes are the choices offered by the recommendation form
var skinTypes = map[string]bool{
	domain.SkinTypeOily:        true,
	domain.SkinTypeDry:         true,
	domain.SkinTypeCombination: true,
	domain.SkinTypeSensitive:   true,
}

// budgets are the bands the recommendation scorer evaluates
var budgets = map[string]bool{
	domain.BudgetLow:     true,
	domain.BudgetMid:     true,
	domain.BudgetPremium: true,
}

// RegisterValidators adds the storefront tags to gin's validator.
// It must run before any request binds a RecommendationRequest.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		if err = v.RegisterValidation("skintype", validateSkinType); err != nil {
			return
		}
		err = v.RegisterValidation("budget", validateBudget)
	})
	return err
}

func validateSkinType(fl validator.FieldLevel) bool {
	return skinTypes[fl.Field().String()]
}

func validateBudget(fl validator.FieldLevel) bool {
	return budgets[fl.Field().String()]
}

// bindingMessage turns a binding error into a client-facing message
func bindingMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "skintype":
		return fmt.Sprintf("%s must be one of Oily, Dry, Combination, Sensitive", fe.Field())
	case "budget":
		return fmt.Sprintf("%s must be one of budget, mid-range, premium", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
