package store

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
)

// ValidateRecipe checks the recipe invariants that the schema alone cannot
// express: required fields, bounds, non-empty and distinct tag and
// ingredient sets. Image is checked by the caller since updates may keep it.
func ValidateRecipe(r *model.Recipe, tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	if strings.TrimSpace(r.Name) == "" {
		return Violation(Required, "name", "name is required")
	}
	if utf8.RuneCountInString(r.Name) > model.MaxLengthRecipeName {
		return Violation(OutOfRange, "name", "name is longer than %d characters", model.MaxLengthRecipeName)
	}
	if strings.TrimSpace(r.Text) == "" {
		return Violation(Required, "text", "text is required")
	}
	if r.CookingTime < model.MinCookingTime || r.CookingTime > model.MaxCookingTime {
		return Violation(OutOfRange, "cooking_time", "cooking time must be between %d and %d", model.MinCookingTime, model.MaxCookingTime)
	}

	if len(tagIDs) == 0 {
		return Violation(EmptyCollection, "tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seenTags[id]; dup {
			return Violation(DuplicateTag, "tags", "tag %s is listed more than once", id)
		}
		seenTags[id] = struct{}{}
	}

	if len(lines) == 0 {
		return Violation(EmptyCollection, "ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seenIngredients[line.IngredientID]; dup {
			return Violation(DuplicateIngredient, "ingredients", "ingredient %s is listed more than once", line.IngredientID)
		}
		seenIngredients[line.IngredientID] = struct{}{}
		if line.Amount < model.MinAmount || line.Amount > model.MaxAmount {
			return Violation(OutOfRange, "amount", "amount must be between %d and %d", model.MinAmount, model.MaxAmount)
		}
	}
	return nil
}
