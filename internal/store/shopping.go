package store

import (
	"context"

	"github.com/google/uuid"
)

// IngredientTotal is one aggregated shopping line.
type IngredientTotal struct {
	Name   string
	Unit   string
	Amount int64
}

// CartIngredientTotals sums ingredient amounts over every recipe in the
// user's cart, grouped by (name, unit) and ordered by name. An empty cart
// yields an empty slice.
func (s *Store) CartIngredientTotals(ctx context.Context, userID uuid.UUID) ([]IngredientTotal, error) {
	rows := make([]IngredientTotal, 0)
	err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipes ON recipes.id = cart_items.recipe_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("cart ingredient totals", err)
	}
	return rows, nil
}
