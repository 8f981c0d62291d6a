package service

import (
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Summarize is the compact recipe view shared by the favorite and cart
// toggles and by author previews.
func Summarize(r *model.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func summarizeAll(recipes []model.Recipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, Summarize(&recipes[i]))
	}
	return out
}

func toUserProfile(u *model.User, subscribed bool) types.UserProfile {
	return types.UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: subscribed,
	}
}

func toTag(t *model.Tag) types.Tag {
	return types.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toIngredient(i *model.Ingredient) types.Ingredient {
	return types.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// viewerState holds the viewer-specific flags for a batch of recipes.
type viewerState struct {
	favorited  map[uuid.UUID]bool
	inCart     map[uuid.UUID]bool
	subscribed map[uuid.UUID]bool
}

func toRecipeDetail(r *model.Recipe, vs viewerState) types.RecipeDetail {
	tags := make([]types.Tag, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, toTag(&r.Tags[i]))
	}
	lines := make([]types.IngredientLine, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, types.IngredientLine{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return types.RecipeDetail{
		ID:               r.ID,
		Tags:             tags,
		Author:           toUserProfile(&r.Author, vs.subscribed[r.AuthorID]),
		Ingredients:      lines,
		IsFavorited:      vs.favorited[r.ID],
		IsInShoppingCart: vs.inCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}
