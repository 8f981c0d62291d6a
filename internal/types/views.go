package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is a user as seen by a viewer.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       *string   `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// AuthorProfile is a followed author with a live recipe count and an
// optional preview of their newest recipes.
type AuthorProfile struct {
	UserProfile
	RecipesCount int64           `json:"recipes_count"`
	Recipes      []RecipeSummary `json:"recipes"`
}

// RecipeSummary is the compact recipe view returned by favorite and cart
// toggles and used in author previews.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type Ingredient struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// IngredientLine is an ingredient with the amount a recipe uses.
type IngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeDetail is the full recipe read model, annotated for the viewer.
type RecipeDetail struct {
	ID               uuid.UUID        `json:"id"`
	Tags             []Tag            `json:"tags"`
	Author           UserProfile      `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	PubDate          time.Time        `json:"pub_date"`
}

// ShoppingLine is one aggregated entry of a shopping list.
type ShoppingLine struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int64  `json:"amount"`
}

// Page is a counted slice of results.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}
