package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,max=128"`
}

// AvatarRequest carries a base64 data URI.
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// RecipeRequest creates or replaces a recipe. Image is a base64 data URI;
// it may be omitted on update to keep the current image. Range and set
// checks are left to the store so they report their violation kind.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
}

// RecipeQuery holds the list filters accepted by GET /recipes.
type RecipeQuery struct {
	Tags             []string
	AuthorID         *uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
