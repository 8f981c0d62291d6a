package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *model.User) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	GetProfile(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (*types.UserProfile, error)
	ListUsers(ctx context.Context, viewer *uuid.UUID, page store.Page) (*types.Page[types.UserProfile], error)
	SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// ICatalogService defines the read side of tags and ingredients
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*types.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]types.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*types.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error)
	Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	Get(ctx context.Context, viewer *uuid.UUID, recipeID uuid.UUID) (*types.RecipeDetail, error)
	List(ctx context.Context, viewer *uuid.UUID, q *types.RecipeQuery) (*types.Page[types.RecipeDetail], error)
}

// IRelationService toggles favorites or cart items
type IRelationService interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
	Kind() model.RelationKind
}

type ISubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*types.AuthorProfile, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, subscriberID uuid.UUID, page store.Page, recipesLimit int) (*types.Page[types.AuthorProfile], error)
}

type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingLine, error)
	Export(ctx context.Context, userID uuid.UUID) (string, error)
}

type IShortLinkService interface {
	Link(ctx context.Context, recipeID uuid.UUID) (string, error)
	Resolve(ctx context.Context, hash string) (*model.Recipe, error)
}
