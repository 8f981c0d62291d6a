package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

const recipeImagePrefix = "recipes/images"

// RecipeService handles recipe operations
type RecipeService struct {
	store  *store.Store
	images storage.ImageStore
	log    *logger.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s *store.Store, images storage.ImageStore, log *logger.Logger) *RecipeService {
	return &RecipeService{store: s, images: images, log: log.With("component", "recipe")}
}

func fromRequest(req *types.RecipeRequest) (*model.Recipe, []uuid.UUID, []model.RecipeIngredient) {
	r := &model.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	lines := make([]model.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		lines = append(lines, model.RecipeIngredient{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return r, req.Tags, lines
}

// Create validates the request and its tag and ingredient references before
// the image is uploaded so a rejected recipe never leaves an orphaned object
// behind.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	r, tagIDs, lines := fromRequest(req)
	if err := store.ValidateRecipe(r, tagIDs, lines); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, store.Violation(store.Required, "image", "image is required")
	}
	if err := s.store.CheckRecipeReferences(ctx, tagIDs, lines); err != nil {
		return nil, err
	}
	ref, err := s.images.Save(ctx, recipeImagePrefix, req.Image)
	if err != nil {
		return nil, err
	}
	r.AuthorID = authorID
	r.Image = ref
	if err := s.store.CreateRecipe(ctx, r, tagIDs, lines); err != nil {
		return nil, err
	}
	s.log.Info("recipe created", "recipe_id", r.ID, "author_id", authorID, "short_hash", r.ShortHash)
	return s.Get(ctx, &authorID, r.ID)
}

// Update replaces the recipe's fields, tags and ingredient lines. Only the
// author may update. An omitted image keeps the current one.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	existing, err := s.store.FindRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != userID {
		return nil, store.ErrForbidden
	}
	r, tagIDs, lines := fromRequest(req)
	if err := store.ValidateRecipe(r, tagIDs, lines); err != nil {
		return nil, err
	}
	if err := s.store.CheckRecipeReferences(ctx, tagIDs, lines); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) != "" {
		if r.Image, err = s.images.Save(ctx, recipeImagePrefix, req.Image); err != nil {
			return nil, err
		}
	}
	r.ID = recipeID
	if err := s.store.UpdateRecipe(ctx, r, tagIDs, lines); err != nil {
		return nil, err
	}
	return s.Get(ctx, &userID, recipeID)
}

func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	existing, err := s.store.FindRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return store.ErrForbidden
	}
	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.log.Info("recipe deleted", "recipe_id", recipeID, "author_id", userID)
	return nil
}

// Get returns one recipe annotated for viewer (nil for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewer *uuid.UUID, recipeID uuid.UUID) (*types.RecipeDetail, error) {
	var out types.RecipeDetail
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		r, err := tx.GetRecipe(ctx, recipeID)
		if err != nil {
			return err
		}
		recipes := []model.Recipe{*r}
		vs, err := annotate(ctx, tx, viewer, recipes)
		if err != nil {
			return err
		}
		out = toRecipeDetail(r, vs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List pages through recipes, newest first. The favorited and cart filters
// apply only to an authenticated viewer and are ignored otherwise.
func (s *RecipeService) List(ctx context.Context, viewer *uuid.UUID, q *types.RecipeQuery) (*types.Page[types.RecipeDetail], error) {
	filter := store.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.Tags}
	if viewer != nil {
		if q.IsFavorited {
			filter.FavoritedBy = viewer
		}
		if q.IsInShoppingCart {
			filter.InCartOf = viewer
		}
	}
	out := &types.Page[types.RecipeDetail]{Results: []types.RecipeDetail{}}
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		recipes, total, err := tx.ListRecipes(ctx, filter, store.Page{Limit: q.Limit, Offset: q.Offset})
		if err != nil {
			return err
		}
		vs, err := annotate(ctx, tx, viewer, recipes)
		if err != nil {
			return err
		}
		out.Count = total
		for i := range recipes {
			out.Results = append(out.Results, toRecipeDetail(&recipes[i], vs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func annotate(ctx context.Context, tx *store.Store, viewer *uuid.UUID, recipes []model.Recipe) (viewerState, error) {
	vs := viewerState{
		favorited:  map[uuid.UUID]bool{},
		inCart:     map[uuid.UUID]bool{},
		subscribed: map[uuid.UUID]bool{},
	}
	if viewer == nil || len(recipes) == 0 {
		return vs, nil
	}
	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	var err error
	if vs.favorited, err = tx.RelatedRecipes(ctx, model.KindFavorite, *viewer, ids); err != nil {
		return vs, err
	}
	if vs.inCart, err = tx.RelatedRecipes(ctx, model.KindCart, *viewer, ids); err != nil {
		return vs, err
	}
	if vs.subscribed, err = subscribedTo(ctx, tx, viewer, userIDs(recipes)); err != nil {
		return vs, err
	}
	return vs, nil
}
