package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/store"
)

type ShortLinkService struct {
	store   *store.Store
	metrics *observability.Metrics
}

var _ IShortLinkService = (*ShortLinkService)(nil)

func NewShortLinkService(s *store.Store, metrics *observability.Metrics) *ShortLinkService {
	return &ShortLinkService{store: s, metrics: metrics}
}

// Link returns the short path of a recipe, "/s/<hash>/".
func (s *ShortLinkService) Link(ctx context.Context, recipeID uuid.UUID) (string, error) {
	r, err := s.store.FindRecipe(ctx, recipeID)
	if err != nil {
		return "", err
	}
	return shortlink.Path(r.ShortHash), nil
}

// Resolve looks a recipe up by its short hash.
func (s *ShortLinkService) Resolve(ctx context.Context, hash string) (*model.Recipe, error) {
	r, err := s.store.GetRecipeByShortHash(ctx, hash)
	s.metrics.RecordShortLink(err)
	return r, err
}

// URL joins base ("https://host") and the recipe's short path.
func URL(base string, r *model.Recipe) string {
	return strings.TrimRight(base, "/") + shortlink.Path(r.ShortHash)
}
