package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RelationService toggles one kind of (user, recipe) relation. Favorites and
// the shopping cart are two values of this type.
type RelationService struct {
	store   *store.Store
	kind    model.RelationKind
	metrics *observability.Metrics
	log     *logger.Logger
}

var _ IRelationService = (*RelationService)(nil)

func NewRelationService(s *store.Store, kind model.RelationKind, metrics *observability.Metrics, log *logger.Logger) *RelationService {
	return &RelationService{
		store:   s,
		kind:    kind,
		metrics: metrics,
		log:     log.With("component", "relation", "kind", kind.String()),
	}
}

func (s *RelationService) Kind() model.RelationKind {
	return s.kind
}

// Add stores the pair and returns the recipe summary. It fails with
// ErrNotFound for an unknown recipe and ErrAlreadyExists when the pair is
// already present, including when a concurrent Add won the race.
func (s *RelationService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	var summary types.RecipeSummary
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		recipe, err := tx.FindRecipe(ctx, recipeID)
		if err != nil {
			return err
		}
		if err := tx.CreateRelation(ctx, s.kind, userID, recipeID); err != nil {
			return err
		}
		summary = Summarize(recipe)
		return nil
	})
	s.metrics.RecordToggle(s.kind.String(), "add", err)
	if err != nil {
		s.log.Debug("add rejected", "user_id", userID, "recipe_id", recipeID, "error", err)
		return nil, err
	}
	return &summary, nil
}

// Remove deletes the pair. An unknown recipe and a missing pair both return
// ErrNothingToRemove.
func (s *RelationService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.FindRecipe(ctx, recipeID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.ErrNothingToRemove
			}
			return err
		}
		return tx.DeleteRelation(ctx, s.kind, userID, recipeID)
	})
	s.metrics.RecordToggle(s.kind.String(), "remove", err)
	return err
}
