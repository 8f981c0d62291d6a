package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

type CatalogService struct {
	store *store.Store
	log   *logger.Logger
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(s *store.Store, log *logger.Logger) *CatalogService {
	return &CatalogService{store: s, log: log.With("component", "catalog")}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Tag, 0, len(tags))
	for i := range tags {
		out = append(out, toTag(&tags[i]))
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.Tag, error) {
	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toTag(t)
	return &out, nil
}

// ListIngredients returns ingredients whose name starts with prefix,
// case-insensitively. An empty prefix lists everything.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]types.Ingredient, error) {
	ings, err := s.store.ListIngredients(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]types.Ingredient, 0, len(ings))
	for i := range ings {
		out = append(out, toIngredient(&ings[i]))
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*types.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toIngredient(ing)
	return &out, nil
}

// LoadIngredients inserts the ingredients that are not in the catalog yet
// and reports how many were added.
func (s *CatalogService) LoadIngredients(ctx context.Context, items []types.Ingredient) (int, error) {
	added := 0
	for _, item := range items {
		exists, err := s.store.IngredientExists(ctx, item.Name, item.MeasurementUnit)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		ing := &model.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit}
		if err := s.store.CreateIngredient(ctx, ing); err != nil {
			return added, err
		}
		added++
	}
	s.log.Info("ingredients loaded", "added", added, "skipped", len(items)-added)
	return added, nil
}

// LoadTags inserts tags, skipping those whose name or slug is taken.
func (s *CatalogService) LoadTags(ctx context.Context, items []types.Tag) (int, error) {
	added := 0
	for _, item := range items {
		err := s.store.CreateTag(ctx, &model.Tag{Name: item.Name, Slug: item.Slug})
		if errors.Is(err, store.ErrConstraint) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}
	s.log.Info("tags loaded", "added", added, "skipped", len(items)-added)
	return added, nil
}
