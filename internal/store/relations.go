package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/model"
)

// CreateRelation inserts the (user, recipe) pair for kind. The unique index
// is the only duplicate check, so a concurrent second insert fails with a
// DuplicateRelation violation.
func (s *Store) CreateRelation(ctx context.Context, kind model.RelationKind, userID, recipeID uuid.UUID) error {
	row := kind.NewRow(userID, recipeID)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return s.fail("create "+kind.String(), err)
	}
	return nil
}

// DeleteRelation removes the pair, or returns ErrNothingToRemove.
func (s *Store) DeleteRelation(ctx context.Context, kind model.RelationKind, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(kind.Model())
	if res.Error != nil {
		return s.fail("delete "+kind.String(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNothingToRemove
	}
	return nil
}

// CountRelations counts stored rows for the pair. It is zero or one.
func (s *Store) CountRelations(ctx context.Context, kind model.RelationKind, userID, recipeID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(kind.Model()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	if err != nil {
		return 0, s.fail("count "+kind.String(), err)
	}
	return n, nil
}

// RelatedRecipes reports which of recipeIDs the user holds a kind relation to.
func (s *Store) RelatedRecipes(ctx context.Context, kind model.RelationKind, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(kind.Model()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, s.fail("related "+kind.String(), err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
