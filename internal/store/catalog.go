package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
)

func (s *Store) CreateIngredient(ctx context.Context, ing *model.Ingredient) error {
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return s.fail("create ingredient", err)
	}
	return nil
}

func (s *Store) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, s.fail("get ingredient", err)
	}
	return &ing, nil
}

// ListIngredients returns ingredients ordered by name, optionally restricted
// to names starting with prefix (case-insensitive).
func (s *Store) ListIngredients(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&model.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}
	var out []model.Ingredient
	if err := q.Order("name").Order("measurement_unit").Find(&out).Error; err != nil {
		return nil, s.fail("list ingredients", err)
	}
	return out, nil
}

// IngredientExists reports whether the (name, unit) pair is already stored.
func (s *Store) IngredientExists(ctx context.Context, name, unit string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Ingredient{}).
		Where("name = ? AND measurement_unit = ?", name, unit).
		Count(&n).Error
	if err != nil {
		return false, s.fail("ingredient exists", err)
	}
	return n > 0, nil
}

// DeleteIngredient removes an ingredient and every recipe line using it.
func (s *Store) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("ingredient_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return tx.fail("delete ingredient lines", err)
		}
		res := tx.db.Delete(&model.Ingredient{}, "id = ?", id)
		if res.Error != nil {
			return tx.fail("delete ingredient", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) CreateTag(ctx context.Context, tag *model.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return s.fail("create tag", err)
	}
	return nil
}

func (s *Store) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, s.fail("get tag", err)
	}
	return &tag, nil
}

func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, s.fail("list tags", err)
	}
	return tags, nil
}

// DeleteTag removes a tag and its recipe links.
func (s *Store) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("tag_id = ?", id).Delete(&model.RecipeTag{}).Error; err != nil {
			return tx.fail("delete tag links", err)
		}
		res := tx.db.Delete(&model.Tag{}, "id = ?", id)
		if res.Error != nil {
			return tx.fail("delete tag", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// countExisting returns how many of ids exist in the table of m.
func (s *Store) countExisting(m interface{}, ids []uuid.UUID) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := s.db.Model(m).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}
