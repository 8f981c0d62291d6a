package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/shortlink"
)

// RecipeFilter narrows ListRecipes. Zero fields do not filter.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// CreateRecipe validates and inserts a recipe with its tag links and
// ingredient lines in one transaction. The id is assigned before the insert
// so the short hash can be part of the same row; a hash collision surfaces as
// a DuplicateShortLink violation and is not retried.
func (s *Store) CreateRecipe(ctx context.Context, r *model.Recipe, tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	if err := ValidateRecipe(r, tagIDs, lines); err != nil {
		return err
	}
	if strings.TrimSpace(r.Image) == "" {
		return Violation(Required, "image", "image is required")
	}
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.checkReferences(tagIDs, lines); err != nil {
			return err
		}
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.ShortHash = shortlink.Generate(r.ID, r.Name, r.Text, tx.hashLen)
		if err := tx.db.Omit(clause.Associations).Create(r).Error; err != nil {
			return tx.fail("create recipe", err)
		}
		return tx.writeComposition(r.ID, tagIDs, lines)
	})
}

// UpdateRecipe rewrites the editable columns and replaces the full tag and
// ingredient sets. short_hash, author and pub_date are never touched. An
// empty Image keeps the stored one.
func (s *Store) UpdateRecipe(ctx context.Context, r *model.Recipe, tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	if err := ValidateRecipe(r, tagIDs, lines); err != nil {
		return err
	}
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.checkReferences(tagIDs, lines); err != nil {
			return err
		}
		fields := map[string]interface{}{
			"name":         r.Name,
			"text":         r.Text,
			"cooking_time": r.CookingTime,
		}
		if r.Image != "" {
			fields["image"] = r.Image
		}
		res := tx.db.Model(&model.Recipe{}).Where("id = ?", r.ID).Updates(fields)
		if res.Error != nil {
			return tx.fail("update recipe", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.db.Where("recipe_id = ?", r.ID).Delete(&model.RecipeTag{}).Error; err != nil {
			return tx.fail("clear recipe tags", err)
		}
		if err := tx.db.Where("recipe_id = ?", r.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return tx.fail("clear recipe ingredients", err)
		}
		return tx.writeComposition(r.ID, tagIDs, lines)
	})
}

// CheckRecipeReferences reports ErrNotFound when a tag or ingredient id names
// no row. CreateRecipe and UpdateRecipe repeat the check inside their own
// transaction.
func (s *Store) CheckRecipeReferences(ctx context.Context, tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	return s.with(s.db.WithContext(ctx)).checkReferences(tagIDs, lines)
}

func (s *Store) checkReferences(tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	n, err := s.countExisting(&model.Tag{}, tagIDs)
	if err != nil {
		return s.fail("check tags", err)
	}
	if n != int64(len(tagIDs)) {
		return fmt.Errorf("%w: unknown tag", ErrNotFound)
	}
	ingredientIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}
	n, err = s.countExisting(&model.Ingredient{}, ingredientIDs)
	if err != nil {
		return s.fail("check ingredients", err)
	}
	if n != int64(len(ingredientIDs)) {
		return fmt.Errorf("%w: unknown ingredient", ErrNotFound)
	}
	return nil
}

func (s *Store) writeComposition(recipeID uuid.UUID, tagIDs []uuid.UUID, lines []model.RecipeIngredient) error {
	links := make([]model.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, model.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := s.db.Create(&links).Error; err != nil {
		return s.fail("link recipe tags", err)
	}
	rows := make([]model.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, model.RecipeIngredient{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount})
	}
	if err := s.db.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return s.fail("write recipe ingredients", err)
	}
	return nil
}

func (s *Store) withRecipeDetail(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient")
}

// GetRecipe loads a recipe with its author, tags and ingredient lines.
func (s *Store) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var r model.Recipe
	if err := s.withRecipeDetail(s.db.WithContext(ctx)).First(&r, "id = ?", id).Error; err != nil {
		return nil, s.fail("get recipe", err)
	}
	return &r, nil
}

// FindRecipe loads the recipe row only.
func (s *Store) FindRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var r model.Recipe
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, s.fail("find recipe", err)
	}
	return &r, nil
}

func (s *Store) GetRecipeByShortHash(ctx context.Context, hash string) (*model.Recipe, error) {
	var r model.Recipe
	if err := s.db.WithContext(ctx).First(&r, "short_hash = ?", hash).Error; err != nil {
		return nil, s.fail("resolve short hash", err)
	}
	return &r, nil
}

// ListRecipes returns a page of recipes, newest first, with the total count
// of rows matching the filter.
func (s *Store) ListRecipes(ctx context.Context, f RecipeFilter, page Page) ([]model.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("id IN (?)", tagged)
	}
	if f.FavoritedBy != nil {
		q = q.Where("id IN (?)", s.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		q = q.Where("id IN (?)", s.db.Model(&model.CartItem{}).Select("recipe_id").Where("user_id = ?", *f.InCartOf))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.fail("count recipes", err)
	}
	var recipes []model.Recipe
	listQ := page.apply(q.Session(&gorm.Session{}).Order("pub_date DESC").Order("id"))
	if err := s.withRecipeDetail(listQ).Find(&recipes).Error; err != nil {
		return nil, 0, s.fail("list recipes", err)
	}
	return recipes, total, nil
}

// ListRecipesByAuthors returns each author's newest recipes keyed by author,
// in one query. limit <= 0 means all; otherwise a window function keeps the
// first limit rows per author.
func (s *Store) ListRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]model.Recipe, error) {
	out := make(map[uuid.UUID][]model.Recipe, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	db := s.db.WithContext(ctx)
	var q *gorm.DB
	if limit > 0 {
		ranked := db.Model(&model.Recipe{}).
			Select("recipes.*, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC, id) AS preview_rank").
			Where("author_id IN ?", authorIDs)
		q = db.Table("(?) AS ranked", ranked).Where("preview_rank <= ?", limit)
	} else {
		q = db.Model(&model.Recipe{}).Where("author_id IN ?", authorIDs)
	}
	var recipes []model.Recipe
	if err := q.Order("pub_date DESC").Order("id").Find(&recipes).Error; err != nil {
		return nil, s.fail("list author recipes", err)
	}
	for _, r := range recipes {
		out[r.AuthorID] = append(out[r.AuthorID], r)
	}
	return out, nil
}

// CountRecipesByAuthors returns recipe counts keyed by author. Authors with no
// recipes are absent from the map.
func (s *Store) CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("count recipes by author", err)
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

// DeleteRecipe removes a recipe with its lines, tag links, favorites and
// cart items.
func (s *Store) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx *Store) error {
		n, err := tx.countExisting(&model.Recipe{}, []uuid.UUID{id})
		if err != nil {
			return tx.fail("delete recipe", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.deleteRecipeRows([]uuid.UUID{id})
	})
}

func (s *Store) deleteRecipeRows(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	dependants := []interface{}{
		&model.Favorite{},
		&model.CartItem{},
		&model.RecipeTag{},
		&model.RecipeIngredient{},
	}
	for _, m := range dependants {
		if err := s.db.Where("recipe_id IN ?", ids).Delete(m).Error; err != nil {
			return s.fail("delete recipe dependants", err)
		}
	}
	if err := s.db.Where("id IN ?", ids).Delete(&model.Recipe{}).Error; err != nil {
		return s.fail("delete recipes", err)
	}
	return nil
}
