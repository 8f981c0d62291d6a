package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/store"
)

// Fixtures inserts test rows through the store so every invariant applies.
type Fixtures struct {
	T     *testing.T
	Store *store.Store
	n     int
}

func NewFixtures(t *testing.T, s *store.Store) *Fixtures {
	return &Fixtures{T: t, Store: s}
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

// User creates a user named username with a throwaway password hash.
func (f *Fixtures) User(username string) *model.User {
	f.T.Helper()
	u := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(f.T, f.Store.CreateUser(context.Background(), u))
	return u
}

func (f *Fixtures) Ingredient(name, unit string) *model.Ingredient {
	f.T.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(f.T, f.Store.CreateIngredient(context.Background(), ing))
	return ing
}

func (f *Fixtures) Tag(slug string) *model.Tag {
	f.T.Helper()
	tag := &model.Tag{Name: slug, Slug: slug}
	require.NoError(f.T, f.Store.CreateTag(context.Background(), tag))
	return tag
}

// Line is shorthand for an ingredient line.
func Line(ing *model.Ingredient, amount int) model.RecipeIngredient {
	return model.RecipeIngredient{IngredientID: ing.ID, Amount: amount}
}

// Recipe creates a recipe by author with one fresh tag unless tags are given.
func (f *Fixtures) Recipe(author *model.User, name string, lines []model.RecipeIngredient, tags ...*model.Tag) *model.Recipe {
	f.T.Helper()
	if len(tags) == 0 {
		tags = []*model.Tag{f.Tag(fmt.Sprintf("tag-%d", f.next()))}
	}
	tagIDs := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	r := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and cook " + name,
		Image:       "recipes/images/" + name + ".png",
		CookingTime: 30,
	}
	require.NoError(f.T, f.Store.CreateRecipe(context.Background(), r, tagIDs, lines))
	return r
}
