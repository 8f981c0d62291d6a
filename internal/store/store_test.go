package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func setup(t *testing.T) (*store.Store, *testhelpers.Fixtures) {
	s := store.New(testhelpers.SetupSQLiteDB(t), logger.NewNop())
	return s, testhelpers.NewFixtures(t, s)
}

func requireKind(t *testing.T, err error, kind store.ViolationKind) {
	t.Helper()
	require.Error(t, err)
	cv, ok := store.AsViolation(err)
	require.True(t, ok, "expected a constraint violation, got %v", err)
	assert.Equal(t, kind, cv.Kind)
	assert.True(t, errors.Is(err, store.ErrConstraint))
}

func TestCreateRecipeAssignsShortHash(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	author := fx.User("author")
	flour := fx.Ingredient("flour", "g")

	r := fx.Recipe(author, "bread", []model.RecipeIngredient{testhelpers.Line(flour, 500)})
	assert.Len(t, r.ShortHash, model.ShortHashLength)
	assert.Equal(t, shortlink.Generate(r.ID, r.Name, r.Text, model.ShortHashLength), r.ShortHash)

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ShortHash, got.ShortHash)
	assert.Equal(t, "author", got.Author.Username)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "flour", got.Ingredients[0].Ingredient.Name)
	assert.Len(t, got.Tags, 1)

	resolved, err := s.GetRecipeByShortHash(ctx, r.ShortHash)
	require.NoError(t, err)
	assert.Equal(t, r.ID, resolved.ID)
}

func TestShortHashLengthOption(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	s := store.New(db, logger.NewNop(), store.WithShortHashLength(12))
	fx := testhelpers.NewFixtures(t, s)
	r := fx.Recipe(fx.User("u"), "pie", []model.RecipeIngredient{testhelpers.Line(fx.Ingredient("apple", "pcs"), 3)})
	assert.Len(t, r.ShortHash, 12)
}

func TestUpdateRecipeKeepsShortHash(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	author := fx.User("author")
	flour := fx.Ingredient("flour", "g")
	sugar := fx.Ingredient("sugar", "g")
	r := fx.Recipe(author, "cake", []model.RecipeIngredient{testhelpers.Line(flour, 200)})
	original := r.ShortHash

	newTag := fx.Tag("dessert")
	update := &model.Recipe{ID: r.ID, Name: "better cake", Text: "new text", CookingTime: 45}
	err := s.UpdateRecipe(ctx, update, []uuid.UUID{newTag.ID}, []model.RecipeIngredient{
		testhelpers.Line(flour, 250),
		testhelpers.Line(sugar, 100),
	})
	require.NoError(t, err)

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, original, got.ShortHash)
	assert.Equal(t, "better cake", got.Name)
	assert.Equal(t, r.Image, got.Image)
	assert.Len(t, got.Ingredients, 2)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dessert", got.Tags[0].Slug)
}

func TestUpdateRecipeRejectsUnknownTag(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	flour := fx.Ingredient("flour", "g")
	r := fx.Recipe(fx.User("author"), "cake", []model.RecipeIngredient{testhelpers.Line(flour, 200)})

	update := &model.Recipe{ID: r.ID, Name: "renamed", Text: "t", CookingTime: 10}
	err := s.UpdateRecipe(ctx, update, []uuid.UUID{uuid.New()}, []model.RecipeIngredient{testhelpers.Line(flour, 1)})
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "cake", got.Name)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
}

func TestRecipeValidation(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	author := fx.User("author")
	flour := fx.Ingredient("flour", "g")
	tag := fx.Tag("lunch")

	base := func() *model.Recipe {
		return &model.Recipe{AuthorID: author.ID, Name: "n", Text: "t", Image: "i.png", CookingTime: 10}
	}
	tags := []uuid.UUID{tag.ID}
	lines := []model.RecipeIngredient{testhelpers.Line(flour, 10)}

	r := base()
	r.CookingTime = 0
	requireKind(t, s.CreateRecipe(ctx, r, tags, lines), store.OutOfRange)

	r = base()
	r.CookingTime = model.MaxCookingTime + 1
	requireKind(t, s.CreateRecipe(ctx, r, tags, lines), store.OutOfRange)

	requireKind(t, s.CreateRecipe(ctx, base(), nil, lines), store.EmptyCollection)
	requireKind(t, s.CreateRecipe(ctx, base(), tags, nil), store.EmptyCollection)
	requireKind(t, s.CreateRecipe(ctx, base(), []uuid.UUID{tag.ID, tag.ID}, lines), store.DuplicateTag)
	requireKind(t, s.CreateRecipe(ctx, base(), tags, []model.RecipeIngredient{
		testhelpers.Line(flour, 1), testhelpers.Line(flour, 2),
	}), store.DuplicateIngredient)
	requireKind(t, s.CreateRecipe(ctx, base(), tags, []model.RecipeIngredient{testhelpers.Line(flour, 0)}), store.OutOfRange)
	requireKind(t, s.CreateRecipe(ctx, base(), tags, []model.RecipeIngredient{testhelpers.Line(flour, model.MaxAmount + 1)}), store.OutOfRange)

	r = base()
	r.Image = ""
	requireKind(t, s.CreateRecipe(ctx, r, tags, lines), store.Required)

	err := s.CreateRecipe(ctx, base(), tags, []model.RecipeIngredient{{IngredientID: uuid.New(), Amount: 1}})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, total, err := s.ListRecipes(ctx, store.RecipeFilter{}, store.Page{})
	require.NoError(t, err)
	assert.Zero(t, total, "no invalid recipe may be stored")
}

func TestSchemaChecksBackValidation(t *testing.T) {
	s, fx := setup(t)
	author := fx.User("author")

	row := &model.Recipe{AuthorID: author.ID, Name: "n", Text: "t", Image: "i", CookingTime: 0, ShortHash: "deadbeef"}
	err := store.MapError(s.DB().Create(row).Error)
	cv, ok := store.AsViolation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, store.OutOfRange, cv.Kind)
	assert.Equal(t, "cooking_time", cv.Field)
}

func TestShortHashCollisionSurfaces(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	author := fx.User("author")
	flour := fx.Ingredient("flour", "g")
	tag := fx.Tag("t")

	id := uuid.New()
	taken := shortlink.Generate(id, "soup", "boil", model.ShortHashLength)
	squatter := &model.Recipe{AuthorID: author.ID, Name: "other", Text: "x", Image: "i", CookingTime: 5, ShortHash: taken}
	require.NoError(t, s.DB().Create(squatter).Error)

	r := &model.Recipe{ID: id, AuthorID: author.ID, Name: "soup", Text: "boil", Image: "i", CookingTime: 5}
	err := s.CreateRecipe(ctx, r, []uuid.UUID{tag.ID}, []model.RecipeIngredient{testhelpers.Line(flour, 1)})
	requireKind(t, err, store.DuplicateShortLink)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestIngredientUniqueness(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	fx.Ingredient("milk", "ml")
	fx.Ingredient("milk", "l")

	err := s.CreateIngredient(ctx, &model.Ingredient{Name: "milk", MeasurementUnit: "ml"})
	requireKind(t, err, store.DuplicateEntry)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	ok, err := s.IngredientExists(ctx, "milk", "l")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.ListIngredients(ctx, "MI")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserUniqueness(t *testing.T) {
	s, fx := setup(t)
	fx.User("anna")

	err := s.CreateUser(context.Background(), &model.User{Email: "anna@example.com", Username: "other", PasswordHash: "x"})
	cv, ok := store.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "email", cv.Field)

	err = s.CreateUser(context.Background(), &model.User{Email: "new@example.com", Username: "anna", PasswordHash: "x"})
	cv, ok = store.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "username", cv.Field)
}

func TestRelationsAreUniquePerPair(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	user := fx.User("reader")
	r := fx.Recipe(fx.User("author"), "stew", []model.RecipeIngredient{testhelpers.Line(fx.Ingredient("beef", "g"), 300)})

	for _, kind := range model.RelationKinds {
		require.NoError(t, s.CreateRelation(ctx, kind, user.ID, r.ID))
		err := s.CreateRelation(ctx, kind, user.ID, r.ID)
		requireKind(t, err, store.DuplicateRelation)
		assert.ErrorIs(t, err, store.ErrAlreadyExists)

		n, err := s.CountRelations(ctx, kind, user.ID, r.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		set, err := s.RelatedRecipes(ctx, kind, user.ID, []uuid.UUID{r.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]bool{r.ID: true}, set)

		require.NoError(t, s.DeleteRelation(ctx, kind, user.ID, r.ID))
		err = s.DeleteRelation(ctx, kind, user.ID, r.ID)
		assert.ErrorIs(t, err, store.ErrNothingToRemove)
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
}

func TestRelationToMissingRecipe(t *testing.T) {
	s, fx := setup(t)
	err := s.CreateRelation(context.Background(), model.KindFavorite, fx.User("u").ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubscriptionConstraints(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	reader := fx.User("reader")
	author := fx.User("author")

	requireKind(t, s.CreateSubscription(ctx, reader.ID, reader.ID), store.SelfReference)

	require.NoError(t, s.CreateSubscription(ctx, reader.ID, author.ID))
	requireKind(t, s.CreateSubscription(ctx, reader.ID, author.ID), store.DuplicateRelation)

	authors, total, err := s.ListSubscribedAuthors(ctx, reader.ID, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, authors, 1)
	assert.Equal(t, author.ID, authors[0].ID)

	set, err := s.SubscribedAuthors(ctx, reader.ID, []uuid.UUID{author.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{author.ID: true}, set)

	require.NoError(t, s.DeleteSubscription(ctx, reader.ID, author.ID))
	assert.ErrorIs(t, s.DeleteSubscription(ctx, reader.ID, author.ID), store.ErrNotFound)
}

func TestCartIngredientTotals(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	user := fx.User("shopper")
	author := fx.User("author")
	flour := fx.Ingredient("flour", "g")
	flourCups := fx.Ingredient("flour", "cup")
	eggs := fx.Ingredient("eggs", "pcs")

	totals, err := s.CartIngredientTotals(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)

	r1 := fx.Recipe(author, "r1", []model.RecipeIngredient{testhelpers.Line(flour, 200), testhelpers.Line(eggs, 2)})
	r2 := fx.Recipe(author, "r2", []model.RecipeIngredient{testhelpers.Line(flour, 100), testhelpers.Line(flourCups, 1)})
	fx.Recipe(author, "not in cart", []model.RecipeIngredient{testhelpers.Line(flour, 999)})

	require.NoError(t, s.CreateRelation(ctx, model.KindCart, user.ID, r2.ID))
	require.NoError(t, s.CreateRelation(ctx, model.KindCart, user.ID, r1.ID))

	totals, err = s.CartIngredientTotals(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []store.IngredientTotal{
		{Name: "eggs", Unit: "pcs", Amount: 2},
		{Name: "flour", Unit: "cup", Amount: 1},
		{Name: "flour", Unit: "g", Amount: 300},
	}, totals)
}

func TestListRecipesFilters(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	anna := fx.User("anna")
	bob := fx.User("bob")
	salt := fx.Ingredient("salt", "g")
	lunch := fx.Tag("lunch")
	dinner := fx.Tag("dinner")
	lines := []model.RecipeIngredient{testhelpers.Line(salt, 1)}

	r1 := fx.Recipe(anna, "a1", lines, lunch)
	r2 := fx.Recipe(anna, "a2", lines, dinner)
	r3 := fx.Recipe(bob, "b1", lines, lunch, dinner)
	require.NoError(t, s.CreateRelation(ctx, model.KindFavorite, bob.ID, r1.ID))
	require.NoError(t, s.CreateRelation(ctx, model.KindCart, bob.ID, r2.ID))

	ids := func(rs []model.Recipe) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	got, total, err := s.ListRecipes(ctx, store.RecipeFilter{AuthorID: &anna.ID}, store.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []uuid.UUID{r1.ID, r2.ID}, ids(got))

	got, _, err = s.ListRecipes(ctx, store.RecipeFilter{TagSlugs: []string{"dinner"}}, store.Page{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{r2.ID, r3.ID}, ids(got))

	got, _, err = s.ListRecipes(ctx, store.RecipeFilter{FavoritedBy: &bob.ID}, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r1.ID}, ids(got))

	got, _, err = s.ListRecipes(ctx, store.RecipeFilter{InCartOf: &bob.ID}, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r2.ID}, ids(got))

	got, total, err = s.ListRecipes(ctx, store.RecipeFilter{}, store.Page{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, got, 2)

	counts, err := s.CountRecipesByAuthors(ctx, []uuid.UUID{anna.ID, bob.ID, uuid.New()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[anna.ID])
	assert.EqualValues(t, 1, counts[bob.ID])

	preview, err := s.ListRecipesByAuthors(ctx, []uuid.UUID{anna.ID, bob.ID, uuid.New()}, 1)
	require.NoError(t, err)
	assert.Len(t, preview, 2)
	assert.Len(t, preview[anna.ID], 1)
	assert.Len(t, preview[bob.ID], 1)
	assert.Equal(t, anna.ID, preview[anna.ID][0].AuthorID)

	all, err := s.ListRecipesByAuthors(ctx, []uuid.UUID{anna.ID, bob.ID}, 0)
	require.NoError(t, err)
	assert.Len(t, all[anna.ID], 2)
	assert.Len(t, all[bob.ID], 1)
}

func TestDeleteRecipeCascades(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	reader := fx.User("reader")
	r := fx.Recipe(fx.User("author"), "r", []model.RecipeIngredient{testhelpers.Line(fx.Ingredient("x", "g"), 1)})
	require.NoError(t, s.CreateRelation(ctx, model.KindFavorite, reader.ID, r.ID))
	require.NoError(t, s.CreateRelation(ctx, model.KindCart, reader.ID, r.ID))

	require.NoError(t, s.DeleteRecipe(ctx, r.ID))
	assert.ErrorIs(t, s.DeleteRecipe(ctx, r.ID), store.ErrNotFound)

	for _, m := range []interface{}{&model.Favorite{}, &model.CartItem{}, &model.RecipeTag{}, &model.RecipeIngredient{}} {
		var n int64
		require.NoError(t, s.DB().Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	author := fx.User("author")
	reader := fx.User("reader")
	r := fx.Recipe(author, "r", []model.RecipeIngredient{testhelpers.Line(fx.Ingredient("x", "g"), 1)})
	require.NoError(t, s.CreateRelation(ctx, model.KindFavorite, reader.ID, r.ID))
	require.NoError(t, s.CreateSubscription(ctx, reader.ID, author.ID))
	require.NoError(t, s.CreateSubscription(ctx, author.ID, reader.ID))

	require.NoError(t, s.DeleteUser(ctx, author.ID))

	_, err := s.FindRecipe(ctx, r.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	var n int64
	require.NoError(t, s.DB().Model(&model.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, s.DB().Model(&model.Favorite{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = s.GetUser(ctx, reader.ID)
	assert.NoError(t, err)
}

func TestDeleteCatalogEntriesCascade(t *testing.T) {
	s, fx := setup(t)
	ctx := context.Background()
	salt := fx.Ingredient("salt", "g")
	pepper := fx.Ingredient("pepper", "g")
	tag := fx.Tag("spicy")
	r := fx.Recipe(fx.User("a"), "r", []model.RecipeIngredient{testhelpers.Line(salt, 1), testhelpers.Line(pepper, 1)}, tag, fx.Tag("other"))

	require.NoError(t, s.DeleteIngredient(ctx, salt.ID))
	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	assert.ErrorIs(t, s.DeleteTag(ctx, tag.ID), store.ErrNotFound)

	got, err := s.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, 1)
	assert.Len(t, got.Tags, 1)
}

func TestTransactionRollsBack(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *store.Store) error {
		require.NoError(t, tx.CreateTag(ctx, &model.Tag{Name: "gone", Slug: "gone"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
