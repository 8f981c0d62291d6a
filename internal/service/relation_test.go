package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRelationToggle(t *testing.T) {
	for _, kind := range model.RelationKinds {
		t.Run(kind.String(), func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			svc := service.NewRelationService(e.store, kind, e.metrics, e.log)
			assert.Equal(t, kind, svc.Kind())

			user := e.fx.User("alice")
			author := e.fx.User("bob")
			r := e.fx.Recipe(author, "soup", []model.RecipeIngredient{testhelpers.Line(e.fx.Ingredient("water", "ml"), 500)})

			summary, err := svc.Add(ctx, user.ID, r.ID)
			require.NoError(t, err)
			assert.Equal(t, r.ID, summary.ID)
			assert.Equal(t, "soup", summary.Name)
			assert.Equal(t, 30, summary.CookingTime)

			_, err = svc.Add(ctx, user.ID, r.ID)
			assert.ErrorIs(t, err, store.ErrAlreadyExists)

			n, err := e.store.CountRelations(ctx, kind, user.ID, r.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			require.NoError(t, svc.Remove(ctx, user.ID, r.ID))
			assert.ErrorIs(t, svc.Remove(ctx, user.ID, r.ID), store.ErrNothingToRemove)

			// add, remove, add again leaves exactly one row
			_, err = svc.Add(ctx, user.ID, r.ID)
			require.NoError(t, err)
			n, err = e.store.CountRelations(ctx, kind, user.ID, r.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestRelationUnknownRecipe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := service.NewRelationService(e.store, model.KindFavorite, e.metrics, e.log)
	user := e.fx.User("alice")

	_, err := svc.Add(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, errors.Is(err, store.ErrNothingToRemove))

	err = svc.Remove(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNothingToRemove)
}

func TestRelationKindsAreIndependent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	fav := service.NewRelationService(e.store, model.KindFavorite, nil, e.log)
	cart := service.NewRelationService(e.store, model.KindCart, nil, e.log)
	user := e.fx.User("alice")
	r := e.fx.Recipe(user, "own", []model.RecipeIngredient{testhelpers.Line(e.fx.Ingredient("salt", "g"), 1)})

	_, err := fav.Add(ctx, user.ID, r.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, user.ID, r.ID)
	require.NoError(t, err, "a user may favorite and cart their own recipe")
	require.NoError(t, cart.Remove(ctx, user.ID, r.ID))
	n, err := e.store.CountRelations(ctx, model.KindFavorite, user.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestConcurrentAddKeepsOneRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := service.NewRelationService(e.store, model.KindCart, e.metrics, e.log)
	user := e.fx.User("alice")
	r := e.fx.Recipe(e.fx.User("bob"), "pie", []model.RecipeIngredient{testhelpers.Line(e.fx.Ingredient("apple", "pcs"), 3)})

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, user.ID, r.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, store.ErrAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	n, err := e.store.CountRelations(ctx, model.KindCart, user.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	series, err := testutil.GatherAndCount(e.metrics.Registry(), "foodgram_relation_toggles_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series, "one ok series and one conflict series")
}
