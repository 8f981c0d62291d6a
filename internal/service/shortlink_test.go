package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestShortLinkRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := service.NewShortLinkService(e.store, e.metrics)
	r := e.fx.Recipe(e.fx.User("chef"), "omelette", []model.RecipeIngredient{testhelpers.Line(e.fx.Ingredient("egg", "pcs"), 3)})

	path, err := svc.Link(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "/s/"+r.ShortHash+"/", path)

	got, err := svc.Resolve(ctx, r.ShortHash)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	assert.Equal(t, "https://food.example/s/"+r.ShortHash+"/", service.URL("https://food.example/", got))
}

func TestShortLinkUnknown(t *testing.T) {
	e := newEnv(t)
	svc := service.NewShortLinkService(e.store, e.metrics)

	_, err := svc.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.Link(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
