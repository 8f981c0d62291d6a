package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRelationKindRows(t *testing.T) {
	user, recipe := uuid.New(), uuid.New()

	fav, ok := KindFavorite.NewRow(user, recipe).(*Favorite)
	assert.True(t, ok)
	assert.Equal(t, user, fav.UserID)
	assert.Equal(t, recipe, fav.RecipeID)
	assert.Equal(t, "favorites", KindFavorite.Table())
	assert.Equal(t, "favorite", KindFavorite.String())

	cart, ok := KindCart.NewRow(user, recipe).(*CartItem)
	assert.True(t, ok)
	assert.Equal(t, recipe, cart.RecipeID)
	assert.Equal(t, "cart_items", KindCart.Table())
	assert.IsType(t, &CartItem{}, KindCart.Model())
}

func TestUnknownRelationKindPanics(t *testing.T) {
	assert.Panics(t, func() { RelationKind(0).Table() })
	assert.Equal(t, "relation(7)", RelationKind(7).String())
}
