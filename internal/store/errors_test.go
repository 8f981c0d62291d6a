package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorSQLiteMessages(t *testing.T) {
	cases := []struct {
		msg   string
		kind  ViolationKind
		field string
	}{
		{"UNIQUE constraint failed: recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id", DuplicateIngredient, "ingredients"},
		{"UNIQUE constraint failed: recipe_tags.recipe_id, recipe_tags.tag_id", DuplicateTag, "tags"},
		{"UNIQUE constraint failed: recipes.short_hash", DuplicateShortLink, "short_hash"},
		{"UNIQUE constraint failed: favorites.user_id, favorites.recipe_id", DuplicateRelation, "recipe"},
		{"UNIQUE constraint failed: cart_items.user_id, cart_items.recipe_id", DuplicateRelation, "recipe"},
		{"UNIQUE constraint failed: subscriptions.subscriber_id, subscriptions.author_id", DuplicateRelation, "author"},
		{"UNIQUE constraint failed: ingredients.name, ingredients.measurement_unit", DuplicateEntry, "name"},
		{"UNIQUE constraint failed: tags.slug", DuplicateEntry, "slug"},
		{"CHECK constraint failed: chk_subscriptions_no_self", SelfReference, "author"},
		{"CHECK constraint failed: chk_recipe_ingredients_amount", OutOfRange, "amount"},
	}
	for _, tc := range cases {
		err := MapError(errors.New(tc.msg))
		cv, ok := AsViolation(err)
		if assert.True(t, ok, tc.msg) {
			assert.Equal(t, tc.kind, cv.Kind, tc.msg)
			assert.Equal(t, tc.field, cv.Field, tc.msg)
		}
	}
}

func TestMapErrorPostgresCodes(t *testing.T) {
	err := MapError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", TableName: "favorites", ConstraintName: "idx_favorites_user_recipe"}))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = MapError(&pgconn.PgError{Code: "23514", TableName: "subscriptions", ConstraintName: "chk_subscriptions_no_self"})
	cv, ok := AsViolation(err)
	assert.True(t, ok)
	assert.Equal(t, SelfReference, cv.Kind)

	err = MapError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_favorites_recipe"})
	assert.ErrorIs(t, err, ErrNotFound)

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, MapError(other))
}

func TestMapErrorPassThrough(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.ErrorIs(t, MapError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, MapError(ErrNothingToRemove), ErrNotFound)

	plain := errors.New("disk on fire")
	assert.Equal(t, plain, MapError(plain))
}

func TestViolationIs(t *testing.T) {
	assert.ErrorIs(t, Violation(DuplicateRelation, "", "x"), ErrAlreadyExists)
	assert.NotErrorIs(t, Violation(DuplicateIngredient, "", "x"), ErrAlreadyExists)
	assert.NotErrorIs(t, Violation(SelfReference, "", "x"), ErrAlreadyExists)
	assert.ErrorIs(t, Violation(OutOfRange, "", "x"), ErrConstraint)
	assert.Equal(t, "out_of_range (amount): too big", Violation(OutOfRange, "amount", "too %s", "big").Error())
}
