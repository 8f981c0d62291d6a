package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConstraint    = errors.New("constraint violation")
	ErrForbidden     = errors.New("forbidden")

	// ErrNothingToRemove is returned when a relation pair to delete is absent.
	// It matches ErrNotFound.
	ErrNothingToRemove = fmt.Errorf("nothing to remove: %w", ErrNotFound)
)

// ViolationKind names the invariant a rejected write broke.
type ViolationKind string

const (
	DuplicateIngredient ViolationKind = "duplicate_ingredient"
	DuplicateTag        ViolationKind = "duplicate_tag"
	DuplicateRelation   ViolationKind = "duplicate_relation"
	DuplicateShortLink  ViolationKind = "duplicate_short_link"
	DuplicateEntry      ViolationKind = "duplicate_entry"
	SelfReference       ViolationKind = "self_reference"
	OutOfRange          ViolationKind = "out_of_range"
	EmptyCollection     ViolationKind = "empty_collection"
	Required            ViolationKind = "required"
)

// ConstraintViolation is a write rejected because it would break an invariant.
// errors.Is matches ErrConstraint for every kind, and ErrAlreadyExists for
// conflicts with stored rows.
type ConstraintViolation struct {
	Kind    ViolationKind
	Field   string
	Message string
}

func (e *ConstraintViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Field, e.Message)
}

func (e *ConstraintViolation) Is(target error) bool {
	switch target {
	case ErrConstraint:
		return true
	case ErrAlreadyExists:
		return e.Kind == DuplicateRelation || e.Kind == DuplicateShortLink || e.Kind == DuplicateEntry
	}
	return false
}

// Violation builds a ConstraintViolation.
func Violation(kind ViolationKind, field, format string, args ...interface{}) *ConstraintViolation {
	return &ConstraintViolation{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsViolation unwraps a ConstraintViolation from err.
func AsViolation(err error) (*ConstraintViolation, bool) {
	var cv *ConstraintViolation
	if errors.As(err, &cv) {
		return cv, true
	}
	return nil, false
}

// MapError translates driver and gorm errors into the store taxonomy.
// Postgres errors are classified by SQLSTATE and constraint name, sqlite
// errors by message, since the sqlite driver exposes no codes through gorm.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsViolation(err); ok {
		return err
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail := pgErr.TableName + " " + pgErr.ConstraintName + " " + pgErr.Message
		switch pgErr.Code {
		case "23505":
			return uniqueViolation(detail)
		case "23514":
			return checkViolation(detail)
		case "23503":
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"), errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueViolation(msg)
	case strings.Contains(msg, "CHECK constraint failed"), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return checkViolation(msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced row", ErrNotFound)
	}
	return err
}

// Order matters: recipe_ingredients and recipe_tags must be tested before
// ingredients and tags.
func uniqueViolation(detail string) error {
	switch {
	case strings.Contains(detail, "recipe_ingredients"):
		return Violation(DuplicateIngredient, "ingredients", "ingredient appears more than once in the recipe")
	case strings.Contains(detail, "recipe_tags"):
		return Violation(DuplicateTag, "tags", "tag appears more than once in the recipe")
	case strings.Contains(detail, "short_hash"):
		return Violation(DuplicateShortLink, "short_hash", "short link collides with an existing recipe")
	case strings.Contains(detail, "favorites"):
		return Violation(DuplicateRelation, "recipe", "recipe is already in favorites")
	case strings.Contains(detail, "cart_items"):
		return Violation(DuplicateRelation, "recipe", "recipe is already in the shopping cart")
	case strings.Contains(detail, "subscriptions"):
		return Violation(DuplicateRelation, "author", "already subscribed to this author")
	case strings.Contains(detail, "ingredients"):
		return Violation(DuplicateEntry, "name", "ingredient with this name and unit already exists")
	case strings.Contains(detail, "email"):
		return Violation(DuplicateEntry, "email", "user with this email already exists")
	case strings.Contains(detail, "username"):
		return Violation(DuplicateEntry, "username", "user with this username already exists")
	case strings.Contains(detail, "slug"):
		return Violation(DuplicateEntry, "slug", "tag with this slug already exists")
	case strings.Contains(detail, "tags"):
		return Violation(DuplicateEntry, "name", "tag with this name already exists")
	}
	return Violation(DuplicateEntry, "", "value already exists")
}

func checkViolation(detail string) error {
	switch {
	case strings.Contains(detail, "chk_subscriptions_no_self"):
		return Violation(SelfReference, "author", "cannot subscribe to yourself")
	case strings.Contains(detail, "chk_recipes_cooking_time"):
		return Violation(OutOfRange, "cooking_time", "cooking time out of range")
	case strings.Contains(detail, "chk_recipe_ingredients_amount"):
		return Violation(OutOfRange, "amount", "amount out of range")
	}
	return Violation(OutOfRange, "", "value out of range")
}
