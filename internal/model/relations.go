package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite and CartItem are existence-only (user, recipe) pairs.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_recipe"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_recipe;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Subscription links a subscriber to an author. The pair is unique and a user
// can never subscribe to themselves.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair;check:chk_subscriptions_no_self,subscriber_id <> author_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair;index"`
	Subscriber   User      `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// RelationKind selects which user/recipe relation a toggle operates on.
type RelationKind int

const (
	KindFavorite RelationKind = iota + 1
	KindCart
)

// RelationKinds lists every toggleable relation.
var RelationKinds = []RelationKind{KindFavorite, KindCart}

func (k RelationKind) String() string {
	switch k {
	case KindFavorite:
		return "favorite"
	case KindCart:
		return "shopping_cart"
	default:
		return fmt.Sprintf("relation(%d)", int(k))
	}
}

func (k RelationKind) Table() string {
	switch k {
	case KindFavorite:
		return Favorite{}.TableName()
	case KindCart:
		return CartItem{}.TableName()
	default:
		panic(fmt.Sprintf("model: unknown relation kind %d", int(k)))
	}
}

// Model returns an empty row of the kind, for queries.
func (k RelationKind) Model() interface{} {
	switch k {
	case KindFavorite:
		return &Favorite{}
	case KindCart:
		return &CartItem{}
	default:
		panic(fmt.Sprintf("model: unknown relation kind %d", int(k)))
	}
}

// NewRow builds the row to insert for (userID, recipeID).
func (k RelationKind) NewRow(userID, recipeID uuid.UUID) interface{} {
	switch k {
	case KindFavorite:
		return &Favorite{UserID: userID, RecipeID: recipeID}
	case KindCart:
		return &CartItem{UserID: userID, RecipeID: recipeID}
	default:
		panic(fmt.Sprintf("model: unknown relation kind %d", int(k)))
	}
}

// All returns the models migrated for the schema, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&CartItem{},
		&Subscription{},
	}
}
