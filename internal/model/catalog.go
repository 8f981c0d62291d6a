package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is unique on the (name, measurement_unit) pair.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:128;not null;uniqueIndex:idx_ingredients_name_unit;index:idx_ingredients_name" json:"name"`
	MeasurementUnit string    `gorm:"size:64;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:32;not null;uniqueIndex:idx_tags_name" json:"name"`
	Slug string    `gorm:"size:32;not null;uniqueIndex:idx_tags_slug" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
