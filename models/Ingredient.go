package models

import (
	"gorm.io/gorm"

	"spizka/internal/normalize"
)

// Ingredient is a pantry item a user can own. NameSearch holds the
// diacritic-folded lowercase form of Name and is regenerated on every save so
// that queries never compare accented text against unaccented input.
type Ingredient struct {
	gorm.Model
	Name       string     `gorm:"uniqueIndex;not null" json:"name"`
	NameSearch string     `gorm:"index" json:"name_search"`
	CategoryID *uint      `json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Allergens  []Allergen `gorm:"many2many:ingredient_allergens" json:"allergens"`
}

// BeforeSave keeps NameSearch in sync with Name.
func (i *Ingredient) BeforeSave(_ *gorm.DB) error {
	i.NameSearch = normalize.Text(i.Name)
	return nil
}
