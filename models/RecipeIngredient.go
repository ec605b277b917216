package models

import "gorm.io/gorm"

// RecipeIngredient links a recipe to one of its ingredients. IsMain marks the
// ingredient as required; Amount is free text ("200 g", "špetka"). The
// composite unique index guarantees a recipe never lists the same ingredient
// twice.
type RecipeIngredient struct {
	gorm.Model
	RecipeID     uint   `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint   `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	IsMain       bool   `gorm:"not null;default:false" json:"is_main"`
	Amount       string `json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
