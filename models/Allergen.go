package models

import "gorm.io/gorm"

// Allergen is one of the fourteen EU-regulated food allergens. The set is
// reference data maintained by the admin process; the engine only reads it.
type Allergen struct {
	gorm.Model
	Number int    `gorm:"uniqueIndex;not null" json:"number"`
	Name   string `gorm:"not null" json:"name"`
}
