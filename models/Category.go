package models

import "gorm.io/gorm"

// Category groups ingredients for the selector UI (vegetables, meat, ...).
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
