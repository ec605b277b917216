package models

import (
	"strings"

	"gorm.io/gorm"

	"spizka/internal/normalize"
)

// Recognized recipe difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe is a cookable dish with a partitioned ingredient list: main
// ingredients are required for a match, secondary ones only affect scoring.
type Recipe struct {
	gorm.Model
	Name            string             `gorm:"not null" json:"name"`
	NameSearch      string             `gorm:"index" json:"name_search"`
	Difficulty      *string            `json:"difficulty"`
	PrepTimeMinutes *int               `json:"prep_time_minutes"`
	Instructions    string             `gorm:"type:text" json:"instructions"`
	Ingredients     []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

// BeforeSave keeps NameSearch in sync with Name.
func (r *Recipe) BeforeSave(_ *gorm.DB) error {
	r.NameSearch = normalize.Text(r.Name)
	return nil
}

// ValidDifficulty reports whether value is one of the recognized levels.
func ValidDifficulty(value string) bool {
	switch value {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// SanitizeDifficulties drops unrecognized difficulty values instead of
// rejecting the request; malformed client filters degrade gracefully.
func SanitizeDifficulties(values []string) []string {
	sanitized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if ValidDifficulty(trimmed) {
			sanitized = append(sanitized, trimmed)
		}
	}
	return sanitized
}
