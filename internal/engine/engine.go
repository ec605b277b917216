// Package engine implements the recipe recommendation algorithms: pantry
// matching, fuzzy name search, whisper autocomplete and the zero-waste
// shopping planner. Every entry point is a pure computation over an immutable
// per-request snapshot, so concurrent callers never need locking.
package engine

import (
	"sort"

	"spizka/models"
)

// Recipe is the engine's read-only view of one recipe and its ingredient
// graph, assembled by the data provider before the engine runs.
type Recipe struct {
	ID              uint
	Name            string
	NameSearch      string
	Difficulty      *string
	PrepTimeMinutes *int
	Ingredients     []RecipeIngredient
}

// RecipeIngredient is one edge of the recipe/ingredient graph.
type RecipeIngredient struct {
	IngredientID uint
	Name         string
	Amount       string
	IsMain       bool
	AllergenIDs  []uint
}

// IngredientIDs returns the distinct ingredient identifiers of the recipe.
func (r Recipe) IngredientIDs() map[uint]struct{} {
	ids := make(map[uint]struct{}, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ids[ing.IngredientID] = struct{}{}
	}
	return ids
}

// Filters narrows a recipe snapshot before any scoring happens. Unrecognized
// difficulty values and non-positive prep times are expected to be dropped by
// the caller (models.SanitizeDifficulties); the engine treats whatever
// remains as authoritative.
type Filters struct {
	Difficulties        []string
	MaxPrepTimeMinutes  int
	ExcludedAllergenIDs []uint
}

func (f Filters) matchesDifficulty(recipe Recipe) bool {
	if len(f.Difficulties) == 0 {
		return true
	}
	if recipe.Difficulty == nil {
		return false
	}
	for _, difficulty := range f.Difficulties {
		if *recipe.Difficulty == difficulty {
			return true
		}
	}
	return false
}

func (f Filters) matchesPrepTime(recipe Recipe) bool {
	if f.MaxPrepTimeMinutes <= 0 {
		return true
	}
	return recipe.PrepTimeMinutes != nil && *recipe.PrepTimeMinutes <= f.MaxPrepTimeMinutes
}

func (f Filters) matchesAllergens(recipe Recipe) bool {
	if len(f.ExcludedAllergenIDs) == 0 {
		return true
	}
	excluded := make(map[uint]struct{}, len(f.ExcludedAllergenIDs))
	for _, id := range f.ExcludedAllergenIDs {
		excluded[id] = struct{}{}
	}
	for _, ing := range recipe.Ingredients {
		for _, allergenID := range ing.AllergenIDs {
			if _, hit := excluded[allergenID]; hit {
				return false
			}
		}
	}
	return true
}

// Apply returns the subset of recipes passing every filter, preserving order.
func (f Filters) Apply(recipes []Recipe) []Recipe {
	filtered := make([]Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if f.matchesDifficulty(recipe) && f.matchesPrepTime(recipe) && f.matchesAllergens(recipe) {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

// SanitizeFilters normalizes raw client filter input using the lenient
// policy: unknown difficulty strings and non-positive prep times are dropped
// rather than rejected.
func SanitizeFilters(difficulties []string, maxPrepTime int, excludedAllergenIDs []uint) Filters {
	filters := Filters{
		Difficulties:        models.SanitizeDifficulties(difficulties),
		ExcludedAllergenIDs: excludedAllergenIDs,
	}
	if maxPrepTime > 0 {
		filters.MaxPrepTimeMinutes = maxPrepTime
	}
	return filters
}

// sortIngredients orders an annotated ingredient list main-first, then by
// ingredient name, matching the presentation order of every read operation.
func sortIngredients(ingredients []MatchedIngredient) {
	sort.SliceStable(ingredients, func(i, j int) bool {
		if ingredients[i].IsMain != ingredients[j].IsMain {
			return ingredients[i].IsMain
		}
		return ingredients[i].Name < ingredients[j].Name
	})
}
