// Package store is the engine's data provider: read-only snapshot and search
// queries over the recipe schema. Postgres serves similarity queries through
// pg_trgm; stores without the primitive degrade to substring search.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"spizka/internal/engine"
	applog "spizka/internal/log"
	"spizka/models"
)

// Store exposes the read operations the engine consumes.
type Store struct {
	db                  *gorm.DB
	similarityThreshold float64
}

// New wraps a database handle. threshold is the minimum pg_trgm similarity
// for a fuzzy hit.
func New(db *gorm.DB, threshold float64) *Store {
	return &Store{db: db, similarityThreshold: threshold}
}

// RecipeSnapshot loads every recipe with its ingredient graph and allergen
// links, assembled into the engine's immutable view. Ingredients are ordered
// main-first then by name, the presentation order of all read operations.
func (s *Store) RecipeSnapshot(ctx context.Context) ([]engine.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient.Allergens").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe snapshot: %w", err)
	}

	snapshot := make([]engine.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		view := engine.Recipe{
			ID:              recipe.ID,
			Name:            recipe.Name,
			NameSearch:      recipe.NameSearch,
			Difficulty:      recipe.Difficulty,
			PrepTimeMinutes: recipe.PrepTimeMinutes,
			Ingredients:     make([]engine.RecipeIngredient, 0, len(recipe.Ingredients)),
		}
		for _, link := range recipe.Ingredients {
			if link.Ingredient == nil {
				applog.Warn(ctx, "recipe ingredient without ingredient record", "recipeID", recipe.ID, "ingredientID", link.IngredientID)
				continue
			}
			allergenIDs := make([]uint, 0, len(link.Ingredient.Allergens))
			for _, allergen := range link.Ingredient.Allergens {
				allergenIDs = append(allergenIDs, allergen.ID)
			}
			view.Ingredients = append(view.Ingredients, engine.RecipeIngredient{
				IngredientID: link.IngredientID,
				Name:         link.Ingredient.Name,
				Amount:       link.Amount,
				IsMain:       link.IsMain,
				AllergenIDs:  allergenIDs,
			})
		}
		sort.SliceStable(view.Ingredients, func(i, j int) bool {
			if view.Ingredients[i].IsMain != view.Ingredients[j].IsMain {
				return view.Ingredients[i].IsMain
			}
			return view.Ingredients[i].Name < view.Ingredients[j].Name
		})
		snapshot = append(snapshot, view)
	}

	return snapshot, nil
}

// RecipeNames returns (name, normalized name) pairs for vocabulary builds,
// ordered by name.
func (s *Store) RecipeNames(ctx context.Context) ([]engine.RecipeName, error) {
	var rows []struct {
		Name       string
		NameSearch string
	}
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("name", "name_search").
		Order("name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recipe names: %w", err)
	}

	names := make([]engine.RecipeName, 0, len(rows))
	for _, row := range rows {
		names = append(names, engine.RecipeName{Name: row.Name, NameSearch: row.NameSearch})
	}
	return names, nil
}

type searchRow struct {
	ID              uint
	Name            string
	Difficulty      *string
	PrepTimeMinutes *int
	Similarity      float64
}

// SimilarRecipesByName ranks recipes using the store's trigram similarity
// primitive against the normalized name column. Substring hits always
// qualify so near-exact matches cannot fall below the threshold. When the
// primitive is missing (sqlite, Postgres without pg_trgm) the error maps to
// engine.ErrSimilarityUnsupported so the caller can degrade.
func (s *Store) SimilarRecipesByName(ctx context.Context, query string, filters engine.Filters, limit int) ([]engine.SearchResult, error) {
	clauses := []string{
		"recipes.deleted_at IS NULL",
		"(similarity(recipes.name_search, ?) > ? OR recipes.name_search LIKE ?)",
	}
	args := []any{query, s.similarityThreshold, "%" + query + "%"}
	clauses, args = appendFilterClauses(clauses, args, filters)

	sql := fmt.Sprintf(`
		SELECT recipes.id, recipes.name, recipes.difficulty, recipes.prep_time_minutes,
		       similarity(recipes.name_search, ?) AS similarity
		FROM recipes
		WHERE %s
		ORDER BY similarity DESC, recipes.name ASC
		LIMIT ?`, strings.Join(clauses, " AND "))

	full := append([]any{query}, args...)
	full = append(full, limit)

	var rows []searchRow
	if err := s.db.WithContext(ctx).Raw(sql, full...).Scan(&rows).Error; err != nil {
		applog.Debug(ctx, "similarity query failed", "error", err)
		return nil, fmt.Errorf("%w: %v", engine.ErrSimilarityUnsupported, err)
	}

	return toSearchResults(rows, true), nil
}

// RecipesByNameSubstring is the degraded search mode: plain substring match
// over the normalized name, ordered by name, similarity reported as zero.
func (s *Store) RecipesByNameSubstring(ctx context.Context, query string, filters engine.Filters, limit int) ([]engine.SearchResult, error) {
	clauses := []string{
		"recipes.deleted_at IS NULL",
		"recipes.name_search LIKE ?",
	}
	args := []any{"%" + query + "%"}
	clauses, args = appendFilterClauses(clauses, args, filters)

	sql := fmt.Sprintf(`
		SELECT recipes.id, recipes.name, recipes.difficulty, recipes.prep_time_minutes
		FROM recipes
		WHERE %s
		ORDER BY recipes.name ASC
		LIMIT ?`, strings.Join(clauses, " AND "))

	args = append(args, limit)

	var rows []searchRow
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("substring query: %w", err)
	}

	return toSearchResults(rows, false), nil
}

// RandomRecipeByDifficulty returns one uniformly random recipe of the given
// difficulty, or nil when none exists.
func (s *Store) RandomRecipeByDifficulty(ctx context.Context, difficulty string, rng engine.Rand) (*models.Recipe, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("difficulty = ?", difficulty).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	var recipe models.Recipe
	err = s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Where("difficulty = ?", difficulty).
		Order("id asc").
		Offset(rng.Intn(int(count))).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load random recipe: %w", err)
	}
	return &recipe, nil
}

func appendFilterClauses(clauses []string, args []any, filters engine.Filters) ([]string, []any) {
	if len(filters.Difficulties) > 0 {
		clauses = append(clauses, "recipes.difficulty IS NOT NULL AND recipes.difficulty IN ?")
		args = append(args, filters.Difficulties)
	}
	if filters.MaxPrepTimeMinutes > 0 {
		clauses = append(clauses, "recipes.prep_time_minutes <= ?")
		args = append(args, filters.MaxPrepTimeMinutes)
	}
	if len(filters.ExcludedAllergenIDs) > 0 {
		clauses = append(clauses, `NOT EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			JOIN ingredient_allergens ia ON ia.ingredient_id = ri.ingredient_id
			WHERE ri.recipe_id = recipes.id
			  AND ri.deleted_at IS NULL
			  AND ia.allergen_id IN ?
		)`)
		args = append(args, filters.ExcludedAllergenIDs)
	}
	return clauses, args
}

func toSearchResults(rows []searchRow, withSimilarity bool) []engine.SearchResult {
	results := make([]engine.SearchResult, 0, len(rows))
	for _, row := range rows {
		similarity := 0
		if withSimilarity {
			similarity = int(math.Round(row.Similarity * 100))
		}
		results = append(results, engine.SearchResult{
			ID:              row.ID,
			Name:            row.Name,
			Difficulty:      row.Difficulty,
			PrepTimeMinutes: row.PrepTimeMinutes,
			Similarity:      similarity,
		})
	}
	return results
}
