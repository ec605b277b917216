package engine

import (
	"errors"
	"sort"
)

// ErrNoIngredients is returned when a match request carries no owned
// ingredients. This is a caller error, not an empty result.
var ErrNoIngredients = errors.New("ingredientIds array is required and must not be empty")

const (
	defaultMatchLimit = 20
	maxMatchLimit     = 100
)

// MatchRequest asks which recipes a user can cook from their pantry.
type MatchRequest struct {
	OwnedIngredientIDs []uint
	Filters            Filters
	Limit              int
	Offset             int
}

// MatchedIngredient annotates one recipe ingredient with ownership.
type MatchedIngredient struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	IsMain bool   `json:"isMain"`
	Have   bool   `json:"have"`
}

// RecipeMatch is one scored, eligible recipe.
type RecipeMatch struct {
	ID               uint                `json:"id"`
	Name             string              `json:"name"`
	Difficulty       *string             `json:"difficulty"`
	PrepTimeMinutes  *int                `json:"prepTimeMinutes"`
	MainTotal        int                 `json:"mainTotal"`
	MainHave         int                 `json:"mainHave"`
	SecondaryTotal   int                 `json:"secondaryTotal"`
	SecondaryHave    int                 `json:"secondaryHave"`
	MissingMain      int                 `json:"missingMain"`
	MissingSecondary int                 `json:"missingSecondary"`
	MissingTotal     int                 `json:"missingTotal"`
	Score            int                 `json:"score"`
	Ingredients      []MatchedIngredient `json:"ingredients"`
}

// MatchResult is a page of scored recipes.
type MatchResult struct {
	TotalMatches int           `json:"totalMatches"`
	Recipes      []RecipeMatch `json:"recipes"`
	HasMore      bool          `json:"hasMore"`
}

// Match scores every recipe in the snapshot against the owned ingredient set.
// A recipe qualifies only when the user owns all of its main ingredients and
// it has at least one; the score rewards owned secondary ingredients and
// penalizes anything missing. Ordering is score descending with a
// deterministic name/id tie-break, so identical inputs always produce
// identical pages.
func Match(recipes []Recipe, req MatchRequest) (MatchResult, error) {
	if len(req.OwnedIngredientIDs) == 0 {
		return MatchResult{}, ErrNoIngredients
	}

	owned := make(map[uint]struct{}, len(req.OwnedIngredientIDs))
	for _, id := range req.OwnedIngredientIDs {
		owned[id] = struct{}{}
	}

	limit, offset := clampPage(req.Limit, req.Offset, defaultMatchLimit, maxMatchLimit)

	matches := make([]RecipeMatch, 0, len(recipes))
	for _, recipe := range req.Filters.Apply(recipes) {
		match := scoreRecipe(recipe, owned)
		if match.MainTotal > 0 && match.MainHave == match.MainTotal {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	page := paginateMatches(matches, offset, limit)

	return MatchResult{
		TotalMatches: total,
		Recipes:      page,
		HasMore:      offset+len(page) < total,
	}, nil
}

// List returns recipes without an eligibility cut, annotated as if the user
// owned nothing. Used for plain browsing with the same filter semantics.
func List(recipes []Recipe, filters Filters, limit, offset int) MatchResult {
	limit, offset = clampPage(limit, offset, defaultMatchLimit, maxMatchLimit)

	matches := make([]RecipeMatch, 0, len(recipes))
	for _, recipe := range filters.Apply(recipes) {
		matches = append(matches, scoreRecipe(recipe, nil))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	page := paginateMatches(matches, offset, limit)

	return MatchResult{
		TotalMatches: total,
		Recipes:      page,
		HasMore:      offset+len(page) < total,
	}
}

func scoreRecipe(recipe Recipe, owned map[uint]struct{}) RecipeMatch {
	match := RecipeMatch{
		ID:              recipe.ID,
		Name:            recipe.Name,
		Difficulty:      recipe.Difficulty,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		Ingredients:     make([]MatchedIngredient, 0, len(recipe.Ingredients)),
	}

	for _, ing := range recipe.Ingredients {
		_, have := owned[ing.IngredientID]
		if ing.IsMain {
			match.MainTotal++
			if have {
				match.MainHave++
			}
		} else {
			match.SecondaryTotal++
			if have {
				match.SecondaryHave++
			}
		}
		match.Ingredients = append(match.Ingredients, MatchedIngredient{
			ID:     ing.IngredientID,
			Name:   ing.Name,
			IsMain: ing.IsMain,
			Have:   have,
		})
	}

	match.MissingMain = match.MainTotal - match.MainHave
	match.MissingSecondary = match.SecondaryTotal - match.SecondaryHave
	match.MissingTotal = match.MissingMain + match.MissingSecondary
	match.Score = match.SecondaryHave - match.MissingTotal
	sortIngredients(match.Ingredients)

	return match
}

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginateMatches(matches []RecipeMatch, offset, limit int) []RecipeMatch {
	if offset >= len(matches) {
		return []RecipeMatch{}
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}
