package handlers

import (
	"encoding/json"
	"net/http"

	"spizka/internal/engine"
	applog "spizka/internal/log"
	"spizka/models"
)

type listRequest struct {
	Difficulty          []string `json:"difficulty"`
	MaxPrepTime         int      `json:"maxPrepTime"`
	ExcludedAllergenIDs *[]uint  `json:"excludedAllergenIds"`
	Limit               int      `json:"limit"`
	Offset              int      `json:"offset"`
}

// ListRecipes returns a filtered, paginated recipe listing without an owned
// ingredient set; every ingredient is annotated as not owned.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if recipeStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	var payload listRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid list payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	excluded := sessionExcludedAllergens(r)
	if payload.ExcludedAllergenIDs != nil {
		excluded = *payload.ExcludedAllergenIDs
	}

	snapshot, err := recipeStore.RecipeSnapshot(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to load recipe snapshot", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	result := engine.List(
		snapshot,
		engine.SanitizeFilters(payload.Difficulty, payload.MaxPrepTime, excluded),
		payload.Limit,
		payload.Offset,
	)
	writeJSON(w, http.StatusOK, result)
}

type randomRecipeResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Difficulty      *string `json:"difficulty"`
	PrepTimeMinutes *int    `json:"prepTimeMinutes"`
}

// RandomRecipes returns one random recipe per difficulty level, used for the
// landing page inspiration row.
func RandomRecipes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if recipeStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	difficulties := []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	picks := make([]randomRecipeResponse, 0, len(difficulties))
	for _, difficulty := range difficulties {
		recipe, err := recipeStore.RandomRecipeByDifficulty(r.Context(), difficulty, planRand)
		if err != nil {
			applog.Error(r.Context(), "failed to pick random recipe", "error", err, "difficulty", difficulty)
			writeJSONError(w, http.StatusInternalServerError, "unable to load random recipes")
			return
		}
		if recipe == nil {
			continue
		}
		picks = append(picks, randomRecipeResponse{
			ID:              recipe.ID,
			Name:            recipe.Name,
			Difficulty:      recipe.Difficulty,
			PrepTimeMinutes: recipe.PrepTimeMinutes,
		})
	}

	writeJSON(w, http.StatusOK, picks)
}
