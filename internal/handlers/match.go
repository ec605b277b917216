package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spizka/internal/engine"
	applog "spizka/internal/log"
)

type matchRequest struct {
	IngredientIDs       []uint   `json:"ingredientIds"`
	Difficulty          []string `json:"difficulty"`
	MaxPrepTime         int      `json:"maxPrepTime"`
	ExcludedAllergenIDs *[]uint  `json:"excludedAllergenIds"`
	Limit               int      `json:"limit"`
	Offset              int      `json:"offset"`
}

// MatchRecipes scores recipes against the caller's owned ingredient set.
func MatchRecipes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if recipeStore == nil {
		applog.Debug(r.Context(), "match request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	var payload matchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid match payload", "error", err)
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

	result, err := engine.Match(snapshot, engine.MatchRequest{
		OwnedIngredientIDs: payload.IngredientIDs,
		Filters:            engine.SanitizeFilters(payload.Difficulty, payload.MaxPrepTime, excluded),
		Limit:              payload.Limit,
		Offset:             payload.Offset,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoIngredients) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Error(r.Context(), "match computation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to match recipes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
