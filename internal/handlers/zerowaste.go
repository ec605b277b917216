package handlers

import (
	"net/http"
	"strconv"

	"spizka/internal/engine"
	applog "spizka/internal/log"
)

// ZeroWastePlan builds a weekly cooking plan that maximizes (or, in diverse
// mode, minimizes) ingredient overlap across the selected recipes.
//
// Query parameters: mode (overlap|diverse), recipeId (optional seed) and
// allergens (comma-separated IDs overriding the session preference).
func ZeroWastePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if recipeStore == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	query := r.URL.Query()

	var seedID uint
	if raw := query.Get("recipeId"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "recipeId must be a positive integer")
			return
		}
		seedID = uint(value)
	}

	excluded := sessionExcludedAllergens(r)
	if query.Has("allergens") {
		excluded = parseUintList(query.Get("allergens"))
	}

	snapshot, err := recipeStore.RecipeSnapshot(r.Context())
	if err != nil {
		applog.Error(r.Context(), "failed to load recipe snapshot", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	plan := engine.BuildPlan(snapshot, engine.PlanRequest{
		Mode:                engine.ParsePlanMode(query.Get("mode")),
		SeedRecipeID:        seedID,
		ExcludedAllergenIDs: excluded,
	}, planRand)

	writeJSON(w, http.StatusOK, plan)
}
