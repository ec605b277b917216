package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spizka/internal/engine"
	applog "spizka/internal/log"
)

type searchRequest struct {
	Query               string   `json:"query"`
	Difficulty          []string `json:"difficulty"`
	MaxPrepTime         int      `json:"maxPrepTime"`
	ExcludedAllergenIDs *[]uint  `json:"excludedAllergenIds"`
	Limit               int      `json:"limit"`
}

type searchResponse struct {
	Query        string                `json:"query"`
	TotalResults int                   `json:"totalResults"`
	Recipes      []engine.SearchResult `json:"recipes"`
}

// SearchRecipes performs diacritic-insensitive fuzzy search on recipe names.
func SearchRecipes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if recipeStore == nil {
		applog.Debug(r.Context(), "search request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	var payload searchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid search payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	excluded := sessionExcludedAllergens(r)
	if payload.ExcludedAllergenIDs != nil {
		excluded = *payload.ExcludedAllergenIDs
	}

	results, err := engine.Search(r.Context(), recipeStore, engine.SearchRequest{
		Query:   payload.Query,
		Filters: engine.SanitizeFilters(payload.Difficulty, payload.MaxPrepTime, excluded),
		Limit:   payload.Limit,
	})
	if err != nil {
		if errors.Is(err, engine.ErrQueryTooShort) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Error(r.Context(), "search failed", "error", err, "query", payload.Query)
		writeJSONError(w, http.StatusInternalServerError, "unable to search recipes")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:        payload.Query,
		TotalResults: len(results),
		Recipes:      results,
	})
}
