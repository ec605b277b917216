package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	applog "spizka/internal/log"
	"spizka/models"
)

type allergenPreferences struct {
	ExcludedAllergenIDs []uint `json:"excludedAllergenIds"`
}

// AllergenPreferences reads or updates the visitor's session-stored allergen
// exclusion list. The stored IDs become the default filter for matching,
// listing and zero-waste planning.
func AllergenPreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ids := sessionExcludedAllergens(r)
		if ids == nil {
			ids = []uint{}
		}
		writeJSON(w, http.StatusOK, allergenPreferences{ExcludedAllergenIDs: ids})
	case http.MethodPut:
		var payload allergenPreferences
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			applog.Debug(r.Context(), "invalid preferences payload", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		ids := validAllergenIDs(r.Context(), payload.ExcludedAllergenIDs)
		storeExcludedAllergens(r, ids)
		writeJSON(w, http.StatusOK, allergenPreferences{ExcludedAllergenIDs: ids})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// validAllergenIDs drops IDs that do not exist in the allergen table,
// keeping the session payload honest. Without a database every ID passes.
func validAllergenIDs(ctx context.Context, ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{}
	}
	if database == nil {
		return ids
	}
	var known []uint
	if err := database.WithContext(ctx).Model(&models.Allergen{}).Where("id IN ?", ids).Pluck("id", &known).Error; err != nil {
		applog.Error(ctx, "failed to validate allergen ids", "error", err)
		return ids
	}
	knownSet := make(map[uint]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}
	kept := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := knownSet[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}
