package handlers

import (
	"net/http"

	applog "spizka/internal/log"
)

// AutocompleteWords serves the cached whisper vocabulary consumed by the
// search box.
func AutocompleteWords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if vocabularyCache == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, vocabularyCache.Current().Entries())
}

// RefreshAutocompleteWords rebuilds the vocabulary from the current recipe
// set and swaps it in atomically.
func RefreshAutocompleteWords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if vocabularyCache == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if err := vocabularyCache.Rebuild(r.Context()); err != nil {
		applog.Error(r.Context(), "failed to rebuild autocomplete vocabulary", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to rebuild vocabulary")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
