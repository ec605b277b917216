package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spizka/internal/engine"
	"spizka/models"
)

func TestAutocompleteWordsRefreshAndServe(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	seedTestRecipes(t, db)

	// Cache starts empty until a rebuild happens.
	req := httptest.NewRequest(http.MethodGet, "/api/recipes/autocomplete-words", nil)
	w := httptest.NewRecorder()
	AutocompleteWords(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var entries []engine.VocabularyEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty vocabulary before refresh, got %d entries", len(entries))
	}

	req = httptest.NewRequest(http.MethodPost, "/api/recipes/autocomplete-words/refresh", nil)
	w = httptest.NewRecorder()
	RefreshAutocompleteWords(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/recipes/autocomplete-words", nil)
	w = httptest.NewRecorder()
	AutocompleteWords(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	words := make(map[string]string, len(entries))
	for _, entry := range entries {
		words[entry.WordSearch] = entry.Word
	}
	if words["svestkove"] != "Švestkové" {
		t.Fatalf("expected svestkove -> Švestkové, got %v", words)
	}
	if words["bramborak"] != "Bramborák" {
		t.Fatalf("expected bramborak -> Bramborák, got %v", words)
	}
}

func TestAutocompleteRefreshPicksUpNewRecipes(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	seedTestRecipes(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/autocomplete-words/refresh", nil)
	w := httptest.NewRecorder()
	RefreshAutocompleteWords(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	before := vocabularyCache.Current().Len()

	if err := db.Create(&models.Recipe{Name: "Žemlovka"}).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	w = httptest.NewRecorder()
	RefreshAutocompleteWords(w, httptest.NewRequest(http.MethodPost, "/api/recipes/autocomplete-words/refresh", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if after := vocabularyCache.Current().Len(); after != before+1 {
		t.Fatalf("expected vocabulary to grow by one, got %d -> %d", before, after)
	}
}
