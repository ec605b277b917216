package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spizka/internal/engine"
	"spizka/models"
)

func postJSON(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
}

func TestMatchRecipesScoresOwnedIngredients(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	sm, cleanupSession := withTestSessionManager(t)
	t.Cleanup(cleanupSession)
	ingredients := seedTestRecipes(t, db)

	req := postJSON(t, "/api/recipes/match", map[string]any{
		"ingredientIds": []uint{ingredients["brambory"], ingredients["vejce"]},
	})
	req = sessionRequest(t, sm, req)
	w := httptest.NewRecorder()
	MatchRecipes(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var result engine.MatchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.TotalMatches != 2 {
		t.Fatalf("expected 2 matches, got %d", result.TotalMatches)
	}
	// Švestkové knedlíky scores 1 (owned secondary egg), Bramborák 0.
	if result.Recipes[0].Name != "Švestkové knedlíky" {
		t.Fatalf("expected Švestkové knedlíky first, got %q", result.Recipes[0].Name)
	}
	if result.Recipes[1].Name != "Bramborák" {
		t.Fatalf("expected Bramborák second, got %q", result.Recipes[1].Name)
	}
}

func TestMatchRecipesRejectsEmptyIngredients(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	sm, cleanupSession := withTestSessionManager(t)
	t.Cleanup(cleanupSession)
	seedTestRecipes(t, db)

	req := postJSON(t, "/api/recipes/match", map[string]any{"ingredientIds": []uint{}})
	req = sessionRequest(t, sm, req)
	w := httptest.NewRecorder()
	MatchRecipes(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestMatchRecipesUsesSessionAllergenDefaults(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	sm, cleanupSession := withTestSessionManager(t)
	t.Cleanup(cleanupSession)
	ingredients := seedTestRecipes(t, db)

	var milk models.Allergen
	if err := db.Where("number = ?", 7).First(&milk).Error; err != nil {
		t.Fatalf("failed to look up milk allergen: %v", err)
	}

	owned := []uint{ingredients["kuřecí maso"], ingredients["paprika"], ingredients["mléko"]}

	// Session-stored milk exclusion applies when the request omits the field.
	req := postJSON(t, "/api/recipes/match", map[string]any{"ingredientIds": owned})
	req = sessionRequest(t, sm, req)
	sm.Put(req.Context(), sessionExcludedAllergensKey, joinUintList([]uint{milk.ID}))
	w := httptest.NewRecorder()
	MatchRecipes(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var result engine.MatchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, recipe := range result.Recipes {
		if recipe.Name == "Kuřecí paprikáš" {
			t.Fatal("expected session milk exclusion to drop Kuřecí paprikáš")
		}
	}

	// An explicit empty list overrides the session default.
	req = postJSON(t, "/api/recipes/match", map[string]any{
		"ingredientIds":       owned,
		"excludedAllergenIds": []uint{},
	})
	req = sessionRequest(t, sm, req)
	sm.Put(req.Context(), sessionExcludedAllergensKey, joinUintList([]uint{milk.ID}))
	w = httptest.NewRecorder()
	MatchRecipes(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.TotalMatches != 1 || result.Recipes[0].Name != "Kuřecí paprikáš" {
		t.Fatalf("expected explicit empty exclusion to restore Kuřecí paprikáš, got %+v", result)
	}
}

func TestMatchRecipesRejectsNonPost(t *testing.T) {
	db, cleanupDB := withTestDatabase(t)
	t.Cleanup(cleanupDB)
	seedTestRecipes(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/match", nil)
	w := httptest.NewRecorder()
	MatchRecipes(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", w.Code)
	}
}
