package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"spizka/internal/config"
	"spizka/internal/engine"
	applog "spizka/internal/log"
	"spizka/internal/store"
)

const sessionExcludedAllergensKey = "prefs:allergens"

var (
	sessionManager  *scs.SessionManager
	database        *gorm.DB
	recipeStore     *store.Store
	vocabularyCache *engine.VocabularyCache
	planRand        engine.Rand
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB, engineCfg config.EngineConfig) {
	sessionManager = sm
	database = db
	planRand = engine.NewRand()
	if db != nil {
		recipeStore = store.New(db, engineCfg.SimilarityThreshold)
		vocabularyCache = engine.NewVocabularyCache(recipeStore)
	} else {
		recipeStore = nil
		vocabularyCache = nil
	}
}

// WarmVocabulary builds the autocomplete cache at startup. Failures are
// logged, not fatal; the cache stays empty until the next refresh.
func WarmVocabulary(ctx context.Context) {
	if vocabularyCache == nil {
		return
	}
	if err := vocabularyCache.Rebuild(ctx); err != nil {
		applog.Error(ctx, "failed to warm autocomplete vocabulary", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sessionExcludedAllergens reads the allergen IDs stored in the visitor's
// session, used as the default exclusion set when a request omits its own.
func sessionExcludedAllergens(r *http.Request) []uint {
	if sessionManager == nil {
		return nil
	}
	raw := sessionManager.GetString(r.Context(), sessionExcludedAllergensKey)
	return parseUintList(raw)
}

func storeExcludedAllergens(r *http.Request, ids []uint) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionExcludedAllergensKey, joinUintList(ids))
}

func parseUintList(raw string) []uint {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(value))
	}
	return ids
}

func joinUintList(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, ",")
}
