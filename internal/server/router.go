package server

import (
	"context"
	"net/http"

	"spizka/internal/handlers"
	applog "spizka/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/recipes/match", handlers.MatchRecipes)
	mux.HandleFunc("/api/recipes/search", handlers.SearchRecipes)
	mux.HandleFunc("/api/recipes/list", handlers.ListRecipes)
	mux.HandleFunc("/api/recipes/random", handlers.RandomRecipes)
	mux.HandleFunc("/api/recipes/zero-waste", handlers.ZeroWastePlan)
	mux.HandleFunc("/api/recipes/autocomplete-words", handlers.AutocompleteWords)
	mux.HandleFunc("/api/recipes/autocomplete-words/refresh", handlers.RefreshAutocompleteWords)
	mux.HandleFunc("/api/preferences/allergens", handlers.AllergenPreferences)
	applog.Debug(context.Background(), "routes registered")
	return mux
}
