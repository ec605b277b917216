package engine

import (
	"context"
	"errors"
	"fmt"

	applog "spizka/internal/log"
	"spizka/internal/normalize"
)

// ErrQueryTooShort is returned when the normalized query has fewer than two
// characters. This is a caller error.
var ErrQueryTooShort = errors.New("query must be at least 2 characters")

// ErrSimilarityUnsupported signals that the data provider cannot compute
// trigram similarity (for example sqlite without pg_trgm). The search engine
// treats it as a downgrade, not a failure.
var ErrSimilarityUnsupported = errors.New("similarity queries unsupported by data provider")

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SearchProvider is the read surface the fuzzy search needs from the store.
type SearchProvider interface {
	// SimilarRecipesByName ranks recipes by trigram similarity of their
	// normalized name against the normalized query, including plain
	// substring hits. Returns ErrSimilarityUnsupported when the underlying
	// store lacks a similarity primitive.
	SimilarRecipesByName(ctx context.Context, query string, filters Filters, limit int) ([]SearchResult, error)

	// RecipesByNameSubstring is the degraded mode: substring-only matches
	// ordered by name, all similarities zero.
	RecipesByNameSubstring(ctx context.Context, query string, filters Filters, limit int) ([]SearchResult, error)
}

// SearchRequest is a fuzzy recipe-name query.
type SearchRequest struct {
	Query   string
	Filters Filters
	Limit   int
}

// SearchResult is one fuzzy search hit. Similarity is an integer percentage;
// zero in degraded substring mode.
type SearchResult struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Difficulty      *string `json:"difficulty"`
	PrepTimeMinutes *int    `json:"prepTimeMinutes"`
	Similarity      int     `json:"similarity"`
}

// Search resolves a fuzzy name query through the provider. Diacritics never
// cause misses because both sides compare in normalized form: "kure" finds
// "Kuřecí paprikáš". When the provider cannot rank by similarity the search
// silently downgrades to substring matching.
func Search(ctx context.Context, provider SearchProvider, req SearchRequest) ([]SearchResult, error) {
	query := normalize.Text(req.Query)
	if len([]rune(query)) < 2 {
		return nil, ErrQueryTooShort
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := provider.SimilarRecipesByName(ctx, query, req.Filters, limit)
	if err == nil {
		return results, nil
	}
	if !errors.Is(err, ErrSimilarityUnsupported) {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	applog.Debug(ctx, "similarity unavailable, using substring search", "query", query)

	results, err = provider.RecipesByNameSubstring(ctx, query, req.Filters, limit)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	return results, nil
}
