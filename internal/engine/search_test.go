package engine

import (
	"context"
	"errors"
	"testing"
)

type fakeSearchProvider struct {
	similarResults   []SearchResult
	similarErr       error
	substringResults []SearchResult
	substringErr     error

	similarQuery   string
	substringQuery string
}

func (p *fakeSearchProvider) SimilarRecipesByName(_ context.Context, query string, _ Filters, _ int) ([]SearchResult, error) {
	p.similarQuery = query
	return p.similarResults, p.similarErr
}

func (p *fakeSearchProvider) RecipesByNameSubstring(_ context.Context, query string, _ Filters, _ int) ([]SearchResult, error) {
	p.substringQuery = query
	return p.substringResults, p.substringErr
}

func TestSearchNormalizesQueryBeforeProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeSearchProvider{
		similarResults: []SearchResult{{ID: 1, Name: "Kuřecí paprikáš", Similarity: 62}},
	}

	results, err := Search(context.Background(), provider, SearchRequest{Query: "  Kuře  "})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if provider.similarQuery != "kure" {
		t.Fatalf("provider received query %q, want %q", provider.similarQuery, "kure")
	}
	if len(results) != 1 || results[0].Similarity != 62 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchRejectsShortQuery(t *testing.T) {
	t.Parallel()

	provider := &fakeSearchProvider{}
	cases := []string{"", "k", "  ř  "}
	for _, query := range cases {
		if _, err := Search(context.Background(), provider, SearchRequest{Query: query}); !errors.Is(err, ErrQueryTooShort) {
			t.Fatalf("Search(%q) error = %v, want ErrQueryTooShort", query, err)
		}
	}
}

func TestSearchFallsBackWhenSimilarityUnsupported(t *testing.T) {
	t.Parallel()

	provider := &fakeSearchProvider{
		similarErr: ErrSimilarityUnsupported,
		substringResults: []SearchResult{
			{ID: 3, Name: "Kuřecí paprikáš", Similarity: 0},
		},
	}

	results, err := Search(context.Background(), provider, SearchRequest{Query: "kure"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if provider.substringQuery != "kure" {
		t.Fatalf("fallback did not receive query, got %q", provider.substringQuery)
	}
	if len(results) != 1 || results[0].Similarity != 0 {
		t.Fatalf("degraded mode must report zero similarity: %+v", results)
	}
}

func TestSearchPropagatesProviderFailure(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("connection refused")
	provider := &fakeSearchProvider{similarErr: providerErr}

	if _, err := Search(context.Background(), provider, SearchRequest{Query: "kure"}); !errors.Is(err, providerErr) {
		t.Fatalf("expected provider failure to propagate, got %v", err)
	}

	provider = &fakeSearchProvider{
		similarErr:   ErrSimilarityUnsupported,
		substringErr: providerErr,
	}
	if _, err := Search(context.Background(), provider, SearchRequest{Query: "kure"}); !errors.Is(err, providerErr) {
		t.Fatalf("expected fallback failure to propagate, got %v", err)
	}
}
