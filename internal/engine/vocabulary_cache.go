package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	applog "spizka/internal/log"
)

// VocabularyProvider fetches the (name, normalized name) pairs the
// autocomplete vocabulary is built from.
type VocabularyProvider interface {
	RecipeNames(ctx context.Context) ([]RecipeName, error)
}

// VocabularyCache holds the process-wide autocomplete vocabulary. Rebuilding
// swaps in a fresh immutable Vocabulary; readers never block and never see a
// partially built word list.
type VocabularyCache struct {
	provider VocabularyProvider
	current  atomic.Pointer[Vocabulary]
}

// NewVocabularyCache returns a cache that starts empty; call Rebuild once the
// data provider is reachable.
func NewVocabularyCache(provider VocabularyProvider) *VocabularyCache {
	cache := &VocabularyCache{provider: provider}
	cache.current.Store(&Vocabulary{})
	return cache
}

// Current returns the active vocabulary. Never nil.
func (c *VocabularyCache) Current() *Vocabulary {
	return c.current.Load()
}

// Rebuild fetches recipe names and swaps in a freshly built vocabulary. The
// previous vocabulary stays in place when the fetch fails.
func (c *VocabularyCache) Rebuild(ctx context.Context) error {
	names, err := c.provider.RecipeNames(ctx)
	if err != nil {
		return fmt.Errorf("fetch recipe names: %w", err)
	}

	vocab := BuildVocabulary(ctx, names)
	c.current.Store(vocab)
	applog.Info(ctx, "autocomplete vocabulary rebuilt", "recipes", len(names), "words", vocab.Len())
	return nil
}
