package engine

import (
	"context"
	"sort"
	"strings"

	applog "spizka/internal/log"
	"spizka/internal/normalize"
)

// RecipeName pairs a recipe's display name with its normalized search form.
type RecipeName struct {
	Name       string
	NameSearch string
}

// VocabularyEntry maps a normalized word to the original surface form shown
// to the user.
type VocabularyEntry struct {
	Word       string `json:"word"`
	WordSearch string `json:"wordSearch"`
}

// Vocabulary holds the whisper autocomplete word list. It is immutable after
// construction; rebuilds swap in a fresh instance.
type Vocabulary struct {
	// entries keeps first-seen order, which breaks suggestion ties.
	entries []VocabularyEntry
}

// BuildVocabulary tokenizes every recipe name and its normalized form in
// lockstep and records one entry per distinct normalized word of length two
// or more, keeping the first original surface form seen. Names whose raw and
// normalized tokenizations disagree in length would misalign completions, so
// they are skipped and flagged instead.
func BuildVocabulary(ctx context.Context, names []RecipeName) *Vocabulary {
	vocab := &Vocabulary{}
	seen := make(map[string]struct{})

	for _, recipe := range names {
		originalWords := strings.Fields(recipe.Name)
		normalizedWords := strings.Fields(recipe.NameSearch)
		if len(originalWords) != len(normalizedWords) {
			applog.Warn(ctx, "recipe name tokenization mismatch, skipping for autocomplete",
				"name", recipe.Name,
				"nameSearch", recipe.NameSearch,
			)
			continue
		}

		for i, normalized := range normalizedWords {
			if len([]rune(normalized)) < 2 {
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			vocab.entries = append(vocab.entries, VocabularyEntry{
				Word:       originalWords[i],
				WordSearch: normalized,
			})
		}
	}

	return vocab
}

// Entries returns the vocabulary sorted by display word, the shape served to
// clients.
func (v *Vocabulary) Entries() []VocabularyEntry {
	entries := make([]VocabularyEntry, len(v.entries))
	copy(entries, v.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// Len reports the number of vocabulary entries.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Suggest returns the whisper completion for the word currently being typed:
// the shortest vocabulary word whose normalized form starts with the
// normalized last token of the input. Ties keep the first-seen entry. The
// second return value reports whether a suggestion was found.
func (v *Vocabulary) Suggest(input string) (string, bool) {
	current := currentWord(input)
	if current == "" {
		return "", false
	}
	prefix := normalize.Text(current)
	if prefix == "" {
		return "", false
	}

	best := ""
	bestLen := 0
	for _, entry := range v.entries {
		if !strings.HasPrefix(entry.WordSearch, prefix) {
			continue
		}
		length := len([]rune(entry.Word))
		if best == "" || length < bestLen {
			best = entry.Word
			bestLen = length
		}
	}

	return best, best != ""
}

// CompletionSuffix returns the ghost text that extends the user's current
// word into the suggestion. The walk counts suggestion characters by their
// normalized weight so diacritics line up: typing "sve" against "Švestky"
// leaves "stky".
func CompletionSuffix(input, suggestion string) string {
	prefix := normalize.Text(currentWord(input))
	if !strings.HasPrefix(normalize.Text(suggestion), prefix) {
		return suggestion
	}

	want := len([]rune(prefix))
	counted := 0
	runes := []rune(suggestion)
	idx := 0
	for idx < len(runes) && counted < want {
		if normalize.Text(string(runes[idx])) != "" {
			counted++
		}
		idx++
	}
	return string(runes[idx:])
}

// ApplySuggestion replaces the input's current word with the suggestion,
// preserving everything before the final space.
func ApplySuggestion(input, suggestion string) string {
	lastSpace := strings.LastIndex(input, " ")
	if lastSpace >= 0 {
		return input[:lastSpace+1] + suggestion
	}
	return suggestion
}

// currentWord isolates the token being typed: text after the final space, or
// the whole input when there is none.
func currentWord(input string) string {
	lastSpace := strings.LastIndex(input, " ")
	if lastSpace >= 0 {
		return input[lastSpace+1:]
	}
	return input
}
