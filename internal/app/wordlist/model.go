// Package wordlist builds per-language vocabulary artifacts from raw word lists:
// load, lemmatize, score, dedup and classify, then write.
package wordlist

import (
	"context"
	"fmt"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Lemmatizer maps words to their dictionary forms.
//
// Lemmas must return exactly one lemma per input word, in input order, and
// must be safe for concurrent use. When a word segments into several
// sub-tokens only the first sub-token's lemma is returned, so compounds and
// multi-word entries can lose information. A word with no sub-tokens maps
// to "".
type Lemmatizer interface {
	Lemmas(ctx context.Context, words []string) ([]string, error)
}

// FrequencySource scores lemmas on the Zipf scale for a language family.
// Unknown lemmas score 0. A source without data for the family returns
// an error wrapping domain.ErrNotFound.
type FrequencySource interface {
	Frequencies(ctx context.Context, lemmas []string, family string) ([]float64, error)
}

// Model is the initialized linguistic and frequency capability for one language.
// A model that could not be initialized carries LoadErr instead; the pipeline
// fails that language and keeps running the others.
type Model struct {
	Language   string
	ModelID    string
	Lemmatizer Lemmatizer
	Frequency  FrequencySource
	LoadErr    error
}

// Family returns the frequency-table code derived from ModelID.
func (m Model) Family() string {
	return domain.LanguageFamily(m.ModelID)
}

// Registry maps language names to models. It is built once per run and
// only read afterwards.
type Registry struct {
	models map[string]Model
	order  []string
}

// NewRegistry validates and indexes models, keeping their order.
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		switch {
		case m.Language == "":
			return nil, fmt.Errorf("registry: model %q has no language", m.ModelID)
		case m.LoadErr != nil:
		case m.Lemmatizer == nil:
			return nil, fmt.Errorf("registry: %s: lemmatizer is nil", m.Language)
		case m.Frequency == nil:
			return nil, fmt.Errorf("registry: %s: frequency source is nil", m.Language)
		case m.Family() == "":
			return nil, fmt.Errorf("registry: %s: model id %q has no language family", m.Language, m.ModelID)
		}
		if _, dup := r.models[m.Language]; dup {
			return nil, fmt.Errorf("registry: duplicate language %q", m.Language)
		}
		r.models[m.Language] = m
		r.order = append(r.order, m.Language)
	}
	return r, nil
}

// Lookup returns the model registered for language.
func (r *Registry) Lookup(language string) (Model, error) {
	m, ok := r.models[language]
	if !ok {
		return Model{}, fmt.Errorf("language %q: model: %w", language, domain.ErrNotFound)
	}
	return m, nil
}

// Languages returns registered languages in registration order.
func (r *Registry) Languages() []string {
	return append([]string(nil), r.order...)
}
