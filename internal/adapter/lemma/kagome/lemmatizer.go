// Package kagome lemmatizes Japanese words with the kagome morphological
// analyzer and the IPA dictionary.
package kagome

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// IPA feature index of the base (dictionary) form.
const baseFormFeature = 6

// Lemmatizer returns the base form of the first morpheme of each word.
type Lemmatizer struct {
	t *tokenizer.Tokenizer
}

// New builds a Lemmatizer over the IPA dictionary.
func New() (*Lemmatizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome: new tokenizer: %w", err)
	}
	return &Lemmatizer{t: t}, nil
}

// Lemmas implements wordlist.Lemmatizer.
func (l *Lemmatizer) Lemmas(ctx context.Context, words []string) ([]string, error) {
	out := make([]string, len(words))
	for i, w := range words {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = l.lemma(w)
	}
	return out, nil
}

func (l *Lemmatizer) lemma(word string) string {
	for _, tok := range l.t.Tokenize(word) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		features := tok.Features()
		if len(features) > baseFormFeature && features[baseFormFeature] != "*" {
			return features[baseFormFeature]
		}
		return tok.Surface
	}
	return ""
}
