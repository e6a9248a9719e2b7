package wordlist

import (
	"context"
	"fmt"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Score attaches the frequency of each record's lemma. Every distinct lemma
// is looked up once, in batches of batchSize.
func Score(ctx context.Context, records []domain.LemmatizedRecord, src FrequencySource, family string, batchSize int) ([]domain.ScoredRecord, error) {
	var lemmas []string
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Lemma] {
			seen[r.Lemma] = true
			lemmas = append(lemmas, r.Lemma)
		}
	}

	scores := make(map[string]float64, len(lemmas))
	err := batchProcess(lemmas, batchSize, func(offset int, batch []string) error {
		freqs, err := src.Frequencies(ctx, batch, family)
		if err != nil {
			return fmt.Errorf("lemmas at %d: %w", offset, err)
		}
		if len(freqs) != len(batch) {
			return fmt.Errorf("lemmas at %d: got %d scores for %d lemmas", offset, len(freqs), len(batch))
		}
		for i, l := range batch {
			scores[l] = freqs[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredRecord, len(records))
	for i, r := range records {
		freq := scores[r.Lemma]
		if r.Lemma == "" {
			freq = 0
		}
		out[i] = domain.ScoredRecord{Word: r.Word, Lemma: r.Lemma, Frequency: freq}
	}
	return out, nil
}
