package wordlist

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Annotator lemmatizes words in fixed-size batches. Batches may run in
// parallel; each result is stored at its input position, so output never
// depends on batch size, worker count or completion order.
type Annotator struct {
	batchSize int
	workers   int
}

// NewAnnotator creates an Annotator. Non-positive values fall back to
// DefaultBatchSize and a single worker.
func NewAnnotator(batchSize, workers int) *Annotator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &Annotator{batchSize: batchSize, workers: workers}
}

// Annotate returns one LemmatizedRecord per input record, in input order.
func (a *Annotator) Annotate(ctx context.Context, records []domain.RawWordRecord, lem Lemmatizer) ([]domain.LemmatizedRecord, error) {
	out := make([]domain.LemmatizedRecord, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	err := batchProcess(records, a.batchSize, func(offset int, batch []domain.RawWordRecord) error {
		g.Go(func() error {
			words := make([]string, len(batch))
			for i, r := range batch {
				words[i] = r.Word
			}

			lemmas, err := lem.Lemmas(gctx, words)
			if err != nil {
				return fmt.Errorf("batch at %d: %w", offset, err)
			}
			if len(lemmas) != len(words) {
				return fmt.Errorf("batch at %d: got %d lemmas for %d words", offset, len(lemmas), len(words))
			}

			for i := range words {
				out[offset+i] = domain.LemmatizedRecord{Word: words[i], Lemma: lemmas[i]}
			}
			return nil
		})
		return gctx.Err()
	})
	if waitErr := g.Wait(); waitErr != nil {
		return nil, waitErr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
