package vocab

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Sample returns count distinct words drawn uniformly from language.
//
// Errors: domain.ErrNotFound when the language has no artifact, a
// *domain.ValidationError for a negative count, and
// *domain.InsufficientEntriesError when count exceeds the population.
func (s *Service) Sample(ctx context.Context, language string, count int) ([]string, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}

	entries, err := s.entries.Entries(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", language, err)
	}

	return s.draw(language, words(entries, nil), count)
}

// SampleByDifficulty is Sample restricted to entries whose difficulty
// exactly matches difficulty. An unknown difficulty is a validation error.
func (s *Service) SampleByDifficulty(ctx context.Context, language, difficulty string, count int) ([]string, error) {
	d, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	entries, err := s.entries.Entries(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("sample %s %s: %w", language, d, err)
	}

	return s.draw(language, words(entries, &d), count)
}

// Population returns the number of entries of language, optionally
// restricted to one difficulty. Repositories that can count without loading
// every entry are asked directly.
func (s *Service) Population(ctx context.Context, language string, difficulty *domain.Difficulty) (int, error) {
	if difficulty != nil {
		if _, err := domain.ParseDifficulty(string(*difficulty)); err != nil {
			return 0, err
		}
	}

	if c, ok := s.entries.(entryCounter); ok {
		n, err := c.Count(ctx, language, difficulty)
		if err != nil {
			return 0, fmt.Errorf("population %s: %w", language, err)
		}
		return n, nil
	}

	entries, err := s.entries.Entries(ctx, language)
	if err != nil {
		return 0, fmt.Errorf("population %s: %w", language, err)
	}
	return len(words(entries, difficulty)), nil
}

func validateCount(count int) error {
	if count < 0 {
		return domain.NewValidationError("count", "must not be negative")
	}
	return nil
}

// words returns the words of entries, filtered by difficulty when set.
func words(entries []domain.VocabEntry, difficulty *domain.Difficulty) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if difficulty != nil && e.Difficulty != *difficulty {
			continue
		}
		out = append(out, e.Word)
	}
	return out
}

// draw picks count items without replacement with a partial Fisher-Yates
// shuffle. pool is modified.
func (s *Service) draw(language string, pool []string, count int) ([]string, error) {
	if count > len(pool) {
		return nil, &domain.InsufficientEntriesError{
			Language:  language,
			Requested: count,
			Available: len(pool),
		}
	}

	s.mu.Lock()
	for i := 0; i < count; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	s.mu.Unlock()

	s.log.Debug("sampled words",
		slog.String("language", language),
		slog.Int("count", count),
		slog.Int("population", len(pool)),
	)

	out := make([]string, count)
	copy(out, pool[:count])
	return out, nil
}
