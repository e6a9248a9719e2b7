// Package vocab answers sampling queries over published vocabulary artifacts.
package vocab

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/heartmarshall/lumen/internal/domain"
)

type entryRepo interface {
	Entries(ctx context.Context, language string) ([]domain.VocabEntry, error)
}

// entryCounter is implemented by repositories that count server-side.
type entryCounter interface {
	Count(ctx context.Context, language string, difficulty *domain.Difficulty) (int, error)
}

// Service provides random sampling over a language's entries.
type Service struct {
	entries entryRepo
	log     *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source. Tests use a seeded source for
// reproducible samples.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// NewService creates a new vocab Service.
func NewService(log *slog.Logger, entries entryRepo, opts ...Option) *Service {
	s := &Service{
		entries: entries,
		log:     log.With("service", "vocab"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}
