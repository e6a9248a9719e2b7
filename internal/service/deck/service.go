// Package deck builds flashcard decks from translated word pairs.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/lumen/internal/domain"
)

type deckClient interface {
	CreateDeck(ctx context.Context, deck string) (int64, error)
	AddNote(ctx context.Context, deck, front, back string, tags []string) (int64, error)
}

// Card is one flashcard: a source word on the front, its translation on the back.
type Card struct {
	Front string
	Back  string
}

// BuildResult holds the outcome of a deck build.
type BuildResult struct {
	Added   int
	Skipped int
}

// Service builds decks through a flashcard client.
type Service struct {
	client deckClient
	log    *slog.Logger
}

// NewService creates a new deck Service.
func NewService(log *slog.Logger, client deckClient) *Service {
	return &Service{
		client: client,
		log:    log.With("service", "deck"),
	}
}

// Build creates deck, then adds one card per entry. Cards the deck already
// holds are skipped and counted; any other failure stops the build.
func (s *Service) Build(ctx context.Context, deck string, cards []Card, tags ...string) (BuildResult, error) {
	var errs []domain.FieldError
	if strings.TrimSpace(deck) == "" {
		errs = append(errs, domain.FieldError{Field: "deck", Message: "required"})
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("cards[%d].front", i), Message: "required"})
		}
	}
	if len(errs) > 0 {
		return BuildResult{}, domain.NewValidationErrors(errs)
	}

	if _, err := s.client.CreateDeck(ctx, deck); err != nil {
		return BuildResult{}, fmt.Errorf("create deck %q: %w", deck, err)
	}

	var res BuildResult
	for _, c := range cards {
		_, err := s.client.AddNote(ctx, deck, c.Front, c.Back, tags)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("add card %q to %q: %w", c.Front, deck, err)
		default:
			res.Added++
		}
	}

	s.log.InfoContext(ctx, "deck built",
		slog.String("deck", deck),
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}
