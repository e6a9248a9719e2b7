// Package translate asks a text model to translate word lists and turns its
// free-text answer back into one pair per requested word.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/lumen/internal/domain"
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pair is one translated word.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Result holds the re-aligned translations. Missing counts the words that
// fell back to their original form.
type Result struct {
	Pairs   []Pair
	Missing int
}

// Service translates word lists through a completer.
type Service struct {
	completer completer
	log       *slog.Logger
}

// NewService creates a new translate Service.
func NewService(log *slog.Logger, completer completer) *Service {
	return &Service{
		completer: completer,
		log:       log.With("service", "translate"),
	}
}

// Translate translates words from source to target language. The result
// has exactly one pair per input word, in input order. A malformed model
// response is not an error: untranslated words map to themselves.
func (s *Service) Translate(ctx context.Context, words []string, source, target string) (Result, error) {
	var errs []domain.FieldError
	if strings.TrimSpace(source) == "" {
		errs = append(errs, domain.FieldError{Field: "source", Message: "required"})
	}
	if strings.TrimSpace(target) == "" {
		errs = append(errs, domain.FieldError{Field: "target", Message: "required"})
	}
	if len(errs) > 0 {
		return Result{}, domain.NewValidationErrors(errs)
	}

	if len(words) == 0 {
		return Result{Pairs: []Pair{}}, nil
	}

	raw, err := s.completer.Complete(ctx, BuildPrompt(words, source, target))
	if err != nil {
		return Result{}, fmt.Errorf("translate %d words %s->%s: %w", len(words), source, target, err)
	}

	model, ok := ParseResponse(raw)
	if !ok {
		s.log.Warn("malformed translation response",
			slog.String("source", source),
			slog.String("target", target),
			slog.Int("words", len(words)),
		)
	}

	res := Realign(words, model)
	if res.Missing > 0 {
		s.log.Debug("translations missing",
			slog.Int("missing", res.Missing),
			slog.Int("words", len(words)),
		)
	}
	return res, nil
}
