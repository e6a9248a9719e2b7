package wordlist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/heartmarshall/lumen/internal/domain"
)

// testLogger returns a logger that discards everything below error.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// writeRaw creates {dir}/{lang}/{lang}.txt with content.
func writeRaw(t *testing.T, dir, lang, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, lang), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(RawPath(dir, lang), []byte(content), 0o644); err != nil {
		t.Fatalf("write raw: %v", err)
	}
}

// mapLemmatizer lower-cases each word and looks up its first space-separated
// sub-token in table, falling back to the sub-token itself.
type mapLemmatizer struct {
	table map[string]string
	err   error

	mu        sync.Mutex
	batchLens []int
}

func (m *mapLemmatizer) Lemmas(_ context.Context, words []string) ([]string, error) {
	m.mu.Lock()
	m.batchLens = append(m.batchLens, len(words))
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, len(words))
	for i, w := range words {
		fields := strings.Fields(strings.ToLower(w))
		if len(fields) == 0 {
			continue
		}
		if l, ok := m.table[fields[0]]; ok {
			out[i] = l
		} else {
			out[i] = fields[0]
		}
	}
	return out, nil
}

// shortLemmatizer violates the one-lemma-per-word contract.
type shortLemmatizer struct{}

func (shortLemmatizer) Lemmas(_ context.Context, words []string) ([]string, error) {
	return make([]string, len(words)/2), nil
}

// mapFrequency scores lemmas from a fixed table for one family.
type mapFrequency struct {
	family string
	scores map[string]float64

	mu      sync.Mutex
	queried []string
}

func (m *mapFrequency) Frequencies(_ context.Context, lemmas []string, family string) ([]float64, error) {
	if family != m.family {
		return nil, fmt.Errorf("no frequency table for %s: %w", family, domain.ErrNotFound)
	}
	m.mu.Lock()
	m.queried = append(m.queried, lemmas...)
	m.mu.Unlock()

	out := make([]float64, len(lemmas))
	for i, l := range lemmas {
		out[i] = m.scores[l]
	}
	return out, nil
}

// memWriter keeps written artifacts in memory.
type memWriter struct {
	mu      sync.Mutex
	written map[string][]domain.VocabEntry
	errFor  map[string]error
}

func newMemWriter() *memWriter {
	return &memWriter{written: make(map[string][]domain.VocabEntry), errFor: make(map[string]error)}
}

func (w *memWriter) Write(_ context.Context, language string, entries []domain.VocabEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.errFor[language]; err != nil {
		return err
	}
	w.written[language] = entries
	return nil
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, language string, entries []domain.VocabEntry) (int, error)
}

func (m *mockPublisher) Publish(ctx context.Context, language string, entries []domain.VocabEntry) (int, error) {
	return m.PublishFunc(ctx, language, entries)
}
