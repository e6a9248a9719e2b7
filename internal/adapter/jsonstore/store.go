// Package jsonstore persists language artifacts as JSON files under a data root:
// {root}/{language}/word-list-cleaned.json.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/heartmarshall/lumen/internal/domain"
)

// FileName is the artifact file name inside each language directory.
const FileName = "word-list-cleaned.json"

// record is the on-disk value shape.
type record struct {
	Word       string            `json:"word"`
	Difficulty domain.Difficulty `json:"word_difficulty"`
}

// Store reads and writes artifacts under a data root.
type Store struct {
	root string
	log  *slog.Logger
}

// New creates a Store rooted at root.
func New(root string, logger *slog.Logger) *Store {
	return &Store{root: root, log: logger.With("adapter", "jsonstore")}
}

// Path returns the artifact path for language.
func (s *Store) Path(language string) string {
	return filepath.Join(s.root, language, FileName)
}

// Write replaces the artifact for language. The file is written to a temp
// file in the same directory and renamed into place, so readers never see a
// partial artifact. Keys are emitted sorted, so equal input yields equal bytes.
func (s *Store) Write(ctx context.Context, language string, entries []domain.VocabEntry) error {
	doc := make(map[string]record, len(entries))
	for _, e := range entries {
		if _, dup := doc[e.Key]; dup {
			return fmt.Errorf("jsonstore: %s: duplicate key %s", language, e.Key)
		}
		doc[e.Key] = record{Word: e.Word, Difficulty: e.Difficulty}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: %s: encode: %w", language, err)
	}
	data = append(data, '\n')

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("jsonstore: %s: %w", language, err)
	}

	path := s.Path(language)
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("jsonstore: %s: write %s: %w", language, path, err)
	}

	s.log.DebugContext(ctx, "artifact written",
		slog.String("language", language),
		slog.String("path", path),
		slog.Int("entries", len(entries)),
	)
	return nil
}

// Entries reads the artifact for language, ordered by key.
// A missing artifact returns an error wrapping domain.ErrNotFound.
func (s *Store) Entries(ctx context.Context, language string) ([]domain.VocabEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(language)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("language %s: artifact %s: %w", language, path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("language %s: read artifact %s: %w", language, path, err)
	}

	var doc map[string]record
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("language %s: decode artifact %s: %w: %v", language, path, domain.ErrMalformedArtifact, err)
	}

	entries := make([]domain.VocabEntry, 0, len(doc))
	for key, r := range doc {
		if !r.Difficulty.IsValid() {
			return nil, fmt.Errorf("language %s: entry %s: difficulty %q: %w", language, key, r.Difficulty, domain.ErrMalformedArtifact)
		}
		entries = append(entries, domain.VocabEntry{
			Key:        key,
			Language:   language,
			Word:       r.Word,
			Difficulty: r.Difficulty,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries, nil
}

// Languages lists languages that have an artifact, sorted by name.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("jsonstore: list %s: %w", s.root, err)
	}

	var langs []string
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !d.IsDir() {
			continue
		}
		if _, err := os.Stat(s.Path(d.Name())); err == nil {
			langs = append(langs, d.Name())
		}
	}
	return langs, nil
}
