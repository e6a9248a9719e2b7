// Package sqlite stores Zipf frequency tables in a SQLite database so large
// count files are parsed once and shared between runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heartmarshall/lumen/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS frequencies (
	lang TEXT NOT NULL,
	word TEXT NOT NULL,
	zipf REAL NOT NULL,
	PRIMARY KEY (lang, word)
);
CREATE INDEX IF NOT EXISTS idx_frequencies_lang ON frequencies (lang);
`

// maxVariables stays below SQLite's default host parameter limit.
const maxVariables = 900

// Table is a source of words with Zipf values for one family.
type Table interface {
	Each(fn func(word string, zipf float64))
}

// Store reads and writes frequency rows.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: logger.With("adapter", "sqlite")}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces every row of family with the contents of t and returns
// the number of rows written. Words are stored as given; frequency.Table
// already lower-cases them.
func (s *Store) Import(ctx context.Context, family string, t Table) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM frequencies WHERE lang = ?`, family); err != nil {
		return 0, fmt.Errorf("sqlite: clear %s: %w", family, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO frequencies (lang, word, zipf) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var n int
	var insertErr error
	t.Each(func(word string, zipf float64) {
		if insertErr != nil {
			return
		}
		if _, err := stmt.ExecContext(ctx, family, word, zipf); err != nil {
			insertErr = fmt.Errorf("sqlite: insert %q: %w", word, err)
			return
		}
		n++
	})
	if insertErr != nil {
		return 0, insertErr
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	s.log.Info("frequency table imported", slog.String("family", family), slog.Int("words", n))
	return n, nil
}

// Frequencies implements wordlist.FrequencySource. Lemmas are lower-cased
// for the family's language before lookup, matching frequency.Table. A
// family with no rows is reported as domain.ErrNotFound.
func (s *Store) Frequencies(ctx context.Context, lemmas []string, family string) ([]float64, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM frequencies WHERE lang = ? LIMIT 1`, family).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("frequency table for %s: %w", family, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: check %s: %w", family, err)
	}

	tag, err := language.Parse(family)
	if err != nil {
		tag = language.Und
	}
	lower := cases.Lower(tag)

	folded := make([]string, len(lemmas))
	var words []string
	seen := make(map[string]bool, len(lemmas))
	for i, l := range lemmas {
		folded[i] = lower.String(l)
		if !seen[folded[i]] {
			seen[folded[i]] = true
			words = append(words, folded[i])
		}
	}

	scores := make(map[string]float64, len(words))
	for start := 0; start < len(words); start += maxVariables {
		end := min(start+maxVariables, len(words))
		if err := s.fetch(ctx, family, words[start:end], scores); err != nil {
			return nil, err
		}
	}

	out := make([]float64, len(lemmas))
	for i, w := range folded {
		out[i] = scores[w]
	}
	return out, nil
}

func (s *Store) fetch(ctx context.Context, family string, words []string, into map[string]float64) error {
	query, args, err := sq.Select("word", "zipf").
		From("frequencies").
		Where(sq.Eq{"lang": family, "word": words}).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: select frequencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			word string
			zipf float64
		)
		if err := rows.Scan(&word, &zipf); err != nil {
			return fmt.Errorf("sqlite: scan frequency: %w", err)
		}
		into[word] = zipf
	}
	return rows.Err()
}
