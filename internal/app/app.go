package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lumen/internal/adapter/frequency"
	"github.com/heartmarshall/lumen/internal/adapter/lemma/kagome"
	"github.com/heartmarshall/lumen/internal/adapter/lemma/lookup"
	"github.com/heartmarshall/lumen/internal/adapter/sqlite"
	"github.com/heartmarshall/lumen/internal/app/wordlist"
	"github.com/heartmarshall/lumen/internal/config"
	"github.com/heartmarshall/lumen/internal/domain"
)

// FrequencySource is a wordlist.FrequencySource that holds resources.
type FrequencySource interface {
	wordlist.FrequencySource
	Close() error
}

type nopCloser struct{ wordlist.FrequencySource }

func (nopCloser) Close() error { return nil }

// OpenFrequencySource returns the frequency source selected by cfg.
func OpenFrequencySource(ctx context.Context, cfg config.FrequencyConfig, logger *slog.Logger) (FrequencySource, error) {
	switch cfg.Source {
	case config.FrequencySourceSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.FrequencySourceTable:
		return nopCloser{frequency.NewDir(cfg.Dir, logger)}, nil
	default:
		return nil, fmt.Errorf("unknown frequency source %q", cfg.Source)
	}
}

// ImportFrequencies loads the count file of every configured language
// family from cfg.Frequency.Dir into the SQLite store at
// cfg.Frequency.SQLitePath. It returns the number of words per family.
func ImportFrequencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (map[string]int, error) {
	store, err := sqlite.Open(ctx, cfg.Frequency.SQLitePath, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	dir := frequency.NewDir(cfg.Frequency.Dir, logger)
	imported := make(map[string]int)
	for _, l := range cfg.Languages {
		family := domain.LanguageFamily(l.Model)
		if _, done := imported[family]; done {
			continue
		}
		table, err := dir.Table(family)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", family, err)
		}
		n, err := store.Import(ctx, family, table)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", family, err)
		}
		imported[family] = n
	}
	return imported, nil
}

// BuildRegistry initializes one model per configured language. Lemma tables
// are loaded eagerly; a single kagome tokenizer is shared by every language
// that uses it. A language whose lemmatizer fails to load is registered with
// its load error so the pipeline fails only that language.
func BuildRegistry(cfg *config.Config, freq wordlist.FrequencySource, logger *slog.Logger) (*wordlist.Registry, error) {
	var (
		models  []wordlist.Model
		kg      *kagome.Lemmatizer
		kgErr   error
		kgTried bool
	)
	for _, l := range cfg.Languages {
		family := domain.LanguageFamily(l.Model)

		var (
			lem wordlist.Lemmatizer
			err error
		)
		switch l.Lemmatizer {
		case config.LemmatizerKagome:
			if !kgTried {
				kg, kgErr = kagome.New()
				kgTried = true
			}
			lem, err = kg, kgErr
		case config.LemmatizerLookup, "":
			var table *lookup.Lemmatizer
			if table, err = lookup.Load(l.LemmaTable, family); err == nil {
				logger.Debug("lemma table loaded", slog.String("language", l.Name), slog.Int("forms", table.Len()))
				lem = table
			}
		default:
			err = fmt.Errorf("unknown lemmatizer %q", l.Lemmatizer)
		}

		m := wordlist.Model{
			Language:   l.Name,
			ModelID:    l.Model,
			Lemmatizer: lem,
			Frequency:  freq,
		}
		if err != nil {
			logger.Warn("model load failed",
				slog.String("language", l.Name),
				slog.String("model", l.Model),
				slog.String("error", err.Error()),
			)
			m.Lemmatizer, m.LoadErr = nil, err
		}
		models = append(models, m)
	}
	return wordlist.NewRegistry(models...)
}
