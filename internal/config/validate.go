package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Empty lemmatizer kinds are defaulted to "lookup".
func (c *Config) Validate() error {
	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	switch c.Frequency.Source {
	case FrequencySourceTable:
		if c.Frequency.Dir == "" {
			return fmt.Errorf("frequency.dir is required for source %q", FrequencySourceTable)
		}
	case FrequencySourceSQLite:
		if c.Frequency.SQLitePath == "" {
			return fmt.Errorf("frequency.sqlite_path is required for source %q", FrequencySourceSQLite)
		}
	default:
		return fmt.Errorf("frequency.source must be %q or %q (got %q)", FrequencySourceTable, FrequencySourceSQLite, c.Frequency.Source)
	}

	seen := make(map[string]bool, len(c.Languages))
	for i := range c.Languages {
		l := &c.Languages[i]
		if err := l.validate(); err != nil {
			return fmt.Errorf("languages[%d]: %w", i, err)
		}
		if seen[l.Name] {
			return fmt.Errorf("languages[%d]: duplicate language %q", i, l.Name)
		}
		seen[l.Name] = true
	}

	if c.Translate.MaxTokens <= 0 {
		return fmt.Errorf("translate.max_tokens must be > 0 (got %d)", c.Translate.MaxTokens)
	}

	return nil
}

func (p *PipelineConfig) validate() error {
	if p.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", p.BatchSize)
	}
	if p.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", p.Workers)
	}
	if p.ExportForm != "surface" && p.ExportForm != "lemma" {
		return fmt.Errorf("export_form must be surface or lemma (got %q)", p.ExportForm)
	}
	return nil
}

func (l *LanguageConfig) validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(l.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", l.Name)
	}

	family := domain.LanguageFamily(l.Model)
	if family == "" {
		return fmt.Errorf("%s: model is required", l.Name)
	}
	if _, err := language.ParseBase(family); err != nil {
		return fmt.Errorf("%s: model %q has no valid language family: %w", l.Name, l.Model, err)
	}

	if l.Lemmatizer == "" {
		l.Lemmatizer = LemmatizerLookup
	}
	switch l.Lemmatizer {
	case LemmatizerLookup:
		if l.LemmaTable == "" {
			return fmt.Errorf("%s: lemma_table is required for lemmatizer %q", l.Name, LemmatizerLookup)
		}
	case LemmatizerKagome:
	default:
		return fmt.Errorf("%s: unknown lemmatizer %q", l.Name, l.Lemmatizer)
	}
	return nil
}
