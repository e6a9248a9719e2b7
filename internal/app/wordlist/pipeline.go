package wordlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Exported word forms.
const (
	ExportSurface = "surface"
	ExportLemma   = "lemma"
)

// ArtifactWriter persists a language's entries, replacing any previous artifact.
type ArtifactWriter interface {
	Write(ctx context.Context, language string, entries []domain.VocabEntry) error
}

// Publisher mirrors a language's entries into a secondary store.
type Publisher interface {
	Publish(ctx context.Context, language string, entries []domain.VocabEntry) (int, error)
}

// Config holds pipeline settings.
type Config struct {
	RawDir     string
	BatchSize  int
	Workers    int
	DryRun     bool
	ExportForm string
}

// LanguageResult holds the outcome of processing one language.
type LanguageResult struct {
	Loaded       int
	Kept         int
	Dropped      int
	Beginner     int
	Intermediate int
	Advanced     int
	Published    int
	Duration     time.Duration
	Err          error
}

// Pipeline turns raw word lists into vocabulary artifacts, one language at a time.
type Pipeline struct {
	log       *slog.Logger
	cfg       Config
	registry  *Registry
	annotator *Annotator
	writer    ArtifactWriter
	publisher Publisher
	results   map[string]LanguageResult
}

// NewPipeline creates a Pipeline. publisher may be nil.
func NewPipeline(log *slog.Logger, cfg Config, registry *Registry, writer ArtifactWriter, publisher Publisher) *Pipeline {
	if cfg.ExportForm == "" {
		cfg.ExportForm = ExportSurface
	}
	return &Pipeline{
		log:       log.With("component", "wordlist"),
		cfg:       cfg,
		registry:  registry,
		annotator: NewAnnotator(cfg.BatchSize, cfg.Workers),
		writer:    writer,
		publisher: publisher,
		results:   make(map[string]LanguageResult),
	}
}

// Results returns per-language results after Run completes.
func (p *Pipeline) Results() map[string]LanguageResult {
	return p.results
}

// HasErrors returns true if any language failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run processes the given languages sequentially, or every registered
// language when languages is empty. A failing language is recorded and
// logged; the remaining languages still run. Run itself only fails when
// ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, languages []string) error {
	if len(languages) == 0 {
		languages = p.registry.Languages()
	}

	log := p.log.With(slog.String("run_id", uuid.NewString()))
	log.Info("pipeline started", slog.Int("languages", len(languages)), slog.Bool("dry_run", p.cfg.DryRun))

	for _, lang := range languages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before %s: %w", lang, err)
		}

		start := time.Now()
		log.Info("starting language", slog.String("language", lang))

		result := p.runLanguage(ctx, lang)
		result.Duration = time.Since(start)
		p.results[lang] = result

		if result.Err != nil {
			attrs := []any{
				slog.String("language", lang),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			}
			var se *StageError
			if errors.As(result.Err, &se) {
				attrs = append(attrs, slog.String("stage", se.Stage))
			}
			log.Warn("language failed", attrs...)
			continue
		}

		log.Info("language completed",
			slog.String("language", lang),
			slog.Int("loaded", result.Loaded),
			slog.Int("kept", result.Kept),
			slog.Int("dropped", result.Dropped),
			slog.Int("beginner", result.Beginner),
			slog.Int("intermediate", result.Intermediate),
			slog.Int("advanced", result.Advanced),
			slog.Duration("duration", result.Duration),
		)
	}

	log.Info("pipeline completed", slog.Int("languages_run", len(languages)))
	return nil
}

func (p *Pipeline) runLanguage(ctx context.Context, lang string) LanguageResult {
	model, err := p.registry.Lookup(lang)
	if err != nil {
		return LanguageResult{Err: stageErr(lang, StageLoad, err)}
	}
	if model.LoadErr != nil {
		return LanguageResult{Err: stageErr(lang, StageLemmatize, fmt.Errorf("model %s: %w", model.ModelID, model.LoadErr))}
	}

	raw, err := LoadWords(ctx, p.cfg.RawDir, lang)
	if err != nil {
		return LanguageResult{Err: stageErr(lang, StageLoad, err)}
	}
	result := LanguageResult{Loaded: len(raw)}

	lemmatized, err := p.annotator.Annotate(ctx, raw, model.Lemmatizer)
	if err != nil {
		result.Err = stageErr(lang, StageLemmatize, fmt.Errorf("model %s: %w", model.ModelID, err))
		return result
	}

	scored, err := Score(ctx, lemmatized, model.Frequency, model.Family(), p.cfg.BatchSize)
	if err != nil {
		result.Err = stageErr(lang, StageScore, fmt.Errorf("family %s: %w", model.Family(), err))
		return result
	}

	classified := Classify(scored)
	entries := p.toEntries(lang, classified)

	result.Kept = len(entries)
	result.Dropped = result.Loaded - result.Kept
	for _, e := range entries {
		switch e.Difficulty {
		case domain.DifficultyBeginner:
			result.Beginner++
		case domain.DifficultyIntermediate:
			result.Intermediate++
		case domain.DifficultyAdvanced:
			result.Advanced++
		}
	}

	if p.cfg.DryRun {
		return result
	}

	if err := p.writer.Write(ctx, lang, entries); err != nil {
		result.Err = stageErr(lang, StageWrite, err)
		return result
	}

	if p.publisher != nil {
		n, err := p.publisher.Publish(ctx, lang, entries)
		if err != nil {
			result.Err = stageErr(lang, StagePublish, err)
			return result
		}
		result.Published = n
	}

	return result
}

func (p *Pipeline) toEntries(lang string, classified []Classified) []domain.VocabEntry {
	entries := make([]domain.VocabEntry, len(classified))
	for i, c := range classified {
		word := c.Entry.Word
		if p.cfg.ExportForm == ExportLemma {
			word = c.Lemma
		}
		entries[i] = domain.VocabEntry{
			Key:        EntryKey(lang, c.Lemma),
			Language:   lang,
			Word:       word,
			Difficulty: c.Entry.Difficulty,
		}
	}
	return entries
}

var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/heartmarshall/lumen/vocab-entry"))

// EntryKey returns the artifact key for a lemma: a name-based UUID that is
// identical across rebuilds and independent of input order.
func EntryKey(language, lemma string) string {
	return uuid.NewSHA1(entryNamespace, []byte(language+"\x00"+lemma)).String()
}
