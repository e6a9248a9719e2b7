// Command vocab queries the published vocabulary artifacts.
//
// Usage:
//
//	vocab [--config path] sample    --language spanish [--difficulty beginner] --count 10
//	vocab [--config path] translate --source spanish --target english word...
//	vocab [--config path] deck      --language spanish --target english --count 20 [--deck name]
//	vocab [--config path] count     --language spanish [--difficulty beginner]
//	vocab [--config path] languages
//
// Artifacts are read from PostgreSQL when database.dsn is set, otherwise
// from the JSON artifacts under pipeline.data_root.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/lumen/internal/adapter/jsonstore"
	"github.com/heartmarshall/lumen/internal/adapter/postgres"
	"github.com/heartmarshall/lumen/internal/adapter/postgres/vocabentry"
	"github.com/heartmarshall/lumen/internal/adapter/provider/anki"
	"github.com/heartmarshall/lumen/internal/adapter/provider/anthropic"
	"github.com/heartmarshall/lumen/internal/app"
	"github.com/heartmarshall/lumen/internal/config"
	"github.com/heartmarshall/lumen/internal/domain"
	"github.com/heartmarshall/lumen/internal/service/deck"
	"github.com/heartmarshall/lumen/internal/service/translate"
	"github.com/heartmarshall/lumen/internal/service/vocab"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [--config path] sample|count|translate|deck|languages [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "sample":
		err = runSample(ctx, cfg, logger, args)
	case "count":
		err = runCount(ctx, cfg, logger, args)
	case "translate":
		err = runTranslate(ctx, cfg, logger, args)
	case "deck":
		err = runDeck(ctx, cfg, logger, args)
	case "languages":
		err = runLanguages(ctx, cfg, logger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error(cmd+" failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runSample(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	language := fs.String("language", "", "language to sample from")
	difficulty := fs.String("difficulty", "", "difficulty tier (beginner, intermediate, advanced)")
	count := fs.Int("count", 10, "number of words")
	_ = fs.Parse(args)

	repo, closeFn, err := openRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	words, err := sample(ctx, vocab.NewService(logger, repo), *language, *difficulty, *count)
	if err != nil {
		return err
	}
	return printJSON(words)
}

func runCount(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	language := fs.String("language", "", "language to count")
	difficulty := fs.String("difficulty", "", "difficulty tier (default: any)")
	_ = fs.Parse(args)

	var tier *domain.Difficulty
	if *difficulty != "" {
		d, err := domain.ParseDifficulty(*difficulty)
		if err != nil {
			return err
		}
		tier = &d
	}

	repo, closeFn, err := openRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := vocab.NewService(logger, repo).Population(ctx, *language, tier)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"language": *language, "difficulty": *difficulty, "count": n})
}

func runLanguages(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repo, closeFn, err := openRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	langs, err := repo.Languages(ctx)
	if err != nil {
		return err
	}
	return printJSON(langs)
}

func runTranslate(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ExitOnError)
	source := fs.String("source", "", "source language")
	target := fs.String("target", "", "target language")
	_ = fs.Parse(args)

	res, err := newTranslator(cfg, logger).Translate(ctx, fs.Args(), *source, *target)
	if err != nil {
		return err
	}
	if res.Missing > 0 {
		logger.Warn("some words were not translated", slog.Int("missing", res.Missing))
	}
	return printJSON(map[string]any{"translations": res.Pairs})
}

func runDeck(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("deck", flag.ExitOnError)
	language := fs.String("language", "", "language to sample from")
	target := fs.String("target", "english", "translation target language")
	difficulty := fs.String("difficulty", "", "difficulty tier (default: any)")
	count := fs.Int("count", 20, "number of cards")
	deckName := fs.String("deck", "", "deck name (default: derived from language and difficulty)")
	_ = fs.Parse(args)

	repo, closeFn, err := openRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	words, err := sample(ctx, vocab.NewService(logger, repo), *language, *difficulty, *count)
	if err != nil {
		return err
	}

	res, err := newTranslator(cfg, logger).Translate(ctx, words, *language, *target)
	if err != nil {
		return err
	}

	name := *deckName
	if name == "" {
		name = deckTitle(*language, *difficulty)
	}
	cards := make([]deck.Card, len(res.Pairs))
	for i, p := range res.Pairs {
		cards[i] = deck.Card{Front: p.Source, Back: p.Target}
	}

	client := anki.NewClient(cfg.Anki.URL, app.UserAgent(), cfg.Anki.Timeout, logger)
	built, err := deck.NewService(logger, client).Build(ctx, name, cards, *language)
	if err != nil {
		return err
	}

	logger.Info("deck built",
		slog.String("deck", name),
		slog.Int("added", built.Added),
		slog.Int("skipped", built.Skipped),
		slog.Int("untranslated", res.Missing),
	)
	return nil
}

func sample(ctx context.Context, svc *vocab.Service, language, difficulty string, count int) ([]string, error) {
	if difficulty == "" {
		return svc.Sample(ctx, language, count)
	}
	return svc.SampleByDifficulty(ctx, language, difficulty, count)
}

// artifactRepo is implemented by both artifact backends.
type artifactRepo interface {
	Entries(ctx context.Context, language string) ([]domain.VocabEntry, error)
	Languages(ctx context.Context) ([]string, error)
}

var (
	_ artifactRepo = (*jsonstore.Store)(nil)
	_ artifactRepo = (*vocabentry.Repo)(nil)
)

// openRepo returns the PostgreSQL repository when a DSN is configured,
// otherwise the JSON artifact store.
func openRepo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (artifactRepo, func(), error) {
	if !cfg.Database.Enabled() {
		return jsonstore.New(cfg.Pipeline.DataRoot, logger), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return vocabentry.New(pool, postgres.NewTxManager(pool)), pool.Close, nil
}

func newTranslator(cfg *config.Config, logger *slog.Logger) *translate.Service {
	completer := anthropic.New(anthropic.Config{
		APIKey:     cfg.Translate.APIKey,
		Model:      cfg.Translate.Model,
		MaxTokens:  cfg.Translate.MaxTokens,
		Timeout:    cfg.Translate.Timeout,
		MaxRetries: 2,
	}, logger)
	return translate.NewService(logger, completer)
}

func deckTitle(language, difficulty string) string {
	title := domain.Capitalize(language)
	if difficulty == "" {
		return title + " vocabulary"
	}
	if d, err := domain.ParseDifficulty(difficulty); err == nil {
		return fmt.Sprintf("%s vocabulary (%s)", title, d)
	}
	return title + " vocabulary"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
