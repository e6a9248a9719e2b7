// Command ingest builds the per-language vocabulary artifacts.
//
// It syncs the raw word-list corpus, runs the word-list pipeline for every
// configured language, writes one artifact per language under the data
// root, and publishes the entries to PostgreSQL when a DSN is configured.
//
// Flags:
//
//	--config              path to YAML config (default: CONFIG_PATH or ./config.yaml)
//	--language            comma-separated languages to run (default: all configured)
//	--dry-run             run every stage except writing and publishing
//	--skip-fetch          reuse the local corpus checkout
//	--import-frequencies  load frequency count files into the SQLite store and exit
//	--version             print the build version and exit
//
// Exit codes: 0 = success, 1 = error or at least one language failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/heartmarshall/lumen/internal/adapter/jsonstore"
	"github.com/heartmarshall/lumen/internal/adapter/postgres"
	"github.com/heartmarshall/lumen/internal/adapter/postgres/vocabentry"
	"github.com/heartmarshall/lumen/internal/app"
	"github.com/heartmarshall/lumen/internal/app/corpus"
	"github.com/heartmarshall/lumen/internal/app/wordlist"
	"github.com/heartmarshall/lumen/internal/config"
)

// Compile-time interface assertions.
var (
	_ wordlist.ArtifactWriter = (*jsonstore.Store)(nil)
	_ wordlist.Publisher      = (*vocabentry.Repo)(nil)
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	languageFlag := flag.String("language", "", "comma-separated languages to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "run without writing artifacts or publishing")
	skipFetchFlag := flag.Bool("skip-fetch", false, "reuse the local corpus checkout")
	importFlag := flag.Bool("import-frequencies", false, "import frequency count files into SQLite and exit")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	cfg, err := config.LoadFrom(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dryRunFlag {
		cfg.Pipeline.DryRun = true
	}
	if *skipFetchFlag {
		cfg.Corpus.SkipFetch = true
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting ingest", slog.String("version", app.BuildVersion()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *importFlag {
		imported, err := app.ImportFrequencies(ctx, cfg, logger)
		if err != nil {
			logger.Error("import frequencies", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for family, n := range imported {
			logger.Info("frequencies imported", slog.String("family", family), slog.Int("words", n))
		}
		return
	}

	if err := run(ctx, cfg, splitList(*languageFlag), logger); err != nil {
		logger.Error("ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, languages []string, logger *slog.Logger) error {
	materializer := corpus.NewMaterializer(logger, corpus.Config{
		RepoURL:   cfg.Corpus.RepoURL,
		RepoDir:   cfg.Corpus.RepoDir,
		OutputDir: cfg.Corpus.OutputDir,
		SkipFetch: cfg.Corpus.SkipFetch,
	}, corpus.NewGitFetcher(logger))
	if _, err := materializer.Run(ctx); err != nil {
		return err
	}

	freq, err := app.OpenFrequencySource(ctx, cfg.Frequency, logger)
	if err != nil {
		return fmt.Errorf("open frequency source: %w", err)
	}
	defer freq.Close()

	registry, err := app.BuildRegistry(cfg, freq, logger)
	if err != nil {
		return fmt.Errorf("build model registry: %w", err)
	}

	var publisher wordlist.Publisher
	if cfg.Database.Enabled() && !cfg.Pipeline.DryRun {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		publisher = vocabentry.New(pool, postgres.NewTxManager(pool))
	}

	pipeline := wordlist.NewPipeline(logger, wordlist.Config{
		RawDir:     cfg.Corpus.OutputDir,
		BatchSize:  cfg.Pipeline.BatchSize,
		Workers:    cfg.Pipeline.Workers,
		DryRun:     cfg.Pipeline.DryRun,
		ExportForm: cfg.Pipeline.ExportForm,
	}, registry, jsonstore.New(cfg.Pipeline.DataRoot, logger), publisher)

	if err := pipeline.Run(ctx, languages); err != nil {
		return err
	}
	if pipeline.HasErrors() {
		var failed []string
		for lang, r := range pipeline.Results() {
			if r.Err != nil {
				failed = append(failed, lang)
			}
		}
		return fmt.Errorf("%d language(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}

	logger.Info("ingest completed successfully")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
