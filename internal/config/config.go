package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Corpus    CorpusConfig     `yaml:"corpus"`
	Pipeline  PipelineConfig   `yaml:"pipeline"`
	Frequency FrequencyConfig  `yaml:"frequency"`
	Languages []LanguageConfig `yaml:"languages"`
	Database  DatabaseConfig   `yaml:"database"`
	Translate TranslateConfig  `yaml:"translate"`
	Anki      AnkiConfig       `yaml:"anki"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CorpusConfig locates the upstream word-list repository and where its
// content is materialized. OutputDir is replaced on every run.
type CorpusConfig struct {
	RepoURL   string `yaml:"repo_url"   env:"CORPUS_REPO_URL"   env-default:"https://github.com/eymenefealtun/all-words-in-all-languages.git"`
	RepoDir   string `yaml:"repo_dir"   env:"CORPUS_REPO_DIR"   env-default:"all-words-in-all-languages"`
	OutputDir string `yaml:"output_dir" env:"CORPUS_OUTPUT_DIR" env-default:"raw-word-list"`
	SkipFetch bool   `yaml:"skip_fetch" env:"CORPUS_SKIP_FETCH" env-default:"false"`
}

// PipelineConfig holds word-list pipeline settings.
type PipelineConfig struct {
	DataRoot  string `yaml:"data_root"  env:"PIPELINE_DATA_ROOT"  env-default:"data"`
	BatchSize int    `yaml:"batch_size" env:"PIPELINE_BATCH_SIZE" env-default:"1000"`
	Workers   int    `yaml:"workers"    env:"PIPELINE_WORKERS"    env-default:"4"`
	DryRun    bool   `yaml:"dry_run"    env:"PIPELINE_DRY_RUN"    env-default:"false"`

	// ExportForm selects the exported word: "surface" keeps the chosen raw
	// form, "lemma" exports the dictionary form.
	ExportForm string `yaml:"export_form" env:"PIPELINE_EXPORT_FORM" env-default:"surface"`
}

// Frequency sources.
const (
	FrequencySourceTable  = "table"
	FrequencySourceSQLite = "sqlite"
)

// FrequencyConfig selects where Zipf scores come from.
// With source "table", Dir holds one "{family}.txt" count file per language family.
type FrequencyConfig struct {
	Source     string `yaml:"source"      env:"FREQUENCY_SOURCE"      env-default:"table"`
	Dir        string `yaml:"dir"         env:"FREQUENCY_DIR"         env-default:"frequency"`
	SQLitePath string `yaml:"sqlite_path" env:"FREQUENCY_SQLITE_PATH" env-default:"frequency.db"`
}

// Lemmatizer kinds.
const (
	LemmatizerLookup = "lookup"
	LemmatizerKagome = "kagome"
)

// LanguageConfig describes one supported language. Model identifies the
// linguistic model; its prefix before "_" is the frequency family code.
type LanguageConfig struct {
	Name       string `yaml:"name"`
	Model      string `yaml:"model"`
	Lemmatizer string `yaml:"lemmatizer"`
	LemmaTable string `yaml:"lemma_table"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN
// disables publishing artifacts to the database.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// TranslateConfig holds translation model settings.
type TranslateConfig struct {
	APIKey    string        `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	Model     string        `yaml:"model"      env:"TRANSLATE_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"TRANSLATE_MAX_TOKENS" env-default:"2048"`
	Timeout   time.Duration `yaml:"timeout"    env:"TRANSLATE_TIMEOUT"    env-default:"60s"`
}

// AnkiConfig holds AnkiConnect settings.
type AnkiConfig struct {
	URL     string        `yaml:"url"     env:"ANKI_URL"     env-default:"http://127.0.0.1:8765"`
	Timeout time.Duration `yaml:"timeout" env:"ANKI_TIMEOUT" env-default:"10s"`
}

// Language returns the configuration for name.
func (c *Config) Language(name string) (LanguageConfig, bool) {
	for _, l := range c.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return LanguageConfig{}, false
}

// LanguageNames returns configured language names in declaration order.
func (c *Config) LanguageNames() []string {
	names := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		names[i] = l.Name
	}
	return names
}
