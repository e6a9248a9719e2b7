package wordlist

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/heartmarshall/lumen/internal/adapter/jsonstore"
	"github.com/heartmarshall/lumen/internal/domain"
)

func spanishModel() Model {
	return Model{
		Language: "spanish",
		ModelID:  "es_core_news_sm",
		Lemmatizer: &mapLemmatizer{table: map[string]string{
			"perros": "perro", "casas": "casa", "gatos": "gato",
		}},
		Frequency: &mapFrequency{family: "es", scores: map[string]float64{
			"perro": 4.6, "casa": 5.3, "gato": 3.9, "murciélago": 1.8,
		}},
	}
}

func germanModel() Model {
	return Model{
		Language:   "german",
		ModelID:    "de_core_news_sm",
		Lemmatizer: &mapLemmatizer{},
		Frequency:  &mapFrequency{family: "de", scores: map[string]float64{"haus": 5.0}},
	}
}

func newTestRegistry(t *testing.T, models ...Model) *Registry {
	t.Helper()
	r, err := NewRegistry(models...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestPipeline_ProcessesLanguage(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "perros,perro,casas,casa,,gatos,murciélago,xyzzy")

	w := newMemWriter()
	p := NewPipeline(testLogger(), Config{RawDir: raw, BatchSize: 3, Workers: 2}, newTestRegistry(t, spanishModel()), w, nil)

	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %+v", p.Results())
	}

	res := p.Results()["spanish"]
	if res.Loaded != 7 {
		t.Errorf("Loaded = %d, want 7", res.Loaded)
	}
	if res.Kept != 4 {
		t.Errorf("Kept = %d, want 4", res.Kept)
	}
	if res.Beginner != 2 || res.Intermediate != 1 || res.Advanced != 1 {
		t.Errorf("tiers = %d/%d/%d, want 2/1/1", res.Beginner, res.Intermediate, res.Advanced)
	}

	entries := w.written["spanish"]
	if len(entries) != 4 {
		t.Fatalf("written %d entries, want 4", len(entries))
	}
	want := []struct {
		word string
		diff domain.Difficulty
	}{
		{"perros", domain.DifficultyBeginner},
		{"casas", domain.DifficultyBeginner},
		{"gatos", domain.DifficultyIntermediate},
		{"murciélago", domain.DifficultyAdvanced},
	}
	keys := make(map[string]bool)
	for i, e := range entries {
		if e.Word != want[i].word || e.Difficulty != want[i].diff {
			t.Errorf("entry %d = %s/%s, want %s/%s", i, e.Word, e.Difficulty, want[i].word, want[i].diff)
		}
		if keys[e.Key] {
			t.Errorf("duplicate key %s", e.Key)
		}
		keys[e.Key] = true
	}
	if entries[0].Key != EntryKey("spanish", "perro") {
		t.Errorf("key of perro = %s, want %s", entries[0].Key, EntryKey("spanish", "perro"))
	}
}

func TestPipeline_ExportLemma(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "perros,casas")

	w := newMemWriter()
	p := NewPipeline(testLogger(), Config{RawDir: raw, ExportForm: ExportLemma}, newTestRegistry(t, spanishModel()), w, nil)
	if err := p.Run(context.Background(), []string{"spanish"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries := w.written["spanish"]
	if len(entries) != 2 || entries[0].Word != "perro" || entries[1].Word != "casa" {
		t.Errorf("entries = %+v, want lemmas perro, casa", entries)
	}
}

func TestPipeline_ErrorIsolation(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "casa")
	writeRaw(t, raw, "german", "haus")

	broken := germanModel()
	broken.Lemmatizer = &mapLemmatizer{err: errors.New("model not loaded")}

	reg := newTestRegistry(t, spanishModel(), broken)
	w := newMemWriter()
	p := NewPipeline(testLogger(), Config{RawDir: raw}, reg, w, nil)

	// french is not registered, german fails in lemmatization, spanish succeeds.
	if err := p.Run(context.Background(), []string{"french", "german", "spanish"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !p.HasErrors() {
		t.Fatal("expected HasErrors() = true")
	}

	results := p.Results()
	var se *StageError
	if !errors.As(results["french"].Err, &se) || se.Stage != StageLoad || !errors.Is(se, domain.ErrNotFound) {
		t.Errorf("french error = %v, want load-stage not found", results["french"].Err)
	}
	if !errors.As(results["german"].Err, &se) || se.Stage != StageLemmatize || se.Language != "german" {
		t.Errorf("german error = %v, want lemmatize-stage error", results["german"].Err)
	}
	if results["spanish"].Err != nil {
		t.Errorf("spanish should succeed, got %v", results["spanish"].Err)
	}
	if _, ok := w.written["spanish"]; !ok {
		t.Error("spanish artifact should be written despite other failures")
	}
	if _, ok := w.written["german"]; ok {
		t.Error("german artifact should not be written")
	}
}

func TestPipeline_ModelLoadFailureIsolated(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "casa")
	writeRaw(t, raw, "german", "haus")

	loadErr := errors.New("lemma table missing")
	unloaded := germanModel()
	unloaded.Lemmatizer = nil
	unloaded.LoadErr = loadErr

	w := newMemWriter()
	p := NewPipeline(testLogger(), Config{RawDir: raw}, newTestRegistry(t, unloaded, spanishModel()), w, nil)

	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !p.HasErrors() {
		t.Fatal("expected HasErrors() = true")
	}

	var se *StageError
	gerr := p.Results()["german"].Err
	if !errors.As(gerr, &se) || se.Stage != StageLemmatize || !errors.Is(gerr, loadErr) {
		t.Errorf("german error = %v, want lemmatize-stage load error", gerr)
	}
	if err := p.Results()["spanish"].Err; err != nil {
		t.Errorf("spanish should succeed, got %v", err)
	}
	if _, ok := w.written["spanish"]; !ok {
		t.Error("spanish artifact should be written")
	}
}

func TestPipeline_MissingRawFile(t *testing.T) {
	raw := t.TempDir()
	p := NewPipeline(testLogger(), Config{RawDir: raw}, newTestRegistry(t, spanishModel()), newMemWriter(), nil)

	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	err := p.Results()["spanish"].Err
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPipeline_UnknownFamilyIsScoreFailure(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "casa")

	m := spanishModel()
	m.ModelID = "pt_core_news_sm"
	p := NewPipeline(testLogger(), Config{RawDir: raw}, newTestRegistry(t, m), newMemWriter(), nil)
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var se *StageError
	if !errors.As(p.Results()["spanish"].Err, &se) || se.Stage != StageScore {
		t.Fatalf("err = %v, want score-stage error", p.Results()["spanish"].Err)
	}
}

func TestPipeline_WriteAndPublishFailures(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "casa")
	writeRaw(t, raw, "german", "haus")

	w := newMemWriter()
	w.errFor["german"] = errors.New("disk full")

	published := make(map[string]int)
	pub := &mockPublisher{PublishFunc: func(_ context.Context, language string, entries []domain.VocabEntry) (int, error) {
		published[language] = len(entries)
		return len(entries), nil
	}}

	p := NewPipeline(testLogger(), Config{RawDir: raw}, newTestRegistry(t, spanishModel(), germanModel()), w, pub)
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var se *StageError
	if !errors.As(p.Results()["german"].Err, &se) || se.Stage != StageWrite {
		t.Errorf("german err = %v, want write-stage", p.Results()["german"].Err)
	}
	if _, ok := published["german"]; ok {
		t.Error("german should not be published after a failed write")
	}
	if published["spanish"] != 1 || p.Results()["spanish"].Published != 1 {
		t.Errorf("spanish published = %d, want 1", published["spanish"])
	}
}

func TestPipeline_DryRun(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "casa,perro")

	w := newMemWriter()
	p := NewPipeline(testLogger(), Config{RawDir: raw, DryRun: true}, newTestRegistry(t, spanishModel()), w, nil)
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(w.written) != 0 {
		t.Errorf("dry run wrote %d artifacts", len(w.written))
	}
	if p.Results()["spanish"].Kept != 2 {
		t.Errorf("Kept = %d, want 2", p.Results()["spanish"].Kept)
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(testLogger(), Config{RawDir: t.TempDir()}, newTestRegistry(t, spanishModel()), newMemWriter(), nil)
	if err := p.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
}

func TestPipeline_IdempotentRebuild(t *testing.T) {
	raw := t.TempDir()
	writeRaw(t, raw, "spanish", "perros,perro,casas,casa,gatos,murciélago,xyzzy")

	store := jsonstore.New(t.TempDir(), testLogger())
	run := func(batch, workers int) []byte {
		p := NewPipeline(testLogger(), Config{RawDir: raw, BatchSize: batch, Workers: workers}, newTestRegistry(t, spanishModel()), store, nil)
		if err := p.Run(context.Background(), nil); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if p.HasErrors() {
			t.Fatalf("unexpected errors: %+v", p.Results())
		}
		data, err := os.ReadFile(store.Path("spanish"))
		if err != nil {
			t.Fatalf("read artifact: %v", err)
		}
		return data
	}

	first := run(1000, 1)
	second := run(1, 4)
	if string(first) != string(second) {
		t.Errorf("rebuild differs:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(spanishModel(), spanishModel()); err == nil {
		t.Error("expected duplicate language error")
	}

	noLem := spanishModel()
	noLem.Lemmatizer = nil
	if _, err := NewRegistry(noLem); err == nil {
		t.Error("expected nil lemmatizer error")
	}

	unloaded := spanishModel()
	unloaded.Lemmatizer = nil
	unloaded.LoadErr = errors.New("no table")
	if _, err := NewRegistry(unloaded); err != nil {
		t.Errorf("model with load error should register, got %v", err)
	}

	noFamily := spanishModel()
	noFamily.ModelID = ""
	if _, err := NewRegistry(noFamily); err == nil {
		t.Error("expected missing family error")
	}

	r, err := NewRegistry(germanModel(), spanishModel())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if got := r.Languages(); len(got) != 2 || got[0] != "german" || got[1] != "spanish" {
		t.Errorf("Languages() = %v", got)
	}
	if _, err := r.Lookup("french"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Lookup(french) err = %v, want ErrNotFound", err)
	}
}

func TestEntryKey_Stable(t *testing.T) {
	t.Parallel()

	if EntryKey("spanish", "casa") != EntryKey("spanish", "casa") {
		t.Error("EntryKey should be deterministic")
	}
	if EntryKey("spanish", "casa") == EntryKey("italian", "casa") {
		t.Error("EntryKey should differ by language")
	}
}
