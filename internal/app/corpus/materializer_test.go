package corpus

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeFetcher writes files into dir instead of talking to a remote.
type fakeFetcher struct {
	files map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) Sync(_ context.Context, _, dir string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for name, content := range f.files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMaterializer_CopiesWithoutGit(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Config{
		RepoURL:   "https://example.com/words.git",
		RepoDir:   filepath.Join(base, "repo"),
		OutputDir: filepath.Join(base, "raw"),
	}
	f := &fakeFetcher{files: map[string]string{
		"spanish/spanish.txt": "casa,perro",
		"french/french.txt":   "maison",
		".git/HEAD":           "ref: refs/heads/main",
		"README.md":           "words",
	}}

	res, err := NewMaterializer(testLogger(), cfg, f).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 1, f.calls)

	assert.Equal(t, map[string]string{
		"spanish/spanish.txt": "casa,perro",
		"french/french.txt":   "maison",
		"README.md":           "words",
	}, readTree(t, cfg.OutputDir))
}

func TestMaterializer_ReplacesPreviousOutput(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Config{RepoDir: filepath.Join(base, "repo"), OutputDir: filepath.Join(base, "raw")}

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutputDir, "stale"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "stale", "stale.txt"), []byte("old"), 0o644))

	f := &fakeFetcher{files: map[string]string{"spanish/spanish.txt": "casa"}}
	m := NewMaterializer(testLogger(), cfg, f)

	_, err := m.Run(context.Background())
	require.NoError(t, err)
	// Second run is idempotent.
	_, err = m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"spanish/spanish.txt": "casa"}, readTree(t, cfg.OutputDir))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".raw.tmp-"), "staging dir left behind: %s", e.Name())
	}
}

func TestMaterializer_FetchFailureKeepsOutput(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Config{RepoDir: filepath.Join(base, "repo"), OutputDir: filepath.Join(base, "raw")}
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutputDir, "spanish"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "spanish", "spanish.txt"), []byte("casa"), 0o644))

	sentinel := errors.New("network unreachable")
	_, err := NewMaterializer(testLogger(), cfg, &fakeFetcher{err: sentinel}).Run(context.Background())

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StageFetch, ce.Stage)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, map[string]string{"spanish/spanish.txt": "casa"}, readTree(t, cfg.OutputDir))
}

func TestMaterializer_CopyFailureKeepsOutput(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Config{RepoDir: filepath.Join(base, "repo"), OutputDir: filepath.Join(base, "raw")}
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "keep.txt"), []byte("keep"), 0o644))

	f := &fakeFetcher{files: map[string]string{"spanish/spanish.txt": "casa"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMaterializer(testLogger(), cfg, f).Run(ctx)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StageCopy, ce.Stage)
	assert.Equal(t, map[string]string{"keep.txt": "keep"}, readTree(t, cfg.OutputDir))
}

func TestMaterializer_SkipFetch(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := Config{RepoDir: filepath.Join(base, "repo"), OutputDir: filepath.Join(base, "raw"), SkipFetch: true}
	f := &fakeFetcher{}

	_, err := NewMaterializer(testLogger(), cfg, f).Run(context.Background())
	require.ErrorIs(t, err, ErrRepoMissing)

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.RepoDir, "german"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.RepoDir, "german", "german.txt"), []byte("haus"), 0o644))

	_, err = NewMaterializer(testLogger(), cfg, f).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, f.calls)
	assert.Equal(t, map[string]string{"german/german.txt": "haus"}, readTree(t, cfg.OutputDir))
}
