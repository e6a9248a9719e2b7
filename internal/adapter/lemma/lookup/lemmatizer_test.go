package lookup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = `# spanish sample
perro	perros
casa	casas
ser	es
ser	era
estar	es
`

func TestParse(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(table), "es")
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())
}

func TestParse_MalformedLine(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("perro perros\n"), "es")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLemmatizer_Lemmas(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(table), "es")
	require.NoError(t, err)

	tests := []struct {
		word string
		want string
	}{
		{"perros", "perro"},
		{"Perros", "perro"},
		{"casa", "casa"},
		{"es", "ser"},
		{"gatos", "gatos"},
		{"perros calientes", "perro"},
		{"casas-cuna", "casa"},
		{"l'eau", "l'eau"},
		{"", ""},
		{"  ", ""},
	}

	words := make([]string, len(tests))
	for i, tt := range tests {
		words[i] = tt.word
	}
	got, err := l.Lemmas(context.Background(), words)
	require.NoError(t, err)
	require.Len(t, got, len(words))

	for i, tt := range tests {
		assert.Equal(t, tt.want, got[i], "Lemmas(%q)", tt.word)
	}
}

func TestLemmatizer_TurkishCaseFolding(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader("ılık\tILIK\n"), "tr")
	require.NoError(t, err)

	got, err := l.Lemmas(context.Background(), []string{"ILIK"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ılık"}, got)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "es.txt")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))

	l, err := Load(path, "es")
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"), "es")
	assert.Error(t, err)
}

func TestLemmatizer_Cancelled(t *testing.T) {
	t.Parallel()

	l, err := Parse(strings.NewReader(table), "es")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lemmas(ctx, []string{"perros"})
	assert.ErrorIs(t, err, context.Canceled)
}
