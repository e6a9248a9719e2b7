package frequency

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/heartmarshall/lumen/internal/domain"
)

// Dir serves frequencies from "{family}.txt" count files in a directory.
// Tables are loaded on first use and cached.
type Dir struct {
	root string
	log  *slog.Logger

	mu     sync.Mutex
	tables map[string]*Table
}

// NewDir creates a Dir rooted at root.
func NewDir(root string, logger *slog.Logger) *Dir {
	return &Dir{
		root:   root,
		log:    logger.With("adapter", "frequency"),
		tables: make(map[string]*Table),
	}
}

// Path returns the count file for family.
func (d *Dir) Path(family string) string {
	return filepath.Join(d.root, family+".txt")
}

// Frequencies implements wordlist.FrequencySource.
func (d *Dir) Frequencies(ctx context.Context, lemmas []string, family string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := d.Table(family)
	if err != nil {
		return nil, err
	}
	return t.lookupAll(lemmas), nil
}

// Table returns the loaded table for family. A missing count file is
// reported as domain.ErrNotFound.
func (d *Dir) Table(family string) (*Table, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.tables[family]; ok {
		return t, nil
	}

	path := d.Path(family)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("frequency table for %s at %s: %w", family, path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("frequency: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseCounts(f, family)
	if err != nil {
		return nil, fmt.Errorf("frequency: %s: %w", path, err)
	}
	d.tables[family] = t
	d.log.Debug("frequency table loaded", slog.String("family", family), slog.Int("words", t.Len()))
	return t, nil
}
