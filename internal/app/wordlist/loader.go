package wordlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/lumen/internal/domain"
)

// RawPath returns the location of a language's raw word list:
// {rawDir}/{language}/{language}.txt.
func RawPath(rawDir, language string) string {
	return filepath.Join(rawDir, language, language+".txt")
}

// LoadWords reads a language's raw word list and splits it strictly on
// commas. Boundary ASCII punctuation is stripped from each token; tokens
// that end up empty are dropped. Whitespace is not trimmed.
func LoadWords(ctx context.Context, rawDir, language string) ([]domain.RawWordRecord, error) {
	path := RawPath(rawDir, language)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("raw word list for %s not found at %s: %w", language, path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open raw word list for %s at %s: %w", language, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(readerWithCtx(ctx, f))
	if err != nil {
		return nil, fmt.Errorf("read raw word list for %s at %s: %w", language, path, err)
	}

	return SplitWords(string(data)), nil
}

// SplitWords tokenizes a raw comma-separated blob.
func SplitWords(blob string) []domain.RawWordRecord {
	parts := strings.Split(blob, ",")
	records := make([]domain.RawWordRecord, 0, len(parts))
	for _, p := range parts {
		w := domain.StripPunctuation(p)
		if w == "" {
			continue
		}
		records = append(records, domain.RawWordRecord{Word: w})
	}
	return records
}

// readerWithCtx checks ctx before every Read.
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
