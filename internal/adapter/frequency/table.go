// Package frequency provides Zipf-scale word frequencies from count files.
//
// A count file holds one "word count" pair per line, separated by
// whitespace. The Zipf value of a word is log10 of its occurrences per
// billion words: 7 for the most common words, around 1 for rare ones.
package frequency

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table holds Zipf values for one language family.
type Table struct {
	tag  language.Tag
	zipf map[string]float64
}

// ParseCounts builds a Table from a count file. Repeated words have their
// counts summed. Words are case-folded for family.
func ParseCounts(r io.Reader, family string) (*Table, error) {
	tag, err := language.Parse(family)
	if err != nil {
		tag = language.Und
	}
	lower := cases.Lower(tag)

	counts := make(map[string]float64)
	var total float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"word count\", got %d fields", lineNo, len(fields))
		}
		n, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: invalid count %q", lineNo, fields[1])
		}
		counts[lower.String(fields[0])] += n
		total += n
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	t := &Table{tag: tag, zipf: make(map[string]float64, len(counts))}
	if total == 0 {
		return t, nil
	}
	for w, n := range counts {
		if n > 0 {
			t.zipf[w] = Zipf(n, total)
		}
	}
	return t, nil
}

// Zipf converts an occurrence count out of total into the Zipf scale.
func Zipf(count, total float64) float64 {
	if count <= 0 || total <= 0 {
		return 0
	}
	return math.Log10(count / total * 1e9)
}

// Len returns the number of scored words.
func (t *Table) Len() int { return len(t.zipf) }

// Lookup returns the Zipf value of word, or 0 when unknown.
func (t *Table) Lookup(word string) float64 {
	return t.zipf[cases.Lower(t.tag).String(word)]
}

// Each calls fn for every scored word.
func (t *Table) Each(fn func(word string, zipf float64)) {
	for w, z := range t.zipf {
		fn(w, z)
	}
}

func (t *Table) lookupAll(words []string) []float64 {
	lower := cases.Lower(t.tag)
	out := make([]float64, len(words))
	for i, w := range words {
		if w == "" {
			continue
		}
		out[i] = t.zipf[lower.String(w)]
	}
	return out
}
