// Package lookup lemmatizes words with a form-to-lemma table, the format
// published by lemmatization-lists style projects: one "lemma<TAB>form" pair
// per line.
package lookup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lemmatizer maps surface forms to lemmas. Forms missing from the table
// are their own lemma. It is read-only after construction.
type Lemmatizer struct {
	tag   language.Tag
	forms map[string]string
}

// Load reads a lemma table from path. family is the language code used
// for case folding.
func Load(path, family string) (*Lemmatizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lookup: open lemma table: %w", err)
	}
	defer f.Close()

	l, err := Parse(f, family)
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", path, err)
	}
	return l, nil
}

// Parse reads a lemma table from r. Blank lines and lines starting with
// "#" are skipped. When a form appears twice the first lemma wins.
func Parse(r io.Reader, family string) (*Lemmatizer, error) {
	tag, err := language.Parse(family)
	if err != nil {
		tag = language.Und
	}
	l := &Lemmatizer{tag: tag, forms: make(map[string]string)}
	lower := cases.Lower(tag)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lemma, form, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected lemma<TAB>form", lineNo)
		}
		lemma = lower.String(strings.TrimSpace(lemma))
		form = lower.String(strings.TrimSpace(form))
		if lemma == "" || form == "" {
			continue
		}
		if _, dup := l.forms[form]; !dup {
			l.forms[form] = lemma
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return l, nil
}

// Len returns the number of known forms.
func (l *Lemmatizer) Len() int { return len(l.forms) }

// Lemmas implements wordlist.Lemmatizer. Words are split on whitespace and
// punctuation other than apostrophes; only the first sub-token is looked up.
func (l *Lemmatizer) Lemmas(ctx context.Context, words []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := cases.Lower(l.tag)
	out := make([]string, len(words))
	for i, w := range words {
		tokens := strings.FieldsFunc(w, isSeparator)
		if len(tokens) == 0 {
			continue
		}
		tok := lower.String(tokens[0])
		if lemma, ok := l.forms[tok]; ok {
			out[i] = lemma
		} else {
			out[i] = tok
		}
	}
	return out, nil
}

func isSeparator(r rune) bool {
	if r == '\'' || r == '’' {
		return false
	}
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
