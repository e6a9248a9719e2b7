package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiPunctuation is the set stripped from raw word boundaries.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// StripPunctuation removes ASCII punctuation from both ends of s.
// Interior punctuation and whitespace are left untouched.
func StripPunctuation(s string) string {
	return strings.Trim(s, asciiPunctuation)
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
// Casers are not safe for concurrent use, so each call builds its own.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// LanguageFamily derives the frequency-table code from a model identifier
// by keeping the part before the first "_" or "-", lower-cased.
// "es_core_news_sm" yields "es", "zh-Hans_lookup" yields "zh".
func LanguageFamily(modelID string) string {
	if i := strings.IndexAny(modelID, "_-"); i >= 0 {
		modelID = modelID[:i]
	}
	return strings.ToLower(strings.TrimSpace(modelID))
}
