package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/lumen/internal/domain"
)

// BuildPrompt returns the instruction sent to the model. The reply is
// expected as {"translations": [{"source": ..., "target": ...}]}.
func BuildPrompt(words []string, source, target string) string {
	list, _ := json.Marshal(words)

	var b strings.Builder
	b.WriteString("You are a precise translation engine.\n\n")
	fmt.Fprintf(&b, "Translate each of the following %d words from %s to %s.\n\n", len(words), source, target)
	b.WriteString("Return ONLY valid JSON with this exact structure:\n")
	b.WriteString(`{"translations": [{"source": "<original>", "target": "<translated>"}, ...]}`)
	b.WriteString("\n\nSTRICT RULES:\n")
	b.WriteString("- Use double quotes only\n")
	b.WriteString("- No markdown\n")
	b.WriteString("- No explanations\n")
	b.WriteString("- No trailing commas\n\n")
	b.WriteString("Words:\n")
	b.Write(list)
	return b.String()
}

// response keeps items raw so one malformed item does not discard the rest.
type response struct {
	Translations []json.RawMessage `json:"translations"`
}

var (
	objectSpan      = regexp.MustCompile(`(?s)\{.*\}`)
	trailingObjects = regexp.MustCompile(`,\s*}`)
	trailingArrays  = regexp.MustCompile(`,\s*]`)
)

// ParseResponse extracts source->target translations from a model reply.
// It tries the reply as-is, then the outermost {...} span with single
// quotes turned into double quotes and trailing commas removed. ok is
// false when neither parses; the map is then empty. Items that are not
// {"source": string, "target": string} objects are skipped. Later
// duplicates of a source replace earlier ones.
func ParseResponse(raw string) (translations map[string]string, ok bool) {
	var resp response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		resp, ok = repair(raw)
		if !ok {
			return map[string]string{}, false
		}
	}

	out := make(map[string]string, len(resp.Translations))
	for _, item := range resp.Translations {
		var p Pair
		if err := json.Unmarshal(item, &p); err != nil || p.Source == "" {
			continue
		}
		out[p.Source] = p.Target
	}
	return out, true
}

func repair(raw string) (response, bool) {
	span := objectSpan.FindString(raw)
	if span == "" {
		return response{}, false
	}
	span = strings.ReplaceAll(span, "'", `"`)
	span = trailingObjects.ReplaceAllString(span, "}")
	span = trailingArrays.ReplaceAllString(span, "]")

	var resp response
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return response{}, false
	}
	return resp, true
}

// Realign returns one pair per word in input order. A word's target is
// looked up by exact source, then by its capitalized form; otherwise the
// word stands in for its own translation.
func Realign(words []string, translations map[string]string) Result {
	res := Result{Pairs: make([]Pair, len(words))}
	for i, w := range words {
		target, ok := translations[w]
		if !ok {
			target, ok = translations[domain.Capitalize(w)]
		}
		if !ok {
			target = w
			res.Missing++
		}
		res.Pairs[i] = Pair{Source: w, Target: target}
	}
	return res
}
