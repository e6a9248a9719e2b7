package domain

import (
	"slices"
	"strings"
)

// Difficulty is the tier assigned to a vocabulary entry from its frequency score.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	return slices.Contains(AllDifficulties(), d)
}

// AllDifficulties lists the tiers from most to least common words.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty matches s exactly against the known tiers.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.IsValid() {
		names := make([]string, 0, 3)
		for _, t := range AllDifficulties() {
			names = append(names, t.String())
		}
		return "", NewValidationError("difficulty", "must be one of "+strings.Join(names, ", "))
	}
	return d, nil
}

// Tier boundaries on the Zipf scale. Each bin includes its upper edge.
const (
	AdvancedMaxFrequency     = 2.0
	IntermediateMaxFrequency = 4.0
)

// DifficultyFor maps a Zipf frequency score to a tier:
// (-inf, 2.0] advanced, (2.0, 4.0] intermediate, (4.0, +inf) beginner.
func DifficultyFor(frequency float64) Difficulty {
	switch {
	case frequency <= AdvancedMaxFrequency:
		return DifficultyAdvanced
	case frequency <= IntermediateMaxFrequency:
		return DifficultyIntermediate
	default:
		return DifficultyBeginner
	}
}

// RawWordRecord is one token read from a raw word list.
type RawWordRecord struct {
	Word string
}

// LemmatizedRecord pairs a raw word with its dictionary form.
type LemmatizedRecord struct {
	Word  string
	Lemma string
}

// ScoredRecord carries the frequency of the lemma, not of the surface word,
// so every record sharing a lemma has the same score.
type ScoredRecord struct {
	Word      string
	Lemma     string
	Frequency float64
}

// FinalEntry is one classified vocabulary item, one per lemma. Word is the
// highest-frequency surface form seen for that lemma; the lemma itself is
// exported only when the pipeline runs with export_form: lemma.
type FinalEntry struct {
	Word       string
	Difficulty Difficulty
}

// VocabEntry is a FinalEntry as persisted in a language artifact.
type VocabEntry struct {
	Key        string
	Language   string
	Word       string
	Difficulty Difficulty
}
