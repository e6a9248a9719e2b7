package wordlist

import "github.com/heartmarshall/lumen/internal/domain"

// Classified is one surviving lemma with its representative record.
type Classified struct {
	Lemma     string
	Frequency float64
	Entry     domain.FinalEntry
}

// Classify deduplicates scored records by lemma and assigns difficulty tiers.
//
// For each lemma the record with the highest frequency is kept; on a tie the
// earliest record in input order wins. Lemmas scoring <= 0 are dropped. The
// result is ordered by each lemma's first appearance in records, and
// Entry.Word is the kept record's surface form.
func Classify(records []domain.ScoredRecord) []Classified {
	index := make(map[string]int)
	best := make([]domain.ScoredRecord, 0)

	for _, r := range records {
		i, ok := index[r.Lemma]
		if !ok {
			index[r.Lemma] = len(best)
			best = append(best, r)
			continue
		}
		if r.Frequency > best[i].Frequency {
			best[i] = r
		}
	}

	out := make([]Classified, 0, len(best))
	for _, r := range best {
		if r.Frequency <= 0 {
			continue
		}
		out = append(out, Classified{
			Lemma:     r.Lemma,
			Frequency: r.Frequency,
			Entry: domain.FinalEntry{
				Word:       r.Word,
				Difficulty: domain.DifficultyFor(r.Frequency),
			},
		})
	}
	return out
}
