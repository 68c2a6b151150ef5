package catalog

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	scoreExact     = 100.0
	scorePrefix    = 75.0
	scoreSubstring = 50.0
	scoreFuzzy     = 25.0
	positionBonus  = 10.0

	// fuzzy matching only kicks in for fragments this long
	fuzzyMinLen = 4
	// share of a fragment's letters the word must contain
	fuzzyThreshold = 0.8
)

// Match is an edition ranked against a lookup.
type Match struct {
	Edition Edition `json:"edition"`
	Score   float64 `json:"score"`
}

// Match ranks editions against free text such as "kamigawa" or "rav".
// The code counts as the first word of the name. Every fragment of q must
// hit some word; exact beats prefix beats substring beats fuzzy, and
// earlier words weigh more. Ties go to the newer edition. limit <= 0
// returns every match.
func (c *Catalog) Match(q string, limit int) []Match {
	fragments := words(q)
	if len(fragments) == 0 {
		return nil
	}

	var out []Match
	for _, e := range c.editions {
		targets := append([]string{strings.ToLower(e.Code)}, words(e.Name)...)

		total := 0.0
		for _, f := range fragments {
			best := 0.0
			for pos, w := range targets {
				best = math.Max(best, scoreFragment(f, w, max(pos-1, 0)))
			}
			if best == 0 {
				total = 0
				break
			}
			total += best
		}
		if total > 0 {
			out = append(out, Match{Edition: e, Score: total})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Edition.Released.After(out[b].Edition.Released)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scoreFragment(frag, word string, pos int) float64 {
	bonus := positionBonus * math.Exp(-float64(pos)*0.3)
	switch {
	case frag == word:
		return scoreExact + bonus
	case strings.HasPrefix(word, frag):
		return scorePrefix + bonus
	case strings.Contains(word, frag):
		i := strings.Index(word, frag)
		return scoreSubstring + positionBonus*(1-float64(i)/float64(len(word)))
	}

	if len(frag) < fuzzyMinLen {
		return 0
	}
	hits := 0
	for _, r := range frag {
		if strings.ContainsRune(word, r) {
			hits++
		}
	}
	if sim := float64(hits) / float64(len([]rune(frag))); sim >= fuzzyThreshold {
		return scoreFuzzy * sim
	}
	return 0
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
