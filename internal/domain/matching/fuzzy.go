package matching

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// FuzzyMatch scores the similarity of two names in [0, 1] with the default configuration.
func FuzzyMatch(a, b string) float64 {
	return fuzzyMatch(valueobject.DefaultMatchingConfig(), a, b)
}

// fuzzyMatch is a token-overlap heuristic, not an edit distance.
// Either side normalizing to nothing scores 0.
func fuzzyMatch(cfg valueobject.MatchingConfig, a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return cfg.SubstringScore
	}

	wordsA, wordsB := strings.Fields(na), strings.Fields(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shorter, longer := wordsA, wordsB
	if len(wordsB) < len(wordsA) {
		shorter, longer = wordsB, wordsA
	}

	exact, partial := 0, 0
	for _, word := range shorter {
		for _, candidate := range longer {
			if word == candidate {
				exact++
				break
			}
			if isPartialToken(cfg, word, candidate) {
				partial++
				break
			}
		}
	}

	score := (float64(exact) + cfg.PartialTokenWeight*float64(partial)) / float64(len(shorter))
	if exact == len(shorter) {
		score = math.Min(1, score+cfg.AllExactBoost)
	}
	return math.Min(1, score)
}

func isPartialToken(cfg valueobject.MatchingConfig, a, b string) bool {
	if utf8.RuneCountInString(a) < cfg.MinPartialTokenLength || utf8.RuneCountInString(b) < cfg.MinPartialTokenLength {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
