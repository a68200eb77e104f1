package grading

import (
	"math"
	"strings"

	"github.com/rattil/rattil/pkg/arabic"
)

// Weights for the phrase-level alignment.
const (
	// containmentBonus is added when one of the compared tokens is a literal
	// substring of the other — recognizers frequently clip or extend word
	// boundaries without changing the word.
	containmentBonus = 0.3

	// rescueThreshold is the per-position similarity below which the aligner
	// searches the rest of the recitation for the reference word.
	rescueThreshold = 0.6

	// rescuePenalty discounts a word found at the wrong position: it was
	// recited, but out of order or shifted by the recognizer.
	rescuePenalty = 0.8

	// lengthRatioMin and lengthRatioMax bound the recited/reference token
	// count ratio considered plausible. Outside the band, lengthPenalty
	// applies — a proxy for dropped or hallucinated words.
	lengthRatioMin = 0.8
	lengthRatioMax = 1.2
	lengthPenalty  = 0.9
)

// TokenScore describes how one reference token was matched during phrase
// alignment. The rows are a byproduct of the scoring pass and never feed
// back into the score.
type TokenScore struct {
	// Reference is the normalized reference token at this position.
	Reference string `json:"reference"`

	// Recited is the recited token the score was taken from. Empty when no
	// recited token contributed at all.
	Recited string `json:"recited,omitempty"`

	// MatchedIndex is the index of the contributing recited token, or -1.
	MatchedIndex int `json:"matched_index"`

	// Similarity is the per-position similarity after all rules applied.
	Similarity float64 `json:"similarity"`

	// Rescued reports whether the score came from positional rescue: the
	// word was found elsewhere in the recitation and penalized for position.
	Rescued bool `json:"rescued,omitempty"`
}

// CompareQuranicArabic scores how faithfully recited reproduces reference,
// returning a similarity in [0,1]. See [CompareDetailed] for the algorithm.
func CompareQuranicArabic(recited, reference string) float64 {
	sim, _ := CompareDetailed(recited, reference)
	return sim
}

// CompareDetailed is [CompareQuranicArabic] plus a per-reference-token
// breakdown of how each position scored.
//
// Both inputs are normalized first. A reference that reduces to a single
// Arabic letter delegates entirely to [CompareSingleLetter]. Otherwise both
// phrases split into word tokens; an empty reference or an empty recitation
// scores 0.0.
//
// Each reference token at position i scores against the recited token at
// the same position: single-letter references use [CompareSingleLetter],
// words use exact equality (1.0) or [WordSimilarity] plus the containment
// bonus, capped at 1.0. A position with no recited counterpart starts at 0.
// When the per-position similarity falls below the rescue threshold, every
// other recited token is tried; if the best of those beats the in-position
// score, it replaces it, discounted by the wrong-position penalty.
//
// The final score is the average per-position similarity, multiplied by the
// length penalty when the recited/reference token-count ratio falls outside
// the plausible band.
func CompareDetailed(recited, reference string) (float64, []TokenScore) {
	r := arabic.Normalize(recited)
	ref := arabic.Normalize(reference)

	if arabic.IsSingleLetter(ref) {
		sim := CompareSingleLetter(r, ref)
		detail := []TokenScore{{Reference: ref, Recited: r, MatchedIndex: 0, Similarity: sim}}
		if r == "" {
			detail[0].MatchedIndex = -1
		}
		return sim, detail
	}

	recTokens := strings.Fields(r)
	refTokens := strings.Fields(ref)
	if len(refTokens) == 0 || len(recTokens) == 0 {
		// Absence of either side is "impossible to satisfy", not a fault.
		return 0.0, nil
	}

	details := make([]TokenScore, 0, len(refTokens))
	var total float64

	for i, refTok := range refTokens {
		ts := TokenScore{Reference: refTok, MatchedIndex: -1}

		var sim float64
		if i < len(recTokens) {
			recTok := recTokens[i]
			ts.Recited = recTok
			ts.MatchedIndex = i

			switch {
			case arabic.IsSingleLetter(refTok):
				sim = CompareSingleLetter(recTok, refTok)
			case recTok == refTok:
				sim = 1.0
			default:
				sim = WordSimilarity(recTok, refTok)
				if strings.Contains(recTok, refTok) || strings.Contains(refTok, recTok) {
					sim = math.Min(1.0, sim+containmentBonus)
				}
			}
		}

		if sim < rescueThreshold {
			if best, j := bestOtherPosition(recTokens, refTok, i); best > sim {
				sim = best * rescuePenalty
				ts.Recited = recTokens[j]
				ts.MatchedIndex = j
				ts.Rescued = true
			}
		}

		ts.Similarity = sim
		details = append(details, ts)
		total += sim
	}

	avg := total / float64(len(refTokens))

	ratio := float64(len(recTokens)) / float64(len(refTokens))
	if ratio < lengthRatioMin || ratio > lengthRatioMax {
		avg *= lengthPenalty
	}

	return avg, details
}

// bestOtherPosition returns the highest word similarity between refTok and
// any recited token other than the one at position skip, and that token's
// index. Taking the maximum first keeps the rescue independent of scan
// order.
func bestOtherPosition(recTokens []string, refTok string, skip int) (float64, int) {
	best, bestIdx := 0.0, -1
	for j, recTok := range recTokens {
		if j == skip {
			continue
		}
		if v := WordSimilarity(recTok, refTok); v > best {
			best, bestIdx = v, j
		}
	}
	return best, bestIdx
}
