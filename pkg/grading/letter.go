package grading

import (
	"strings"
	"unicode/utf8"

	"github.com/rattil/rattil/pkg/arabic"
)

// Confidence weights for the single-letter comparison cascade, ordered from
// certain to weak phonetic guess.
const (
	// letterNameScore is awarded when the recognizer transcribed the
	// letter's full name instead of the bare glyph ("باء" for ب).
	letterNameScore = 0.95

	// containedNameFactor discounts a letter-name match that is only a
	// containment plus high word similarity, not an exact spelling.
	containedNameFactor = 0.9

	// containedNameMin is the word similarity a containment match must
	// exceed before it counts.
	containedNameMin = 0.7

	// bareLetterScore is awarded when the bare target letter appears
	// somewhere inside the spoken text.
	bareLetterScore = 0.8

	// fallbackFactor discounts the best phonetic similarity when no
	// stronger rule fired.
	fallbackFactor = 0.8

	// shortUtteranceScore is the leniency score for very short utterances
	// that literally contain the target character despite scoring poorly
	// against every letter name.
	shortUtteranceScore = 0.6

	// shortUtteranceMaxRunes bounds what counts as a very short utterance.
	shortUtteranceMaxRunes = 3

	// weakMatchCeiling is the best-alternative similarity below which the
	// short-utterance leniency is considered.
	weakMatchCeiling = 0.3
)

// CompareSingleLetter scores how well the spoken text matches a single
// target Arabic letter, returning a similarity in [0,1].
//
// Rules are evaluated in order; the first match wins:
//
//  1. Normalized equality → 1.0.
//  2. Unknown target letter (no lexicon entry) → 0.0.
//  3. Per alternative spelling of the target: exact match → 0.95; mutual
//     containment with word similarity above 0.7 → similarity × 0.9.
//  4. Bare target letter contained in the spoken text → 0.8.
//  5. Phonetic fallback: best word similarity across all alternatives,
//     discounted by 0.8 — unless that best is below 0.3 and a short
//     utterance literally contains the target character, which earns the
//     0.6 leniency score.
func CompareSingleLetter(spoken, targetLetter string) float64 {
	s := arabic.Normalize(spoken)
	target := arabic.Normalize(targetLetter)

	if s == target {
		return 1.0
	}

	alts, ok := arabic.Alternatives(target)
	if !ok {
		// No basis for partial credit against an unknown target.
		return 0.0
	}

	for _, alt := range alts {
		a := arabic.Normalize(alt)
		if a == s {
			return letterNameScore
		}
		if strings.Contains(s, a) || strings.Contains(a, s) {
			if sim := WordSimilarity(s, a); sim > containedNameMin {
				return sim * containedNameFactor
			}
		}
	}

	if strings.Contains(s, target) {
		return bareLetterScore
	}

	return phoneticFallback(s, targetLetter, alts)
}

// phoneticFallback returns the discounted best word similarity between the
// normalized spoken text and the target's alternative spellings. When every
// alternative scores below weakMatchCeiling but a short utterance literally
// contains the target character as written, the leniency score applies
// instead: the recognizer likely emitted the letter wrapped in noise.
func phoneticFallback(spoken, targetLetter string, alts []string) float64 {
	var best float64
	for _, alt := range alts {
		if sim := WordSimilarity(spoken, arabic.Normalize(alt)); sim > best {
			best = sim
		}
	}

	if best < weakMatchCeiling &&
		utf8.RuneCountInString(spoken) <= shortUtteranceMaxRunes &&
		strings.Contains(spoken, targetLetter) {
		return shortUtteranceScore
	}

	return best * fallbackFactor
}
