// Package grading turns a recited Arabic phrase and a reference phrase into
// a confidence score in [0,1] and a pass/fail grade.
//
// The scoring cascade runs entirely in process and is tolerant to the two
// error classes speech recognition introduces: orthographic noise (handled
// upstream by [github.com/rattil/rattil/pkg/arabic.Normalize]) and
// word-level errors — missing, extra, misplaced, or mis-recognized words.
//
// Three layers build on each other:
//
//   - [WordSimilarity] — Levenshtein distance folded into a [0,1] score.
//   - [CompareSingleLetter] — scores a spoken token against a single target
//     letter, recognizing full letter-name transcriptions ("باء" for ب).
//   - [CompareQuranicArabic] — aligns two full phrases token by token with
//     positional rescue for out-of-order words and a length-ratio penalty.
//
// Rule precedence inside each comparator is a contract, not an
// implementation detail: each rule is reachable only when every rule before
// it failed, and the multipliers encode how much confidence each rule
// deserves. Reordering changes scores.
//
// Every function is pure; the package holds no mutable state and is safe
// for unbounded concurrent use.
package grading

import (
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of unit-cost insertions, deletions, and substitutions that
// transform a into b, computed over runes. The result is symmetric and
// satisfies the triangle inequality.
func Distance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// WordSimilarity folds [Distance] into a similarity in [0,1]:
//
//	1 - Distance(a, b) / max(|a|, |b|)
//
// with lengths counted in runes. Two empty strings are defined as identical
// (similarity 1.0).
func WordSimilarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}
