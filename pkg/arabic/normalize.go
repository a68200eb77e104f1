// Package arabic canonicalizes raw Arabic text for tolerant comparison.
//
// Speech recognizers and human transcriptions disagree on orthographic
// detail far more than on the underlying words: short-vowel diacritics come
// and go, alef appears in four shapes, yaa and alef-maksura are swapped
// freely, and Quranic source text uses single-codepoint ligatures and
// honorific symbols that are never actually recited. [Normalize] folds all
// of that noise into one canonical form so that downstream scoring only sees
// differences that matter.
//
// The canonical form contains nothing but letters from the core Arabic
// Unicode block (U+0600–U+06FF) separated by single spaces. Folding the
// taa-marbuta into taa is phonetically lossy — recitation distinguishes the
// two sounds — but the merge is deliberate: recognizers confuse them
// constantly and penalizing the confusion grades the recognizer, not the
// reciter.
//
// All functions are pure and safe for concurrent use.
package arabic

import "strings"

const (
	// blockFirst and blockLast bound the core Arabic Unicode block. Anything
	// outside this block (other than whitespace) is stripped by Normalize.
	blockFirst = '؀'
	blockLast  = 'ۿ'

	// diacriticFirst and diacriticLast bound the combining-mark sub-range
	// used for short vowels, shadda, and sukun.
	diacriticFirst = 'ً'
	diacriticLast  = 'ْ'

	// tatweel is the kashida elongation character. It carries no sound.
	tatweel = 'ـ'

	// allahLigature is the single-codepoint ﷲ presentation form. It expands
	// to the four-letter spelling before the block filter runs, otherwise the
	// filter would silently delete the word.
	allahLigature = 'ﷲ'

	// sawLigature (ﷺ, peace be upon him) and jallaLigature (ﷻ) are honorific
	// symbols attached to source text. They are not recited words and are
	// deleted entirely.
	sawLigature   = 'ﷺ'
	jallaLigature = 'ﷻ'
)

// Normalize reduces raw Arabic text to its canonical comparison form:
//
//  1. Diacritical marks (U+064B–U+0652) are removed.
//  2. The tatweel elongation character is removed.
//  3. Letter-shape variants are merged: all alef forms (أ إ آ ٱ) become bare
//     alef, alef-maksura (ى) becomes dotted yaa, taa-marbuta (ة) becomes taa.
//  4. The ﷲ ligature expands to الله; honorific symbols are deleted.
//  5. Every remaining character outside the core Arabic block is deleted.
//  6. Whitespace runs collapse to a single space, leading/trailing space is
//     trimmed, and the result is case-folded (a no-op for Arabic script).
//
// The order is load-bearing: ligature expansion must precede the block
// filter, and the shape merges assume diacritics are already gone.
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r >= diacriticFirst && r <= diacriticLast:
			// dropped
		case r == tatweel:
			// dropped
		case r == 'أ' || r == 'إ' || r == 'آ' || r == 'ٱ':
			b.WriteRune('ا')
		case r == 'ى':
			b.WriteRune('ي')
		case r == 'ة':
			b.WriteRune('ت')
		case r == allahLigature:
			b.WriteString("الله")
		case r == sawLigature || r == jallaLigature:
			// honorifics are not recited
		case r >= blockFirst && r <= blockLast:
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' ':
			b.WriteRune(' ')
		default:
			// outside the Arabic block: dropped
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// IsSingleLetter reports whether text normalizes to exactly one character
// inside the core Arabic block. It decides, per reference token, whether
// letter-phonetic scoring or word-level scoring applies.
//
// The length check counts Unicode codepoints, not grapheme clusters. Since
// Normalize expands the only multi-codepoint presentation forms the system
// encounters, the two coincide for all inputs seen in practice.
func IsSingleLetter(text string) bool {
	n := []rune(Normalize(text))
	return len(n) == 1 && n[0] >= blockFirst && n[0] <= blockLast
}
