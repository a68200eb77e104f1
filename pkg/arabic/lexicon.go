package arabic

// letterNames maps each base Arabic letter to the alternative spellings a
// speech recognizer produces when a reciter pronounces the letter in
// isolation: the full Arabic letter name (with common hamza and Persian-yaa
// misspellings), clipped two-letter forms, and Latin transliterations.
//
// The Latin entries document real recognizer output but normalize to the
// empty string (Normalize strips non-Arabic script), so only the Arabic
// entries carry scoring weight.
//
// Alef-maksura (ى) gets its own entry: it folds into yaa under Normalize,
// but callers that look up raw letters still find it.
//
// The table is built once at process start and never mutated.
var letterNames = map[string][]string{
	"ا": {"الف", "ألف", "اليف", "الیف", "alif", "alef"},
	"ب": {"باء", "بآء", "با", "بائ", "baa", "ba"},
	"ت": {"تاء", "تآء", "تا", "تائ", "taa", "ta"},
	"ث": {"ثاء", "ثآء", "ثا", "ثائ", "thaa", "tha"},
	"ج": {"جيم", "جیم", "جم", "jim", "jeem"},
	"ح": {"حاء", "حآء", "حا", "حائ", "haa", "ha"},
	"خ": {"خاء", "خآء", "خا", "خائ", "khaa", "kha"},
	"د": {"دال", "دآل", "دل", "dal", "daal"},
	"ذ": {"ذال", "ذآل", "ذل", "zal", "thaal"},
	"ر": {"راء", "رآء", "را", "رائ", "raa", "ra"},
	"ز": {"زاي", "زای", "زي", "زی", "zay", "zaay"},
	"س": {"سين", "سین", "سن", "seen", "sin"},
	"ش": {"شين", "شین", "شن", "sheen", "shin"},
	"ص": {"صاد", "صآد", "صد", "saad", "sad"},
	"ض": {"ضاد", "ضآد", "ضد", "daad", "dhad"},
	"ط": {"طاء", "طآء", "طا", "طائ", "taa", "ta"},
	"ظ": {"ظاء", "ظآء", "ظا", "ظائ", "zaa", "za"},
	"ع": {"عين", "عین", "عن", "ayn", "ain"},
	"غ": {"غين", "غین", "غن", "ghayn", "ghain"},
	"ف": {"فاء", "فآء", "فا", "فائ", "faa", "fa"},
	"ق": {"قاف", "قآف", "قف", "qaaf", "qaf"},
	"ك": {"كاف", "كآف", "كف", "kaaf", "kaf"},
	"ل": {"لام", "لآم", "لم", "laam", "lam"},
	"م": {"ميم", "میم", "مم", "meem", "mim"},
	"ن": {"نون", "نن", "noon", "nun"},
	"ه": {"هاء", "هآء", "ها", "هائ", "haa", "ha"},
	"و": {"واو", "وآو", "وو", "waaw", "waw"},
	"ي": {"ياء", "یاء", "یآء", "يائ", "یائ", "yaa", "ya"},
	"ى": {"ياء", "یاء", "یآء", "يائ", "یائ", "yaa", "ya"},
}

// Alternatives returns the ordered list of alternative spellings and
// letter-name transliterations for the given base letter, and whether the
// letter is known. The returned slice is shared, read-only data; callers
// must not modify it.
//
// Lookups use the letter as written: pass normalized letters for normalized
// comparisons.
func Alternatives(letter string) ([]string, bool) {
	alts, ok := letterNames[letter]
	return alts, ok
}

// Letters returns the number of base letters in the lexicon. Useful for
// sanity checks; the table itself is not exposed.
func Letters() int {
	return len(letterNames)
}
