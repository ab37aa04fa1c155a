// Package stemmer normalizes phrases into deterministic sets of lookup keys
// ("stems") for the title indexes, and offers a separate Porter2 word-stem
// helper used only by the synonym index's fuzzy expansion.
//
// generate_stems has no third-party equivalent in the reference corpus: it
// is not English-language stemming (that is what PorterStem is for) but a
// punctuation-stripping, case-folding n-gram generator over whole words. It
// is implemented directly against the standard library.
package stemmer

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// Generate returns the deterministic set of stems for phrase at n-gram width
// k, optionally including the whole normalized phrase regardless of width.
//
//   - Strip every rune that is neither a letter/digit nor whitespace.
//   - Case-fold to lower.
//   - Split on runs of whitespace.
//   - Emit every contiguous n-gram of widths 1..min(k, wordCount).
//   - If includeWhole and wordCount > k, also emit the full join.
func Generate(phrase string, k int, includeWhole bool) map[string]struct{} {
	words := canonicalWords(phrase)
	stems := make(map[string]struct{})

	m := len(words)
	if m == 0 {
		return stems
	}

	width := k
	if width > m {
		width = m
	}
	if width < 0 {
		width = 0
	}

	for w := 1; w <= width; w++ {
		for start := 0; start+w <= m; start++ {
			stems[strings.Join(words[start:start+w], " ")] = struct{}{}
		}
	}

	if includeWhole && m > k {
		stems[strings.Join(words, " ")] = struct{}{}
	}

	return stems
}

// canonicalWords applies steps 1-3 of the stem contract (strip, fold, split)
// and returns the resulting word list. Exported indirectly through
// Canonicalize for the idempotence property in the spec's test list.
func canonicalWords(phrase string) []string {
	var b strings.Builder
	b.Grow(len(phrase))
	for _, r := range phrase {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Fields(b.String())
}

// Canonicalize applies steps 1-3 (strip punctuation, case-fold, collapse
// whitespace) without generating n-grams, so callers can verify
// Generate(phrase, k, w) == Generate(Canonicalize(phrase), k, w).
func Canonicalize(phrase string) string {
	return strings.Join(canonicalWords(phrase), " ")
}

// PorterStem returns the Porter2 stem of a single word. It is never used by
// Generate; it exists for the synonym index's optional fuzzy-root matching
// (see internal/synonym), mirroring how the teacher codebase uses porter2
// for a distinct, word-level semantic-equivalence concern.
func PorterStem(word string) string {
	return porter2.Stem(strings.ToLower(word))
}
