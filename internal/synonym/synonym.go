// Package synonym implements the root-word -> equivalence-class index
// shared, byte-for-byte in algorithm, by both the synonym and the
// homophone indexes (spec §4.5): only the input file differs.
//
// Grounded on the teacher's internal/semantic/translation_loader.go (a
// term -> []string expansion table with a reverse index built once at
// load time).
package synonym

import (
	"bufio"
	"os"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/michaelx11/associative-search/internal/stemmer"
)

// Index maps a root word to the equivalence classes ("lines") it heads.
// Lookup by a non-root word intentionally returns nothing beyond the
// caller-supplied self-mapping: this asymmetry is inherited from the
// source file format, not a bug.
type Index struct {
	classLines [][]string   // one entry per input line, case-folded words
	rootLines  map[string][]int
}

// Build reads path: one equivalence-class line per input line,
// comma-separated, case-folded on ingest. The first word on a line is that
// line's root.
func Build(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx := &Index{rootLines: make(map[string][]int)}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words := strings.Split(line, ",")
		for i, w := range words {
			words[i] = strings.ToLower(strings.TrimSpace(w))
		}
		lineIdx := len(idx.classLines)
		idx.classLines = append(idx.classLines, words)
		root := words[0]
		idx.rootLines[root] = append(idx.rootLines[root], lineIdx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Search resolves term per spec §4.5: seed with the self-mapping, then, if
// term is a known root, expand every class it heads, adding every member
// word w -> term.
func (idx *Index) Search(term string) map[string]string {
	result := map[string]string{term: term}

	lines, ok := idx.rootLines[strings.ToLower(term)]
	if !ok {
		return result
	}
	for _, lineIdx := range lines {
		for _, w := range idx.classLines[lineIdx] {
			result[w] = term
		}
	}
	return result
}

// SearchFuzzy is an additive, non-normative extension (spec_full §4.5): in
// addition to the exact contract above, it treats term as matching a known
// root r if their Porter2 stems agree or their Jaro-Winkler similarity is
// at least threshold. It never replaces Search; spec §8's SynonymIndex
// invariants are verified against Search alone.
func (idx *Index) SearchFuzzy(term string, threshold float64) map[string]string {
	result := idx.Search(term)
	if len(result) > 1 {
		// term was itself a root; exact Search already expanded its class.
		return result
	}

	termStem := stemmer.PorterStem(term)
	for root, lines := range idx.rootLines {
		match := stemmer.PorterStem(root) == termStem
		if !match {
			score, err := edlib.StringsSimilarity(term, root, edlib.JaroWinkler)
			match = err == nil && float64(score) >= threshold
		}
		if !match {
			continue
		}
		for _, lineIdx := range lines {
			for _, w := range idx.classLines[lineIdx] {
				result[w] = term
			}
		}
	}
	return result
}
