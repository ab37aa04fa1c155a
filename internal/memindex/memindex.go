// Package memindex implements the in-memory exact/stemmed index used by
// later pipeline stages: records and the stem -> record-index map both live
// entirely in RAM, unlike fstindex's memory-mapped records file.
//
// Grounded on the teacher's internal/core/file_content_store.go (in-RAM
// content store with an index alongside it), generalized from file content
// to title/children records.
package memindex

import (
	"sort"

	"github.com/michaelx11/associative-search/internal/record"
	"github.com/michaelx11/associative-search/internal/stemmer"
	"github.com/michaelx11/associative-search/internal/types"
)

// Index is an immutable, shareable in-memory stem index.
type Index struct {
	records []record.Record
	stems   map[string][]types.RecordIndex
}

// Build loads recordsPath entirely into RAM and stems every title at
// n-gram width k, per spec §4.4.
func Build(recordsPath string, k int, includeWhole bool) (*Index, error) {
	idx := &Index{
		stems: make(map[string][]types.RecordIndex),
	}

	_, err := record.ScanFile(recordsPath, func(i int, _ int64, rec record.Record) error {
		idx.records = append(idx.records, rec)
		for s := range stemmer.Generate(rec.Title, k, includeWhole) {
			idx.stems[s] = append(idx.stems[s], types.RecordIndex(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Search resolves term to every child it reaches, mapped to the title of
// the record that produced it. Last-writer-wins on duplicate children,
// following the same sorted-iteration determinism as fstindex.Search. The
// error return is always nil; it exists so InMemoryIndex and FstIndex share
// one Search signature and can sit behind the same pipeline interface.
func (idx *Index) Search(term string, k int, includeWhole bool) (map[string]string, error) {
	set := stemmer.Generate(term, k, includeWhole)
	stems := make([]string, 0, len(set))
	for s := range set {
		stems = append(stems, s)
	}
	sort.Strings(stems)

	result := make(map[string]string)
	for _, stem := range stems {
		indices, ok := idx.stems[stem]
		if !ok {
			continue
		}
		sorted := append([]types.RecordIndex(nil), indices...)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		for _, i := range sorted {
			rec := idx.records[i]
			for _, child := range rec.Children {
				result[child] = rec.Title
			}
		}
	}
	return result, nil
}

// Len reports the number of records held in RAM.
func (idx *Index) Len() int { return len(idx.records) }
