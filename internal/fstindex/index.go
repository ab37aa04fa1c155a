// Package fstindex implements the on-disk stemmed title index: an ordered
// stem->bucket table (the spec's "FST"), a bucket->record-indices sidecar,
// and a memory-mapped raw records file, together resolving a stemmed key to
// every raw record containing it without loading the records into RAM.
//
// Grounded on the teacher's internal/core/postings.go and internal/core/
// trigram.go (token -> postings shape) and internal/core/file_content_store.go
// (mmap'd/offset-addressed content), generalized from "tokens in source
// files" to "stems in title records".
package fstindex

import (
	"path/filepath"
	"sync"

	"github.com/michaelx11/associative-search/internal/record"
	"github.com/michaelx11/associative-search/internal/stemmer"
	"github.com/michaelx11/associative-search/internal/types"
)

// Index is an immutable, shareable handle onto an on-disk stemmed title
// index. Once Build returns, an Index is never mutated; it is safe
// to share across concurrent query goroutines without a lock (spec §5).
type Index struct {
	recordsPath string
	records     *mappedFile
	lineStarts  []int64
	table       *table
	values      [][]types.RecordIndex

	once sync.Once // guards Close idempotence
}

// Paths returns the conventional sidecar paths for a given records file,
// following spec §6: "fst_<record_file>.fst" and
// "accessory_<record_file>.map", created next to the record file.
func Paths(recordsPath string) (tablePath, sidecarPath string) {
	dir := filepath.Dir(recordsPath)
	base := filepath.Base(recordsPath)
	tablePath = filepath.Join(dir, "fst_"+base+".fst")
	sidecarPath = filepath.Join(dir, "accessory_"+base+".map")
	return
}

// Close releases the memory map. Safe to call more than once.
func (idx *Index) Close() error {
	var err error
	idx.once.Do(func() {
		if idx.records != nil {
			err = idx.records.Close()
		}
	})
	return err
}

// recordAt parses the record at line index i using the memory-mapped
// records file and line_starts.
func (idx *Index) recordAt(i types.RecordIndex) (record.Record, error) {
	start := idx.lineStarts[i]
	end := idx.lineStarts[i+1]
	return record.SliceRecord(idx.records.bytes(), start, end)
}

// stemsFor is the shared stem-generation step used by both Build and
// Search, kept here so the two always agree on the stemmer invocation.
func stemsFor(phrase string, k int, includeWhole bool) []string {
	set := stemmer.Generate(phrase, k, includeWhole)
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}
