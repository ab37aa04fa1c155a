package fstindex

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/michaelx11/associative-search/internal/types"
)

// table is the ordered stem -> bucket-id map the spec calls the FST. No FST
// codec exists anywhere in the reference corpus, so it is a
// sorted parallel-array table with binary-search lookup: functionally what
// the spec requires (an ordered map, byte keys, integer bucket values,
// stems-sorted construction so iteration order is deterministic) without an
// external FST library.
type table struct {
	stems   []string       // strictly sorted, byte-lexicographic
	buckets []types.BucketID // buckets[i] is the bucket id for stems[i]
}

const tableMagic = "ASF1"

// buildTable assigns bucket ids in stem-sorted order to the given
// stem->record-index map, satisfying the build contract in spec §4.2 step 4
// (bucket ids increase monotonically in stem-sorted order).
func buildTable(stemToIndices map[string][]types.RecordIndex) (*table, [][]types.RecordIndex) {
	stems := make([]string, 0, len(stemToIndices))
	for s := range stemToIndices {
		stems = append(stems, s)
	}
	sort.Strings(stems)

	t := &table{
		stems:   stems,
		buckets: make([]types.BucketID, len(stems)),
	}
	values := make([][]types.RecordIndex, len(stems))
	for i, s := range stems {
		t.buckets[i] = types.BucketID(i)
		indices := append([]types.RecordIndex(nil), stemToIndices[s]...)
		sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })
		values[i] = indices
	}
	return t, values
}

// lookup binary-searches for stem, returning its bucket id and whether it
// was found.
func (t *table) lookup(stem string) (types.BucketID, bool) {
	i := sort.SearchStrings(t.stems, stem)
	if i < len(t.stems) && t.stems[i] == stem {
		return t.buckets[i], true
	}
	return 0, false
}

// writeTable persists the sorted stem table to path.
func writeTable(path string, t *table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(tableMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.stems))); err != nil {
		return err
	}
	for i, s := range t.stems {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
			return err
		}
		if _, err := w.WriteString(s); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(t.buckets[i])); err != nil {
			return err
		}
	}
	return w.Flush()
}

// readTable loads a previously persisted stem table.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(tableMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != tableMagic {
		return nil, errBadMagic
	}

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}

	t := &table{
		stems:   make([]string, n),
		buckets: make([]types.BucketID, n),
	}
	for i := uint32(0); i < n; i++ {
		var slen uint32
		if err := binary.Read(r, binary.LittleEndian, &slen); err != nil {
			return nil, err
		}
		buf := make([]byte, slen)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		t.stems[i] = string(buf)

		var bucket uint32
		if err := binary.Read(r, binary.LittleEndian, &bucket); err != nil {
			return nil, err
		}
		t.buckets[i] = types.BucketID(bucket)
	}
	return t, nil
}
