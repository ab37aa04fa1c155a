package fstindex

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/michaelx11/associative-search/internal/types"
)

// writeSidecar persists fst_values: one JSON array of record indices per
// line, in bucket-id order (spec §6).
func writeSidecar(path string, values [][]types.RecordIndex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, bucket := range values {
		ints := make([]int, len(bucket))
		for i, idx := range bucket {
			ints[i] = int(idx)
		}
		if err := enc.Encode(ints); err != nil {
			return err
		}
	}
	return w.Flush()
}

// readSidecar loads fst_values from its sidecar file.
func readSidecar(path string) ([][]types.RecordIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out [][]types.RecordIndex
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ints []int
		if err := json.Unmarshal(line, &ints); err != nil {
			return nil, err
		}
		bucket := make([]types.RecordIndex, len(ints))
		for i, v := range ints {
			bucket[i] = types.RecordIndex(v)
		}
		out = append(out, bucket)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
