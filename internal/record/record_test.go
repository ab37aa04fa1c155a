package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	rec, err := Parse([]byte(`["book of job", ["suffering", "patience"]]`))
	require.NoError(t, err)
	assert.Equal(t, "book of job", rec.Title)
	assert.Equal(t, []string{"suffering", "patience"}, rec.Children)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestScanFile_ByteRanges(t *testing.T) {
	lines := []string{
		`["book of job", ["suffering", "patience"]]`,
		`["book of ruth", ["loyalty"]]`,
	}
	path := writeCorpus(t, lines)

	var got []Record
	lineStarts, err := ScanFile(path, func(idx int, offset int64, rec Record) error {
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "book of job", got[0].Title)
	assert.Equal(t, "book of ruth", got[1].Title)

	require.Len(t, lineStarts, 3)
	assert.True(t, lineStarts[0] < lineStarts[1])
	assert.True(t, lineStarts[1] < lineStarts[2])

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for i, want := range lines {
		rec, err := SliceRecord(raw, lineStarts[i], lineStarts[i+1])
		require.NoError(t, err)
		encoded, err := Encode(rec)
		require.NoError(t, err)
		reparsed, err := Parse(encoded)
		require.NoError(t, err)
		wantRec, err := Parse([]byte(want))
		require.NoError(t, err)
		assert.Equal(t, wantRec, reparsed)
	}
}

func TestScanFile_MalformedLineAborts(t *testing.T) {
	path := writeCorpus(t, []string{`["ok", []]`, `not json at all`})
	_, err := ScanFile(path, func(idx int, offset int64, rec Record) error { return nil })
	assert.Error(t, err)
}

func TestScanFile_MissingFile(t *testing.T) {
	_, err := ScanFile(filepath.Join(t.TempDir(), "missing.jsonl"), func(int, int64, Record) error { return nil })
	assert.Error(t, err)
}
