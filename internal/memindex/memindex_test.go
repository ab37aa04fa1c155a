package memindex

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

func TestBuildAndSearch(t *testing.T) {
	path := writeCorpus(t, []string{
		`["book of job", ["suffering", "patience"]]`,
		`["book of ruth", ["loyalty"]]`,
	})

	idx, err := Build(path, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	got, err := idx.Search("job", 1, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"suffering": "book of job", "patience": "book of job"}, got)

	got, err = idx.Search("nope", 1, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ExactWholePhrase(t *testing.T) {
	path := writeCorpus(t, []string{`["story of patience", ["virtue"]]`})
	idx, err := Build(path, 0, true)
	require.NoError(t, err)

	got, err := idx.Search("patience", 0, true)
	require.NoError(t, err)
	assert.Empty(t, got, "k=0 include_whole requires the exact whole phrase to match")

	got, err = idx.Search("story of patience", 0, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"virtue": "story of patience"}, got)
}
