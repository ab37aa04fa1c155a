package fstindex

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

func TestBuild_RoundTrip(t *testing.T) {
	path := writeCorpus(t, []string{
		`["book of job", ["suffering", "patience"]]`,
		`["book of ruth", ["loyalty"]]`,
	})

	idx, cached, err := Build(path, 3, false)
	require.NoError(t, err)
	defer idx.Close()
	assert.False(t, cached)

	got, err := idx.Search("job", 1, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"suffering": "book of job", "patience": "book of job"}, got)

	got, err = idx.Search("ruth", 1, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"loyalty": "book of ruth"}, got)
}

func TestBuild_NoStemMatchIsEmptyNotError(t *testing.T) {
	path := writeCorpus(t, []string{`["book of job", ["suffering"]]`})
	idx, _, err := Build(path, 3, false)
	require.NoError(t, err)
	defer idx.Close()

	got, err := idx.Search("nonexistent", 1, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuild_CachingReusesArtifacts(t *testing.T) {
	path := writeCorpus(t, []string{
		`["book of job", ["suffering", "patience"]]`,
		`["book of ruth", ["loyalty"]]`,
	})

	idx1, cached1, err := Build(path, 3, false)
	require.NoError(t, err)
	assert.False(t, cached1)
	idx1.Close()

	idx2, cached2, err := Build(path, 3, false)
	require.NoError(t, err)
	defer idx2.Close()
	assert.True(t, cached2)

	got, err := idx2.Search("job", 1, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"suffering": "book of job", "patience": "book of job"}, got)
}

func TestBuild_ByteRangeCorrectness(t *testing.T) {
	lines := []string{
		`["book of job", ["suffering", "patience"]]`,
		`["book of ruth", ["loyalty"]]`,
		`["gospel of mark", ["baptism"]]`,
	}
	path := writeCorpus(t, lines)

	idx, _, err := Build(path, 1, false)
	require.NoError(t, err)
	defer idx.Close()

	raw := idx.records.bytes()
	for i := range lines {
		start := idx.lineStarts[i]
		end := idx.lineStarts[i+1]
		slice := string(raw[start:end])
		assert.Equal(t, lines[i]+"\n", slice)
	}
}

func TestBuild_MalformedLineAborts(t *testing.T) {
	path := writeCorpus(t, []string{`["ok", []]`, `garbage`})
	_, _, err := Build(path, 1, false)
	assert.Error(t, err)
}

func TestBuild_MissingFileIsFatal(t *testing.T) {
	_, _, err := Build(filepath.Join(t.TempDir(), "missing.jsonl"), 1, false)
	assert.Error(t, err)
}
