package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFilesReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Index.K)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DefaultScoringOverlay(), cfg.Scoring)
}

func TestLoad_KDLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	kdlContent := `
corpus {
    root "testdata"
    pattern "**/*.jsonl"
}
index {
    k 2
    include_whole #true
}
server {
    addr ":9090"
}
pipeline {
    max_size 500
}
synonyms "synonyms.txt"
homophones "homophones.txt"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".search.kdl"), []byte(kdlContent), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Index.K)
	assert.True(t, cfg.Index.IncludeWhole)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 500, cfg.Pipeline.MaxSize)
	assert.Equal(t, "synonyms.txt", cfg.SynonymsPath)
	assert.Equal(t, "homophones.txt", cfg.HomophonesPath)
	assert.Equal(t, filepath.Join(dir, "testdata"), cfg.Corpus.Root)
}

func TestLoad_ScoringOverlayAppliesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := "flavortext_bonus = 2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scoring.toml"), []byte(tomlContent), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Scoring.FlavortextBonus)
	assert.Equal(t, DefaultScoringOverlay().SynonymFuzzyMatch, cfg.Scoring.SynonymFuzzyMatch)
}
