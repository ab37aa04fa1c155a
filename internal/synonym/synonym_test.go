package synonym

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClasses(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSearch_SelfMappingAlwaysPresent(t *testing.T) {
	path := writeClasses(t, []string{"happy,joyful,glad"})
	idx, err := Build(path)
	require.NoError(t, err)

	for _, term := range []string{"happy", "glad", "unrelated"} {
		got := idx.Search(term)
		assert.Equal(t, term, got[term])
	}
}

func TestSearch_RootExpandsWholeClass(t *testing.T) {
	path := writeClasses(t, []string{"happy,joyful,glad"})
	idx, err := Build(path)
	require.NoError(t, err)

	got := idx.Search("happy")
	assert.Equal(t, "happy", got["joyful"])
	assert.Equal(t, "happy", got["glad"])
	assert.Equal(t, "happy", got["happy"])
}

func TestSearch_NonRootIsAsymmetric(t *testing.T) {
	path := writeClasses(t, []string{"happy,joyful,glad"})
	idx, err := Build(path)
	require.NoError(t, err)

	got := idx.Search("glad")
	assert.Equal(t, map[string]string{"glad": "glad"}, got)
}

func TestSearch_RootRecursAcrossMultipleLines(t *testing.T) {
	path := writeClasses(t, []string{
		"happy,joyful",
		"happy,content,cheerful",
	})
	idx, err := Build(path)
	require.NoError(t, err)

	got := idx.Search("happy")
	assert.Equal(t, "happy", got["joyful"])
	assert.Equal(t, "happy", got["content"])
	assert.Equal(t, "happy", got["cheerful"])
}

func TestSearchFuzzy_NearMissRootMatchesByJaroWinkler(t *testing.T) {
	path := writeClasses(t, []string{"authenticate,signin,login"})
	idx, err := Build(path)
	require.NoError(t, err)

	got := idx.SearchFuzzy("authenticat", 0.9) // one character short of the root
	assert.Equal(t, "authenticat", got["login"])
	assert.Equal(t, "authenticat", got["signin"])
}

func TestSearchFuzzy_FallsBackToExactWhenTermIsRoot(t *testing.T) {
	path := writeClasses(t, []string{"happy,joyful,glad"})
	idx, err := Build(path)
	require.NoError(t, err)

	got := idx.SearchFuzzy("happy", 0.99)
	assert.Equal(t, "happy", got["joyful"])
}
