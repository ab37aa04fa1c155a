package record

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands a glob pattern (relative to root, doublestar syntax —
// "**" matches across directory boundaries) into a sorted list of regular
// record files. It is used when a corpus is split across multiple raw
// record files instead of a single one; build order follows the sorted
// match order so repeated builds are deterministic.
func Discover(root, pattern string) ([]string, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		full := filepath.Join(root, m)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, full)
	}
	sort.Strings(out)
	return out, nil
}
