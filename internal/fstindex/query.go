package fstindex

import "sort"

// Search resolves term to every child it reaches, mapping child -> the
// title of the record that produced it (spec §4.3). Ties across multiple
// contributing records are last-writer-wins, which is deterministic here
// because stems are probed in sorted order and each bucket's record indices
// are sorted ascending.
func (idx *Index) Search(term string, k int, includeWhole bool) (map[string]string, error) {
	stems := stemsFor(term, k, includeWhole)
	sort.Strings(stems)

	result := make(map[string]string)
	for _, stem := range stems {
		bucket, ok := idx.table.lookup(stem)
		if !ok {
			continue
		}
		for _, recIdx := range idx.values[bucket] {
			rec, err := idx.recordAt(recIdx)
			if err != nil {
				return nil, err
			}
			for _, child := range rec.Children {
				result[child] = rec.Title
			}
		}
	}
	return result, nil
}
