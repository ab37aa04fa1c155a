package pipeline

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/michaelx11/associative-search/internal/stemmer"
	"github.com/michaelx11/associative-search/internal/types"
)

// scoreAndChain implements spec §4.6 steps 1-6 against the last layer
// produced by the stage loop: intersect by count, discard singletons, score,
// rank, cap at MaxChains, then reconstruct a chain per surviving (candidate,
// query_term) pair.
func scoreAndChain(terms []string, layers []AssociationLayer, stageNames []string, q Query) Result {
	if len(layers) == 0 {
		return Result{}
	}
	last := layers[len(layers)-1]

	// Step 1: intersect by count, walking query terms in their given order
	// and each term's inner map in sorted key order, so that "insertion
	// order" (the tie-break in step 5) is deterministic.
	counts := make(map[string]int)
	var order []string
	seen := make(map[string]bool)
	for _, term := range terms {
		keys := sortedKeys(last[term])
		for _, candidate := range keys {
			counts[candidate]++
			if !seen[candidate] {
				seen[candidate] = true
				order = append(order, candidate)
			}
		}
	}

	// Step 2: discard count <= 1.
	var survivors []string
	for _, candidate := range order {
		if counts[candidate] > 1 {
			survivors = append(survivors, candidate)
		}
	}

	// Step 3+4: base score, flavortext bonus.
	var flavorStems map[string]struct{}
	if q.Flavortext != "" {
		flavorStems = stemmer.Generate(q.Flavortext, 1, false)
	}

	scores := make(map[string]float64, len(survivors))
	for _, candidate := range survivors {
		score := float64(counts[candidate]) * 100.0
		if flavorStems != nil {
			for s := range stemmer.Generate(candidate, 1, false) {
				if _, ok := flavorStems[s]; ok {
					score += 1.0
				}
			}
			if q.FuzzyFlavortext {
				score += fuzzyFlavortextBonus(candidate, q.Flavortext)
			}
		}
		scores[candidate] = score
	}

	// Step 5: sort descending by score, stable so ties keep insertion order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return scores[survivors[i]] > scores[survivors[j]]
	})

	// Step 6: cap at MaxChains.
	if len(survivors) > types.MaxChains {
		survivors = survivors[:types.MaxChains]
	}

	result := make(Result, 0, len(survivors))
	for _, candidate := range survivors {
		chains := make(map[string]Chain)
		for _, term := range terms {
			if _, reached := last[term][candidate]; !reached {
				continue
			}
			chains[term] = buildChain(term, candidate, layers, stageNames)
		}
		result = append(result, ScoredChains{Score: scores[candidate], Chains: chains})
	}
	return result
}

// fuzzyFlavortextBonus is an additive, non-normative extension (spec_full
// §4.6): it adds the Jaro-Winkler similarity (at most 1.0) between the
// candidate string as a whole and the whole flavortext. It is added whether
// or not the candidate also shares an exact stem with the flavortext.
func fuzzyFlavortextBonus(candidate, flavortext string) float64 {
	score, err := edlib.StringsSimilarity(candidate, flavortext, edlib.JaroWinkler)
	if err != nil || score <= 0 {
		return 0
	}
	return float64(score)
}

// buildChain walks backward from candidate through layers, following each
// entry's SearchTerm into the previous layer, until it reaches layer 0
// (whose SearchTerm is always the original query term itself). The
// collected steps are then reversed so the chain reads query-term-first,
// candidate-last.
func buildChain(term, candidate string, layers []AssociationLayer, stageNames []string) Chain {
	steps := make(Chain, 0, len(layers))

	current := candidate
	for i := len(layers) - 1; i >= 0; i-- {
		match, ok := layers[i][term][current]
		if !ok {
			break
		}
		steps = append(steps, ChainStep{
			Stage:       stageNames[i],
			SearchTerm:  match.SearchTerm,
			SearchMatch: match.SearchMatch,
			Candidate:   current,
		})
		current = match.SearchTerm
	}

	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

func sortedKeys(m map[string]SearchMatch) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
