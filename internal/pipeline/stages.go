package pipeline

import "github.com/michaelx11/associative-search/internal/types"

// findAssociations is the first-position operation for the two norm-backed
// stages (WikiAllStem, WikiArticleStem): every query term is searched
// against both collaborators directly, and the two result sets are merged
// per term (b overwrites a on key collision).
func findAssociations(terms []string, a, b NormIndex, k int, includeWhole bool) (AssociationLayer, error) {
	layer := newAssociationLayer(terms)
	for _, term := range terms {
		inner := layer[term]

		ra, err := a.Search(term, k, includeWhole)
		if err != nil {
			return nil, err
		}
		for candidate := range ra {
			inner[candidate] = SearchMatch{SearchTerm: term, SearchMatch: term}
		}

		rb, err := b.Search(term, k, includeWhole)
		if err != nil {
			return nil, err
		}
		for candidate := range rb {
			inner[candidate] = SearchMatch{SearchTerm: term, SearchMatch: term}
		}
	}
	return layer, nil
}

// subfindAssociations is the later-position operation shared by
// WikiArticleStem and WikiArticleExact: every candidate surfaced by the
// previous layer becomes the new search key, re-searched against idx.
// SearchTerm on the resulting entry points back to the candidate that
// produced it, so chain reconstruction can walk into the previous layer.
func subfindAssociations(prev AssociationLayer, idx NormIndex, k int, includeWhole bool) (AssociationLayer, error) {
	layer := make(AssociationLayer, len(prev))
	for term, prevInner := range prev {
		inner := make(map[string]SearchMatch)
		for candidate := range prevInner {
			results, err := idx.Search(candidate, k, includeWhole)
			if err != nil {
				return nil, err
			}
			for child, title := range results {
				inner[child] = SearchMatch{SearchTerm: candidate, SearchMatch: title}
			}
		}
		layer[term] = inner
	}
	return layer, nil
}

// findSynonymAssociations is the first-position operation for Synonym and
// Homophone: each query term is expanded directly via syn.Search.
func findSynonymAssociations(terms []string, syn SynonymLookup) AssociationLayer {
	layer := newAssociationLayer(terms)
	for _, term := range terms {
		inner := layer[term]
		for w, matched := range syn.Search(term) {
			inner[w] = SearchMatch{SearchTerm: term, SearchMatch: matched}
		}
	}
	return layer
}

// subfindSynonyms is the later-position operation for Synonym and
// Homophone: every candidate from the previous layer is itself expanded.
func subfindSynonyms(prev AssociationLayer, syn SynonymLookup) AssociationLayer {
	layer := make(AssociationLayer, len(prev))
	for term, prevInner := range prev {
		inner := make(map[string]SearchMatch)
		for candidate := range prevInner {
			for w, matched := range syn.Search(candidate) {
				inner[w] = SearchMatch{SearchTerm: candidate, SearchMatch: matched}
			}
		}
		layer[term] = inner
	}
	return layer
}

// runStage executes one stage of the pipeline. isFirst reports whether this
// is the first stage to successfully produce a layer (state == Empty); prev
// is the most recently produced layer, or nil when isFirst is true. ok is
// false when the stage is illegal in this position and must be skipped
// without error, per spec §4.6's per-stage placement table.
func (p *Pipeline) runStage(stage types.Stage, terms []string, isFirst bool, prev AssociationLayer) (layer AssociationLayer, ok bool, err error) {
	switch stage {
	case types.StageWikiAllStem:
		if !isFirst {
			return nil, false, nil
		}
		layer, err = findAssociations(terms, p.NormIndex, p.TableIndex, 1, false)
		return layer, err == nil, err

	case types.StageWikiArticleStem:
		if isFirst {
			secondary := p.TableIndex
			if p.DuplicateNormAtLayerZero {
				secondary = p.NormIndex
			}
			layer, err = findAssociations(terms, p.NormIndex, secondary, 1, false)
			return layer, err == nil, err
		}
		layer, err = subfindAssociations(prev, p.NormIndex, 0, true)
		return layer, err == nil, err

	case types.StageWikiArticleExact:
		if isFirst {
			return nil, false, nil
		}
		layer, err = subfindAssociations(prev, p.NormIndex, 0, true)
		return layer, err == nil, err

	case types.StageSynonym:
		if isFirst {
			return findSynonymAssociations(terms, p.SynIndex), true, nil
		}
		return subfindSynonyms(prev, p.SynIndex), true, nil

	case types.StageHomophone:
		if isFirst {
			return findSynonymAssociations(terms, p.HomophoneIndex), true, nil
		}
		return subfindSynonyms(prev, p.HomophoneIndex), true, nil

	default:
		// Unknown stage strings are silently ignored, per spec §6.
		return nil, false, nil
	}
}
