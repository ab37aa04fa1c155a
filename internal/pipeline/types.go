// Package pipeline implements the multi-stage query pipeline: it chains the
// stemmed on-disk index, the in-memory index, and the synonym/homophone
// indexes through an ordered list of stages, tracking provenance at every
// hop so a final scored candidate can be traced back to each query term
// that reached it.
//
// Grounded on the teacher's internal/core/reference_tracker.go and
// internal/core/graph_propagator.go (layered, backpointer-based provenance
// over a sequence of discovery steps rather than a persisted graph).
package pipeline

import "github.com/michaelx11/associative-search/internal/types"

// SearchMatch is the back-pointer recorded for one candidate inside one
// AssociationLayer entry: the key in the previous layer that produced this
// candidate (SearchTerm), and the value that key matched against
// (SearchMatch) — usually a record title, sometimes the query term itself.
type SearchMatch struct {
	SearchTerm  string
	SearchMatch string
}

// AssociationLayer maps query_term -> candidate -> SearchMatch. The outer
// key is always one of the original query terms, for every layer, so chain
// reconstruction can always find "the" map for a given term regardless of
// how many hops deep it is.
type AssociationLayer map[string]map[string]SearchMatch

func newAssociationLayer(terms []string) AssociationLayer {
	layer := make(AssociationLayer, len(terms))
	for _, t := range terms {
		layer[t] = make(map[string]SearchMatch)
	}
	return layer
}

func totalEntries(layer AssociationLayer) int {
	total := 0
	for _, inner := range layer {
		total += len(inner)
	}
	return total
}

// NormIndex is the interface both fstindex.Index and memindex.Index satisfy:
// stem/exact lookup of a phrase to every child it reaches, mapped to the
// title of the record that produced it.
type NormIndex interface {
	Search(term string, k int, includeWhole bool) (map[string]string, error)
}

// SynonymLookup is the interface synonym.Index satisfies for both the
// synonym and the homophone collaborator.
type SynonymLookup interface {
	Search(term string) map[string]string
}

// ChainStep is one hop in a reconstructed provenance chain: the stage that
// produced it, the key it matched against in the prior layer, what that key
// matched, and the candidate this step resolved to.
type ChainStep struct {
	Stage       string
	SearchTerm  string
	SearchMatch string
	Candidate   string
}

// Chain is a full provenance path, ordered query-term-first,
// candidate-last (it is reversed from reconstruction order before being
// returned to the caller).
type Chain []ChainStep

// ScoredChains is one emitted candidate: its final score and one Chain per
// query term that reached it. Score is an enrichment beyond the literal
// query_term -> Chain map the source spec describes; ordering already encodes rank, but callers building an HTTP or MCP
// response need the number itself to render or threshold on.
type ScoredChains struct {
	Score  float64
	Chains map[string]Chain
}

// Result is the pipeline's final output, ordered by descending score.
type Result []ScoredChains

// Query describes one pipeline invocation.
type Query struct {
	Terms      []string
	Stages     []types.Stage
	MaxSize    int
	Flavortext string

	// FuzzyFlavortext enables the additive Jaro-Winkler flavortext bonus on
	// top of (never instead of) the exact-stem-overlap bonus. Disabled by
	// default, which reproduces scoring bit-for-bit.
	FuzzyFlavortext bool
}

func (q Query) maxSize() int {
	if q.MaxSize > 0 {
		return q.MaxSize
	}
	return types.DefaultMaxSize
}

// state is the pipeline's internal progress marker (Empty/Built/Aborted/
// Scored). It exists purely to make the state machine's transitions
// explicit in Run rather than inferring them from slice lengths.
type state int

const (
	stateEmpty state = iota
	stateBuilt
	stateAborted
	stateScored
)
