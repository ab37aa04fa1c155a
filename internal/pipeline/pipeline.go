package pipeline

import (
	asserrors "github.com/michaelx11/associative-search/internal/errors"
)

// Pipeline holds the four collaborators a Query is executed against. None
// of them are owned by Pipeline; callers build and swap them independently
// (see internal/watch for hot-swap on corpus change).
type Pipeline struct {
	NormIndex      NormIndex
	TableIndex     NormIndex
	SynIndex       SynonymLookup
	HomophoneIndex SynonymLookup

	// DuplicateNormAtLayerZero resolves an open question left by the source
	// spec: whether WikiArticleStem's first-position lookup searches
	// (norm, norm) or (norm, table). Default true reproduces the spec's
	// literal wording; false is provided for callers who find the
	// duplicate-index behavior surprising. See DESIGN.md.
	DuplicateNormAtLayerZero bool
}

// New builds a Pipeline with DuplicateNormAtLayerZero defaulted to true.
func New(norm, table NormIndex, syn, homophone SynonymLookup) *Pipeline {
	return &Pipeline{
		NormIndex:                norm,
		TableIndex:               table,
		SynIndex:                 syn,
		HomophoneIndex:           homophone,
		DuplicateNormAtLayerZero: true,
	}
}

// Run executes q's stage list in order, per spec §4.6-4.7: illegal stage
// placements are skipped silently, the working-set guard is checked before
// every stage after the first successfully-produced layer, and a guard trip
// aborts the query with a *errors.WorkingSetError rather than a panic or a
// partial result.
func (p *Pipeline) Run(q Query) (Result, error) {
	st := stateEmpty
	var layers []AssociationLayer
	var stageNames []string

	for _, stage := range q.Stages {
		isFirst := st == stateEmpty

		if !isFirst {
			size := totalEntries(layers[len(layers)-1])
			if size > q.maxSize() {
				st = stateAborted
				return nil, asserrors.NewWorkingSetError(string(stage), size, q.maxSize())
			}
		}

		var prev AssociationLayer
		if !isFirst {
			prev = layers[len(layers)-1]
		}

		layer, ok, err := p.runStage(stage, q.Terms, isFirst, prev)
		if err != nil {
			return nil, asserrors.NewQueryError(string(stage), err)
		}
		if !ok {
			continue
		}

		layers = append(layers, layer)
		stageNames = append(stageNames, string(stage))
		st = stateBuilt
	}

	if st == stateEmpty {
		return Result{}, nil
	}

	st = stateScored
	return scoreAndChain(q.Terms, layers, stageNames, q), nil
}
