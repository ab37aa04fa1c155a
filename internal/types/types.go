// Package types holds the small shared value types used across the index
// and pipeline packages, so that none of them need to import each other just
// to agree on an ID shape.
package types

// RecordIndex is the 0-based line index of a record in a records file.
type RecordIndex uint32

// BucketID identifies a value-bucket in an on-disk FstIndex. Bucket ids are
// assigned in stem-sorted order at build time and are only ever looked up
// through the stem table, never guessed.
type BucketID uint32

// Stage names the closed set of query pipeline stages a Query may request.
type Stage string

const (
	StageWikiAllStem     Stage = "WikiAllStem"
	StageWikiArticleStem Stage = "WikiArticleStem"
	StageWikiArticleExact Stage = "WikiArticleExact"
	StageSynonym         Stage = "Synonym"
	StageHomophone       Stage = "Homophone"
)

// DefaultMaxSize is the working-set guard threshold applied between stages
// when a Query does not specify one explicitly.
const DefaultMaxSize = 100000

// MaxChains is the hard cap on the number of association chains a completed
// pipeline will emit.
const MaxChains = 100
