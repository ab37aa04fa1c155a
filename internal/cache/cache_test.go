package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/michaelx11/associative-search/internal/pipeline"
	"github.com/michaelx11/associative-search/internal/types"
)

func TestKey_SameShapeHashesEqual(t *testing.T) {
	a := pipeline.Query{Terms: []string{"job", "ruth"}, Stages: []types.Stage{types.StageWikiAllStem}}
	b := pipeline.Query{Terms: []string{"job", "ruth"}, Stages: []types.Stage{types.StageWikiAllStem}}
	assert.Equal(t, Key(a), Key(b))
}

func TestKey_FlavortextChangesHash(t *testing.T) {
	a := pipeline.Query{Terms: []string{"job"}, Stages: []types.Stage{types.StageWikiAllStem}}
	b := a
	b.Flavortext = "patience"
	assert.NotEqual(t, Key(a), Key(b))
}

func TestCache_GetMissThenHit(t *testing.T) {
	c := New(4)
	key := Key(pipeline.Query{Terms: []string{"job"}})

	_, ok := c.Get(key)
	assert.False(t, ok)

	want := pipeline.Result{{Score: 200}}
	c.Put(key, want)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	hits, misses, _ := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	k1, k2, k3 := uint64(1), uint64(2), uint64(3)

	c.Put(k1, pipeline.Result{})
	c.Put(k2, pipeline.Result{})
	c.Put(k3, pipeline.Result{}) // evicts k1, the least recently touched

	_, ok := c.Get(k1)
	assert.False(t, ok)
	_, ok = c.Get(k2)
	assert.True(t, ok)
	_, ok = c.Get(k3)
	assert.True(t, ok)
}

func TestCache_ClearResetsStatsAndEntries(t *testing.T) {
	c := New(4)
	key := Key(pipeline.Query{Terms: []string{"job"}})
	c.Put(key, pipeline.Result{})
	c.Get(key)

	c.Clear()

	_, ok := c.Get(key)
	assert.False(t, ok)
	hits, misses, _ := c.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
}
