package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/bitset"
)

func bitsetOf(bits ...int) *bitset.BitSet {
	return bitset.Of(bits...)
}

func mkState(num int, kind atn.StateKind) *atn.State {
	return &atn.State{Num: num, Kind: kind, DecisionIndex: -1}
}

func TestConfigSetLookupMergesContexts(t *testing.T) {
	cache := NewCache(64, 64)
	s := mkState(1, atn.StateBasic)

	set := NewConfigSet(Lookup, false)

	c1 := NewConfig(s, 1, cache.GetOrCreateSingleton(Empty, 10))
	added, err := set.Add(c1, cache)
	require.NoError(t, err)
	assert.True(t, added)

	c2 := NewConfig(s, 1, cache.GetOrCreateSingleton(Empty, 20))
	added, err = set.Add(c2, cache)
	require.NoError(t, err)
	assert.False(t, added, "same (state,alt,semCtx) must merge, not append")
	assert.Equal(t, 1, set.Len())

	merged := set.Configs()[0]
	assert.Equal(t, 2, merged.Context.Size())
}

func TestConfigSetOrderedKeepsDistinctContexts(t *testing.T) {
	cache := NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	set := NewConfigSet(Ordered, false)

	c1 := NewConfig(s, 1, cache.GetOrCreateSingleton(Empty, 10))
	c2 := NewConfig(s, 1, cache.GetOrCreateSingleton(Empty, 20))

	added1, err := set.Add(c1, cache)
	require.NoError(t, err)
	added2, err := set.Add(c2, cache)
	require.NoError(t, err)

	assert.True(t, added1)
	assert.True(t, added2)
	assert.Equal(t, 2, set.Len())
}

func TestConfigSetReadonlyRejectsAdd(t *testing.T) {
	cache := NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	set := NewConfigSet(Lookup, false)
	set.SetReadonly(true)

	_, err := set.Add(NewConfig(s, 1, Empty), cache)
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestUniqueAltTracking(t *testing.T) {
	cache := NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	set := NewConfigSet(Ordered, false)

	_, _ = set.Add(NewConfig(s, 1, cache.GetOrCreateSingleton(Empty, 1)), cache)
	assert.Equal(t, 1, set.UniqueAlt())

	_, _ = set.Add(NewConfig(s, 2, cache.GetOrCreateSingleton(Empty, 2)), cache)
	assert.Equal(t, InvalidAlt, set.UniqueAlt())
}

func TestAllConfigsInRuleStopStates(t *testing.T) {
	cache := NewCache(64, 64)
	stop := mkState(1, atn.StateRuleStop)
	set := NewConfigSet(Ordered, false)
	_, _ = set.Add(NewConfig(stop, 1, Empty), cache)
	assert.True(t, set.AllConfigsInRuleStopStates())

	basic := mkState(2, atn.StateBasic)
	_, _ = set.Add(NewConfig(basic, 1, Empty), cache)
	assert.False(t, set.AllConfigsInRuleStopStates())
}

func TestGetConflictingAltSubsetsAndAlts(t *testing.T) {
	cache := NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	set := NewConfigSet(Ordered, false)
	_, _ = set.Add(NewConfig(s, 1, Empty), cache)
	_, _ = set.Add(NewConfig(s, 2, Empty), cache)

	subsets := set.GetConflictingAltSubsets()
	require.Len(t, subsets, 1)
	assert.True(t, subsets[0].Equal(bitsetOf(1, 2)))

	alts := set.GetAlts()
	assert.True(t, alts.Equal(bitsetOf(1, 2)))
}
