package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIdenticalSingletonsYieldsInternedIdentity(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 3)
	b := cache.GetOrCreateSingleton(Empty, 3)
	require.True(t, a == b, "equal singletons must intern to the same pointer")

	merged := cache.Merge(a, b, false)
	assert.True(t, merged == a)
}

func TestMergeDifferentReturnStatesYieldsSortedArray(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 4)
	b := cache.GetOrCreateSingleton(Empty, 3)

	merged := cache.Merge(a, b, false)
	require.Equal(t, 2, merged.Size())
	assert.Equal(t, 3, merged.GetReturnState(0))
	assert.Equal(t, 4, merged.GetReturnState(1))
}

func TestMergeIsCommutative(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 4)
	b := cache.GetOrCreateSingleton(Empty, 3)

	ab := cache.Merge(a, b, false)
	ba := cache.Merge(b, a, false)
	assert.True(t, ab == ba)
}

func TestMergeAssociative(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 1)
	b := cache.GetOrCreateSingleton(Empty, 2)
	c := cache.GetOrCreateSingleton(Empty, 3)

	left := cache.Merge(cache.Merge(a, b, false), c, false)
	right := cache.Merge(a, cache.Merge(b, c, false), false)
	assert.True(t, left.Equal(right))
}

func TestWildcardRootAbsorbsEmpty(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 4)

	merged := cache.Merge(a, Empty, true)
	assert.True(t, merged == Empty)
}

func TestNonWildcardEmptyParticipatesAsSentinel(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 4)

	merged := cache.Merge(a, Empty, false)
	require.Equal(t, 2, merged.Size())
	assert.Equal(t, 4, merged.GetReturnState(0))
	assert.Equal(t, EmptyReturnState, merged.GetReturnState(1))
}

func TestMergeSameReturnStateMergesParents(t *testing.T) {
	cache := NewCache(64, 64)
	p1 := cache.GetOrCreateSingleton(Empty, 10)
	p2 := cache.GetOrCreateSingleton(Empty, 20)
	a := cache.GetOrCreateSingleton(p1, 5)
	b := cache.GetOrCreateSingleton(p2, 5)

	merged := cache.Merge(a, b, false)
	require.Equal(t, 5, merged.GetReturnState(0))
	assert.Equal(t, 2, merged.GetParent(0).Size())
}

func TestArrayCollapsesToSingleton(t *testing.T) {
	cache := NewCache(64, 64)
	a := cache.GetOrCreateSingleton(Empty, 5)
	b := cache.GetOrCreateSingleton(Empty, 5)

	merged := cache.Merge(a, b, false)
	assert.True(t, merged == a)
}

func TestNewFromReturnStatesBuildsChainEndingAtEmpty(t *testing.T) {
	cache := NewCache(64, 64)
	ctx := NewFromReturnStates(cache, 1, 2, 3)
	assert.Equal(t, 3, ctx.GetReturnState(0))
	assert.Equal(t, 2, ctx.GetParent(0).GetReturnState(0))
	assert.True(t, ctx.GetParent(0).GetParent(0).GetParent(0).IsEmpty())
}

func TestInterningSharesIdenticalStructuralContexts(t *testing.T) {
	cache := NewCache(64, 64)
	ctxA := NewFromReturnStates(cache, 1, 2, 3)
	ctxB := NewFromReturnStates(cache, 1, 2, 3)
	assert.True(t, ctxA == ctxB)
}
