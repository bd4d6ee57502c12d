package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetClearGet(t *testing.T) {
	b := New(0)
	b.Set(3)
	b.Set(130)
	assert.True(t, b.Get(3))
	assert.True(t, b.Get(130))
	assert.False(t, b.Get(4))

	b.Clear(3)
	assert.False(t, b.Get(3))
}

func TestFlipScenarioFromSpec(t *testing.T) {
	b := New(0)
	b.SetRange(0, 6) // {0,1,2,3,4,5}
	b.Set(100)
	b.FlipRange(3, 200)

	for _, i := range []int{0, 1, 2} {
		assert.True(t, b.Get(i), "expected bit %d set", i)
	}
	assert.False(t, b.Get(3))
	assert.False(t, b.Get(4))
	assert.False(t, b.Get(5))
	assert.True(t, b.Get(6))
	assert.True(t, b.Get(99))
	assert.False(t, b.Get(100))
	assert.True(t, b.Get(101))
	assert.True(t, b.Get(199))
	assert.False(t, b.Get(200))

	assert.Equal(t, 196, b.Cardinality())
}

func TestCardinalityMatchesPopcount(t *testing.T) {
	b := New(0)
	for _, i := range []int{0, 1, 64, 65, 200, 4095} {
		b.Set(i)
	}
	assert.Equal(t, 6, b.Cardinality())
	assert.Equal(t, b.Length()-1, b.PreviousSetBit(1<<30))
}

func TestNextAndPreviousSetBit(t *testing.T) {
	b := Of(2, 5, 64)
	assert.Equal(t, 2, b.NextSetBit(0))
	assert.Equal(t, 5, b.NextSetBit(3))
	assert.Equal(t, 64, b.NextSetBit(6))
	assert.Equal(t, -1, b.NextSetBit(65))

	assert.Equal(t, 64, b.PreviousSetBit(100))
	assert.Equal(t, 5, b.PreviousSetBit(63))
	assert.Equal(t, 2, b.PreviousSetBit(4))
	assert.Equal(t, -1, b.PreviousSetBit(1))
}

func TestPreviousBitMinusOneCarveOut(t *testing.T) {
	b := Of(0, 1)
	assert.Equal(t, -1, b.PreviousSetBit(-1))
	assert.Equal(t, -1, b.PreviousClearBit(-1))
}

func TestNegativeIndexPanics(t *testing.T) {
	b := New(0)
	require.Panics(t, func() { b.Set(-1) })
	require.Panics(t, func() { b.Get(-1) })
	require.Panics(t, func() { b.PreviousSetBit(-2) })
}

func TestAndOrXorAndNot(t *testing.T) {
	a := Of(1, 2, 3)
	c := Of(2, 3, 4)

	and := a.Clone()
	and.And(c)
	assert.True(t, and.Equal(Of(2, 3)))

	or := a.Clone()
	or.Or(c)
	assert.True(t, or.Equal(Of(1, 2, 3, 4)))

	xor := a.Clone()
	xor.Xor(c)
	assert.True(t, xor.Equal(Of(1, 4)))

	andNot := a.Clone()
	andNot.AndNot(c)
	assert.True(t, andNot.Equal(Of(1)))
}

func TestEqualIgnoresCapacity(t *testing.T) {
	a := Of(1)
	b := New(1000)
	b.Set(1)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestString(t *testing.T) {
	b := Of(3, 1, 2)
	assert.Equal(t, "{1, 2, 3}", b.String())
	assert.Equal(t, "{}", New(0).String())
}

func TestIntersects(t *testing.T) {
	a := Of(1, 2)
	b := Of(2, 3)
	c := Of(5)
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}
