package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMergesOverlappingAndAdjacent(t *testing.T) {
	s := New()
	s.AddRange(1, 3)
	s.AddRange(5, 7)
	s.Add(4) // bridges the two ranges
	assert.Equal(t, []Interval{{Lo: 1, Hi: 7}}, s.Intervals())
}

func TestAddRangeOutOfOrder(t *testing.T) {
	s := New()
	s.AddRange(10, 2)
	assert.Equal(t, []Interval{{Lo: 2, Hi: 10}}, s.Intervals())
}

func TestContains(t *testing.T) {
	s := Of(1, 2, 3, 10)
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(10))
	assert.False(t, s.Contains(4))
}

func TestRemoveSplits(t *testing.T) {
	s := New()
	s.AddRange(1, 10)
	s.Remove(5)
	assert.Equal(t, []Interval{{Lo: 1, Hi: 4}, {Lo: 6, Hi: 10}}, s.Intervals())
}

func TestAndOr(t *testing.T) {
	a := New()
	a.AddRange(1, 5)
	b := New()
	b.AddRange(3, 8)

	and := a.And(b)
	assert.Equal(t, []Interval{{Lo: 3, Hi: 5}}, and.Intervals())

	or := a.Or(b)
	assert.Equal(t, []Interval{{Lo: 1, Hi: 8}}, or.Intervals())
}

func TestComplement(t *testing.T) {
	s := New()
	s.AddRange(2, 4)
	c := s.Complement(10)
	assert.Equal(t, []Interval{{Lo: 0, Hi: 1}, {Lo: 5, Hi: 9}}, c.Intervals())
}

func TestString(t *testing.T) {
	s := New()
	s.AddRange(1, 1)
	s.AddRange(3, 5)
	assert.Equal(t, "{1, 3..5}", s.String())
	assert.Equal(t, "{}", New().String())
}

func TestEqual(t *testing.T) {
	a := Of(1, 2, 3)
	b := New()
	b.AddRange(1, 3)
	assert.True(t, a.Equal(b))
}
