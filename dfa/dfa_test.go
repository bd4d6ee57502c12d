package dfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/prediction"
)

func mkState(num int, kind atn.StateKind) *atn.State {
	return &atn.State{Num: num, Kind: kind, DecisionIndex: -1}
}

func TestAddStateInternsByConfigSet(t *testing.T) {
	cache := prediction.NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	d := New(0, 16)

	set1 := prediction.NewConfigSet(prediction.Ordered, false)
	_, err := set1.Add(prediction.NewConfig(s, 1, cache.GetOrCreateSingleton(prediction.Empty, 10)), cache)
	require.NoError(t, err)

	set2 := prediction.NewConfigSet(prediction.Ordered, false)
	_, err = set2.Add(prediction.NewConfig(s, 1, cache.GetOrCreateSingleton(prediction.Empty, 10)), cache)
	require.NoError(t, err)

	st1 := d.AddState(NewState(set1))
	st2 := d.AddState(NewState(set2))
	assert.Same(t, st1, st2, "structurally identical config sets must intern to the same DFAState")
	assert.Equal(t, 1, d.NumStates())

	set3 := prediction.NewConfigSet(prediction.Ordered, false)
	_, err = set3.Add(prediction.NewConfig(s, 1, cache.GetOrCreateSingleton(prediction.Empty, 20)), cache)
	require.NoError(t, err)
	st3 := d.AddState(NewState(set3))
	assert.NotSame(t, st1, st3)
	assert.Equal(t, 2, d.NumStates())
}

func TestAddStateFreezesConfigSet(t *testing.T) {
	cache := prediction.NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	d := New(0, 16)

	set := prediction.NewConfigSet(prediction.Ordered, false)
	_, err := set.Add(prediction.NewConfig(s, 1, prediction.Empty), cache)
	require.NoError(t, err)

	d.AddState(NewState(set))
	assert.True(t, set.IsReadonly())
}

func TestSetS0OnlyWinsOnce(t *testing.T) {
	cache := prediction.NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	d := New(0, 16)

	set1 := prediction.NewConfigSet(prediction.Ordered, false)
	_, _ = set1.Add(prediction.NewConfig(s, 1, prediction.Empty), cache)
	candidate1 := NewState(set1)

	set2 := prediction.NewConfigSet(prediction.Ordered, false)
	_, _ = set2.Add(prediction.NewConfig(s, 2, prediction.Empty), cache)
	candidate2 := NewState(set2)

	winner1 := d.SetS0(candidate1)
	winner2 := d.SetS0(candidate2)
	assert.Same(t, winner1, winner2)
	assert.Same(t, winner1, d.S0())
}

func TestAddEdgeInstallsOnce(t *testing.T) {
	cache := prediction.NewCache(64, 64)
	s := mkState(1, atn.StateBasic)
	d := New(0, 16)

	set1 := prediction.NewConfigSet(prediction.Ordered, false)
	_, _ = set1.Add(prediction.NewConfig(s, 1, prediction.Empty), cache)
	from := d.AddState(NewState(set1))

	set2 := prediction.NewConfigSet(prediction.Ordered, false)
	_, _ = set2.Add(prediction.NewConfig(s, 2, prediction.Empty), cache)
	to1 := d.AddState(NewState(set2))

	set3 := prediction.NewConfigSet(prediction.Ordered, false)
	_, _ = set3.Add(prediction.NewConfig(s, 3, prediction.Empty), cache)
	to2 := d.AddState(NewState(set3))

	winner1 := d.AddEdge(from, 5, to1)
	assert.Same(t, to1, winner1)
	assert.Same(t, to1, from.Edge(EdgeOffset(5)))

	winner2 := d.AddEdge(from, 5, to2)
	assert.Same(t, to1, winner2, "first installed edge wins")
}

func TestEdgeOffsetHandlesEOF(t *testing.T) {
	assert.Equal(t, 0, EdgeOffset(-1))
	assert.Equal(t, 1, EdgeOffset(0))
	assert.Equal(t, 6, EdgeOffset(5))
}
