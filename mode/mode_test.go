package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/bitset"
	"github.com/nihei9/goantlr-atn/prediction"
)

func TestGetUniqueAltSingleAlt(t *testing.T) {
	altsets := []*bitset.BitSet{bitset.Of(1), bitset.Of(1)}
	assert.Equal(t, 1, GetUniqueAlt(altsets))
	assert.True(t, HasNonConflictingAltSet(altsets))
	assert.False(t, HasConflictingAltSet(altsets))
}

func TestHasNonConflictingAltSetAnySingleton(t *testing.T) {
	// spec.md §4.7: "any singleton subset", not "the union is a single
	// alt" — {1} makes this true even though {2,3} is still in conflict.
	altsets := []*bitset.BitSet{bitset.Of(1), bitset.Of(2, 3)}
	assert.True(t, HasNonConflictingAltSet(altsets))
	assert.Equal(t, 0, GetUniqueAlt(altsets), "the union spans three alts, so no single alt is shared by every subset")
}

func TestAmbiguousIdenticalSubsetsScenario(t *testing.T) {
	// spec.md §8.3: altsets = [{1,2},{1,2}] — a pure ambiguity, not a
	// conflict requiring full-context escalation.
	altsets := []*bitset.BitSet{bitset.Of(1, 2), bitset.Of(1, 2)}

	assert.Equal(t, 0, GetUniqueAlt(altsets))
	assert.True(t, HasConflictingAltSet(altsets))
	assert.True(t, AllSubsetsEqual(altsets))
	assert.True(t, AllSubsetsConflict(altsets))
	assert.Equal(t, 1, GetSingleViableAlt(altsets))
}

func TestConflictingDistinctSubsetsDoNotConverge(t *testing.T) {
	// spec.md §4.7: getSingleViableAlt takes the minimum of each subset
	// and only returns it if every subset agrees; {1,2} and {2,3}
	// disagree (1 vs 2), so this is INVALID_ALT, not the overall minimum.
	altsets := []*bitset.BitSet{bitset.Of(1, 2), bitset.Of(2, 3)}
	assert.False(t, AllSubsetsEqual(altsets))
	assert.True(t, HasConflictingAltSet(altsets))
	assert.Equal(t, 0, GetSingleViableAlt(altsets))
}

func TestGetAltsUnion(t *testing.T) {
	altsets := []*bitset.BitSet{bitset.Of(1, 3), bitset.Of(2)}
	assert.True(t, GetAlts(altsets).Equal(bitset.Of(1, 2, 3)))
}

func TestGetSingleViableAltEmptyReturnsZero(t *testing.T) {
	assert.Equal(t, 0, GetSingleViableAlt(nil))
}

func newState(num int) *atn.State {
	return &atn.State{Num: num, Kind: atn.StateBasic, RuleIndex: 0, DecisionIndex: -1}
}

func TestHasSLLConflictTerminatingPredictionEscalatesOnGenuineConflict(t *testing.T) {
	// Two states, each reached by both alt 1 and alt 2: no state alone
	// resolves the conflict, so SLL must stop and escalate.
	s1, s2 := newState(1), newState(2)
	cache := prediction.NewCache(16, 16)
	configs := prediction.NewConfigSet(prediction.Ordered, false)
	for _, c := range []*prediction.Config{
		prediction.NewConfig(s1, 1, prediction.Empty),
		prediction.NewConfig(s1, 2, prediction.Empty),
		prediction.NewConfig(s2, 1, prediction.Empty),
		prediction.NewConfig(s2, 2, prediction.Empty),
	} {
		_, err := configs.Add(c, cache)
		assert.NoError(t, err)
	}
	altsets := configs.GetConflictingAltSubsets()

	assert.True(t, HasConflictingAltSet(altsets))
	assert.True(t, HasSLLConflictTerminatingPrediction(altsets, configs))
}

func TestHasSLLConflictTerminatingPredictionHoldsWhenOneStateResolves(t *testing.T) {
	// spec.md §4.6: hasStateAssociatedWithOneAlt(configs) — state s1
	// uniquely predicts alt 1 even though s2 still sees both alts, so SLL
	// must not escalate prematurely.
	s1, s2 := newState(1), newState(2)
	cache := prediction.NewCache(16, 16)
	configs := prediction.NewConfigSet(prediction.Ordered, false)
	for _, c := range []*prediction.Config{
		prediction.NewConfig(s1, 1, prediction.Empty),
		prediction.NewConfig(s2, 1, prediction.Empty),
		prediction.NewConfig(s2, 2, prediction.Empty),
	} {
		_, err := configs.Add(c, cache)
		assert.NoError(t, err)
	}
	altsets := configs.GetConflictingAltSubsets()

	assert.True(t, HasConflictingAltSet(altsets))
	assert.False(t, HasSLLConflictTerminatingPrediction(altsets, configs))
}
