// Package dfa implements the per-decision DFA cache of spec.md §3.7 and
// §4.8: edge-table states interned by configuration set, with additive,
// lock-guarded mutation and lock-free reads (spec.md §5).
package dfa

import (
	"fmt"
	"strings"

	"github.com/nihei9/goantlr-atn/prediction"
)

// InvalidAlt mirrors spec.md §3.1; a non-accept DFAState always carries
// this prediction.
const InvalidAlt = 0

// PredicatePrediction pairs a guard with the alt it predicts, used by a
// DFAState that needs runtime predicate evaluation to disambiguate
// (spec.md §3.7 "predicates: list of (pred, alt) pairs").
type PredicatePrediction struct {
	Pred prediction.SemanticContext
	Alt  int
}

// DFAState is one node of a per-decision DFA.
type DFAState struct {
	Num     int
	Configs *prediction.ConfigSet

	// edges maps a token type (offset by -MinTokenType, see EdgeOffset) to
	// the next state. A nil entry means "not yet computed".
	edges []*DFAState

	IsAcceptState       bool
	Prediction          int
	Predicates          []PredicatePrediction
	RequiresFullContext bool
}

func newDFAState(configs *prediction.ConfigSet) *DFAState {
	return &DFAState{Configs: configs, Prediction: InvalidAlt}
}

// NewState builds a candidate DFAState from a configuration set. Callers
// (the simulator) populate IsAcceptState/Prediction/Predicates/
// RequiresFullContext before handing the candidate to DFA.AddState for
// interning; a racing candidate loses to whichever one was installed
// first (spec.md §4.8).
func NewState(configs *prediction.ConfigSet) *DFAState {
	return newDFAState(configs)
}

// Edge returns the target of the edge for token type t (already offset
// by the DFA's minTokenType), or nil if unset. Safe for concurrent
// lock-free reads once installed (spec.md §4.8).
func (s *DFAState) Edge(offset int) *DFAState {
	if offset < 0 || offset >= len(s.edges) {
		return nil
	}
	return s.edges[offset]
}

// setEdge grows the edge table as needed and installs target at offset.
// Callers must hold the owning DFA's mutex.
func (s *DFAState) setEdge(offset int, target *DFAState) {
	if offset < 0 {
		return
	}
	if offset >= len(s.edges) {
		grown := make([]*DFAState, offset+1)
		copy(grown, s.edges)
		s.edges = grown
	}
	s.edges[offset] = target
}

func (s *DFAState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "s%d", s.Num)
	if s.IsAcceptState {
		fmt.Fprintf(&b, "=>accept(%d)", s.Prediction)
	}
	return b.String()
}
