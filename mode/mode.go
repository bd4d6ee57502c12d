// Package mode implements spec.md §4.7's PredictionMode algorithms: pure
// functions over per-config-set alt subsets that decide whether SLL
// prediction can stop, and whether ambiguity must be reported.
package mode

import (
	"github.com/nihei9/goantlr-atn/bitset"
	"github.com/nihei9/goantlr-atn/prediction"
)

// GetAlts unions every alt subset into a single bitset (spec.md §4.7).
func GetAlts(altsets []*bitset.BitSet) *bitset.BitSet {
	out := bitset.New(0)
	for _, s := range altsets {
		out.Or(s)
	}
	return out
}

// GetUniqueAlt returns the single alt shared by every subset in altsets,
// or 0 (InvalidAlt) if the union spans more than one alt.
func GetUniqueAlt(altsets []*bitset.BitSet) int {
	alts := GetAlts(altsets)
	if alts.Cardinality() == 1 {
		return alts.NextSetBit(0)
	}
	return 0
}

// AllSubsetsEqual reports whether every alt subset is identical, meaning
// every configuration in the set agrees on exactly the same candidate
// alts — required before declaring a pure ambiguity rather than a
// conflict (spec.md §4.7).
func AllSubsetsEqual(altsets []*bitset.BitSet) bool {
	if len(altsets) == 0 {
		return true
	}
	first := altsets[0]
	for _, s := range altsets[1:] {
		if !s.Equal(first) {
			return false
		}
	}
	return true
}

// AllSubsetsConflict reports whether every alt subset has more than one
// alt (spec.md §4.7's "every (state,context) group is itself
// ambiguous").
func AllSubsetsConflict(altsets []*bitset.BitSet) bool {
	for _, s := range altsets {
		if s.Cardinality() <= 1 {
			return false
		}
	}
	return len(altsets) > 0
}

// HasNonConflictingAltSet reports whether any single alt subset is a
// singleton, meaning some (state,context) group has already committed to
// one alt (spec.md §4.7).
func HasNonConflictingAltSet(altsets []*bitset.BitSet) bool {
	for _, s := range altsets {
		if s.Cardinality() == 1 {
			return true
		}
	}
	return false
}

// HasConflictingAltSet reports whether any single alt subset itself
// contains more than one alt — the per-(state,context) definition of a
// conflict (spec.md §4.7), as distinct from an ambiguity across the
// whole set.
func HasConflictingAltSet(altsets []*bitset.BitSet) bool {
	for _, s := range altsets {
		if s.Cardinality() > 1 {
			return true
		}
	}
	return false
}

// GetSingleViableAlt takes the minimum bit of each subset; if every
// subset agrees on the same minimum, that alt is viable regardless of
// what else each subset contains, so it is returned. Otherwise the
// subsets don't converge and InvalidAlt (0) is returned (spec.md §4.7).
func GetSingleViableAlt(altsets []*bitset.BitSet) int {
	viableAlt := 0
	for _, s := range altsets {
		minAlt := s.NextSetBit(0)
		if minAlt < 0 {
			continue
		}
		if viableAlt == 0 {
			viableAlt = minAlt
		} else if viableAlt != minAlt {
			return 0
		}
	}
	return viableAlt
}

// ResolvesToJustOneViableAlt returns the single alt the SLL alt subsets
// already converge on without needing full-context prediction, or 0
// (InvalidAlt) if they do not; it is GetSingleViableAlt under this name.
// Supplements the distilled spec by giving this check — folded inline in
// spec.md's worked pseudocode — a first-class name (SPEC_FULL.md §6).
func ResolvesToJustOneViableAlt(altsets []*bitset.BitSet) int {
	return GetSingleViableAlt(altsets)
}

// hasStateAssociatedWithOneAlt reports whether any ATN state reachable in
// configs is associated with exactly one alt, grouping by state alone
// (spec.md §4.6's conflict-analysis formula).
func hasStateAssociatedWithOneAlt(configs *prediction.ConfigSet) bool {
	for _, alts := range configs.GetStateToAltMap() {
		if alts.Cardinality() == 1 {
			return true
		}
	}
	return false
}

// HasSLLConflictTerminatingPrediction is spec.md §4.6's termination
// condition: SLL prediction must stop once a subset conflicts and no
// state alone resolves it to a single alt.
func HasSLLConflictTerminatingPrediction(altsets []*bitset.BitSet, configs *prediction.ConfigSet) bool {
	return HasConflictingAltSet(altsets) && !hasStateAssociatedWithOneAlt(configs)
}
