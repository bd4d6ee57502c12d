package prediction

import (
	"errors"
	"strings"

	"github.com/nihei9/goantlr-atn/atn"
	"github.com/nihei9/goantlr-atn/bitset"
)

// ErrReadOnly is returned by Add once a ConfigSet has been frozen via
// SetReadonly(true) (spec.md §4.5 step 1). Deliberately a plain sentinel
// rather than a *perr.PredictionError: prediction must not import perr
// (perr's ErrorListener signatures reference this package), so the
// caller that surfaces this to a listener — the simulator — is
// responsible for wrapping it into an IllegalState PredictionError.
var ErrReadOnly = errors.New("prediction: configuration set is read-only")

// Equality parameterizes ConfigSet by the two lookup disciplines spec.md
// §4.4 requires, rather than branching on a mode enum internally
// (spec.md §9 design note).
type Equality struct {
	name  string
	hash  func(*Config) uint64
	equal func(a, b *Config) bool
}

// Lookup equality merges configs whose (state, alt, semanticContext)
// match, used while closure is still discovering a configuration set.
var Lookup = Equality{name: "lookup", hash: lookupHash, equal: lookupEqual}

// Ordered equality additionally requires the context to match,
// establishing uniqueness for DFA-state equivalence.
var Ordered = Equality{name: "ordered", hash: orderedHash, equal: orderedEqual}

// ConfigSet is an ordered multiset of Configs with set semantics under
// its Equality discipline (spec.md §3.6).
type ConfigSet struct {
	Equality Equality
	FullCtx  bool

	configs []*Config
	buckets map[uint64][]*Config

	hasSemanticContext   bool
	dipsIntoOuterContext bool
	uniqueAlt            int
	allConfigsInRuleStop bool
	conflictingAlts      *bitset.BitSet
	readOnly             bool
}

// InvalidAlt mirrors spec.md §3.1's INVALID_ALT sentinel.
const InvalidAlt = 0

// NewConfigSet builds an empty ConfigSet under the given equality
// discipline.
func NewConfigSet(equality Equality, fullCtx bool) *ConfigSet {
	return &ConfigSet{
		Equality:             equality,
		FullCtx:              fullCtx,
		buckets:              map[uint64][]*Config{},
		uniqueAlt:            InvalidAlt,
		allConfigsInRuleStop: true,
	}
}

// Add inserts config, merging it into an existing entry under the set's
// equality discipline (spec.md §4.5). It returns whether a new entry was
// appended (true) or an existing one was merged into (false).
func (s *ConfigSet) Add(config *Config, cache *Cache) (bool, error) {
	if s.readOnly {
		return false, ErrReadOnly
	}

	key := s.Equality.hash(config)
	for _, existing := range s.buckets[key] {
		if s.Equality.equal(existing, config) {
			existing.Context = cache.Merge(existing.Context, config.Context, !s.FullCtx)
			if config.ReachesIntoOuterContext > existing.ReachesIntoOuterContext {
				existing.ReachesIntoOuterContext = config.ReachesIntoOuterContext
			}
			existing.PrecedenceFilterSuppressed = existing.PrecedenceFilterSuppressed || config.PrecedenceFilterSuppressed
			return false, nil
		}
	}

	s.configs = append(s.configs, config)
	s.buckets[key] = append(s.buckets[key], config)

	if config.SemanticContext != NONE {
		s.hasSemanticContext = true
	}
	if config.ReachesIntoOuterContext > 0 {
		s.dipsIntoOuterContext = true
	}
	if config.State.Kind != atn.StateRuleStop {
		s.allConfigsInRuleStop = false
	}
	switch {
	case s.uniqueAlt == InvalidAlt:
		s.uniqueAlt = config.Alt
	case s.uniqueAlt != config.Alt:
		s.uniqueAlt = -1 // marks "more than one alt seen"; UniqueAlt below normalizes to InvalidAlt
	}

	return true, nil
}

// AddAll inserts every config of other.
func (s *ConfigSet) AddAll(other *ConfigSet, cache *Cache) error {
	for _, c := range other.configs {
		if _, err := s.Add(c, cache); err != nil {
			return err
		}
	}
	return nil
}

// Configs returns the configs in insertion order. The returned slice
// must not be mutated.
func (s *ConfigSet) Configs() []*Config {
	return s.configs
}

// Len returns the number of distinct configs under this set's equality.
func (s *ConfigSet) Len() int {
	return len(s.configs)
}

// HasSemanticContext reports whether any config carries a non-NONE
// predicate.
func (s *ConfigSet) HasSemanticContext() bool {
	return s.hasSemanticContext
}

// DipsIntoOuterContext reports whether any config has
// ReachesIntoOuterContext > 0.
func (s *ConfigSet) DipsIntoOuterContext() bool {
	return s.dipsIntoOuterContext
}

// AllConfigsInRuleStopStates reports whether every config is positioned
// at a rule-stop state.
func (s *ConfigSet) AllConfigsInRuleStopStates() bool {
	return len(s.configs) > 0 && s.allConfigsInRuleStop
}

// UniqueAlt returns the single alt shared by every config, or InvalidAlt
// if the set is empty or spans more than one alt.
func (s *ConfigSet) UniqueAlt() int {
	if s.uniqueAlt < 0 {
		return InvalidAlt
	}
	return s.uniqueAlt
}

// SetReadonly freezes the set (spec.md §3.6 "frozen after insertion into
// the DFA cache").
func (s *ConfigSet) SetReadonly(readOnly bool) {
	s.readOnly = readOnly
}

// IsReadonly reports whether SetReadonly(true) has been called.
func (s *ConfigSet) IsReadonly() bool {
	return s.readOnly
}

// SetConflictingAlts records the conflict bitset computed by conflict
// analysis (spec.md §3.6 "conflictingAlts").
func (s *ConfigSet) SetConflictingAlts(alts *bitset.BitSet) {
	s.conflictingAlts = alts
}

// ConflictingAlts returns the previously-recorded conflict bitset, or
// nil if none has been set.
func (s *ConfigSet) ConflictingAlts() *bitset.BitSet {
	return s.conflictingAlts
}

// GetAlts returns the bitset of every alt present in the set.
func (s *ConfigSet) GetAlts() *bitset.BitSet {
	alts := bitset.New(0)
	for _, c := range s.configs {
		alts.Set(c.Alt)
	}
	return alts
}

// GetPredicates returns the distinct non-NONE semantic contexts present,
// in first-seen order.
func (s *ConfigSet) GetPredicates() []SemanticContext {
	var out []SemanticContext
	for _, c := range s.configs {
		if c.SemanticContext == NONE {
			continue
		}
		dup := false
		for _, existing := range out {
			if existing.equalSem(c.SemanticContext) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c.SemanticContext)
		}
	}
	return out
}

// GetStateToAltMap groups the alts reachable at each ATN state.
func (s *ConfigSet) GetStateToAltMap() map[*atn.State]*bitset.BitSet {
	m := map[*atn.State]*bitset.BitSet{}
	for _, c := range s.configs {
		alts, ok := m[c.State]
		if !ok {
			alts = bitset.New(0)
			m[c.State] = alts
		}
		alts.Set(c.Alt)
	}
	return m
}

// GetConflictingAltSubsets projects configs to alternative subsets keyed
// by (state, context) — spec.md §4.6's "altsets".
func (s *ConfigSet) GetConflictingAltSubsets() []*bitset.BitSet {
	type key struct {
		state *atn.State
		ctx   uint64
	}
	m := map[key]*bitset.BitSet{}
	var order []key
	for _, c := range s.configs {
		k := key{state: c.State, ctx: c.Context.Hash()}
		alts, ok := m[k]
		if !ok {
			alts = bitset.New(0)
			m[k] = alts
			order = append(order, k)
		}
		alts.Set(c.Alt)
	}
	out := make([]*bitset.BitSet, 0, len(order))
	for _, k := range order {
		out = append(out, m[k])
	}
	return out
}

// DupConfigsWithoutSemanticPredicates returns a new set (Lookup
// equality, same FullCtx) containing every config with SemanticContext
// reset to NONE — used after a uniquely-resolved predicate.
func (s *ConfigSet) DupConfigsWithoutSemanticPredicates(cache *Cache) (*ConfigSet, error) {
	out := NewConfigSet(Lookup, s.FullCtx)
	for _, c := range s.configs {
		clone := c.Clone()
		clone.SemanticContext = NONE
		if _, err := out.Add(clone, cache); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// OptimizeConfigs drops now-redundant bookkeeping once a set is about to
// be frozen: configs whose context no longer dips outside the decision
// (ReachesIntoOuterContext left as-is; this only recomputes the
// set-level DipsIntoOuterContext flag from the live configs, matching
// what a structural merge pass can change).
func (s *ConfigSet) OptimizeConfigs() {
	s.dipsIntoOuterContext = false
	for _, c := range s.configs {
		if c.ReachesIntoOuterContext > 0 {
			s.dipsIntoOuterContext = true
			break
		}
	}
}

// Hash returns an insertion-order-independent hash over the set's
// configs under its own equality discipline, used to key DFA-state
// interning (spec.md §3.7/§4.8: "a DFA state compares equal by its
// config set").
func (s *ConfigSet) Hash() uint64 {
	var h uint64
	for _, c := range s.configs {
		h ^= s.Equality.hash(c)
	}
	return h ^ uint64(len(s.configs))
}

// Equal reports whether s and other contain the same multiset of
// configs under s's equality discipline, independent of insertion order.
func (s *ConfigSet) Equal(other *ConfigSet) bool {
	if len(s.configs) != len(other.configs) {
		return false
	}
	matched := make([]bool, len(other.configs))
	for _, c := range s.configs {
		found := false
		for j, oc := range other.configs {
			if matched[j] {
				continue
			}
			if s.Equality.equal(c, oc) {
				matched[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *ConfigSet) String() string {
	var parts []string
	for _, c := range s.configs {
		parts = append(parts, c.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
