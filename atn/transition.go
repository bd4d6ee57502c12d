package atn

import "github.com/nihei9/goantlr-atn/interval"

// TransitionKind tags the variants of spec.md §3.3's transition.
type TransitionKind int

const (
	TransitionEpsilon TransitionKind = iota
	TransitionAtom
	TransitionRange
	TransitionSet
	TransitionNotSet
	TransitionWildcard
	TransitionRule
	TransitionPredicate
	TransitionPrecedence
	TransitionAction
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionEpsilon:
		return "epsilon"
	case TransitionAtom:
		return "atom"
	case TransitionRange:
		return "range"
	case TransitionSet:
		return "set"
	case TransitionNotSet:
		return "not-set"
	case TransitionWildcard:
		return "wildcard"
	case TransitionRule:
		return "rule"
	case TransitionPredicate:
		return "predicate"
	case TransitionPrecedence:
		return "precedence"
	case TransitionAction:
		return "action"
	default:
		return "unknown"
	}
}

// Transition is a tagged-union edge of the ATN graph (spec.md §3.3).
// Only the fields relevant to Kind are meaningful; Target and IsEpsilon
// are always valid.
type Transition struct {
	Kind   TransitionKind
	Target *State

	// atom
	Label int
	// range
	RangeLo, RangeHi int
	// set / not-set
	Set *interval.Set

	// rule
	RuleIndex    int
	FollowState  *State
	Precedence   int
	CallRuleStop *State // the invoked rule's stop state, used by closure to recognize rule returns

	// predicate / action
	PredRuleIndex   int
	PredIndex       int
	ActionIndex     int
	IsCtxDependent  bool

	// precedence
	PrecedenceLevel int
}

// IsEpsilon reports whether this transition consumes no input symbol.
func (t *Transition) IsEpsilon() bool {
	switch t.Kind {
	case TransitionEpsilon, TransitionRule, TransitionPredicate, TransitionPrecedence, TransitionAction:
		return true
	default:
		return false
	}
}

// Matches reports whether this transition consumes the given token
// type. Only meaningful for the consuming kinds (atom/range/set/not-set/
// wildcard); epsilon-like kinds never match.
func (t *Transition) Matches(symbol, minVocabSymbol, maxVocabSymbol int) bool {
	switch t.Kind {
	case TransitionAtom:
		return symbol == t.Label
	case TransitionRange:
		return symbol >= t.RangeLo && symbol <= t.RangeHi
	case TransitionSet:
		return t.Set.Contains(symbol)
	case TransitionNotSet:
		if symbol < minVocabSymbol || symbol > maxVocabSymbol {
			return false
		}
		return !t.Set.Contains(symbol)
	case TransitionWildcard:
		return symbol >= minVocabSymbol && symbol <= maxVocabSymbol
	default:
		return false
	}
}

// LabelSet returns the consuming label set of this transition as an
// interval.Set, used for lookahead-set reporting (spec.md §6.3).
func (t *Transition) LabelSet(minVocabSymbol, maxVocabSymbol int) *interval.Set {
	switch t.Kind {
	case TransitionAtom:
		return interval.Of(t.Label)
	case TransitionRange:
		s := interval.New()
		s.AddRange(t.RangeLo, t.RangeHi)
		return s
	case TransitionSet:
		return t.Set
	case TransitionNotSet:
		return t.Set.Complement(maxVocabSymbol + 1)
	case TransitionWildcard:
		s := interval.New()
		s.AddRange(minVocabSymbol, maxVocabSymbol)
		return s
	default:
		return interval.New()
	}
}
