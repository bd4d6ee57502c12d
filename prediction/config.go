package prediction

import (
	"fmt"

	"github.com/nihei9/goantlr-atn/atn"
)

// Config is the triple (state, alt, context) of spec.md §3.5, plus the
// optional semantic context and the bookkeeping fields closure needs.
// State and Alt never change once created; Context may be replaced
// in-place during a Lookup-equality merge (spec.md §4.5).
type Config struct {
	State   *atn.State
	Alt     int
	Context *Context

	SemanticContext SemanticContext

	// ReachesIntoOuterContext counts how many rule-stop pops under full
	// context went past the decision's own starting context (spec.md
	// §4.6 closure rules).
	ReachesIntoOuterContext int

	// PrecedenceFilterSuppressed marks a config whose precedence
	// predicate has already been accounted for, so a later closure pass
	// must not re-filter it (left-recursion precedence climbing).
	PrecedenceFilterSuppressed bool

	// LexerExecutor carries the lexer-action sequence to run if this
	// config's path is accepted by a LexerATNSimulator. nil for parser
	// configs.
	LexerExecutor *LexerActionExecutor
}

// NewConfig builds a Config with SemanticContext defaulted to NONE.
func NewConfig(state *atn.State, alt int, context *Context) *Config {
	return &Config{State: state, Alt: alt, Context: context, SemanticContext: NONE}
}

// Clone returns a shallow copy (Context and SemanticContext are shared,
// not deep-copied: both are immutable once published).
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WithContext returns a shallow copy with Context replaced — used when
// closure pushes a new frame rather than mutating a published config.
func (c *Config) WithContext(ctx *Context) *Config {
	clone := c.Clone()
	clone.Context = ctx
	return clone
}

func (c *Config) String() string {
	s := fmt.Sprintf("(%d,%d", c.State.Num, c.Alt)
	if c.Context != nil && !c.Context.IsEmpty() {
		s += fmt.Sprintf(",%v", c.Context)
	}
	if c.SemanticContext != NONE {
		s += fmt.Sprintf(",%v", c.SemanticContext)
	}
	if c.ReachesIntoOuterContext > 0 {
		s += fmt.Sprintf(",up=%d", c.ReachesIntoOuterContext)
	}
	return s + ")"
}

// lookupHash/orderedHash hash a config consistently with the
// corresponding equality discipline's Equal (spec.md §4.4).

func lookupHash(c *Config) uint64 {
	h := fnvSeed
	h = fnvMix(h, uint64(c.State.Num))
	h = fnvMix(h, uint64(c.Alt))
	h = fnvMix(h, semanticHash(c.SemanticContext))
	return h
}

func orderedHash(c *Config) uint64 {
	h := lookupHash(c)
	if c.Context != nil {
		h = fnvMix(h, c.Context.Hash())
	}
	return h
}

func semanticHash(sc SemanticContext) uint64 {
	h := fnvSeed
	for _, b := range []byte(sc.String()) {
		h = fnvMix(h, uint64(b))
	}
	return h
}

const fnvSeed = uint64(14695981039346656037)

func fnvMix(h, v uint64) uint64 {
	h ^= v
	h *= 1099511628211
	return h
}

// lookupEqual implements the "merging during closure" discipline:
// (state, alt, semanticContext) match; contexts are reconciled by the
// caller via merge.
func lookupEqual(a, b *Config) bool {
	return a.State == b.State && a.Alt == b.Alt && a.SemanticContext.equalSem(b.SemanticContext)
}

// orderedEqual implements the "uniqueness during DFA equivalence"
// discipline: the full tuple, including context, must match.
func orderedEqual(a, b *Config) bool {
	return lookupEqual(a, b) && a.Context.Equal(b.Context)
}
