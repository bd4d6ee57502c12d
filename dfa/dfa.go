package dfa

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nihei9/goantlr-atn/internal/atnlog"
	"go.uber.org/zap"
)

// MinTokenType is the lowest token type the edge table must address;
// spec.md §6.1 fixes EOF at -1, one below every user token type.
const MinTokenType = -1

// DFA is the per-decision memoized automaton spec.md §3.7 describes.
// Multiple parser instances may share one DFA concurrently (spec.md
// §5): mutation is additive only and guarded by mu; reads of an already
// installed edge (DFAState.Edge) are lock-free, while S0 and S0Full take
// mu.
type DFA struct {
	Decision int

	mu           sync.Mutex
	states       *lru.Cache[uint64, []*DFAState]
	nextStateNum int

	s0     *DFAState // SLL start state
	s0Full *DFAState // LL (full-context) start state
}

// New builds an empty DFA for the given decision, with state-interning
// backed by a bounded LRU (github.com/hashicorp/golang-lru/v2, the same
// library prediction.Cache uses for context interning).
func New(decision, internSize int) *DFA {
	states, err := lru.New[uint64, []*DFAState](internSize)
	if err != nil {
		panic(err)
	}
	return &DFA{Decision: decision, states: states}
}

// EdgeOffset converts a token type into the DFAState edge-array index,
// eliminating hashing on the hot path (spec.md §4.8).
func EdgeOffset(tokenType int) int {
	return tokenType - MinTokenType
}

// S0 returns the SLL start state, or nil if not yet computed.
func (d *DFA) S0() *DFAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s0
}

// SetS0 installs the SLL start state if one isn't already present,
// returning the winner (a racing caller's computed state is discarded,
// spec.md §4.8 "a state's existing entry wins").
func (d *DFA) SetS0(candidate *DFAState) *DFAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.s0 != nil {
		return d.s0
	}
	d.s0 = d.internLocked(candidate)
	return d.s0
}

// S0Full returns the LL start state, or nil if not yet computed.
func (d *DFA) S0Full() *DFAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s0Full
}

// SetS0Full installs the LL start state the same way SetS0 does.
func (d *DFA) SetS0Full(candidate *DFAState) *DFAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.s0Full != nil {
		return d.s0Full
	}
	d.s0Full = d.internLocked(candidate)
	return d.s0Full
}

// AddState interns candidate by its configuration set and returns the
// canonical pointer, which may be a different, earlier-installed state
// with a structurally equal config set.
func (d *DFA) AddState(candidate *DFAState) *DFAState {
	candidate.Configs.SetReadonly(true)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.internLocked(candidate)
}

// internLocked must be called with mu held.
func (d *DFA) internLocked(candidate *DFAState) *DFAState {
	key := candidate.Configs.Hash()
	if bucket, ok := d.states.Get(key); ok {
		for _, existing := range bucket {
			if existing.Configs.Equal(candidate.Configs) {
				return existing
			}
		}
		candidate.Num = d.nextStateNum
		d.nextStateNum++
		d.states.Add(key, append(bucket, candidate))
		atnlog.L().Debug("[dfa] new state interned", zap.Int("decision", d.Decision), zap.Int("state", candidate.Num))
		return candidate
	}
	candidate.Num = d.nextStateNum
	d.nextStateNum++
	d.states.Add(key, []*DFAState{candidate})
	atnlog.L().Debug("[dfa] new state interned", zap.Int("decision", d.Decision), zap.Int("state", candidate.Num))
	return candidate
}

// AddEdge installs from.edges[EdgeOffset(tokenType)] = to under the
// DFA's lock. If an edge already exists (installed by a racing goroutine
// sharing this DFA), the existing target wins.
func (d *DFA) AddEdge(from *DFAState, tokenType int, to *DFAState) *DFAState {
	d.mu.Lock()
	defer d.mu.Unlock()
	offset := EdgeOffset(tokenType)
	if existing := from.Edge(offset); existing != nil {
		return existing
	}
	from.setEdge(offset, to)
	atnlog.L().Debug("[dfa] edge installed",
		zap.Int("decision", d.Decision),
		zap.Int("from", from.Num),
		zap.Int("token", tokenType),
		zap.Int("to", to.Num),
	)
	return to
}

// NumStates returns the number of interned states, for diagnostics.
func (d *DFA) NumStates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nextStateNum
}
