// Package prediction implements the prediction-context DAG, ATN
// configurations, configuration sets, and semantic contexts of
// spec.md §3.4-§3.7 and §4.2, §4.4-§4.5.
package prediction

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// EmptyReturnState is the sentinel return-state value representing "$",
// the bottom of the call stack. It always sorts last among an Array
// context's return states (spec.md §3.4).
const EmptyReturnState = math.MaxInt32

// ctxKind tags the three PredictionContext variants (spec.md §3.4).
type ctxKind int

const (
	ctxEmpty ctxKind = iota
	ctxSingleton
	ctxArray
)

// Context is a node of the prediction-context DAG: a call-stack
// representation shared across configurations. Contexts are created
// during closure, merged monotonically, and never mutated after
// publication through a Cache.
type Context struct {
	kind ctxKind

	// singleton
	parent      *Context
	returnState int

	// array: sorted by returnState ascending, EmptyReturnState last.
	parents      []*Context
	returnStates []int

	hash uint64
}

// Empty is the process-wide singleton representing "$": no known caller,
// or the bottom of the stack in full-context mode.
var Empty = &Context{kind: ctxEmpty, hash: emptyHash()}

func emptyHash() uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte{0})
	return h.Sum64()
}

// IsEmpty reports whether ctx is the Empty sentinel.
func (c *Context) IsEmpty() bool {
	return c.kind == ctxEmpty
}

// Size returns the number of parent entries (0 for Empty, 1 for
// Singleton, len(parents) for Array).
func (c *Context) Size() int {
	switch c.kind {
	case ctxEmpty:
		return 0
	case ctxSingleton:
		return 1
	default:
		return len(c.parents)
	}
}

// GetParent returns the i-th parent context.
func (c *Context) GetParent(i int) *Context {
	switch c.kind {
	case ctxSingleton:
		return c.parent
	case ctxArray:
		return c.parents[i]
	default:
		panic("prediction: Empty context has no parent")
	}
}

// GetReturnState returns the i-th return state.
func (c *Context) GetReturnState(i int) int {
	switch c.kind {
	case ctxSingleton:
		return c.returnState
	case ctxArray:
		return c.returnStates[i]
	default:
		panic("prediction: Empty context has no return state")
	}
}

// hasEmpty reports whether this context includes the Empty return state
// among its alternatives (only possible for an Array built under
// non-wildcard merging).
func (c *Context) hasEmpty() bool {
	if c.kind != ctxArray {
		return false
	}
	return len(c.returnStates) > 0 && c.returnStates[len(c.returnStates)-1] == EmptyReturnState
}

// newSingleton builds a (possibly uninterned) Singleton context.
func newSingleton(parent *Context, returnState int) *Context {
	if parent == nil {
		parent = Empty
	}
	c := &Context{kind: ctxSingleton, parent: parent, returnState: returnState}
	c.hash = hashSingleton(parent, returnState)
	return c
}

func hashSingleton(parent *Context, returnState int) uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte{1})
	writeUint64(h, parent.hash)
	writeUint64(h, uint64(returnState))
	return h.Sum64()
}

func writeUint64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

// newArray builds a (possibly uninterned) Array context from sorted,
// deduplicated parallel slices. A size-1 result must be canonicalized
// to a Singleton by the caller (spec.md §3.4 invariant).
func newArray(parents []*Context, returnStates []int) *Context {
	c := &Context{kind: ctxArray, parents: parents, returnStates: returnStates}
	h := xxhash.New()
	_, _ = h.Write([]byte{2})
	for i := range parents {
		writeUint64(h, parents[i].hash)
		writeUint64(h, uint64(returnStates[i]))
	}
	c.hash = h.Sum64()
	return c
}

// canonicalize collapses a freshly-built Array of size 1 down to a
// Singleton, per spec.md §3.4.
func canonicalize(c *Context) *Context {
	if c.kind == ctxArray && len(c.parents) == 1 {
		return newSingleton(c.parents[0], c.returnStates[0])
	}
	return c
}

// Hash returns a hash consistent with Equal.
func (c *Context) Hash() uint64 {
	return c.hash
}

// Equal reports deep structural equality. Interned contexts compare
// equal iff they are the same pointer; this method is also used by the
// interning cache itself to detect a structural duplicate before
// publishing a new pointer.
func (c *Context) Equal(other *Context) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil || c.kind != other.kind {
		return false
	}
	switch c.kind {
	case ctxEmpty:
		return true
	case ctxSingleton:
		return c.returnState == other.returnState && c.parent.Equal(other.parent)
	default:
		if len(c.returnStates) != len(other.returnStates) {
			return false
		}
		for i := range c.returnStates {
			if c.returnStates[i] != other.returnStates[i] {
				return false
			}
			if !c.parents[i].Equal(other.parents[i]) {
				return false
			}
		}
		return true
	}
}

// String renders a compact debugging form.
func (c *Context) String() string {
	switch c.kind {
	case ctxEmpty:
		return "$"
	case ctxSingleton:
		return fmt.Sprintf("[%v %v]", c.returnState, c.parent)
	default:
		var parts []string
		for i := range c.returnStates {
			rs := fmt.Sprintf("%v", c.returnStates[i])
			if c.returnStates[i] == EmptyReturnState {
				rs = "$"
			}
			parts = append(parts, fmt.Sprintf("%v %v", rs, c.parents[i]))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// NewFromReturnStates builds a Singleton/Array chain from an explicit
// call-stack of return states ordered outermost-caller-first, ending at
// Empty — the Go-idiomatic stand-in for spec.md §4.2's
// fromRuleContext(atn, ruleCtx): this repository has no generated
// RuleContext type (parse-tree/rule-invocation classes are out of
// scope), so callers supply the return-state stack directly. The last
// return state ends up at the top of the chain, the first one just above
// Empty.
func NewFromReturnStates(cache *Cache, returnStates ...int) *Context {
	ctx := Empty
	for _, rs := range returnStates {
		ctx = cache.GetOrCreateSingleton(ctx, rs)
	}
	return ctx
}

// mergeKey is the memoization key for Merge, valid only because Contexts
// are interned: structurally-equal contexts share one pointer, so
// pointer identity is a sound map key.
type mergeKey struct {
	a, b          *Context
	rootIsWildcard bool
}

// Cache is the explicitly-owned PredictionContextCache handle spec.md §9
// calls for: a bounded LRU backing both the structural interning table
// and the merge memoization table, safe for concurrent use by multiple
// parser instances sharing one DFA (spec.md §5).
type Cache struct {
	intern *lru.Cache[uint64, []*Context]
	merges *lru.Cache[mergeKey, *Context]
}

// NewCache builds a Cache with the given LRU capacities for the
// interning table and the merge-memoization table respectively.
func NewCache(internSize, mergeSize int) *Cache {
	intern, err := lru.New[uint64, []*Context](internSize)
	if err != nil {
		panic(err) // only returns an error for a non-positive size, a programmer error
	}
	merges, err := lru.New[mergeKey, *Context](mergeSize)
	if err != nil {
		panic(err)
	}
	return &Cache{intern: intern, merges: merges}
}

// internCtx returns the canonical pointer for a structurally-equal context,
// publishing c as canonical if none existed yet.
func (pc *Cache) internCtx(c *Context) *Context {
	if c.kind == ctxEmpty {
		return Empty
	}
	if bucket, ok := pc.intern.Get(c.hash); ok {
		for _, existing := range bucket {
			if existing.Equal(c) {
				return existing
			}
		}
		pc.intern.Add(c.hash, append(bucket, c))
		return c
	}
	pc.intern.Add(c.hash, []*Context{c})
	return c
}

// GetOrCreateSingleton returns the interned Singleton(parent, returnState).
func (pc *Cache) GetOrCreateSingleton(parent *Context, returnState int) *Context {
	return pc.internCtx(newSingleton(parent, returnState))
}

// Merge computes a new context representing a ∪ b as call-stack sets
// (spec.md §4.2). rootIsWildcard selects SLL merge semantics (true:
// EMPTY absorbs everything) versus LL semantics (false: EMPTY
// participates as a distinguished, last-sorted return state).
func (pc *Cache) Merge(a, b *Context, rootIsWildcard bool) *Context {
	if a == b {
		return a
	}

	key := mergeKey{a: a, b: b, rootIsWildcard: rootIsWildcard}
	if cached, ok := pc.merges.Get(key); ok {
		return cached
	}
	// Merge is commutative; memoize under a canonical key order so
	// merge(a,b) and merge(b,a) share one cache entry and one result
	// pointer.
	swapKey := mergeKey{a: b, b: a, rootIsWildcard: rootIsWildcard}
	if cached, ok := pc.merges.Get(swapKey); ok {
		pc.merges.Add(key, cached)
		return cached
	}

	result := pc.mergeUncached(a, b, rootIsWildcard)
	pc.merges.Add(key, result)
	pc.merges.Add(swapKey, result)
	return result
}

func (pc *Cache) mergeUncached(a, b *Context, rootIsWildcard bool) *Context {
	if a.kind != ctxArray && b.kind != ctxArray {
		return pc.mergeRoots(a, b, rootIsWildcard)
	}
	if a.kind == ctxEmpty || b.kind == ctxEmpty {
		// Empty against an Array: absorbed under wildcard semantics,
		// otherwise added as the last-sorted EmptyReturnState entry.
		if rootIsWildcard {
			return Empty
		}
		arr := a
		if a.kind == ctxEmpty {
			arr = b
		}
		if arr.hasEmpty() {
			return arr
		}
		return pc.asArray(arr).mergeWithEmptyRoot(pc)
	}
	return pc.mergeArrays(pc.asArray(a), pc.asArray(b), rootIsWildcard)
}

// mergeRoots handles Empty/Singleton combinations (spec.md §4.2 rules
// 1-3).
func (pc *Cache) mergeRoots(a, b *Context, rootIsWildcard bool) *Context {
	if rootIsWildcard {
		if a.kind == ctxEmpty || b.kind == ctxEmpty {
			return Empty
		}
	}
	if a.kind == ctxEmpty && b.kind == ctxEmpty {
		return Empty
	}
	if a.kind == ctxEmpty || b.kind == ctxEmpty {
		// Non-wildcard: EMPTY participates as a distinguished
		// returnState that sorts last.
		other := a
		if a.kind == ctxEmpty {
			other = b
		}
		return pc.asArray(other).mergeWithEmptyRoot(pc)
	}

	// Two singletons.
	if a.returnState == b.returnState {
		mergedParent := pc.Merge(a.parent, b.parent, rootIsWildcard)
		if mergedParent == a.parent {
			return a
		}
		if mergedParent == b.parent {
			return b
		}
		return pc.internCtx(newSingleton(mergedParent, a.returnState))
	}

	// Different returnStates: both survive side by side, sorted.
	var parents []*Context
	var returnStates []int
	if a.returnState < b.returnState {
		parents = []*Context{a.parent, b.parent}
		returnStates = []int{a.returnState, b.returnState}
	} else {
		parents = []*Context{b.parent, a.parent}
		returnStates = []int{b.returnState, a.returnState}
	}
	return pc.internCtx(canonicalize(newArray(parents, returnStates)))
}

// asArray views any context uniformly as an Array for the general merge
// algorithm (an Empty/Singleton is treated as a one- or zero-element
// Array).
func (pc *Cache) asArray(c *Context) arrayView {
	switch c.kind {
	case ctxEmpty:
		return arrayView{}
	case ctxSingleton:
		return arrayView{parents: []*Context{c.parent}, returnStates: []int{c.returnState}}
	default:
		return arrayView{parents: c.parents, returnStates: c.returnStates}
	}
}

type arrayView struct {
	parents      []*Context
	returnStates []int
}

// mergeWithEmptyRoot merges an Array-shaped context with a bare Empty
// root under non-wildcard semantics: Empty becomes an extra entry with
// the EmptyReturnState sentinel, sorted last.
func (v arrayView) mergeWithEmptyRoot(pc *Cache) *Context {
	parents := append(append([]*Context{}, v.parents...), Empty)
	returnStates := append(append([]int{}, v.returnStates...), EmptyReturnState)
	return pc.internCtx(canonicalize(newArray(parents, returnStates)))
}

// mergeArrays runs the general sorted merge-by-returnState algorithm
// (spec.md §4.2 rule 4).
func (pc *Cache) mergeArrays(a, b arrayView, rootIsWildcard bool) *Context {
	var parents []*Context
	var returnStates []int

	i, j := 0, 0
	for i < len(a.returnStates) && j < len(b.returnStates) {
		ar, br := a.returnStates[i], b.returnStates[j]
		switch {
		case ar == br:
			parents = append(parents, pc.Merge(a.parents[i], b.parents[j], rootIsWildcard))
			returnStates = append(returnStates, ar)
			i++
			j++
		case ar < br:
			parents = append(parents, a.parents[i])
			returnStates = append(returnStates, ar)
			i++
		default:
			parents = append(parents, b.parents[j])
			returnStates = append(returnStates, br)
			j++
		}
	}
	for ; i < len(a.returnStates); i++ {
		parents = append(parents, a.parents[i])
		returnStates = append(returnStates, a.returnStates[i])
	}
	for ; j < len(b.returnStates); j++ {
		parents = append(parents, b.parents[j])
		returnStates = append(returnStates, b.returnStates[j])
	}

	// The two-pointer merge above consumes both inputs in ascending
	// returnState order and appends in the same relative order, so the
	// result is already sorted; EmptyReturnState (math.MaxInt32) sorts
	// last for free.
	if len(returnStates) == 1 {
		return pc.internCtx(newSingleton(parents[0], returnStates[0]))
	}
	return pc.internCtx(newArray(parents, returnStates))
}
