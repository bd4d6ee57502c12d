// Package bitset implements a dense, auto-growing bit vector over
// non-negative integers, in the style ANTLR-derived runtimes use to
// represent sets of grammar alternatives.
package bitset

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const wordBits = 64

// IndexOutOfBoundsError is raised (via panic) when an operation is given
// a negative index that spec.md's "one exception" carve-out doesn't
// cover.
type IndexOutOfBoundsError struct {
	Index int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("bitset: index out of bounds: %v", e.Index)
}

// BitSet is a dense bit vector. The zero value is an empty set ready to
// use.
type BitSet struct {
	words []uint64
}

// New returns an empty BitSet with room for at least nbits without
// reallocating.
func New(nbits int) *BitSet {
	if nbits < 0 {
		nbits = 0
	}
	return &BitSet{words: make([]uint64, wordIndex(nbits)+1)[:0]}
}

func wordIndex(bitIndex int) int {
	return bitIndex / wordBits
}

func checkNonNegative(i int) {
	if i < 0 {
		panic(&IndexOutOfBoundsError{Index: i})
	}
}

func (b *BitSet) ensureCapacity(wordsRequired int) {
	if wordsRequired < len(b.words) {
		return
	}
	if wordsRequired < cap(b.words) {
		// Words past len are always zero: only trim ever shortens the
		// slice, and it drops zero words only.
		b.words = b.words[:wordsRequired+1]
		return
	}
	grown := make([]uint64, wordsRequired+1)
	copy(grown, b.words)
	b.words = grown
}

// Set sets bit i.
func (b *BitSet) Set(i int) {
	checkNonNegative(i)
	w := wordIndex(i)
	b.ensureCapacity(w)
	b.words[w] |= 1 << uint(i%wordBits)
}

// SetRange sets every bit in [from, to).
func (b *BitSet) SetRange(from, to int) {
	checkNonNegative(from)
	checkNonNegative(to)
	for i := from; i < to; i++ {
		b.Set(i)
	}
}

// Clear clears bit i.
func (b *BitSet) Clear(i int) {
	checkNonNegative(i)
	w := wordIndex(i)
	if w >= len(b.words) {
		return
	}
	b.words[w] &^= 1 << uint(i%wordBits)
}

// ClearRange clears every bit in [from, to).
func (b *BitSet) ClearRange(from, to int) {
	checkNonNegative(from)
	checkNonNegative(to)
	for i := from; i < to; i++ {
		b.Clear(i)
	}
}

// Get reports whether bit i is set.
func (b *BitSet) Get(i int) bool {
	checkNonNegative(i)
	w := wordIndex(i)
	if w >= len(b.words) {
		return false
	}
	return b.words[w]&(1<<uint(i%wordBits)) != 0
}

// Flip toggles bit i.
func (b *BitSet) Flip(i int) {
	checkNonNegative(i)
	w := wordIndex(i)
	b.ensureCapacity(w)
	b.words[w] ^= 1 << uint(i%wordBits)
}

// FlipRange toggles every bit in [from, to).
func (b *BitSet) FlipRange(from, to int) {
	checkNonNegative(from)
	checkNonNegative(to)
	for i := from; i < to; i++ {
		b.Flip(i)
	}
}

func (b *BitSet) trim() {
	n := len(b.words)
	for n > 0 && b.words[n-1] == 0 {
		n--
	}
	b.words = b.words[:n]
}

func maxWords(a, c *BitSet) int {
	if len(a.words) > len(c.words) {
		return len(a.words)
	}
	return len(c.words)
}

// And computes b &= other in place.
func (b *BitSet) And(other *BitSet) {
	n := len(b.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		b.words[i] &= other.words[i]
	}
	for i := n; i < len(b.words); i++ {
		b.words[i] = 0
	}
	b.trim()
}

// Or computes b |= other in place.
func (b *BitSet) Or(other *BitSet) {
	b.ensureCapacity(len(other.words) - 1)
	for i, w := range other.words {
		b.words[i] |= w
	}
	b.trim()
}

// Xor computes b ^= other in place.
func (b *BitSet) Xor(other *BitSet) {
	b.ensureCapacity(len(other.words) - 1)
	for i, w := range other.words {
		b.words[i] ^= w
	}
	b.trim()
}

// AndNot computes b &^= other in place (bits in other are cleared from b).
func (b *BitSet) AndNot(other *BitSet) {
	n := len(b.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		b.words[i] &^= other.words[i]
	}
	b.trim()
}

// Cardinality returns the number of set bits.
func (b *BitSet) Cardinality() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Length returns the index of the highest set bit plus one, or 0 if
// empty.
func (b *BitSet) Length() int {
	for i := len(b.words) - 1; i >= 0; i-- {
		if b.words[i] != 0 {
			return i*wordBits + (wordBits - bits.LeadingZeros64(b.words[i]))
		}
	}
	return 0
}

// IsEmpty reports whether no bits are set.
func (b *BitSet) IsEmpty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether b and other share any set bit.
func (b *BitSet) Intersects(other *BitSet) bool {
	n := len(b.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// NextSetBit returns the index of the first set bit at or after from,
// or -1 if none.
func (b *BitSet) NextSetBit(from int) int {
	checkNonNegative(from)
	w := wordIndex(from)
	if w >= len(b.words) {
		return -1
	}
	first := b.words[w] & (^uint64(0) << uint(from%wordBits))
	for {
		if first != 0 {
			return w*wordBits + bits.TrailingZeros64(first)
		}
		w++
		if w >= len(b.words) {
			return -1
		}
		first = b.words[w]
	}
}

// NextClearBit returns the index of the first clear bit at or after
// from. Since the set is conceptually infinite, this always succeeds.
func (b *BitSet) NextClearBit(from int) int {
	checkNonNegative(from)
	w := wordIndex(from)
	if w >= len(b.words) {
		return from
	}
	word := ^b.words[w] & (^uint64(0) << uint(from%wordBits))
	for {
		if word != 0 {
			return w*wordBits + bits.TrailingZeros64(word)
		}
		w++
		if w >= len(b.words) {
			return w * wordBits
		}
		word = ^b.words[w]
	}
}

// PreviousSetBit returns the index of the last set bit at or before
// from, or -1 if none. PreviousSetBit(-1) returns -1 (the one carve-out
// from the negative-index panic rule).
func (b *BitSet) PreviousSetBit(from int) int {
	if from == -1 {
		return -1
	}
	checkNonNegative(from)
	w := wordIndex(from)
	if w >= len(b.words) {
		w = len(b.words) - 1
	}
	if w < 0 {
		return -1
	}
	mask := ^uint64(0)
	if wordIndex(from) == w {
		bit := from % wordBits
		if bit < wordBits-1 {
			mask = (uint64(1) << uint(bit+1)) - 1
		}
	}
	word := b.words[w] & mask
	for {
		if word != 0 {
			return w*wordBits + (wordBits - 1 - bits.LeadingZeros64(word))
		}
		w--
		if w < 0 {
			return -1
		}
		word = b.words[w]
	}
}

// PreviousClearBit returns the index of the last clear bit at or before
// from, or -1 if none. PreviousClearBit(-1) returns -1.
func (b *BitSet) PreviousClearBit(from int) int {
	if from == -1 {
		return -1
	}
	checkNonNegative(from)
	w := wordIndex(from)
	if w >= len(b.words) {
		return from
	}
	mask := ^uint64(0)
	bit := from % wordBits
	if bit < wordBits-1 {
		mask = (uint64(1) << uint(bit+1)) - 1
	}
	word := ^b.words[w] & mask
	for {
		if word != 0 {
			return w*wordBits + (wordBits - 1 - bits.LeadingZeros64(word))
		}
		w--
		if w < 0 {
			return -1
		}
		word = ^b.words[w]
	}
}

// Clone returns an independent copy of b.
func (b *BitSet) Clone() *BitSet {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &BitSet{words: words}
}

// Equal reports structural equality: the same bits set, regardless of
// backing-array capacity.
func (b *BitSet) Equal(other *BitSet) bool {
	n := len(b.words)
	m := len(other.words)
	max := n
	if m > max {
		max = m
	}
	for i := 0; i < max; i++ {
		var wb, wo uint64
		if i < n {
			wb = b.words[i]
		}
		if i < m {
			wo = other.words[i]
		}
		if wb != wo {
			return false
		}
	}
	return true
}

// Hash returns a hash stable across structurally-equal sets.
func (b *BitSet) Hash() uint64 {
	trimmed := b.Clone()
	trimmed.trim()
	h := xxhash.New()
	buf := make([]byte, 8)
	for _, w := range trimmed.words {
		for i := 0; i < 8; i++ {
			buf[i] = byte(w >> (8 * i))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// String renders the set in ascending order as "{a, b, c}".
func (b *BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := b.NextSetBit(0); i != -1; i = b.NextSetBit(i + 1) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%d", i)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Bits returns the sorted slice of set bit indices.
func (b *BitSet) Bits() []int {
	var out []int
	for i := b.NextSetBit(0); i != -1; i = b.NextSetBit(i + 1) {
		out = append(out, i)
	}
	return out
}

// Of returns a new BitSet with exactly the given bits set.
func Of(bitsToSet ...int) *BitSet {
	b := New(0)
	for _, i := range bitsToSet {
		b.Set(i)
	}
	return b
}
