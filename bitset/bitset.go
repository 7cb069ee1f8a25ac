// Package bitset provides a compact set of small integers represented
// by the bits of a single unsigned word. It is used to describe sets
// of register units and contiguous ranges thereof.
package bitset

import (
	"fmt"
	"math/bits"
)

// Word is the constraint for the backing word of a BitSet, any
// unsigned primitive up to 32 bits.
type Word interface {
	~uint8 | ~uint16 | ~uint32
}

// BitSet is a set of integers in [0, width of T), where member n is
// represented by bit n of Bits.
type BitSet[T Word] struct {
	Bits T
}

// Width returns the number of bits in the backing word.
func Width[T Word]() uint {
	return uint(bits.OnesCount64(uint64(^T(0))))
}

// Contains reports whether n is in the set.
func (b BitSet[T]) Contains(n uint) bool {
	return n < Width[T]() && b.Bits&(1<<n) != 0
}

// Insert adds n to the set.
func (b *BitSet[T]) Insert(n uint) {
	if n >= Width[T]() {
		panic(fmt.Sprintf("BUG: bit %d out of range for %d-bit set", n, Width[T]()))
	}
	b.Bits |= 1 << n
}

// Len returns the number of members.
func (b BitSet[T]) Len() int {
	return bits.OnesCount64(uint64(b.Bits))
}

// Min returns the smallest member of the set.
func (b BitSet[T]) Min() uint {
	if b.Bits == 0 {
		panic("BUG: min of empty bitset")
	}
	return uint(bits.TrailingZeros64(uint64(b.Bits)))
}

// Max returns the largest member of the set.
func (b BitSet[T]) Max() uint {
	if b.Bits == 0 {
		panic("BUG: max of empty bitset")
	}
	return uint(bits.Len64(uint64(b.Bits)) - 1)
}

// FromRange returns the set of exactly the bits [lo, hi). The mask is
// computed as (range up to hi) - (range up to lo) in 64-bit arithmetic
// so that hi equal to the full width of T cannot overflow.
func FromRange[T Word](lo, hi uint) BitSet[T] {
	if lo > hi || hi > Width[T]() {
		panic(fmt.Sprintf("BUG: invalid bit range [%d, %d) for %d-bit set", lo, hi, Width[T]()))
	}
	m := (uint64(1)<<hi - 1) - (uint64(1)<<lo - 1)
	return BitSet[T]{Bits: T(m)}
}
