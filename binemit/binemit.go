// Package binemit defines the byte stream surface of the code
// generator: the CodeSink interface emitted machine code is written
// to, plus the relocation and trap metadata types that travel with
// the bytes to the linker or loader.
package binemit

import "fmt"

// CodeOffset is a byte offset within the emitted code of one function.
type CodeOffset = uint32

// Reloc identifies a relocation kind. The meaning of each kind is
// defined by the target ISA.
type Reloc uint16

const (
	// RelocAbs4 is a 4-byte absolute address.
	RelocAbs4 Reloc = iota
	// RelocAbs8 is an 8-byte absolute address.
	RelocAbs8
	// RelocCall is a call to an external function, PC-relative.
	RelocCall
	// RelocJump is a jump to a code offset within the same function.
	RelocJump
)

func (r Reloc) String() string {
	switch r {
	case RelocAbs4:
		return "Abs4"
	case RelocAbs8:
		return "Abs8"
	case RelocCall:
		return "Call"
	case RelocJump:
		return "Jump"
	}
	return fmt.Sprintf("Reloc(%d)", uint16(r))
}

// ExternalName identifies a function or data object outside the
// function being compiled, as a dense index into a module-level name
// table owned by the caller.
type ExternalName uint32

func (e ExternalName) String() string {
	return fmt.Sprintf("extname%d", uint32(e))
}

// TrapCode describes why a trapping instruction traps.
type TrapCode uint8

const (
	// TrapStackOverflow is a stack probe or limit check failure.
	TrapStackOverflow TrapCode = iota
	// TrapHeapOutOfBounds is a memory access outside the heap bounds.
	TrapHeapOutOfBounds
	// TrapIntegerOverflow is a checked integer arithmetic overflow.
	TrapIntegerOverflow
	// TrapIntegerDivisionByZero is a division or remainder by zero.
	TrapIntegerDivisionByZero
	// TrapUser is the first of the target-defined trap codes.
	TrapUser TrapCode = 0x40
)

func (t TrapCode) String() string {
	switch t {
	case TrapStackOverflow:
		return "stk_ovf"
	case TrapHeapOutOfBounds:
		return "heap_oob"
	case TrapIntegerOverflow:
		return "int_ovf"
	case TrapIntegerDivisionByZero:
		return "int_divz"
	}
	if t >= TrapUser {
		return fmt.Sprintf("user%d", uint8(t-TrapUser))
	}
	return fmt.Sprintf("trap(%d)", uint8(t))
}

// SourceLoc is an opaque source location carried through compilation
// for trap metadata. The zero value means "unknown".
type SourceLoc uint32

// IsDefault reports whether the location is the unknown location.
func (s SourceLoc) IsDefault() bool { return s == 0 }

func (s SourceLoc) String() string {
	if s.IsDefault() {
		return "@-"
	}
	return fmt.Sprintf("@%04x", uint32(s))
}

// CodeSink receives the emitted byte stream of one function together
// with its relocation and trap metadata. Bytes arrive strictly in
// order; Offset reports the number of bytes received so far, which is
// the offset the next byte will land at.
//
// Relocation and trap callbacks refer to the current offset, so the
// emitter calls them immediately before putting the bytes they cover.
type CodeSink interface {
	// Offset returns the current byte offset.
	Offset() CodeOffset
	// Put1 emits one byte.
	Put1(byte)
	// Put2 emits a 16-bit word, little-endian.
	Put2(uint16)
	// Put4 emits a 32-bit word, little-endian.
	Put4(uint32)
	// Put8 emits a 64-bit word, little-endian.
	Put8(uint64)
	// RelocExternal records a relocation at the current offset
	// referring to an external name plus addend.
	RelocExternal(r Reloc, name ExternalName, addend int64)
	// RelocBlock records a relocation at the current offset referring
	// to a code offset within the same function.
	RelocBlock(r Reloc, target CodeOffset)
	// Trap records that the instruction at the current offset can trap.
	Trap(code TrapCode, loc SourceLoc)
}
