// Package ssa defines the in-memory form of an SSA function consumed
// by the register allocation and binary encoding passes: dense value,
// instruction and block handles, the function layout with block
// parameters and predecessor edges, and the dominator tree.
//
// The package only models a finished function. Producing one (from a
// source bytecode front-end) and instruction selection both happen
// upstream.
package ssa

import (
	"fmt"
	"math"
)

// Value is a dense handle of an SSA value. Each value has exactly one
// definition: either an instruction result or a block parameter.
type Value uint32

// ValueInvalid is an invalid Value.
const ValueInvalid Value = math.MaxUint32

// Valid returns true if this value is valid.
func (v Value) Valid() bool {
	return v != ValueInvalid
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return fmt.Sprintf("v%d", uint32(v))
}

// Block is a dense handle of a basic block.
type Block uint32

// BlockInvalid is an invalid Block.
const BlockInvalid Block = math.MaxUint32

// Valid returns true if this block is valid.
func (b Block) Valid() bool {
	return b != BlockInvalid
}

// String implements fmt.Stringer.
func (b Block) String() string {
	return fmt.Sprintf("block%d", uint32(b))
}

// Inst is a dense handle of an instruction.
type Inst uint32

// InstInvalid is an invalid Inst.
const InstInvalid Inst = math.MaxUint32

// Valid returns true if this instruction is valid.
func (i Inst) Valid() bool {
	return i != InstInvalid
}

// String implements fmt.Stringer.
func (i Inst) String() string {
	return fmt.Sprintf("inst%d", uint32(i))
}

// Type represents the type of an SSA value.
type Type byte

const (
	TypeInvalid Type = iota

	// TypeI8 represents an integer type with 8 bits.
	TypeI8

	// TypeI16 represents an integer type with 16 bits.
	TypeI16

	// TypeI32 represents an integer type with 32 bits.
	TypeI32

	// TypeI64 represents an integer type with 64 bits.
	TypeI64

	// TypeF32 represents 32-bit floats in the IEEE 754.
	TypeF32

	// TypeF64 represents 64-bit floats in the IEEE 754.
	TypeF64
)

// String implements fmt.Stringer.
func (t Type) String() (ret string) {
	switch t {
	case TypeI8:
		return "i8"
	case TypeI16:
		return "i16"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	}
	return
}

// ProgramPoint identifies a position in a function where a value can
// be defined or used: either an instruction or a block header (where
// the block's parameters are defined).
//
// The lower bit tags the kind, the rest is the Inst or Block handle.
type ProgramPoint uint32

// PointOfInst returns the program point of an instruction.
func PointOfInst(i Inst) ProgramPoint {
	return ProgramPoint(i << 1)
}

// PointOfBlock returns the program point of a block header.
func PointOfBlock(b Block) ProgramPoint {
	return ProgramPoint(b<<1 | 1)
}

// IsInst reports whether this point is an instruction.
func (p ProgramPoint) IsInst() bool {
	return p&1 == 0
}

// Inst returns the instruction of this point. Must only be called when
// IsInst is true.
func (p ProgramPoint) Inst() Inst {
	return Inst(p >> 1)
}

// Block returns the block of this point. Must only be called when
// IsInst is false.
func (p ProgramPoint) Block() Block {
	return Block(p >> 1)
}

// String implements fmt.Stringer.
func (p ProgramPoint) String() string {
	if p.IsInst() {
		return p.Inst().String()
	}
	return p.Block().String()
}

// Opcode represents the operation of an instruction. Instruction
// selection is out of scope here, so only the opcodes the allocation
// and emission passes must understand (branches and copies) carry
// meaning; everything else is opaque to them.
type Opcode byte

const (
	OpInvalid Opcode = iota
	// OpJump is an unconditional branch to a block, passing branch arguments.
	OpJump
	// OpBranch is a conditional branch to a block, passing branch arguments.
	OpBranch
	// OpReturn returns from the function.
	OpReturn
	// OpIadd is an integer addition.
	OpIadd
	// OpIcopy is a register-to-register copy.
	OpIcopy
)

// String implements fmt.Stringer.
func (o Opcode) String() string {
	switch o {
	case OpJump:
		return "jump"
	case OpBranch:
		return "branch"
	case OpReturn:
		return "return"
	case OpIadd:
		return "iadd"
	case OpIcopy:
		return "icopy"
	default:
		return "invalid"
	}
}

// IsBranch reports whether the opcode transfers control to a block and
// carries branch arguments.
func (o Opcode) IsBranch() bool {
	return o == OpJump || o == OpBranch
}
