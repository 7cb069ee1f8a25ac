package isa

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// LocKind tells where a value or ABI argument lives.
type LocKind byte

const (
	// LocUnassigned marks a location that has not been decided yet.
	LocUnassigned LocKind = iota
	// LocReg is a register unit.
	LocReg
	// LocStack is a stack slot or stack offset.
	LocStack
)

// ValueLoc is the assigned location of an SSA value. This is the data
// model register assignment operates on; the assignment algorithm
// itself lives upstream.
type ValueLoc struct {
	Kind LocKind
	// Unit is the register unit, for LocReg.
	Unit RegUnit
	// Slot is the spill slot index, for LocStack.
	Slot int32
}

// RegLoc returns a ValueLoc placing a value in register unit u.
func RegLoc(u RegUnit) ValueLoc {
	return ValueLoc{Kind: LocReg, Unit: u}
}

// StackLoc returns a ValueLoc placing a value in spill slot n.
func StackLoc(n int32) ValueLoc {
	return ValueLoc{Kind: LocStack, Slot: n}
}

// Display returns the location formatted with register names from ri.
func (l ValueLoc) Display(ri *RegInfo) string {
	switch l.Kind {
	case LocReg:
		return ri.DisplayRegUnit(l.Unit)
	case LocStack:
		return fmt.Sprintf("ss%d", l.Slot)
	default:
		return "-"
	}
}

// ArgumentLoc is the ABI-assigned location of a function argument.
type ArgumentLoc struct {
	Kind LocKind
	// Unit is the register unit, for LocReg.
	Unit RegUnit
	// Offset is the stack offset in bytes, for LocStack.
	Offset int32
}

// RegArg returns an ArgumentLoc passing an argument in unit u.
func RegArg(u RegUnit) ArgumentLoc {
	return ArgumentLoc{Kind: LocReg, Unit: u}
}

// StackArg returns an ArgumentLoc passing an argument at stack offset
// off.
func StackArg(off int32) ArgumentLoc {
	return ArgumentLoc{Kind: LocStack, Offset: off}
}

// TargetISA is what the allocation and emission passes need to know
// about an ISA backend. Implementations are immutable and safe to
// share across concurrent compilations.
type TargetISA interface {
	// Name returns the ISA name, e.g. "riscv".
	Name() string
	// RegInfo returns the register topology tables.
	RegInfo() *RegInfo
	// EncInfo returns the encoding recipe tables.
	EncInfo() *EncInfo
	// RegClassForABIType returns the register class used to pass or
	// return a value of type t.
	RegClassForABIType(t ssa.Type) RegClassIndex
}
