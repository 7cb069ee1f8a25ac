package isa

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// Encoding is a compact descriptor of how one instruction is encoded:
// which bit-emission recipe to use, and recipe-specific bits, typically
// opcode fragments.
type Encoding struct {
	Recipe uint16
	Bits   uint16
}

// EncodingIllegal is the "no encoding yet" sentinel.
var EncodingIllegal = Encoding{Recipe: 0xffff, Bits: 0xffff}

// IsLegal reports whether this is a real encoding rather than the
// illegal sentinel.
func (e Encoding) IsLegal() bool {
	return e.Recipe != 0xffff
}

// ConstraintKind tells how an operand of a recipe is constrained.
type ConstraintKind byte

const (
	// ConstraintReg requires any register of the constraint's class.
	ConstraintReg ConstraintKind = iota
	// ConstraintFixedReg requires one specific register unit.
	ConstraintFixedReg
	// ConstraintTied requires an output to use the same register as a
	// given input.
	ConstraintTied
	// ConstraintStack requires a stack slot.
	ConstraintStack
)

// OperandConstraint describes the register requirement of a single
// operand of an encoding recipe.
type OperandConstraint struct {
	Kind ConstraintKind
	// Class is the required register class, for ConstraintReg and
	// ConstraintFixedReg.
	Class RegClassIndex
	// FixedUnit is the required unit, for ConstraintFixedReg.
	FixedUnit RegUnit
	// TiedTo is the input operand index, for ConstraintTied.
	TiedTo uint8
}

// RecipeConstraints lists the operand constraints of one recipe.
type RecipeConstraints struct {
	// Ins and Outs constrain the value operands and results.
	Ins, Outs []OperandConstraint
	// FixedIns/FixedOuts are set if any input/output is ConstraintFixedReg.
	FixedIns, FixedOuts bool
	// TiedOps is set if any output is ConstraintTied.
	TiedOps bool
	// ClobbersFlags is set if the recipe clobbers the CPU flags.
	ClobbersFlags bool
}

// BranchRange describes the reachable destinations of a branch recipe.
type BranchRange struct {
	// InstSize is the size of the branch instruction; offsets are
	// encoded relative to the instruction address plus InstSize.
	InstSize uint8
	// Bits is the width of the signed offset field.
	Bits uint8
}

// Contains reports whether a branch at code offset org can reach dest.
func (br BranchRange) Contains(org, dest uint32) bool {
	off := int64(dest) - int64(org) - int64(br.InstSize)
	lim := int64(1) << (br.Bits - 1)
	return -lim <= off && off < lim
}

// Diversions exposes the effective register of a value at the current
// program point, accounting for any active register diversions.
// Implemented by regalloc.RegDiversions.
type Diversions interface {
	Reg(v ssa.Value) RegUnit
}

// SizeCalc computes the byte size of an instruction encoded with a
// given recipe. The diversions let the size depend on which registers
// the operands actually occupy right now.
type SizeCalc func(sizing *RecipeSizing, enc Encoding, inst ssa.Inst, divert Diversions, f *ssa.Function) uint8

// RecipeSizing holds the size information of one recipe.
type RecipeSizing struct {
	// BaseSize is the static minimum size in bytes.
	BaseSize uint8
	// ComputeSize overrides BaseSize when the size depends on the
	// operand registers; nil means the size is always BaseSize.
	ComputeSize SizeCalc
	// BranchRange is the branch range, if the recipe encodes a branch.
	BranchRange BranchRange
}

// EncInfo is the immutable encoding table of one ISA, indexed by
// recipe number.
type EncInfo struct {
	Constraints []RecipeConstraints
	Sizing      []RecipeSizing
	Names       []string
}

// OperandConstraints returns the constraints of the recipe of enc.
func (ei *EncInfo) OperandConstraints(enc Encoding) *RecipeConstraints {
	return &ei.Constraints[enc.Recipe]
}

// ByteSize returns the size in bytes of inst when encoded as enc,
// given the current register diversions.
func (ei *EncInfo) ByteSize(enc Encoding, inst ssa.Inst, divert Diversions, f *ssa.Function) uint8 {
	sizing := &ei.Sizing[enc.Recipe]
	if sizing.ComputeSize == nil {
		return sizing.BaseSize
	}
	return sizing.ComputeSize(sizing, enc, inst, divert, f)
}

// BranchRange returns the branch range of enc, if its recipe encodes a
// branch.
func (ei *EncInfo) BranchRange(enc Encoding) (BranchRange, bool) {
	if !enc.IsLegal() {
		return BranchRange{}, false
	}
	br := ei.Sizing[enc.Recipe].BranchRange
	return br, br.Bits != 0
}

// DisplayEnc returns a human-readable form of enc, e.g. "R#0c".
func (ei *EncInfo) DisplayEnc(enc Encoding) string {
	if !enc.IsLegal() {
		return "-"
	}
	return fmt.Sprintf("%s#%02x", ei.Names[enc.Recipe], enc.Bits)
}
