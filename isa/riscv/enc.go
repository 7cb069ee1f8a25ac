package riscv

import (
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// Encoding recipes. The Bits of an Encoding hold the opcode fields the
// recipe does not fix: bits 0-4 are the 5-bit opcode (before the
// 2-bit 0b11 suffix of uncompressed words), bits 5-7 funct3, bits 8+
// funct7 or funct6 where the format has one.
const (
	// RecipeR is the R format: rd, rs1, rs2.
	RecipeR uint16 = iota
	// RecipeRshamt is the R format with rs2 replaced by a shift amount.
	RecipeRshamt
	// RecipeI is the I format: rd, rs1, 12-bit signed immediate.
	RecipeI
	// RecipeU is the U format: rd, 20-bit upper immediate.
	RecipeU
	// RecipeSB is the SB format: conditional branch, 13-bit offset.
	RecipeSB
	// RecipeUJ is the UJ format: jump and link, 21-bit offset.
	RecipeUJ
	// RecipeIcopy is a register copy, compressible to c.mv when both
	// registers allow it.
	RecipeIcopy

	numRecipes
)

// Encodings of the instructions the emitter is asked to produce. A
// full encoding table maps (opcode, types) pairs; only the entries the
// tests and the copy/branch paths need are spelled out here.
var (
	EncAdd   = isa.Encoding{Recipe: RecipeR, Bits: 0x0c}
	EncSlli  = isa.Encoding{Recipe: RecipeRshamt, Bits: 0x04 | 1<<5}
	EncAddi  = isa.Encoding{Recipe: RecipeI, Bits: 0x04}
	EncLui   = isa.Encoding{Recipe: RecipeU, Bits: 0x0d}
	EncBeq   = isa.Encoding{Recipe: RecipeSB, Bits: 0x18}
	EncBne   = isa.Encoding{Recipe: RecipeSB, Bits: 0x18 | 1<<5}
	EncJal   = isa.Encoding{Recipe: RecipeUJ, Bits: 0x1b}
	EncIcopy = isa.Encoding{Recipe: RecipeIcopy, Bits: 0x04}
)

var encInfo *isa.EncInfo

func init() {
	gprIn := isa.OperandConstraint{Kind: isa.ConstraintReg, Class: GPR}
	gprOut := isa.OperandConstraint{Kind: isa.ConstraintReg, Class: GPR}

	constraints := make([]isa.RecipeConstraints, numRecipes)
	constraints[RecipeR] = isa.RecipeConstraints{Ins: []isa.OperandConstraint{gprIn, gprIn}, Outs: []isa.OperandConstraint{gprOut}}
	constraints[RecipeRshamt] = isa.RecipeConstraints{Ins: []isa.OperandConstraint{gprIn}, Outs: []isa.OperandConstraint{gprOut}}
	constraints[RecipeI] = isa.RecipeConstraints{Ins: []isa.OperandConstraint{gprIn}, Outs: []isa.OperandConstraint{gprOut}}
	constraints[RecipeU] = isa.RecipeConstraints{Outs: []isa.OperandConstraint{gprOut}}
	constraints[RecipeSB] = isa.RecipeConstraints{Ins: []isa.OperandConstraint{gprIn}}
	constraints[RecipeUJ] = isa.RecipeConstraints{}
	constraints[RecipeIcopy] = isa.RecipeConstraints{Ins: []isa.OperandConstraint{gprIn}, Outs: []isa.OperandConstraint{gprOut}}

	sizing := make([]isa.RecipeSizing, numRecipes)
	for i := range sizing {
		sizing[i].BaseSize = 4
	}
	sizing[RecipeSB].BranchRange = isa.BranchRange{InstSize: 0, Bits: 13}
	sizing[RecipeUJ].BranchRange = isa.BranchRange{InstSize: 0, Bits: 21}
	sizing[RecipeIcopy].ComputeSize = icopySize

	encInfo = &isa.EncInfo{
		Constraints: constraints,
		Sizing:      sizing,
		Names:       []string{"R", "Rshamt", "I", "U", "SB", "UJ", "Icopy"},
	}
}

// icopySize returns 2 when the copy can use the compressed c.mv form,
// which requires both registers to sit in the GPRC range at this
// program point. Diversions matter: a value parked outside x8-x15
// forces the full width even if its home register would compress.
func icopySize(sizing *isa.RecipeSizing, _ isa.Encoding, inst ssa.Inst, divert isa.Diversions, f *ssa.Function) uint8 {
	src := divert.Reg(f.Args(inst)[0])
	dst := divert.Reg(f.Results(inst)[0])
	if regInfo.ClassContains(GPRC, src) && regInfo.ClassContains(GPRC, dst) {
		return 2
	}
	return sizing.BaseSize
}
