package riscv

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-sub046/binemit"
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// The packers below assemble one 32-bit instruction word from the
// encoding bits and operands. They are pure functions; emission order
// and byte order are the sink's business. An out-of-range immediate
// panics: legalization and branch relaxation upstream must have made
// every immediate fit before emission starts.

func regBits(u isa.RegUnit) uint32 {
	return uint32(u) & 0x1f
}

func baseWord(bits uint16) uint32 {
	// The 5-bit opcode plus the 0b11 suffix marking a 4-byte word,
	// and funct3 at bits 12-14.
	return 0b11 | (uint32(bits)&0x1f)<<2 | (uint32(bits)>>5&0x7)<<12
}

func encodeR(bits uint16, rs1, rs2, rd isa.RegUnit) uint32 {
	w := baseWord(bits)
	w |= regBits(rd) << 7
	w |= regBits(rs1) << 15
	w |= regBits(rs2) << 20
	w |= (uint32(bits) >> 8 & 0x7f) << 25
	return w
}

func encodeRshamt(bits uint16, rs1 isa.RegUnit, shamt int64, rd isa.RegUnit) uint32 {
	if shamt < 0 || shamt > 63 {
		panic(fmt.Sprintf("BUG: shift amount %d out of range", shamt))
	}
	w := baseWord(bits)
	w |= regBits(rd) << 7
	w |= regBits(rs1) << 15
	w |= uint32(shamt) << 20
	w |= (uint32(bits) >> 8 & 0x3f) << 26
	return w
}

func encodeI(bits uint16, rs1 isa.RegUnit, imm int64, rd isa.RegUnit) uint32 {
	if imm < -2048 || imm > 2047 {
		panic(fmt.Sprintf("BUG: immediate %d out of I range", imm))
	}
	w := baseWord(bits)
	w |= regBits(rd) << 7
	w |= regBits(rs1) << 15
	w |= (uint32(imm) & 0xfff) << 20
	return w
}

func encodeU(bits uint16, imm int64, rd isa.RegUnit) uint32 {
	if imm < -(1<<19) || imm >= 1<<19 {
		panic(fmt.Sprintf("BUG: immediate %d out of U range", imm))
	}
	w := baseWord(bits)
	w |= regBits(rd) << 7
	w |= (uint32(imm) & 0xfffff) << 12
	return w
}

// encodeSB packs a conditional branch with a 13-bit signed, 2-byte
// aligned offset. The offset bits scatter: bit 11 at word bit 7, bits
// 4:1 at 8-11, bits 10:5 at 25-30 and the sign bit 12 at 31.
func encodeSB(bits uint16, offset int64, rs1, rs2 isa.RegUnit) uint32 {
	if offset&1 != 0 || offset < -4096 || offset > 4094 {
		panic(fmt.Sprintf("BUG: branch offset %d out of SB range", offset))
	}
	imm := uint32(offset) & 0x1fff
	w := baseWord(bits)
	w |= regBits(rs1) << 15
	w |= regBits(rs2) << 20
	w |= (imm >> 11 & 1) << 7
	w |= (imm >> 1 & 0xf) << 8
	w |= (imm >> 5 & 0x3f) << 25
	w |= (imm >> 12 & 1) << 31
	return w
}

// decodeSBOffset recovers the branch offset from an SB word.
func decodeSBOffset(w uint32) int64 {
	imm := (w >> 7 & 1) << 11
	imm |= (w >> 8 & 0xf) << 1
	imm |= (w >> 25 & 0x3f) << 5
	imm |= (w >> 31 & 1) << 12
	// Sign-extend 13 bits.
	return int64(int32(imm<<19) >> 19)
}

// encodeUJ packs a jump-and-link with a 21-bit signed, 2-byte aligned
// offset: bits 19:12 at word bits 12-19, bit 11 at 20, bits 10:1 at
// 21-30 and the sign bit 20 at 31.
func encodeUJ(bits uint16, offset int64, rd isa.RegUnit) uint32 {
	if offset&1 != 0 || offset < -(1<<20) || offset > 1<<20-2 {
		panic(fmt.Sprintf("BUG: jump offset %d out of UJ range", offset))
	}
	imm := uint32(offset) & 0x1fffff
	w := baseWord(bits)
	w |= regBits(rd) << 7
	w |= (imm >> 12 & 0xff) << 12
	w |= (imm >> 11 & 1) << 20
	w |= (imm >> 1 & 0x3ff) << 21
	w |= (imm >> 20 & 1) << 31
	return w
}

// encodeCMv packs the compressed c.mv rd, rs2. Both registers carry
// their full 5-bit numbers in the CR format.
func encodeCMv(rd, rs2 isa.RegUnit) uint16 {
	return 0x8002 | uint16(regBits(rd))<<7 | uint16(regBits(rs2))<<2
}

// Emit writes the machine code of inst to the sink, little-endian.
// Operand registers are read through the diversion tracker, and branch
// destinations resolve against blockOffsets, the code offset of each
// block header (so a not-yet-emitted forward target must already have
// its offset fixed by the layout pass).
func Emit(f *ssa.Function, inst ssa.Inst, enc isa.Encoding, divert isa.Diversions,
	blockOffsets []binemit.CodeOffset, sink binemit.CodeSink) {
	if !enc.IsLegal() {
		panic("BUG: emitting " + inst.String() + " without a legal encoding")
	}
	switch enc.Recipe {
	case RecipeR:
		args := f.Args(inst)
		rd := divert.Reg(f.Results(inst)[0])
		sink.Put4(encodeR(enc.Bits, divert.Reg(args[0]), divert.Reg(args[1]), rd))
	case RecipeIcopy:
		src := divert.Reg(f.Args(inst)[0])
		dst := divert.Reg(f.Results(inst)[0])
		if regInfo.ClassContains(GPRC, src) && regInfo.ClassContains(GPRC, dst) {
			sink.Put2(encodeCMv(dst, src))
		} else {
			// Uncompressed copy is addi dst, src, 0.
			sink.Put4(encodeI(enc.Bits, src, 0, dst))
		}
	case RecipeSB:
		target, ok := f.BranchTarget(inst)
		if !ok {
			panic("BUG: " + inst.String() + " has no branch target")
		}
		off := int64(blockOffsets[target]) - int64(sink.Offset())
		cond := divert.Reg(f.Args(inst)[0])
		sink.Put4(encodeSB(enc.Bits, off, cond, regZero))
	case RecipeUJ:
		target, ok := f.BranchTarget(inst)
		if !ok {
			panic("BUG: " + inst.String() + " has no branch target")
		}
		off := int64(blockOffsets[target]) - int64(sink.Offset())
		sink.Put4(encodeUJ(enc.Bits, off, regZero))
	default:
		panic(fmt.Sprintf("BUG: no emitter for recipe %s", encInfo.Names[enc.Recipe]))
	}
}
