package riscv

import (
	"testing"

	"github.com/bytecodealliance/wasmtime-sub046/binemit"
	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/regalloc"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
	"github.com/stretchr/testify/require"
)

func TestRegisterTables(t *testing.T) {
	require.Equal(t, "zero", regInfo.DisplayRegUnit(0))
	require.Equal(t, "sp", regInfo.DisplayRegUnit(regSP))
	require.Equal(t, "fp", regInfo.DisplayRegUnit(regFP))
	require.Equal(t, "x20", regInfo.DisplayRegUnit(20))
	require.Equal(t, "f0", regInfo.DisplayRegUnit(32))

	require.True(t, regInfo.RC(GPR).HasSubclass(GPRC))
	require.False(t, regInfo.RC(FPR).HasSubclass(GPRC))

	inter, ok := regInfo.Intersect(GPR, GPRC)
	require.True(t, ok)
	require.Equal(t, GPRC, inter)
	_, ok = regInfo.Intersect(GPR, FPR)
	require.False(t, ok)

	require.True(t, regInfo.ClassContains(GPRC, 8))
	require.True(t, regInfo.ClassContains(GPRC, 15))
	require.False(t, regInfo.ClassContains(GPRC, 7))
	require.False(t, regInfo.ClassContains(GPRC, 16))
}

func TestISA(t *testing.T) {
	var target ISA
	require.Equal(t, "riscv64", target.Name())
	require.Equal(t, regInfo, target.RegInfo())
	require.Equal(t, encInfo, target.EncInfo())
	require.Equal(t, GPR, target.RegClassForABIType(ssa.TypeI64))
	require.Equal(t, FPR, target.RegClassForABIType(ssa.TypeF64))
}

func TestEncodeR_addFpFpZero(t *testing.T) {
	// add fp, fp, zero: rd=x8, rs1=x8, rs2=x0.
	word := encodeR(EncAdd.Bits, regFP, regZero, regFP)
	require.Equal(t, uint32(0x00040433), word)
}

func TestEmit_addFpFpZero(t *testing.T) {
	f := ssa.NewFunction("add")
	b0 := f.AddBlock()
	a := f.AppendBlockParam(b0, ssa.TypeI64)
	z := f.AppendBlockParam(b0, ssa.TypeI64)
	add := f.AppendInst(b0, ssa.OpIadd, a, z)
	r := f.AppendResult(add, ssa.TypeI64)

	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(a, isa.RegLoc(regFP))
	locations.Set(z, isa.RegLoc(regZero))
	locations.Set(r, isa.RegLoc(regFP))
	divs := regalloc.NewRegDiversions(&locations)

	var sink binemit.MemorySink
	Emit(f, add, EncAdd, divs, nil, &sink)
	require.Equal(t, []byte{0x33, 0x04, 0x04, 0x00}, sink.Code)
}

func TestEncodeSB_roundTrip(t *testing.T) {
	for off := int64(-4096); off <= 4094; off += 2 {
		word := encodeSB(EncBeq.Bits, off, 1, 2)
		require.Equal(t, off, decodeSBOffset(word), "offset %d", off)
	}
}

func TestEncodeImmediateRanges(t *testing.T) {
	require.Panics(t, func() { encodeSB(EncBeq.Bits, 4096, 1, 2) })
	require.Panics(t, func() { encodeSB(EncBeq.Bits, -4098, 1, 2) })
	require.Panics(t, func() { encodeSB(EncBeq.Bits, 7, 1, 2) })
	require.Panics(t, func() { encodeUJ(EncJal.Bits, 1<<20, regZero) })
	require.Panics(t, func() { encodeUJ(EncJal.Bits, 3, regZero) })
	require.Panics(t, func() { encodeI(EncAddi.Bits, 1, 2048, 2) })
	require.Panics(t, func() { encodeU(EncLui.Bits, 1<<19, 2) })
	require.Panics(t, func() { encodeRshamt(EncSlli.Bits, 1, 64, 2) })

	// In-range values pack without panicking.
	require.NotZero(t, encodeI(EncAddi.Bits, 1, -2048, 2))
	require.NotZero(t, encodeRshamt(EncSlli.Bits, 1, 63, 2))
}

func TestEmit_branches(t *testing.T) {
	f := ssa.NewFunction("br")
	b0 := f.AddBlock()
	b1 := f.AddBlock()
	cond := f.AppendBlockParam(b0, ssa.TypeI64)
	br := f.AppendBranch(b0, cond, b1)
	jump := f.AppendJump(b1, b0)

	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(cond, isa.RegLoc(5))
	divs := regalloc.NewRegDiversions(&locations)

	// block0 header at offset 0, block1 at 8.
	offsets := []binemit.CodeOffset{0, 8}

	var sink binemit.MemorySink
	// bne x5, x0, +8 emitted at offset 0.
	Emit(f, br, EncBne, divs, offsets, &sink)
	require.Equal(t, []byte{0x63, 0x94, 0x02, 0x00}, sink.Code)

	// jal zero, -4 emitted at offset 4, targeting block0.
	Emit(f, jump, EncJal, divs, offsets, &sink)
	require.Equal(t, []byte{0x6f, 0xf0, 0xdf, 0xff}, sink.Code[4:])
}

func icopyFunc() (f *ssa.Function, copyInst ssa.Inst, src, dst ssa.Value) {
	f = ssa.NewFunction("copy")
	b0 := f.AddBlock()
	src = f.AppendBlockParam(b0, ssa.TypeI64)
	copyInst = f.AppendInst(b0, ssa.OpIcopy, src)
	dst = f.AppendResult(copyInst, ssa.TypeI64)
	return
}

func TestIcopy_divertedSize(t *testing.T) {
	f, copyInst, src, dst := icopyFunc()

	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(src, isa.RegLoc(10))
	locations.Set(dst, isa.RegLoc(9))
	divs := regalloc.NewRegDiversions(&locations)

	// Both x10 and x9 are compressible.
	require.Equal(t, uint8(2), encInfo.ByteSize(EncIcopy, copyInst, divs, f))

	// Diverting the source out of the compressed range forces the full
	// width.
	divs.Divert(src, 16)
	require.Equal(t, uint8(4), encInfo.ByteSize(EncIcopy, copyInst, divs, f))

	divs.Clear()
	require.Equal(t, uint8(2), encInfo.ByteSize(EncIcopy, copyInst, divs, f))
}

func TestEmit_icopy(t *testing.T) {
	f, copyInst, src, dst := icopyFunc()

	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(src, isa.RegLoc(10))
	locations.Set(dst, isa.RegLoc(9))
	divs := regalloc.NewRegDiversions(&locations)

	var sink binemit.MemorySink
	// c.mv x9, x10.
	Emit(f, copyInst, EncIcopy, divs, nil, &sink)
	require.Equal(t, []byte{0xaa, 0x84}, sink.Code)

	// addi x9, x16, 0 once the source is diverted out of GPRC.
	sink.Reset()
	divs.Divert(src, 16)
	Emit(f, copyInst, EncIcopy, divs, nil, &sink)
	require.Equal(t, []byte{0x93, 0x04, 0x08, 0x00}, sink.Code)
}

func TestEncInfo(t *testing.T) {
	require.Equal(t, "R#0c", encInfo.DisplayEnc(EncAdd))
	require.Equal(t, "-", encInfo.DisplayEnc(isa.EncodingIllegal))

	rc := encInfo.OperandConstraints(EncAdd)
	require.Len(t, rc.Ins, 2)
	require.Len(t, rc.Outs, 1)
	require.Equal(t, GPR, rc.Outs[0].Class)

	br, ok := encInfo.BranchRange(EncBeq)
	require.True(t, ok)
	require.Equal(t, isa.BranchRange{InstSize: 0, Bits: 13}, br)
	require.True(t, br.Contains(0, 4094))
	require.False(t, br.Contains(0, 4096))
	require.True(t, br.Contains(8192, 4096))

	br, ok = encInfo.BranchRange(EncJal)
	require.True(t, ok)
	require.Equal(t, uint8(21), br.Bits)

	_, ok = encInfo.BranchRange(EncAdd)
	require.False(t, ok)
	_, ok = encInfo.BranchRange(isa.EncodingIllegal)
	require.False(t, ok)
}

func TestEmit_panics(t *testing.T) {
	f, copyInst, src, dst := icopyFunc()
	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(src, isa.RegLoc(10))
	locations.Set(dst, isa.RegLoc(9))
	divs := regalloc.NewRegDiversions(&locations)

	var sink binemit.MemorySink
	require.Panics(t, func() { Emit(f, copyInst, isa.EncodingIllegal, divs, nil, &sink) })
	require.Panics(t, func() { Emit(f, copyInst, isa.Encoding{Recipe: RecipeU}, divs, nil, &sink) })
}
