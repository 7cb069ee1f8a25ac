// Package riscv provides the RISC-V descriptor tables and instruction
// word emission: register banks and classes, encoding recipes with
// their constraints and sizing, and the bit packers assembling machine
// words for a binemit.CodeSink.
package riscv

import "github.com/bytecodealliance/wasmtime-sub046/isa"

var (
	regInfo *isa.RegInfo

	// GPR is all 32 integer registers.
	GPR isa.RegClassIndex
	// GPRC is the x8-x15 subset addressable by compressed encodings.
	GPRC isa.RegClassIndex
	// FPR is all 32 floating point registers.
	FPR isa.RegClassIndex
)

// Well-known integer register units. The x bank starts at unit 0, so
// units coincide with register numbers.
const (
	regZero isa.RegUnit = 0
	regRA   isa.RegUnit = 1
	regSP   isa.RegUnit = 2
	regFP   isa.RegUnit = 8
)

func init() {
	var b isa.Builder
	x := b.AddBank(isa.BankSpec{
		Name:             "IntRegs",
		Prefix:           "x",
		Units:            32,
		Names:            []string{"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2", "fp"},
		PressureTracking: true,
	})
	f := b.AddBank(isa.BankSpec{
		Name:             "FloatRegs",
		Prefix:           "f",
		Units:            32,
		PressureTracking: true,
	})
	GPR = b.AddClass(isa.ClassSpec{Name: "GPR", Bank: x, Parent: isa.RegClassIndexInvalid, Count: 32})
	GPRC = b.AddClass(isa.ClassSpec{Name: "GPRC", Bank: x, Parent: GPR, Count: 8, Start: 8})
	FPR = b.AddClass(isa.ClassSpec{Name: "FPR", Bank: f, Parent: isa.RegClassIndexInvalid, Count: 32})
	regInfo = b.Finish()
}
