package riscv

import (
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// ISA is the RISC-V backend descriptor. The zero value is ready to
// use; all state lives in the immutable package tables.
type ISA struct{}

var _ isa.TargetISA = ISA{}

func (ISA) Name() string { return "riscv64" }

func (ISA) RegInfo() *isa.RegInfo { return regInfo }

func (ISA) EncInfo() *isa.EncInfo { return encInfo }

func (ISA) RegClassForABIType(t ssa.Type) isa.RegClassIndex {
	if t == ssa.TypeF32 || t == ssa.TypeF64 {
		return FPR
	}
	return GPR
}
