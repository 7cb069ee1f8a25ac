// Package regalloc holds the register-allocation core: per-value
// affinities, the dominance-ordered block traversal, the virtual
// register unifier that builds conventional SSA form, and the verifier
// checking the unifier's invariants.
//
// Everything here is a single-threaded, per-function transformation.
// The only shared inputs are the immutable isa descriptor tables.
package regalloc

import (
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

type affinityKind byte

const (
	affinityUnassigned affinityKind = iota
	affinityStack
	affinityReg
)

// Affinity is a soft hint of where a value prefers to live. It is not
// binding: the allocator enforces the real constraints later, the
// affinity only steers its choices. The zero value is Unassigned,
// which marks a value with no real use (a ghost value).
type Affinity struct {
	kind affinityKind
	rc   isa.RegClassIndex
}

// NewAffinity returns the affinity for a value first constrained by op:
// Stack for a stack constraint, otherwise the constraint's register
// class.
func NewAffinity(op *isa.OperandConstraint) Affinity {
	if op.Kind == isa.ConstraintStack {
		return Affinity{kind: affinityStack}
	}
	return Affinity{kind: affinityReg, rc: op.Class}
}

// AffinityForABI returns the affinity for a value entering or leaving
// the function at the ABI-assigned location loc.
func AffinityForABI(loc isa.ArgumentLoc, t ssa.Type, target isa.TargetISA) Affinity {
	switch loc.Kind {
	case isa.LocReg:
		return Affinity{kind: affinityReg, rc: target.RegClassForABIType(t)}
	case isa.LocStack:
		return Affinity{kind: affinityStack}
	default:
		return Affinity{}
	}
}

// IsUnassigned reports whether the value has no affinity yet.
func (a Affinity) IsUnassigned() bool {
	return a.kind == affinityUnassigned
}

// IsStack reports whether the value must live in a spill slot.
func (a Affinity) IsStack() bool {
	return a.kind == affinityStack
}

// IsReg reports whether the value prefers a register.
func (a Affinity) IsReg() bool {
	return a.kind == affinityReg
}

// RegClass returns the preferred register class. Must only be called
// when IsReg is true.
func (a Affinity) RegClass() isa.RegClassIndex {
	if a.kind != affinityReg {
		panic("BUG: RegClass on non-register affinity")
	}
	return a.rc
}

// Merge narrows the affinity with one more operand constraint. It is
// called once per use and def of the value across the whole function.
//
// A register affinity is narrowed to the intersection of the current
// class and the constraint's class; if they don't intersect, the
// current affinity is kept. This keep-current tie-break is a
// deliberate asymmetry: when an intermediate intersection is empty,
// the final class can depend on the order constraints are merged in.
// Jointly unsatisfiable constraints never corrupt the hint; the real
// allocator enforces correctness later.
//
// A stack affinity is never changed, and Merge never returns a value
// to Unassigned.
func (a *Affinity) Merge(op *isa.OperandConstraint, ri *isa.RegInfo) {
	switch a.kind {
	case affinityUnassigned:
		*a = NewAffinity(op)
	case affinityReg:
		if op.Kind == isa.ConstraintStack {
			return
		}
		if ri.RC(op.Class).HasSubclass(a.rc) {
			// The current class already satisfies the constraint.
			return
		}
		if rc, ok := ri.Intersect(a.rc, op.Class); ok {
			a.rc = rc
		}
	case affinityStack:
	}
}

// Display returns the affinity formatted with class names from ri.
func (a Affinity) Display(ri *isa.RegInfo) string {
	switch a.kind {
	case affinityStack:
		return "stack"
	case affinityReg:
		return ri.RC(a.rc).Name
	default:
		return "none"
	}
}
