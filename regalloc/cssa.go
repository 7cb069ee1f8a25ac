package regalloc

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// VerifyCSSA checks that the function is in conventional SSA form with
// respect to virtregs, i.e. that the invariants the unifier must
// uphold actually hold:
//
//  1. within each virtual register, the members are ordered by
//     strictly increasing dominator-tree reverse-postorder of their
//     definitions, and no member's live range overlaps the definition
//     of a later member;
//  2. on every predecessor edge, the branch arguments pair up
//     positionally with the destination's block parameters, and each
//     pair shares a virtual register (or is literally the same value).
//
// A failure blocks code generation for this function; the returned
// error names the offending value, virtual register or branch
// instruction. VerifyCSSA never mutates its inputs.
func VerifyCSSA(f *ssa.Function, dt *ssa.DominatorTree, live *Liveness, virtregs *VirtRegs) error {
	if err := verifyVirtRegOrder(f, dt, live, virtregs); err != nil {
		return err
	}
	return verifyPhiCongruence(f, virtregs)
}

func verifyVirtRegOrder(f *ssa.Function, dt *ssa.DominatorTree, live *Liveness, virtregs *VirtRegs) error {
	for vr := VirtReg(0); int(vr) < virtregs.Len(); vr++ {
		var prev ssa.Value
		var prevRange *LiveRange
		for i, v := range virtregs.Values(vr) {
			if !v.Valid() || f.Def(v).Kind == ssa.DefNone {
				return fmt.Errorf("%s in %s is not attached to a definition", v, vr)
			}
			lr := live.Get(v)
			if lr == nil {
				return fmt.Errorf("%s in %s has no live range", v, vr)
			}
			if i > 0 {
				cmp := dt.RPOCompare(f, prevRange.DefBegin(), lr.DefBegin())
				if cmp == 0 {
					return fmt.Errorf("%s: %s and %s are defined at the same point", vr, prev, v)
				}
				if cmp > 0 {
					return fmt.Errorf("%s: %s and %s are not in dominance order", vr, prev, v)
				}
				if prevRange.OverlapsDef(lr.DefBegin(), f.DefBlock(v), f, dt) {
					return fmt.Errorf("%s: %s overlaps the definition of %s", vr, prev, v)
				}
			}
			prev, prevRange = v, lr
		}
	}
	return nil
}

func verifyPhiCongruence(f *ssa.Function, virtregs *VirtRegs) error {
	for _, b := range f.Blocks() {
		params := f.BlockParams(b)
		for _, pred := range f.Preds(b) {
			args := f.BranchArgs(pred.Branch)
			if len(args) != len(params) {
				return fmt.Errorf("%s in %s passes %d arguments to %s which has %d parameters",
					pred.Branch, pred.Block, len(args), b, len(params))
			}
			for i := range params {
				param, arg := params[i], args[i]
				if param == arg {
					continue
				}
				if !virtregs.SameVirtReg(param, arg) {
					return fmt.Errorf(
						"%s in %s: argument %s and parameter %s of %s must belong to the same virtual register",
						pred.Branch, pred.Block, arg, param, b)
				}
			}
		}
	}
	return nil
}
