package regalloc

import (
	"fmt"
	"math"

	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// VirtReg is a dense handle of a virtual register: an ordered set of
// SSA values that will be assigned to the same storage location.
type VirtReg uint32

// VirtRegInvalid is an invalid VirtReg.
const VirtRegInvalid VirtReg = math.MaxUint32

// String implements fmt.Stringer.
func (v VirtReg) String() string {
	return fmt.Sprintf("vreg%d", uint32(v))
}

// VirtRegs owns the virtual registers of one function.
//
// Each virtual register stores its member values in dominator-tree
// reverse-postorder of their definitions, and a value belongs to at
// most one virtual register. The members must have pairwise
// non-overlapping live ranges; VerifyCSSA checks that.
//
// Unioning phi-related values into one virtual register lets the
// allocator assign them the same physical location, eliminating the
// copy otherwise needed at every block/branch argument boundary.
type VirtRegs struct {
	// pool backs the member lists of all virtual registers.
	pool entity.ListPool[ssa.Value]
	// members is indexed by VirtReg.
	members []entity.List[ssa.Value]
	// valueVRegs maps a value to 1 + its virtual register, 0 for none.
	valueVRegs entity.Map[ssa.Value, uint32]
	// unused are cleared virtual registers available for reuse.
	unused []VirtReg
	// touched is a scratch buffer for Unify.
	touched []VirtReg
}

// Len returns the number of allocated virtual registers, including
// cleared ones pending reuse.
func (vrs *VirtRegs) Len() int {
	return len(vrs.members)
}

// Get returns the virtual register containing v, if any.
func (vrs *VirtRegs) Get(v ssa.Value) (VirtReg, bool) {
	p := vrs.valueVRegs.Get(v)
	if p == 0 {
		return VirtRegInvalid, false
	}
	return VirtReg(p - 1), true
}

// Values returns the member values of vr in dominator-tree
// reverse-postorder of their definitions.
func (vrs *VirtRegs) Values(vr VirtReg) []ssa.Value {
	return vrs.members[vr].Slice(&vrs.pool)
}

// SameVirtReg reports whether a and b belong to the same virtual
// register.
func (vrs *VirtRegs) SameVirtReg(a, b ssa.Value) bool {
	va, ok := vrs.Get(a)
	if !ok {
		return false
	}
	vb, ok := vrs.Get(b)
	return ok && va == vb
}

// Unify combines values into a single virtual register. The values
// must be given in dominator-tree reverse-postorder of their
// definitions.
//
// Each value must either be a fresh singleton or belong to a virtual
// register that is included in its entirety; unifying only part of an
// existing virtual register is a bug in the calling pass and panics.
// The smallest touched virtual register number is reused for the
// result, other touched registers become available for reallocation.
func (vrs *VirtRegs) Unify(values []ssa.Value) VirtReg {
	singletons, cleared := 0, 0
	vrs.touched = vrs.touched[:0]
	for _, v := range values {
		vr, ok := vrs.Get(v)
		if !ok {
			singletons++
			continue
		}
		if n := vrs.members[vr].Len(); n > 0 {
			// First member of vr we see: take over all of its values.
			cleared += n
			vrs.members[vr].Clear()
			vrs.touched = append(vrs.touched, vr)
		}
	}

	if len(values) != singletons+cleared {
		panic(fmt.Sprintf(
			"BUG: partial virtual register unification: %d values != %d singletons + %d from merged virtual registers",
			len(values), singletons, cleared))
	}

	dst := VirtRegInvalid
	for _, vr := range vrs.touched {
		if vr < dst {
			dst = vr
		}
	}
	if dst == VirtRegInvalid {
		dst = vrs.alloc()
	} else {
		for _, vr := range vrs.touched {
			if vr != dst {
				vrs.unused = append(vrs.unused, vr)
			}
		}
	}

	vrs.members[dst].Append(&vrs.pool, values...)
	for _, v := range values {
		vrs.valueVRegs.Set(v, uint32(dst)+1)
	}
	return dst
}

func (vrs *VirtRegs) alloc() VirtReg {
	if n := len(vrs.unused); n > 0 {
		vr := vrs.unused[n-1]
		vrs.unused = vrs.unused[:n-1]
		return vr
	}
	vr := VirtReg(len(vrs.members))
	vrs.members = append(vrs.members, entity.List[ssa.Value]{})
	return vr
}

// Reset drops all virtual registers, keeping allocated storage for the
// next function.
func (vrs *VirtRegs) Reset() {
	vrs.pool.Reset()
	vrs.members = vrs.members[:0]
	vrs.valueVRegs.Clear()
	vrs.unused = vrs.unused[:0]
}
