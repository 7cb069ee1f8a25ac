// Package isa holds the static, ISA-specific descriptor tables the
// register allocation and emission passes consult: register banks and
// classes forming a subclass lattice, value/argument locations, and
// per-recipe encoding constraints and sizing.
//
// The tables are built once per ISA (normally by an offline generator,
// here via Builder), validated by RegInfo.Check, and immutable
// afterwards, so they can be shared by any number of concurrent
// compilations without locking.
package isa

import (
	"fmt"
	"math/bits"
)

// RegUnit is the smallest indivisible register allocation unit, an
// index into the flat unit space of the whole ISA.
type RegUnit uint16

// RegUnitInvalid is an invalid RegUnit.
const RegUnitInvalid RegUnit = 0xffff

// RegBankIndex is a dense handle of a register bank.
type RegBankIndex uint8

// RegClassIndex is a dense handle of a register class. Classes are
// topologically sorted: a subclass always has a strictly greater index
// than its superclass.
type RegClassIndex uint8

// RegClassIndexInvalid is an invalid RegClassIndex.
const RegClassIndexInvalid RegClassIndex = 0xff

// maxRegClasses bounds the number of classes per ISA so that a set of
// classes fits in a 64-bit mask of indices.
const maxRegClasses = 64

// RegBank is a contiguous range of register units with uniform
// properties, e.g. "general purpose" or "floating point" registers.
// Banks partition the unit space and never overlap.
type RegBank struct {
	Name string
	// FirstUnit is the index of the first unit in this bank.
	FirstUnit RegUnit
	// Units is the number of units in the bank.
	Units RegUnit
	// Names overrides the default display name of the leading units,
	// e.g. ABI names like "sp". Units beyond len(Names), or with an
	// empty entry, display as Prefix followed by the unit offset.
	Names []string
	// Prefix is the default display prefix of units in this bank.
	Prefix string
	// PressureTracking is set if the allocator should track register
	// pressure for this bank.
	PressureTracking bool
	// TopClasses are the top-level classes of this bank.
	TopClasses []RegClassIndex
	// Classes are all classes of this bank, in ascending index order.
	Classes []RegClassIndex
}

// Contains reports whether unit u belongs to this bank.
func (b *RegBank) Contains(u RegUnit) bool {
	return u >= b.FirstUnit && u < b.FirstUnit+b.Units
}

func (b *RegBank) unitName(u RegUnit) string {
	offset := u - b.FirstUnit
	if int(offset) < len(b.Names) && b.Names[offset] != "" {
		return b.Names[offset]
	}
	return fmt.Sprintf("%s%d", b.Prefix, offset)
}

// RegClass is a uniformly-strided subset of the units of one bank that
// can be used to satisfy an operand constraint.
type RegClass struct {
	Name string
	// Index is this class's own dense handle.
	Index RegClassIndex
	// Width is the stride and width in units of each register in the class.
	Width uint8
	// Bank is the bank the class draws units from.
	Bank RegBankIndex
	// TopRC is the top-level class this class refines; a top-level
	// class refers to itself.
	TopRC RegClassIndex
	// Count is the number of registers in the class.
	Count uint8
	// Start is the offset of the first register, relative to the
	// bank's first unit.
	Start RegUnit
	// Subclasses is a bitmask of the indices of all classes that are
	// subsets of this one, including this class itself.
	Subclasses uint64
}

// HasSubclass reports whether o is a subclass of this class. A class
// counts as a subclass of itself.
func (c *RegClass) HasSubclass(o RegClassIndex) bool {
	return c.Subclasses&(1<<o) != 0
}

// Unit returns the n-th register of the class as a unit in the flat
// unit space of the ISA. bankFirst must be the FirstUnit of the
// class's bank.
func (c *RegClass) Unit(bankFirst RegUnit, n int) RegUnit {
	return bankFirst + c.Start + RegUnit(n)*RegUnit(c.Width)
}

// RegClassMask is a bit mask of register units, one bit per unit.
// Three 32-bit words cover banks of up to 96 units; extend the array
// if a bank ever grows past that.
type RegClassMask [3]uint32

// IsEmpty reports whether no bit is set.
func (m RegClassMask) IsEmpty() bool {
	return m == RegClassMask{}
}

// Intersect returns the units present in both masks.
func (m RegClassMask) Intersect(o RegClassMask) (ret RegClassMask) {
	for i := range m {
		ret[i] = m[i] & o[i]
	}
	return
}

// Mask computes the unit mask of the class: one bit per register,
// walking Count units from bankFirst+Start with stride Width.
func (c *RegClass) Mask(bankFirst RegUnit) (mask RegClassMask) {
	for n := 0; n < int(c.Count); n++ {
		u := c.Unit(bankFirst, n)
		if int(u) >= 32*len(mask) {
			panic(fmt.Sprintf("BUG: register class %s: unit %d beyond mask capacity", c.Name, u))
		}
		mask[u/32] |= 1 << (u % 32)
	}
	return
}

// RegInfo is the immutable register topology of one ISA.
type RegInfo struct {
	Banks   []RegBank
	Classes []RegClass
}

// RC returns the class data for idx.
func (ri *RegInfo) RC(idx RegClassIndex) *RegClass {
	return &ri.Classes[idx]
}

// BankContaining returns the bank that unit u belongs to, or nil.
func (ri *RegInfo) BankContaining(u RegUnit) *RegBank {
	for i := range ri.Banks {
		if ri.Banks[i].Contains(u) {
			return &ri.Banks[i]
		}
	}
	return nil
}

// DisplayRegUnit returns the display name of unit u, e.g. "x5" or "sp".
func (ri *RegInfo) DisplayRegUnit(u RegUnit) string {
	if b := ri.BankContaining(u); b != nil {
		return b.unitName(u)
	}
	return fmt.Sprintf("unit%d", u)
}

// Intersect returns the largest class contained in both a and b, which
// by the closure invariant is the lowest-index common subclass. The
// second result is false if the classes are disjoint.
func (ri *RegInfo) Intersect(a, b RegClassIndex) (RegClassIndex, bool) {
	common := ri.Classes[a].Subclasses & ri.Classes[b].Subclasses
	if common == 0 {
		return RegClassIndexInvalid, false
	}
	return RegClassIndex(bits.TrailingZeros64(common)), true
}

// ClassContains reports whether unit u is one of the registers of
// class rc.
func (ri *RegInfo) ClassContains(rc RegClassIndex, u RegUnit) bool {
	c := &ri.Classes[rc]
	first := ri.Banks[c.Bank].FirstUnit + c.Start
	if u < first {
		return false
	}
	offset := u - first
	return offset%RegUnit(c.Width) == 0 && offset/RegUnit(c.Width) < RegUnit(c.Count)
}

// Check validates the closure invariant of the class set: within each
// bank, for every class pair (by ascending index) the unit masks are
// either disjoint or their intersection is exactly the mask of a class
// already in the set, and containment is declared as a formal subclass
// relationship. This is O(n^2) in the class count and must run once at
// table-construction time, not per compilation.
func (ri *RegInfo) Check() error {
	for bi := range ri.Banks {
		bank := &ri.Banks[bi]
		for x := 0; x < len(bank.Classes); x++ {
			a := ri.RC(bank.Classes[x])
			ma := a.Mask(bank.FirstUnit)
			for y := x + 1; y < len(bank.Classes); y++ {
				b := ri.RC(bank.Classes[y])
				mb := b.Mask(bank.FirstUnit)
				if ma == mb && a.Width == b.Width {
					return fmt.Errorf("duplicate register classes %s and %s", a.Name, b.Name)
				}
				inter := ma.Intersect(mb)
				switch {
				case inter.IsEmpty():
				case inter == mb:
					// b is contained in a and must be declared so.
					if !a.HasSubclass(b.Index) {
						return fmt.Errorf("%s should be a subclass of %s", b.Name, a.Name)
					}
				case inter == ma:
					return fmt.Errorf("%s contains %s but has a smaller index", b.Name, a.Name)
				default:
					if !ri.maskIsClass(bank, inter) {
						return fmt.Errorf("intersection of %s and %s is not a register class", a.Name, b.Name)
					}
				}
			}
		}
	}
	return nil
}

func (ri *RegInfo) maskIsClass(bank *RegBank, m RegClassMask) bool {
	for _, ci := range bank.Classes {
		if ri.RC(ci).Mask(bank.FirstUnit) == m {
			return true
		}
	}
	return false
}
