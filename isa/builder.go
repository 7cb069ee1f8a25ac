package isa

import "fmt"

// BankSpec describes a register bank to add to a Builder.
type BankSpec struct {
	Name             string
	Prefix           string
	Units            RegUnit
	Names            []string
	PressureTracking bool
}

// ClassSpec describes a register class to add to a Builder.
type ClassSpec struct {
	Name string
	Bank RegBankIndex
	// Parent is the immediate superclass, or RegClassIndexInvalid for
	// a top-level class.
	Parent RegClassIndex
	// Width is the stride in units; 0 defaults to 1.
	Width uint8
	// Count is the number of registers in the class.
	Count uint8
	// Start is the unit offset of the first register within the bank.
	Start RegUnit
}

// Builder assembles an immutable RegInfo table. It stands in for the
// offline table generator: banks and classes are added in dependency
// order and the result is validated once by Finish.
type Builder struct {
	info RegInfo
}

// AddBank adds a register bank. The bank is packed immediately after
// the previous one's last unit, aligned up to the next power-of-two
// boundary of its own unit count, so aligned sub-range addressing
// never spills across banks.
func (b *Builder) AddBank(spec BankSpec) RegBankIndex {
	first := RegUnit(0)
	if n := len(b.info.Banks); n > 0 {
		prev := &b.info.Banks[n-1]
		align := nextPowerOfTwo(spec.Units)
		first = (prev.FirstUnit + prev.Units + align - 1) &^ (align - 1)
	}
	idx := RegBankIndex(len(b.info.Banks))
	b.info.Banks = append(b.info.Banks, RegBank{
		Name:             spec.Name,
		FirstUnit:        first,
		Units:            spec.Units,
		Names:            spec.Names,
		Prefix:           spec.Prefix,
		PressureTracking: spec.PressureTracking,
	})
	return idx
}

// AddClass adds a register class. A class with a Parent records the
// subclass linkage on every ancestor up to the top-level class, and
// appends itself to its bank's class lists.
func (b *Builder) AddClass(spec ClassSpec) RegClassIndex {
	if len(b.info.Classes) >= maxRegClasses {
		panic(fmt.Sprintf("BUG: too many register classes (max %d)", maxRegClasses))
	}
	idx := RegClassIndex(len(b.info.Classes))
	width := spec.Width
	if width == 0 {
		width = 1
	}
	c := RegClass{
		Name:       spec.Name,
		Index:      idx,
		Width:      width,
		Bank:       spec.Bank,
		TopRC:      idx,
		Count:      spec.Count,
		Start:      spec.Start,
		Subclasses: 1 << idx,
	}

	bank := &b.info.Banks[spec.Bank]
	if spec.Parent == RegClassIndexInvalid {
		bank.TopClasses = append(bank.TopClasses, idx)
	} else {
		// Subclasses must be added after their superclass so that the
		// class set stays topologically sorted.
		parent := &b.info.Classes[spec.Parent]
		if parent.Bank != spec.Bank {
			panic(fmt.Sprintf("BUG: subclass %s crosses banks with its parent %s", spec.Name, parent.Name))
		}
		c.TopRC = parent.TopRC
		// Record the new class on the parent and every class above it:
		// exactly the classes of the same top-level class that already
		// list the parent as a subclass.
		for i := range b.info.Classes {
			o := &b.info.Classes[i]
			if o.TopRC == c.TopRC && o.HasSubclass(spec.Parent) {
				o.Subclasses |= 1 << idx
			}
		}
	}
	bank.Classes = append(bank.Classes, idx)
	b.info.Classes = append(b.info.Classes, c)
	return idx
}

// Info returns the table built so far, without validating it. Intended
// for tests exercising Check directly.
func (b *Builder) Info() *RegInfo {
	return &b.info
}

// Finish validates the table with Check and returns it. A validation
// failure is a bug in the table definition, so it panics.
func (b *Builder) Finish() *RegInfo {
	if err := b.info.Check(); err != nil {
		panic("BUG: malformed register class table: " + err.Error())
	}
	return &b.info
}

func nextPowerOfTwo(n RegUnit) RegUnit {
	p := RegUnit(1)
	for p < n {
		p <<= 1
	}
	return p
}
