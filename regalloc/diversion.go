package regalloc

import (
	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// RegDiversions tracks values that have been temporarily moved away
// from their assigned register within a block, e.g. around a call with
// a conflicting fixed-register constraint. Diversions are local to a
// block and cleared at its boundary.
//
// Encoding sizes can depend on the diverted register (isa.Diversions),
// so the tracker stores diversions in insertion order and never
// iterates a hash map.
type RegDiversions struct {
	current   []diversion
	locations *entity.Map[ssa.Value, isa.ValueLoc]
}

type diversion struct {
	value ssa.Value
	to    isa.RegUnit
}

// NewRegDiversions returns a tracker reading undiverted registers from
// the given value location table.
func NewRegDiversions(locations *entity.Map[ssa.Value, isa.ValueLoc]) *RegDiversions {
	return &RegDiversions{locations: locations}
}

// Clear forgets all diversions. Called at block boundaries.
func (d *RegDiversions) Clear() {
	d.current = d.current[:0]
}

// Divert records that v now lives in unit to.
func (d *RegDiversions) Divert(v ssa.Value, to isa.RegUnit) {
	for i := range d.current {
		if d.current[i].value == v {
			d.current[i].to = to
			return
		}
	}
	d.current = append(d.current, diversion{value: v, to: to})
}

// Reg implements isa.Diversions: the current register of v, either its
// active diversion or its assigned location.
func (d *RegDiversions) Reg(v ssa.Value) isa.RegUnit {
	for i := range d.current {
		if d.current[i].value == v {
			return d.current[i].to
		}
	}
	loc := d.locations.Get(v)
	if loc.Kind != isa.LocReg {
		panic("BUG: " + v.String() + " is not in a register")
	}
	return loc.Unit
}

var _ isa.Diversions = (*RegDiversions)(nil)
