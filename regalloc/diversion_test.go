package regalloc

import (
	"testing"

	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/isa"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
	"github.com/stretchr/testify/require"
)

func TestRegDiversions(t *testing.T) {
	var locations entity.Map[ssa.Value, isa.ValueLoc]
	locations.Set(ssa.Value(0), isa.RegLoc(3))
	locations.Set(ssa.Value(1), isa.RegLoc(7))
	locations.Set(ssa.Value(2), isa.StackLoc(8))

	divs := NewRegDiversions(&locations)

	// Without a diversion, Reg reads the assigned location.
	require.Equal(t, isa.RegUnit(3), divs.Reg(ssa.Value(0)))

	divs.Divert(ssa.Value(0), 10)
	require.Equal(t, isa.RegUnit(10), divs.Reg(ssa.Value(0)))
	require.Equal(t, isa.RegUnit(7), divs.Reg(ssa.Value(1)))

	// Diverting again updates in place.
	divs.Divert(ssa.Value(0), 12)
	require.Equal(t, isa.RegUnit(12), divs.Reg(ssa.Value(0)))

	// A diversion hides the assigned location even for spilled values.
	divs.Divert(ssa.Value(2), 5)
	require.Equal(t, isa.RegUnit(5), divs.Reg(ssa.Value(2)))

	divs.Clear()
	require.Equal(t, isa.RegUnit(3), divs.Reg(ssa.Value(0)))
	require.Panics(t, func() { divs.Reg(ssa.Value(2)) })
	require.Panics(t, func() { divs.Reg(ssa.Value(9)) })
}
