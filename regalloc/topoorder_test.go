package regalloc

import (
	"testing"

	"github.com/bytecodealliance/wasmtime-sub046/ssa"
	"github.com/stretchr/testify/require"
)

func TestTopoOrder_selfLoop(t *testing.T) {
	// block0 -> block1 -> block1
	f := ssa.NewFunction("selfloop")
	b0 := f.AddBlock()
	b1 := f.AddBlock()
	f.AppendJump(b0, b1)
	f.AppendJump(b1, b1)

	var dt ssa.DominatorTree
	dt.Compute(f)

	var topo TopoOrder
	topo.Reset([]ssa.Block{b1})

	next, ok := topo.Next(&dt)
	require.True(t, ok)
	require.Equal(t, b0, next)

	next, ok = topo.Next(&dt)
	require.True(t, ok)
	require.Equal(t, b1, next)

	_, ok = topo.Next(&dt)
	require.False(t, ok)
	// Next keeps returning false once exhausted.
	_, ok = topo.Next(&dt)
	require.False(t, ok)
}

func TestTopoOrder_dominatorsFirst(t *testing.T) {
	//  0
	// / \
	// 1   2
	// \ /
	//  3
	f := ssa.NewFunction("diamond")
	b0 := f.AddBlock()
	b1 := f.AddBlock()
	b2 := f.AddBlock()
	b3 := f.AddBlock()
	f.AppendJump(b0, b1)
	f.AppendJump(b0, b2)
	f.AppendJump(b1, b3)
	f.AppendJump(b2, b3)

	var dt ssa.DominatorTree
	dt.Compute(f)

	// Preferring the merge block first still visits its dominator
	// before it.
	var topo TopoOrder
	topo.Reset([]ssa.Block{b3, b1, b2})
	var got []ssa.Block
	for {
		b, ok := topo.Next(&dt)
		if !ok {
			break
		}
		got = append(got, b)
	}
	require.Equal(t, []ssa.Block{b0, b3, b1, b2}, got)

	// Every block is visited after all of its dominators.
	seen := map[ssa.Block]bool{}
	for _, b := range got {
		if idom, ok := dt.Idom(b); ok {
			require.True(t, seen[idom], "%s visited before its dominator %s", b, idom)
		}
		seen[b] = true
	}

	// Reset reuses the state for another pass.
	topo.Reset([]ssa.Block{b0, b1, b2, b3})
	got = got[:0]
	for {
		b, ok := topo.Next(&dt)
		if !ok {
			break
		}
		got = append(got, b)
	}
	require.Equal(t, []ssa.Block{b0, b1, b2, b3}, got)
}
