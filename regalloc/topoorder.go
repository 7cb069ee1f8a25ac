package regalloc

import (
	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// TopoOrder produces a visitation order of basic blocks that respects
// a preferred order while guaranteeing that every dominator of a
// visited block has been visited first.
//
// The zero value is ready for Reset. Buffers are kept across Reset
// calls, so one TopoOrder can be reused for many passes.
type TopoOrder struct {
	// preferred is the order we try to follow.
	preferred []ssa.Block
	// next is the index of the next preferred block to take.
	next int
	// visited marks the blocks already pushed on the stack.
	visited entity.Set[ssa.Block]
	// stack holds blocks to visit next, dominators on top.
	stack []ssa.Block
}

// Reset initializes the traversal to follow the given preferred block
// order.
func (t *TopoOrder) Reset(preferred []ssa.Block) {
	t.preferred = append(t.preferred[:0], preferred...)
	t.next = 0
	t.visited.Clear()
	t.stack = t.stack[:0]
}

// Next returns the next block in the order, or false when all blocks
// of the preferred sequence and their dominators have been returned.
// Calling Next again after that keeps returning false.
//
// While the internal stack is empty, the next unvisited preferred
// block and its unvisited dominator chain are pushed, inner-most
// block first, so popping yields every dominator before the blocks it
// dominates.
func (t *TopoOrder) Next(domtree *ssa.DominatorTree) (ssa.Block, bool) {
	for len(t.stack) == 0 {
		if t.next >= len(t.preferred) {
			return ssa.BlockInvalid, false
		}
		blk := t.preferred[t.next]
		t.next++
		for t.visited.Insert(blk) {
			t.stack = append(t.stack, blk)
			idom, ok := domtree.Idom(blk)
			if !ok {
				break
			}
			blk = idom
		}
	}
	tail := len(t.stack) - 1
	blk := t.stack[tail]
	t.stack = t.stack[:tail]
	return blk, true
}
