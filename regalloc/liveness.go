package regalloc

import (
	"github.com/bytecodealliance/wasmtime-sub046/entity"
	"github.com/bytecodealliance/wasmtime-sub046/ssa"
)

// LiveRange describes where one value is live: from its definition to
// its last use in the defining block, plus the blocks it is live-in to
// and the point it dies in each. The liveness analysis computing the
// ranges runs upstream; this is the data model it fills in and the
// CSSA verifier consumes.
type LiveRange struct {
	// def is the point the value is defined.
	def ssa.ProgramPoint
	// defBlock is the block containing def.
	defBlock ssa.Block
	// defEnd is the last use within defBlock, initially def itself.
	defEnd ssa.ProgramPoint
	// liveIns are the blocks the value is live-in to, in the order
	// they were recorded, with the last live point in each.
	liveIns []liveInInterval
}

type liveInInterval struct {
	block ssa.Block
	end   ssa.ProgramPoint
}

// DefBegin returns the definition point of the value.
func (lr *LiveRange) DefBegin() ssa.ProgramPoint {
	return lr.def
}

// DefEnd returns the last live point within the defining block.
func (lr *LiveRange) DefEnd() ssa.ProgramPoint {
	return lr.defEnd
}

// ExtendInBlock records that the value is live in block b up to the
// point end: the local interval is extended in the defining block, and
// a live-in interval is created or extended elsewhere.
func (lr *LiveRange) ExtendInBlock(b ssa.Block, end ssa.ProgramPoint) {
	if b == lr.defBlock {
		lr.defEnd = end
		return
	}
	for i := range lr.liveIns {
		if lr.liveIns[i].block == b {
			lr.liveIns[i].end = end
			return
		}
	}
	lr.liveIns = append(lr.liveIns, liveInInterval{block: b, end: end})
}

// LivesIn reports whether the value is live-in to block b.
func (lr *LiveRange) LivesIn(b ssa.Block) bool {
	for i := range lr.liveIns {
		if lr.liveIns[i].block == b {
			return true
		}
	}
	return false
}

// OverlapsDef reports whether this range is live at the point def in
// block b, i.e. whether a value defined there would interfere with
// this one. A definition exactly at the last use does not overlap:
// that is the back-to-back case coalescing exists for.
func (lr *LiveRange) OverlapsDef(def ssa.ProgramPoint, b ssa.Block, f *ssa.Function, dt *ssa.DominatorTree) bool {
	if b == lr.defBlock {
		return dt.RPOCompare(f, lr.def, def) <= 0 && dt.RPOCompare(f, def, lr.defEnd) < 0
	}
	for i := range lr.liveIns {
		if lr.liveIns[i].block == b {
			return dt.RPOCompare(f, def, lr.liveIns[i].end) < 0
		}
	}
	return false
}

// Liveness maps each value to its live range.
type Liveness struct {
	ranges entity.Map[ssa.Value, *LiveRange]
}

// Create creates the live range of v at its definition point and
// returns it. A previously created range is replaced.
func (l *Liveness) Create(v ssa.Value, f *ssa.Function) *LiveRange {
	lr := &LiveRange{
		def:      f.DefPoint(v),
		defBlock: f.DefBlock(v),
		defEnd:   f.DefPoint(v),
	}
	l.ranges.Set(v, lr)
	return lr
}

// Get returns the live range of v, or nil if none was created.
func (l *Liveness) Get(v ssa.Value) *LiveRange {
	return l.ranges.Get(v)
}

// Reset drops all live ranges.
func (l *Liveness) Reset() {
	l.ranges.Clear()
}
