package ssa

// DominatorTree holds the immediate dominator of each basic block and
// the reverse-postorder numbering of the CFG.
//
// The calculation is based on the algorithm described in the paper
// "A Simple, Fast Dominance Algorithm" https://www.cs.rice.edu/~keith/EMBED/dom.pdf
// which is a faster/simple alternative to the well known Lengauer-Tarjan algorithm.
type DominatorTree struct {
	// idom maps a block to its immediate dominator. The entry block maps
	// to itself, unreachable blocks to BlockInvalid.
	idom []Block
	// rpo maps a block to its reverse-postorder number, -1 if unreachable.
	rpo []int32

	// Reused buffers across Compute calls.
	order   []Block
	explore []Block
	state   []int32
}

const (
	visitStateUnseen int32 = iota
	visitStateSeen
	visitStateDone
)

// Compute calculates the dominator tree and reverse postorder of f.
func (t *DominatorTree) Compute(f *Function) {
	n := f.NumBlocks()
	t.idom = resize(t.idom, n)
	t.rpo = resize(t.rpo, n)
	t.state = resize(t.state, n)
	for i := 0; i < n; i++ {
		t.idom[i] = BlockInvalid
		t.rpo[i] = -1
		t.state[i] = visitStateUnseen
	}

	// First store the postorder from the entry block into t.order,
	// using an explicit explore stack. Successors are visited in the
	// order their branches appear in the block, so the result only
	// depends on the function layout.
	order := t.order[:0]
	explore := t.explore[:0]
	entry := f.Entry()
	explore = append(explore, entry)
	t.state[entry] = visitStateSeen
	for len(explore) > 0 {
		tail := len(explore) - 1
		blk := explore[tail]
		explore = explore[:tail]
		switch t.state[blk] {
		case visitStateUnseen:
			panic("BUG: unseen block " + blk.String() + " on explore stack")
		case visitStateSeen:
			// The first pop: revisit after the successors are done.
			explore = append(explore, blk)
			for _, i := range f.Insts(blk) {
				if succ, ok := f.BranchTarget(i); ok && t.state[succ] == visitStateUnseen {
					t.state[succ] = visitStateSeen
					explore = append(explore, succ)
				}
			}
			t.state[blk] = visitStateDone
		case visitStateDone:
			order = append(order, blk)
		}
	}
	// order holds the postorder, so reverse it.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for i, blk := range order {
		t.rpo[blk] = int32(i)
	}
	t.order = order
	t.explore = explore

	// Iterate to the fixed point of the idom equations.
	t.idom[entry] = entry
	for changed := true; changed; {
		changed = false
		for _, blk := range order[1:] { // skips the entry block
			var u Block = BlockInvalid
			for _, pred := range f.Preds(blk) {
				p := pred.Block
				// Skip predecessors that are not reachable yet; necessary
				// for nested loops even though the paper omits it.
				if t.idom[p] == BlockInvalid {
					continue
				}
				if u == BlockInvalid {
					u = p
				} else {
					u = t.intersect(u, p)
				}
			}
			if t.idom[blk] != u {
				t.idom[blk] = u
				changed = true
			}
		}
	}
}

// intersect returns the common dominator of b1 and b2.
func (t *DominatorTree) intersect(b1, b2 Block) Block {
	finger1, finger2 := b1, b2
	for finger1 != finger2 {
		for t.rpo[finger1] > t.rpo[finger2] {
			finger1 = t.idom[finger1]
		}
		for t.rpo[finger2] > t.rpo[finger1] {
			finger2 = t.idom[finger2]
		}
	}
	return finger1
}

// Idom returns the immediate dominator of b. The second result is
// false for the entry block and for unreachable blocks.
func (t *DominatorTree) Idom(b Block) (Block, bool) {
	d := t.idom[b]
	if d == BlockInvalid || d == b {
		return BlockInvalid, false
	}
	return d, true
}

// Reachable reports whether b is reachable from the entry block.
func (t *DominatorTree) Reachable(b Block) bool {
	return t.rpo[b] >= 0
}

// RPONumber returns the reverse-postorder number of b, with the entry
// block numbered 0. Must only be called for reachable blocks.
func (t *DominatorTree) RPONumber(b Block) int {
	n := t.rpo[b]
	if n < 0 {
		panic("BUG: RPO number of unreachable " + b.String())
	}
	return int(n)
}

// Dominates reports whether a dominates b. A block dominates itself.
func (t *DominatorTree) Dominates(a, b Block) bool {
	for {
		if a == b {
			return true
		}
		d, ok := t.Idom(b)
		if !ok {
			return false
		}
		b = d
	}
}

// RPOCompare compares two program points in dominator-tree
// reverse-postorder: first by block RPO number, then by position
// within the block, where the block header (parameter definitions)
// sorts before every instruction of the block.
func (t *DominatorTree) RPOCompare(f *Function, a, b ProgramPoint) int {
	ba, ra := t.split(f, a)
	bb, rb := t.split(f, b)
	if ba != bb {
		return t.RPONumber(ba) - t.RPONumber(bb)
	}
	return ra - rb
}

func (t *DominatorTree) split(f *Function, p ProgramPoint) (Block, int) {
	if p.IsInst() {
		i := p.Inst()
		return f.InstBlock(i), int(f.insts[i].num)
	}
	return p.Block(), -1
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return append(s[:cap(s)], make([]T, n-cap(s))...)
	}
	return s[:n]
}
