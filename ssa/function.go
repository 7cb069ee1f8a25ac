package ssa

import (
	"fmt"
	"strings"
)

// ValueDefKind tells how a value is defined.
type ValueDefKind byte

const (
	// DefNone marks a value that has no definition attached.
	DefNone ValueDefKind = iota
	// DefInst marks a value defined as a result of an instruction.
	DefInst
	// DefParam marks a value defined as a block parameter.
	DefParam
)

// ValueDef describes the unique definition of a value.
type ValueDef struct {
	Kind  ValueDefKind
	Inst  Inst
	Block Block
	// Num is the result index (DefInst) or parameter index (DefParam).
	Num int
}

// Pred records one predecessor edge of a block: the predecessor block
// and the branch instruction in it that transfers control here.
type Pred struct {
	Block  Block
	Branch Inst
}

type (
	blockData struct {
		params []Value
		insts  []Inst
		preds  []Pred
	}

	instData struct {
		op      Opcode
		block   Block
		num     uint32 // position within the block, for program order comparison.
		args    []Value
		results []Value
		target  Block
		brArgs  []Value
	}

	valueData struct {
		typ Type
		def ValueDef
	}
)

// Function holds a finished SSA function: its blocks in layout order,
// instructions, values and predecessor edges. All lists preserve
// insertion order so that two walks of the same function are
// byte-identical in effect.
type Function struct {
	Name   string
	blocks []blockData
	layout []Block
	insts  []instData
	values []valueData
}

// NewFunction returns an empty function with the given name.
func NewFunction(name string) *Function {
	return &Function{Name: name}
}

// AddBlock appends a new empty block to the function layout.
func (f *Function) AddBlock() Block {
	b := Block(len(f.blocks))
	f.blocks = append(f.blocks, blockData{})
	f.layout = append(f.layout, b)
	return b
}

// Blocks returns the blocks in layout order.
func (f *Function) Blocks() []Block {
	return f.layout
}

// NumBlocks returns the number of blocks.
func (f *Function) NumBlocks() int {
	return len(f.blocks)
}

// Entry returns the entry block.
func (f *Function) Entry() Block {
	if len(f.layout) == 0 {
		panic("BUG: function " + f.Name + " has no blocks")
	}
	return f.layout[0]
}

// NumValues returns the number of values.
func (f *Function) NumValues() int {
	return len(f.values)
}

func (f *Function) makeValue(t Type, def ValueDef) Value {
	v := Value(len(f.values))
	f.values = append(f.values, valueData{typ: t, def: def})
	return v
}

// AppendBlockParam adds a parameter of type t to block b and returns
// the value defined by it.
func (f *Function) AppendBlockParam(b Block, t Type) Value {
	bd := &f.blocks[b]
	v := f.makeValue(t, ValueDef{Kind: DefParam, Block: b, Num: len(bd.params)})
	bd.params = append(bd.params, v)
	return v
}

// BlockParams returns the parameter values of block b.
func (f *Function) BlockParams(b Block) []Value {
	return f.blocks[b].params
}

// Preds returns the predecessor edges of block b, in the order they
// were declared.
func (f *Function) Preds(b Block) []Pred {
	return f.blocks[b].preds
}

// AppendInst appends a non-branch instruction to block b.
func (f *Function) AppendInst(b Block, op Opcode, args ...Value) Inst {
	if op.IsBranch() {
		panic("BUG: branch instruction appended without a target: " + op.String())
	}
	return f.appendInst(b, op, BlockInvalid, args, nil)
}

// AppendJump appends an unconditional branch to target, passing
// brArgs as the target's block arguments, and records the predecessor
// edge on target.
func (f *Function) AppendJump(b, target Block, brArgs ...Value) Inst {
	return f.appendInst(b, OpJump, target, nil, brArgs)
}

// AppendBranch appends a conditional branch on cond to target, passing
// brArgs as the target's block arguments, and records the predecessor
// edge on target.
func (f *Function) AppendBranch(b Block, cond Value, target Block, brArgs ...Value) Inst {
	return f.appendInst(b, OpBranch, target, []Value{cond}, brArgs)
}

func (f *Function) appendInst(b Block, op Opcode, target Block, args, brArgs []Value) Inst {
	bd := &f.blocks[b]
	i := Inst(len(f.insts))
	f.insts = append(f.insts, instData{
		op:     op,
		block:  b,
		num:    uint32(len(bd.insts)),
		args:   args,
		target: target,
		brArgs: brArgs,
	})
	bd.insts = append(bd.insts, i)
	if target.Valid() {
		f.blocks[target].preds = append(f.blocks[target].preds, Pred{Block: b, Branch: i})
	}
	return i
}

// AppendResult adds a result value of type t to instruction i.
func (f *Function) AppendResult(i Inst, t Type) Value {
	id := &f.insts[i]
	v := f.makeValue(t, ValueDef{Kind: DefInst, Inst: i, Num: len(id.results)})
	id.results = append(id.results, v)
	return v
}

// Insts returns the instructions of block b in program order.
func (f *Function) Insts(b Block) []Inst {
	return f.blocks[b].insts
}

// Op returns the opcode of instruction i.
func (f *Function) Op(i Inst) Opcode {
	return f.insts[i].op
}

// Args returns the operand values of instruction i.
func (f *Function) Args(i Inst) []Value {
	return f.insts[i].args
}

// Results returns the result values of instruction i.
func (f *Function) Results(i Inst) []Value {
	return f.insts[i].results
}

// InstBlock returns the block containing instruction i.
func (f *Function) InstBlock(i Inst) Block {
	return f.insts[i].block
}

// BranchTarget returns the destination block of a branch instruction.
func (f *Function) BranchTarget(i Inst) (Block, bool) {
	t := f.insts[i].target
	return t, t.Valid()
}

// BranchArgs returns the block arguments a branch instruction passes
// to its destination.
func (f *Function) BranchArgs(i Inst) []Value {
	return f.insts[i].brArgs
}

// ValueType returns the type of value v.
func (f *Function) ValueType(v Value) Type {
	return f.values[v].typ
}

// Def returns the definition of value v.
func (f *Function) Def(v Value) ValueDef {
	return f.values[v].def
}

// DefPoint returns the program point where v is defined: its defining
// instruction, or the header of the block it is a parameter of.
func (f *Function) DefPoint(v Value) ProgramPoint {
	switch d := f.values[v].def; d.Kind {
	case DefInst:
		return PointOfInst(d.Inst)
	case DefParam:
		return PointOfBlock(d.Block)
	default:
		panic("BUG: " + v.String() + " is not attached to a definition")
	}
}

// DefBlock returns the block where v is defined.
func (f *Function) DefBlock(v Value) Block {
	switch d := f.values[v].def; d.Kind {
	case DefInst:
		return f.insts[d.Inst].block
	case DefParam:
		return d.Block
	default:
		panic("BUG: " + v.String() + " is not attached to a definition")
	}
}

// String implements fmt.Stringer. Only used for debugging.
func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s:\n", f.Name)
	for _, b := range f.layout {
		bd := &f.blocks[b]
		ps := make([]string, len(bd.params))
		for i, p := range bd.params {
			ps[i] = fmt.Sprintf("%s: %s", p, f.values[p].typ)
		}
		fmt.Fprintf(&sb, "%s(%s):\n", b, strings.Join(ps, ", "))
		for _, i := range bd.insts {
			id := &f.insts[i]
			fmt.Fprintf(&sb, "\t%s", id.op)
			for _, a := range id.args {
				fmt.Fprintf(&sb, " %s", a)
			}
			if id.target.Valid() {
				fmt.Fprintf(&sb, " %s", id.target)
				if len(id.brArgs) > 0 {
					as := make([]string, len(id.brArgs))
					for j, a := range id.brArgs {
						as[j] = a.String()
					}
					fmt.Fprintf(&sb, "(%s)", strings.Join(as, ", "))
				}
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
