// Package ir lowers a parsed statement list into a control-flow graph of
// basic blocks connected by symbolic branch targets, and optimizes it.
package ir

import (
	"fmt"

	"github.com/go-interpreter/brainmuck/parse"
)

// Op identifies the kind of a three-address Instruction. Only one of
// Instruction's Val/Delta/Target fields is meaningful, depending on Op.
type Op uint8

const (
	// ChangeVal adds Val (mod 256) to the tape cell at the current pointer.
	ChangeVal Op = iota
	// ChangeAddr adds Delta to the tape pointer.
	ChangeAddr
	// PutChar writes the current tape cell to the output callback.
	PutChar
	// GetChar reads one byte from the input callback into the current cell.
	GetChar
	// BranchIfZero jumps to Target if the current tape cell is zero.
	BranchIfZero
	// BranchTo jumps unconditionally to Target.
	BranchTo
	// NoOp does nothing; used only as a transient placeholder during lowering.
	NoOp
	// Terminate ends execution; only the final block's final instruction may be this.
	Terminate
)

func (o Op) String() string {
	switch o {
	case ChangeVal:
		return "ChangeVal"
	case ChangeAddr:
		return "ChangeAddr"
	case PutChar:
		return "PutChar"
	case GetChar:
		return "GetChar"
	case BranchIfZero:
		return "BranchIfZero"
	case BranchTo:
		return "BranchTo"
	case NoOp:
		return "NoOp"
	case Terminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// BlockLabel identifies a basic block. Labels are dense: the block at
// position i in a CFG's block slice has label i.
type BlockLabel int

// Instruction is a single three-address-code operation within a BasicBlock.
type Instruction struct {
	Op     Op
	Val    int8       // meaningful for ChangeVal
	Delta  int32      // meaningful for ChangeAddr
	Target BlockLabel // meaningful for BranchIfZero, BranchTo
}

func (i Instruction) String() string {
	switch i.Op {
	case ChangeVal:
		return fmt.Sprintf("ChangeVal(%d)", i.Val)
	case ChangeAddr:
		return fmt.Sprintf("ChangeAddr(%d)", i.Delta)
	case BranchIfZero, BranchTo:
		return fmt.Sprintf("%s(L%d)", i.Op, i.Target)
	default:
		return i.Op.String()
	}
}

// Block is a basic block: one entry (its label), one exit (its last
// instruction, which may be a branch or Terminate).
type Block struct {
	label        BlockLabel
	instructions []Instruction
}

// Label returns this block's label.
func (b *Block) Label() BlockLabel { return b.label }

// Instructions returns a read-only view of this block's instruction list.
func (b *Block) Instructions() []Instruction { return b.instructions }

// lastInstruction returns the block's final instruction, or the zero value
// and false if the block is empty.
func (b *Block) lastInstruction() (Instruction, bool) {
	n := len(b.instructions)
	if n == 0 {
		return Instruction{}, false
	}
	return b.instructions[n-1], true
}

// replaceNoOpWithBranch replaces a placeholder block's sole NoOp instruction
// with a resolved BranchIfZero. It panics if the block isn't exactly the
// single-NoOp placeholder shape lowering creates; seeing anything else there
// would mean lowering mismanaged its bookkeeping.
func (b *Block) replaceNoOpWithBranch(target BlockLabel) {
	if len(b.instructions) != 1 || b.instructions[0].Op != NoOp {
		panic(fmt.Sprintf("ir: tried to patch branch target of unexpected block %d: %v", b.label, b.instructions))
	}
	b.instructions[0] = Instruction{Op: BranchIfZero, Target: target}
}

// CFG is an ordered sequence of basic blocks. Labels are dense (0..N), the
// final block's final instruction is Terminate, and every branch target
// references a label present in the graph.
type CFG struct {
	blocks []Block
}

// Blocks returns a read-only view of the graph's blocks, ordered by label.
func (c *CFG) Blocks() []Block { return c.blocks }

// LastInstruction returns the last instruction of the last block, or false
// if the graph has no blocks (which Lower never produces).
func (c *CFG) LastInstruction() (Instruction, bool) {
	if len(c.blocks) == 0 {
		return Instruction{}, false
	}
	return c.blocks[len(c.blocks)-1].lastInstruction()
}

// Lower compiles an AST into a naive control flow graph. See spec §4.2 for
// the placeholder-block-then-patch algorithm this implements.
func Lower(ast *parse.AST) *CFG {
	var blocks []Block
	var current []Instruction
	blockID := 0

	// For each still-open '[', the label of the placeholder block that will
	// eventually carry its BranchIfZero once the matching ']' is reached.
	startBlockOf := make(map[parse.ConditionalID]BlockLabel)

	finalize := func(instrs []Instruction) {
		blocks = append(blocks, Block{label: BlockLabel(blockID), instructions: instrs})
		blockID++
	}

	for _, stmt := range ast.Statements() {
		switch stmt.Kind {
		case parse.StartCond:
			// 1. finalize the current (in-progress) block.
			finalize(current)

			// 2. create the placeholder that will carry this loop's BranchIfZero.
			placeholder := BlockLabel(blockID)
			blocks = append(blocks, Block{label: placeholder, instructions: []Instruction{{Op: NoOp}}})
			blockID++
			startBlockOf[stmt.CondID] = placeholder

			// 3. begin a new current block.
			current = nil

		case parse.EndCond:
			placeholder, ok := startBlockOf[stmt.CondID]
			if !ok {
				panic(fmt.Sprintf("ir: EndCond %d seen with no matching StartCond", stmt.CondID))
			}

			current = append(current, Instruction{Op: BranchTo, Target: placeholder})
			finalize(current)
			current = nil

			// The block immediately following this one is where a zero cell
			// should skip to.
			blocks[placeholder].replaceNoOpWithBranch(BlockLabel(blockID))

		default:
			current = append(current, lowerSimple(stmt.Kind))
		}
	}

	current = append(current, Instruction{Op: Terminate})
	finalize(current)

	return &CFG{blocks: blocks}
}

// lowerSimple converts a non-branching Statement into its ir.Instruction.
func lowerSimple(kind parse.StatementKind) Instruction {
	switch kind {
	case parse.IncVal:
		return Instruction{Op: ChangeVal, Val: 1}
	case parse.DecVal:
		return Instruction{Op: ChangeVal, Val: -1}
	case parse.IncAddr:
		return Instruction{Op: ChangeAddr, Delta: 1}
	case parse.DecAddr:
		return Instruction{Op: ChangeAddr, Delta: -1}
	case parse.PutChar:
		return Instruction{Op: PutChar}
	case parse.GetChar:
		return Instruction{Op: GetChar}
	default:
		panic(fmt.Sprintf("ir: lowerSimple called with non-trivial statement kind %v", kind))
	}
}
