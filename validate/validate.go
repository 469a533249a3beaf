// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate checks structural invariants of a lowered CFG or
// compiled bytecode Program before it is handed to an execution backend.
// It plays the same role in this pipeline that WebAssembly's type-stack
// validator (see go-interpreter/wagon's validate package) plays in
// wagon's: a cheap, pre-execution pass that turns "this would have
// crashed the VM" into a returned error.
package validate

import (
	"encoding/binary"
	"fmt"

	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
)

// Error describes one violated invariant.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "validate: " + e.Msg }

// CFG checks that cfg is well-formed: block labels are dense starting at
// 0, every branch targets a label that exists, and the final instruction
// of the final block is ir.Terminate.
func CFG(cfg *ir.CFG) error {
	blocks := cfg.Blocks()
	if len(blocks) == 0 {
		return &Error{Msg: "cfg has no blocks"}
	}

	for i, b := range blocks {
		if int(b.Label()) != i {
			return &Error{Msg: fmt.Sprintf("block at index %d has label %d, want dense labeling", i, b.Label())}
		}
	}

	labelCount := ir.BlockLabel(len(blocks))
	for _, b := range blocks {
		for _, instr := range b.Instructions() {
			if instr.Op == ir.BranchIfZero || instr.Op == ir.BranchTo {
				if instr.Target < 0 || instr.Target >= labelCount {
					return &Error{Msg: fmt.Sprintf("block %d branches to out-of-range label %d", b.Label(), instr.Target)}
				}
			}
		}
	}

	last, ok := cfg.LastInstruction()
	if !ok || last.Op != ir.Terminate {
		return &Error{Msg: "final instruction of final block is not Terminate"}
	}

	return nil
}

// Program checks that a compiled bytecode Program is well-formed: every
// branch operand's target is a valid offset within Code, and Code ends
// with OpTerminate.
func Program(prog *compile.Program) error {
	code := prog.Code
	if len(code) == 0 {
		return &Error{Msg: "program has no code"}
	}

	pc := 0
	var last compile.Op
	for pc < len(code) {
		op := compile.Op(code[pc])
		last = op
		switch op {
		case compile.OpChangeVal:
			pc += 2
		case compile.OpChangeAddr:
			pc += 5
		case compile.OpPutChar, compile.OpGetChar, compile.OpTerminate:
			pc++
		case compile.OpBranchIfZero, compile.OpBranchTo:
			if pc+5 > len(code) {
				return &Error{Msg: fmt.Sprintf("branch opcode at %d is missing its operand", pc)}
			}
			target := binary.LittleEndian.Uint32(code[pc+1:])
			if int(target) >= len(code) {
				return &Error{Msg: fmt.Sprintf("branch at %d targets out-of-range offset %d", pc, target)}
			}
			pc += 5
		default:
			return &Error{Msg: fmt.Sprintf("unrecognized opcode %#x at offset %d", code[pc], pc)}
		}
	}

	if last != compile.OpTerminate {
		// last is the opcode of the final decoded instruction, not merely the
		// final byte, which may be another instruction's operand.
		return &Error{Msg: "program does not end with OpTerminate"}
	}

	return nil
}
