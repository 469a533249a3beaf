// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm renders a lowered CFG or compiled bytecode Program as
// human-readable pseudo-assembly, for introspection by cmd/brainmuck-dump.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
)

// CFG renders cfg as one labeled block per line group, e.g. for "+[+]":
//
//	L0:
//	  [bp] <- [bp] + 1
//	L1:
//	  branch_if_zero L3
//	L2:
//	  ...
func CFG(cfg *ir.CFG) string {
	var b strings.Builder
	for _, block := range cfg.Blocks() {
		fmt.Fprintf(&b, "L%d:\n", block.Label())
		for _, instr := range block.Instructions() {
			fmt.Fprintf(&b, "  %s\n", formatInstruction(instr))
		}
	}
	return b.String()
}

func formatInstruction(instr ir.Instruction) string {
	switch instr.Op {
	case ir.ChangeVal:
		if instr.Val >= 0 {
			return fmt.Sprintf("[bp] <- [bp] + %d", instr.Val)
		}
		return fmt.Sprintf("[bp] <- [bp] - %d", -int(instr.Val))
	case ir.ChangeAddr:
		if instr.Delta >= 0 {
			return fmt.Sprintf("bp <- bp + %d", instr.Delta)
		}
		return fmt.Sprintf("bp <- bp - %d", -instr.Delta)
	case ir.PutChar:
		return "putchar [bp]"
	case ir.GetChar:
		return "[bp] <- getchar"
	case ir.BranchIfZero:
		return fmt.Sprintf("branch_if_zero L%d", instr.Target)
	case ir.BranchTo:
		return fmt.Sprintf("branch L%d", instr.Target)
	case ir.Terminate:
		return "terminate"
	case ir.NoOp:
		return "nop"
	default:
		return fmt.Sprintf("<unknown op %d>", instr.Op)
	}
}

// Program renders a compiled threaded-bytecode Program as one line per
// instruction, each prefixed with its byte offset so branch targets
// printed alongside are easy to cross-reference.
func Program(prog *compile.Program) string {
	var b strings.Builder
	code := prog.Code
	pc := 0
	for pc < len(code) {
		offset := pc
		op := compile.Op(code[pc])
		pc++
		switch op {
		case compile.OpChangeVal:
			delta := int8(code[pc])
			pc++
			fmt.Fprintf(&b, "%06d  change_val %d\n", offset, delta)
		case compile.OpChangeAddr:
			delta := int32(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			fmt.Fprintf(&b, "%06d  change_addr %d\n", offset, delta)
		case compile.OpPutChar:
			fmt.Fprintf(&b, "%06d  putchar\n", offset)
		case compile.OpGetChar:
			fmt.Fprintf(&b, "%06d  getchar\n", offset)
		case compile.OpBranchIfZero:
			target := binary.LittleEndian.Uint32(code[pc:])
			pc += 4
			fmt.Fprintf(&b, "%06d  branch_if_zero %06d\n", offset, target)
		case compile.OpBranchTo:
			target := binary.LittleEndian.Uint32(code[pc:])
			pc += 4
			fmt.Fprintf(&b, "%06d  branch %06d\n", offset, target)
		case compile.OpTerminate:
			fmt.Fprintf(&b, "%06d  terminate\n", offset)
		default:
			fmt.Fprintf(&b, "%06d  <unknown opcode %#x>\n", offset, code[offset])
		}
	}
	return b.String()
}
