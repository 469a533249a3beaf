// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile lowers an optimized control flow graph into either a
// flat threaded-bytecode Program (see bytecode.go) or native AArch64
// machine code (see codegen.go, arm64.go).
package compile

import (
	"encoding/binary"

	"github.com/go-interpreter/brainmuck/ir"
)

// Op identifies a threaded-bytecode instruction. Each is a single opcode
// byte, optionally followed by a little-endian operand.
type Op byte

const (
	// OpChangeVal is followed by one signed byte, the delta to add
	// (mod 256) to the tape cell at the current pointer.
	OpChangeVal Op = iota
	// OpChangeAddr is followed by a little-endian int32, the delta to add
	// to the tape pointer.
	OpChangeAddr
	// OpPutChar has no operand.
	OpPutChar
	// OpGetChar has no operand.
	OpGetChar
	// OpBranchIfZero is followed by a little-endian uint32 absolute byte
	// offset into Program.Code, taken when the current cell is zero.
	OpBranchIfZero
	// OpBranchTo is followed by a little-endian uint32 absolute byte
	// offset into Program.Code, taken unconditionally.
	OpBranchTo
	// OpTerminate has no operand and ends execution.
	OpTerminate
)

// Program is a flat, already branch-resolved instruction stream ready for
// threaded-code interpretation.
type Program struct {
	Code []byte
}

// pendingBranch records a branch instruction's operand position, to be
// patched once every block's final byte offset is known.
type pendingBranch struct {
	operandAt int
	target    ir.BlockLabel
}

// Compile lowers cfg into a Program. This is a two-pass compile: each
// block is first emitted in order, recording its starting byte offset;
// any branch operand is emitted as a placeholder and recorded in
// pending, then patched to the real offset once every block's address is
// known. See exec/internal/compile/compile.go in the go-interpreter/wagon
// tree for the WebAssembly analogue of this pattern.
func Compile(cfg *ir.CFG) *Program {
	blocks := cfg.Blocks()
	blockOffset := make([]int, len(blocks))
	var code []byte
	var pending []pendingBranch

	for _, b := range blocks {
		blockOffset[b.Label()] = len(code)
		for _, instr := range b.Instructions() {
			switch instr.Op {
			case ir.ChangeVal:
				code = append(code, byte(OpChangeVal), byte(instr.Val))
			case ir.ChangeAddr:
				code = append(code, byte(OpChangeAddr))
				code = appendInt32(code, instr.Delta)
			case ir.PutChar:
				code = append(code, byte(OpPutChar))
			case ir.GetChar:
				code = append(code, byte(OpGetChar))
			case ir.BranchIfZero:
				code = append(code, byte(OpBranchIfZero))
				pending = append(pending, pendingBranch{operandAt: len(code), target: instr.Target})
				code = appendInt32(code, 0)
			case ir.BranchTo:
				code = append(code, byte(OpBranchTo))
				pending = append(pending, pendingBranch{operandAt: len(code), target: instr.Target})
				code = appendInt32(code, 0)
			case ir.Terminate:
				code = append(code, byte(OpTerminate))
			case ir.NoOp:
				// never survives Lower/Optimize into a final block; ignored
				// defensively rather than panicking on a degenerate CFG.
			}
		}
	}

	for _, p := range pending {
		binary.LittleEndian.PutUint32(code[p.operandAt:], uint32(blockOffset[p.target]))
	}

	return &Program{Code: code}
}

func appendInt32(code []byte, v int32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return append(code, buf[:]...)
}
