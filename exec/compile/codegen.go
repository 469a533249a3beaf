// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/go-interpreter/brainmuck/ir"
)

// Register assignment, fixed for the lifetime of a generated function:
//
//	ADDR    = X19  the tape pointer; callee-saved, lives across the whole call
//	VAL     = W0   scratch for the current cell's value, and PutChar/GetChar's
//	               argument/result register
//	GETCHAR = X20  callee-saved; holds the GetChar trampoline's entry address
//	PUTCHAR = X21  callee-saved; holds the PutChar trampoline's entry address
//
// X19-X21 are callee-saved per the AArch64 procedure call standard, so they
// survive the BLR calls PutChar/GetChar make without needing to be reloaded
// between tape accesses and I/O.
var (
	addrReg    = X(19)
	valReg     = W(0)
	getcharReg = X(20)
	putcharReg = X(21)
	sp         = X(31)
)

// frameSize is the callee-saved register save area: [sp+0]=x21 [sp+8]=x20
// [sp+0x10]=x19 [sp+0x18]=unused, with the frame record (fp, lr) at
// [sp+0x20]. 0x30 bytes total, keeping sp 16-byte aligned.
const (
	frameSize    = 0x30
	savedAddrOff = 0x10
	frameRecord  = 0x20
)

// NativeCode is machine code generated for one brainmuck program, ready to
// be mapped executable and invoked via Invoke (see native.go, loader.go).
type NativeCode struct {
	Code []byte
}

// maxImm12 is the largest unsigned immediate a single ADD/SUB (immediate)
// instruction can encode.
const maxImm12 = 0xFFF

// Generate compiles cfg directly to AArch64 machine code. The generated
// function's signature, as called through Invoke, is:
//
//	func(tape *byte, putchar, getchar uintptr)
//
// putchar and getchar are entry addresses of Go-side trampolines (see
// native_exec.go, callback_arm64.s) that generated code invokes directly
// with "blr", exactly as spec.md's ABI requires: one call-frame setup, and
// host I/O happens by branching into caller-supplied function pointers
// rather than the JIT talking to the outside world on its own.
//
// Generate panics if cfg's final instruction is not ir.Terminate.
func Generate(cfg *ir.CFG) (*NativeCode, error) {
	if last, ok := cfg.LastInstruction(); !ok || last.Op != ir.Terminate {
		panic("compile: Generate called on a CFG whose last instruction is not Terminate")
	}
	a := NewAssembler()
	blocks := cfg.Blocks()
	labels := make([]Label, len(blocks))
	for i := range blocks {
		labels[i] = a.NewLabel()
	}

	emitPrologue(a)

	for _, b := range blocks {
		a.BindLabel(labels[b.Label()])
		for _, instr := range b.Instructions() {
			switch instr.Op {
			case ir.ChangeVal:
				emitChangeVal(a, instr.Val)
			case ir.ChangeAddr:
				emitChangeAddr(a, instr.Delta)
			case ir.PutChar:
				emitPutChar(a)
			case ir.GetChar:
				emitGetChar(a)
			case ir.BranchIfZero:
				a.LDRB(valReg, addrReg, 0)
				a.CBZ(valReg, labels[instr.Target])
			case ir.BranchTo:
				a.B(labels[instr.Target])
			case ir.Terminate:
				emitEpilogue(a)
			case ir.NoOp:
				// unreachable: Lower/Optimize never leave a NoOp in a final block.
			}
		}
	}

	if err := a.PatchBranches(); err != nil {
		return nil, err
	}
	return &NativeCode{Code: a.MachineCode()}, nil
}

// emitPrologue saves the three callee-saved registers this function uses
// plus the frame record, then loads its three incoming arguments (tape,
// putchar, getchar, in x0/x1/x2 per AAPCS64) into them. Grounded on the
// Rust original's setup_stack_and_save_registers.
func emitPrologue(a *Assembler) {
	a.STPPreIndex(putcharReg, getcharReg, sp, -frameSize)
	a.STPOffset(X(29), X(30), sp, frameRecord)
	a.STR(addrReg, sp, savedAddrOff)
	a.ADD(X(29), sp, frameRecord) // fp = sp + frameRecord
	a.MOV(addrReg, X(0))          // tape pointer arrives in x0
	a.MOV(putcharReg, X(1))       // putchar trampoline address arrives in x1
	a.MOV(getcharReg, X(2))       // getchar trampoline address arrives in x2
}

// emitEpilogue restores the registers emitPrologue saved and returns.
// Grounded on the Rust original's restore_stack_and_registers_and_return.
func emitEpilogue(a *Assembler) {
	a.LDR(addrReg, sp, savedAddrOff)
	a.LDPOffset(X(29), X(30), sp, frameRecord)
	a.LDPPostIndex(putcharReg, getcharReg, sp, frameSize)
	a.RET()
}

func emitChangeVal(a *Assembler, delta int8) {
	a.LDRB(valReg, addrReg, 0)
	if delta >= 0 {
		a.ADD(valReg, valReg, uint16(delta))
	} else {
		a.SUB(valReg, valReg, uint16(-int16(delta)))
	}
	a.STRB(valReg, addrReg, 0)
}

func emitChangeAddr(a *Assembler, delta int32) {
	remaining := delta
	for remaining != 0 {
		var chunk int32
		switch {
		case remaining > maxImm12:
			chunk = maxImm12
		case remaining < -maxImm12:
			chunk = -maxImm12
		default:
			chunk = remaining
		}
		if chunk >= 0 {
			a.ADD(addrReg, addrReg, uint16(chunk))
		} else {
			a.SUB(addrReg, addrReg, uint16(-chunk))
		}
		remaining -= chunk
	}
}

// emitPutChar loads the current cell into w0 (PutChar's argument register
// per AAPCS64) and branches into the putchar trampoline.
func emitPutChar(a *Assembler) {
	a.LDRB(valReg, addrReg, 0)
	a.BLR(putcharReg)
}

// emitGetChar branches into the getchar trampoline and stores its result,
// left in w0 per AAPCS64, into the current cell.
func emitGetChar(a *Assembler) {
	a.BLR(getcharReg)
	a.STRB(valReg, addrReg, 0)
}
