// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exec provides two ways to run a compiled brainmuck program: a
// threaded-bytecode interpreter, and (on arm64) invocation of natively
// JITed machine code. Both share the same tape, GetChar and PutChar.
package exec

import (
	"encoding/binary"

	"github.com/go-interpreter/brainmuck/exec/compile"
)

// VM is the execution context for a brainmuck program: a tape, a pointer
// into it, and the I/O callbacks "." and "," use.
type VM struct {
	tape []byte
	ptr  int

	GetChar GetCharFunc
	PutChar PutCharFunc
}

// NewVM returns a VM with a fresh, zeroed tape and stdio-backed I/O.
func NewVM() *VM {
	return &VM{
		tape:    make([]byte, defaultTapeSize),
		GetChar: defaultGetChar(),
		PutChar: defaultPutChar(),
	}
}

// Run interprets prog's threaded bytecode against the VM's tape, trapping
// ErrOutOfBoundsTape from a runaway pointer into a returned error rather
// than letting it unwind the caller's stack.
func (vm *VM) Run(prog *compile.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	vm.execBytecode(prog.Code)
	return nil
}

func (vm *VM) execBytecode(code []byte) {
	pc := 0
	for pc < len(code) {
		op := compile.Op(code[pc])
		pc++
		switch op {
		case compile.OpChangeVal:
			delta := int8(code[pc])
			pc++
			vm.addCell(delta)
		case compile.OpChangeAddr:
			delta := int32(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			vm.move(delta)
		case compile.OpPutChar:
			if err := vm.PutChar(vm.cell()); err != nil {
				panic(err)
			}
		case compile.OpGetChar:
			b, ok, err := vm.GetChar()
			if err != nil {
				panic(err)
			}
			if ok {
				vm.setCell(b)
			} else {
				vm.setCell(0) // EOF: the cell is zeroed, matching the JIT backend (see compile/callback.go)
			}
		case compile.OpBranchIfZero:
			target := int(binary.LittleEndian.Uint32(code[pc:]))
			pc += 4
			if vm.cell() == 0 {
				pc = target
			}
		case compile.OpBranchTo:
			target := int(binary.LittleEndian.Uint32(code[pc:]))
			pc = target
		case compile.OpTerminate:
			return
		}
	}
}

// RunNative loads code, native AArch64 machine code produced by
// compile.Generate, into executable memory, runs it against the VM's tape
// starting at cell 0, and unloads it afterwards. "." and "," branch back into the VM's own PutChar/GetChar,
// the same callbacks the interpreter uses (see exec/compile/codegen.go,
// exec/compile/callback_arm64.s).
func (vm *VM) RunNative(code *compile.NativeCode) error {
	unit, err := compile.Load(code)
	if err != nil {
		return err
	}
	defer unit.Unload()

	if vm.ptr != 0 {
		// generated code always starts at tape[0]; keep that invariant explicit
		// rather than silently executing from the wrong cell.
		vm.ptr = 0
	}
	return unit.Invoke(vm.tape, compile.IOCallbacks{
		PutChar: vm.PutChar,
		GetChar: vm.GetChar,
	})
}

// Tape returns the VM's current tape contents, for tests and introspection.
func (vm *VM) Tape() []byte { return vm.tape }

// Ptr returns the VM's current tape pointer.
func (vm *VM) Ptr() int { return vm.ptr }
