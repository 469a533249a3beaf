// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import "errors"

// ErrOutOfBoundsTape is the error value used while trapping the VM when
// the tape pointer moves out of bounds: left of cell 0, or past maxTapeSize.
var ErrOutOfBoundsTape = errors.New("exec: tape pointer out of bounds")

// defaultTapeSize matches the classic brainmuck convention of a 30,000
// cell tape.
const defaultTapeSize = 30000

// maxTapeSize bounds how far the tape is allowed to grow to the right;
// past this, a program is almost certainly runaway rather than legitimately
// data-hungry.
const maxTapeSize = 1 << 24

// move advances the tape pointer by delta, growing the tape if it runs off
// the right edge, and panics with ErrOutOfBoundsTape if it would go
// negative or past maxTapeSize.
func (vm *VM) move(delta int32) {
	next := vm.ptr + int(delta)
	if next < 0 || next >= maxTapeSize {
		panic(ErrOutOfBoundsTape)
	}
	if next >= len(vm.tape) {
		grown := make([]byte, next+1)
		copy(grown, vm.tape)
		vm.tape = grown
	}
	vm.ptr = next
}

// cell returns the tape cell the pointer currently references.
func (vm *VM) cell() byte {
	return vm.tape[vm.ptr]
}

// setCell overwrites the tape cell the pointer currently references.
func (vm *VM) setCell(v byte) {
	vm.tape[vm.ptr] = v
}

// addCell adds delta (mod 256) to the current cell.
func (vm *VM) addCell(delta int8) {
	vm.tape[vm.ptr] += byte(delta)
}
