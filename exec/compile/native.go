// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

// IOCallbacks are the host I/O operations generated native code invokes via
// "blr" for brainmuck's "." and "," operators. PutChar and GetChar match
// exec.PutCharFunc/exec.GetCharFunc; this package can't import exec (exec
// imports compile), so the shapes are restated rather than shared.
type IOCallbacks struct {
	PutChar func(b byte) error
	GetChar func() (b byte, ok bool, err error)
}

// NativeCodeUnit represents compiled, runnable native code for one
// brainmuck program.
type NativeCodeUnit interface {
	// Invoke runs the compiled program against tape, starting at tape
	// pointer 0, using io for "." and ",". The generated code indexes
	// directly into tape; the caller is responsible for sizing it large
	// enough (see exec.VM). It returns the first error io's callbacks
	// report, if any.
	Invoke(tape []byte, io IOCallbacks) error

	// Unload releases the executable memory backing this unit. The unit
	// must not be used afterwards.
	Unload() error
}
