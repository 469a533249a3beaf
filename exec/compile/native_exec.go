// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build arm64 && !appengine
// +build arm64,!appengine

package compile

import (
	"reflect"
	"unsafe"
)

// asmBlock is an executable region holding one compiled brainmuck program.
type asmBlock struct {
	region *executableRegion
}

// Load maps code's bytes into an executable region and returns a
// NativeCodeUnit ready to Invoke. Close the returned unit's underlying
// region (via Unload) once it is no longer needed.
func Load(code *NativeCode) (NativeCodeUnit, error) {
	region, err := allocateExecutable(code.Code)
	if err != nil {
		return nil, err
	}
	return &asmBlock{region: region}, nil
}

// putcharTrampolineAddr and getcharTrampolineAddr are the fixed entry
// points generated code "blr"s into for "." and ",", resolved once via
// reflect since Go has no syntax for taking a bare function's machine
// address.
var (
	putcharTrampolineAddr = reflect.ValueOf(putcharTrampoline).Pointer()
	getcharTrampolineAddr = reflect.ValueOf(getcharTrampoline).Pointer()
)

// Invoke runs the JITed program against tape, routing "." and "," through
// io. See loader.go for the register contract codegen.go's prologue
// expects.
//
// Invoke is not reentrant: it stashes io in the package-level active
// state for putCharBridge/getCharBridge (callback.go) to reach, since the
// JITed frame has no way to carry a Go pointer through to them itself.
// Only one native call runs at a time per spec.md's single-threaded
// execution model, so this is safe but not concurrency-safe.
//
// Note: while this call is in flight, the goroutine's stack holds a raw
// JITed frame with no Go stack map. putCharBridge/getCharBridge are
// ordinary, stack-growth-checked Go functions; if the runtime ever needed
// to grow and copy this goroutine's stack during one of those calls, it
// could not relocate pointers within the JITed frame correctly. This
// mirrors the safety assumptions of a cgo callback and is accepted here
// rather than switching to a dedicated system stack for the call.
func (b *asmBlock) Invoke(tape []byte, io IOCallbacks) error {
	var base *byte
	if len(tape) > 0 {
		base = &tape[0]
	}

	active.callbacks = io
	active.err = nil
	defer func() {
		active.callbacks = IOCallbacks{}
		active.err = nil
	}()

	jitcall(
		unsafe.Pointer(b.region.base()),
		unsafe.Pointer(base),
		unsafe.Pointer(putcharTrampolineAddr),
		unsafe.Pointer(getcharTrampolineAddr),
	)
	return active.err
}

// Unload releases the executable region's pages. b must not be used
// afterwards.
func (b *asmBlock) Unload() error {
	return b.region.unmap()
}
