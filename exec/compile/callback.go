// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build arm64 && !appengine
// +build arm64,!appengine

package compile

// active holds the callbacks for the single native call currently in
// flight. Invoke (native_exec.go) is not reentrant with itself: only one
// JITed function runs at a time per process, matching spec.md's
// single-threaded execution model, so a package-level slot is sufficient
// and avoids threading a context pointer through hand-written assembly.
var active struct {
	callbacks IOCallbacks
	err       error
}

// putcharTrampoline and getcharTrampoline are implemented in
// callback_arm64.s. Generated code branches to their entry addresses
// directly (passed in as arguments, see codegen.go, native_exec.go); they
// bridge from the generated function's raw AArch64 frame into ordinary Go
// code via Go's stable, stack-argument-passing ABI0 calling convention,
// which the compiler always provides a wrapper for regardless of the
// architecture's internal register-based ABI.
func putcharTrampoline()
func getcharTrampoline()

// putCharBridge is called from putcharTrampoline with the cell value in
// its single argument. It is an ordinary Go function, reachable via CALL
// from hand-written assembly because Go auto-generates an ABI0 entry point
// for every function.
func putCharBridge(val byte) {
	if err := active.callbacks.PutChar(val); err != nil && active.err == nil {
		active.err = err
	}
}

// getCharBridge is called from getcharTrampoline and returns the next
// input byte, or 0 on EOF or error, matching the interpreter backend's
// GetChar contract (see exec/vm.go's execBytecode).
func getCharBridge() byte {
	b, ok, err := active.callbacks.GetChar()
	if err != nil && active.err == nil {
		active.err = err
	}
	if !ok {
		return 0
	}
	return b
}
