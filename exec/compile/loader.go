// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build arm64 && !appengine
// +build arm64,!appengine

package compile

import "unsafe"

// jitcall transfers control to the JITed machine code at codeAddr, passing
// tapeAddr, putcharAddr and getcharAddr as its three arguments (in X0, X1,
// X2, per codegen.go's emitPrologue), and returning once the code executes
// its epilogue's RET. putcharAddr/getcharAddr are the entry points of the
// putcharTrampoline/getcharTrampoline stubs (callback_arm64.s); generated
// code "blr"s directly into them for "." and ",". This is the one place
// in the package where Go calls into memory it wrote itself; the
// trampoline is implemented in loader_arm64.s, since Go has no syntax for
// "call this raw address like a function".
func jitcall(codeAddr, tapeAddr, putcharAddr, getcharAddr unsafe.Pointer)
