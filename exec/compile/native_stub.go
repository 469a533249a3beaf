// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !arm64 || appengine
// +build !arm64 appengine

package compile

import "errors"

// ErrNativeUnsupported is returned by Load on platforms without an arm64
// JIT backend (see native_exec.go, loader_arm64.s).
var ErrNativeUnsupported = errors.New("compile: native code generation is only supported on arm64")

// Load always fails outside arm64; Generate still works everywhere since
// it only produces bytes, never executes them.
func Load(code *NativeCode) (NativeCodeUnit, error) {
	return nil, ErrNativeUnsupported
}
