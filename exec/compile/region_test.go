// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !appengine
// +build !appengine

package compile

import (
	"unsafe"

	"testing"
)

func TestAllocateExecutableCopiesCode(t *testing.T) {
	code := []byte{0xC0, 0x03, 0x5F, 0xD6} // ret
	region, err := allocateExecutable(code)
	if err != nil {
		t.Fatalf("allocateExecutable: %v", err)
	}
	defer region.unmap()

	got := *(*[4]byte)(unsafe.Pointer(region.base()))
	want := [4]byte{0xC0, 0x03, 0x5F, 0xD6}
	if got != want {
		t.Errorf("region bytes = %v, want %v", got, want)
	}
}

func TestRegionLifecycleTransitionsOnce(t *testing.T) {
	mapped, err := allocateMapped(4096)
	if err != nil {
		t.Fatalf("allocateMapped: %v", err)
	}
	writable := mapped.intoWritable()
	copy(writable.bytes(), []byte{1, 2, 3, 4})

	exec, err := writable.intoExecutable()
	if err != nil {
		t.Fatalf("intoExecutable: %v", err)
	}
	defer exec.unmap()

	if *exec.base() != 1 {
		t.Errorf("first byte = %d, want 1", *exec.base())
	}
}
