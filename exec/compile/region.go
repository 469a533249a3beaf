// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !appengine
// +build !appengine

package compile

import (
	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// mappedRegion is an anonymous, page-aligned block of memory reserved but
// not yet holding machine code. Each JIT compile gets its own region: a
// brainmuck program compiles to a single native function, unlike a
// multi-function WebAssembly module, so there is no call here for a
// shared pool packing many small allocations into one mapping.
type mappedRegion struct {
	mem mmap.MMap
}

// allocateMapped reserves size bytes of read-write anonymous memory.
func allocateMapped(size int) (*mappedRegion, error) {
	mem, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, err
	}
	return &mappedRegion{mem: mem}, nil
}

// intoWritable hands back the same bytes as a writableRegion. Kept as a
// distinct step (rather than folding allocateMapped and this together) to
// mirror the three-stage region lifecycle this package's W^X discipline is
// built on: reserved, writable, executable.
func (m *mappedRegion) intoWritable() *writableRegion {
	return &writableRegion{mem: m.mem}
}

// writableRegion is read-write memory that has not yet been populated with
// machine code.
type writableRegion struct {
	mem mmap.MMap
}

// bytes exposes the region for writing generated machine code into.
func (w *writableRegion) bytes() []byte { return w.mem }

// intoExecutable revokes write permission and grants execute permission.
// The region must not be written to again afterwards.
func (w *writableRegion) intoExecutable() (*executableRegion, error) {
	if err := unix.Mprotect(w.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return nil, err
	}
	return &executableRegion{mem: w.mem}, nil
}

// executableRegion is memory holding machine code, mapped PROT_READ|PROT_EXEC.
type executableRegion struct {
	mem mmap.MMap
}

// base returns the address of the region's first byte, the entry point of
// the function it holds.
func (e *executableRegion) base() *byte {
	return &e.mem[0]
}

// unmap releases the region's pages. Callers must not use the region, or
// any address derived from it, afterwards.
func (e *executableRegion) unmap() error {
	return e.mem.Unmap()
}

// allocateExecutable reserves memory, copies code into it, and transitions
// it straight to executable. This is the only entry point the rest of the
// package needs; the mappedRegion/writableRegion split exists so each
// transition's precondition (never write after marking executable) is
// enforced by which methods are reachable on which type, not by convention.
func allocateExecutable(code []byte) (*executableRegion, error) {
	mapped, err := allocateMapped(len(code))
	if err != nil {
		return nil, err
	}
	writable := mapped.intoWritable()
	copy(writable.bytes(), code)
	return writable.intoExecutable()
}
