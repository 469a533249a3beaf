// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"encoding/binary"
	"fmt"
)

// Reg is an AArch64 general-purpose register reference, either its 32-bit
// (W) or 64-bit (X) view.
type Reg struct {
	n   uint8
	w64 bool
}

// W returns the 32-bit view of general register n (0-30) or the zero
// register (31).
func W(n uint8) Reg { return Reg{n: n} }

// X returns the 64-bit view of general register n (0-30) or the zero
// register/stack pointer (31, context-dependent).
func X(n uint8) Reg { return Reg{n: n, w64: true} }

// WordOffset counts 4-byte instruction words from the start of an
// Assembler's code, the unit AArch64 branch displacements are measured in.
type WordOffset int32

// Label names a not-yet-resolved branch target within an Assembler.
type Label int

type branchKind uint8

const (
	branchCBZ branchKind = iota
	branchB
)

type pendingBranch struct {
	site   WordOffset
	kind   branchKind
	reg    Reg // meaningful only for branchCBZ
	target Label
}

// Assembler accumulates AArch64 instruction words, resolving symbolic
// branch targets in a second pass once every label's address is known.
// This mirrors the two-pass emit-then-patch shape used for bytecode
// compilation in bytecode.go, applied one level lower, to machine words
// instead of opcode bytes.
type Assembler struct {
	words       []uint32
	labelOffset map[Label]WordOffset
	pending     []pendingBranch
	nextLabel   Label
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{labelOffset: make(map[Label]WordOffset)}
}

// NewLabel mints a fresh, unbound Label.
func (a *Assembler) NewLabel() Label {
	l := a.nextLabel
	a.nextLabel++
	return l
}

// BindLabel records that l refers to the next instruction to be emitted.
func (a *Assembler) BindLabel(l Label) {
	a.labelOffset[l] = WordOffset(len(a.words))
}

func (a *Assembler) emit(word uint32) WordOffset {
	off := WordOffset(len(a.words))
	a.words = append(a.words, word)
	return off
}

// CBZ emits "cbz reg, label": branch to label if reg is zero.
func (a *Assembler) CBZ(reg Reg, target Label) {
	site := WordOffset(len(a.words))
	a.words = append(a.words, 0) // placeholder, patched by PatchBranches
	a.pending = append(a.pending, pendingBranch{site: site, kind: branchCBZ, reg: reg, target: target})
}

// B emits "b label": branch unconditionally to label.
func (a *Assembler) B(target Label) {
	site := WordOffset(len(a.words))
	a.words = append(a.words, 0)
	a.pending = append(a.pending, pendingBranch{site: site, kind: branchB, target: target})
}

// BLR emits "blr reg": branch with link to the address held in reg.
func (a *Assembler) BLR(reg Reg) WordOffset {
	return a.emit(0xD63F0000 | uint32(reg.n)<<5)
}

// RET emits "ret": return to the address in X30 (the link register).
func (a *Assembler) RET() WordOffset {
	return a.emit(0xD65F0000 | uint32(30)<<5)
}

// STRB emits "strb rt, [rn, #imm12]": store the low byte of rt to
// [rn+imm12]. imm12 is an unsigned byte offset, 0-4095.
func (a *Assembler) STRB(rt, rn Reg, imm12 uint16) WordOffset {
	return a.emit(0x39000000 | uint32(imm12&0xFFF)<<10 | uint32(rn.n)<<5 | uint32(rt.n))
}

// LDRB emits "ldrb rt, [rn, #imm12]": load a zero-extended byte from
// [rn+imm12] into rt.
func (a *Assembler) LDRB(rt, rn Reg, imm12 uint16) WordOffset {
	return a.emit(0x39400000 | uint32(imm12&0xFFF)<<10 | uint32(rn.n)<<5 | uint32(rt.n))
}

// STR emits "str rt, [rn, #imm]" for the 64-bit register form. imm must be
// a multiple of 8 in the range 0-32760.
func (a *Assembler) STR(rt, rn Reg, imm int32) WordOffset {
	return a.emit(0xF9000000 | scaledImm12(imm, 8)<<10 | uint32(rn.n)<<5 | uint32(rt.n))
}

// LDR emits "ldr rt, [rn, #imm]" for the 64-bit register form.
func (a *Assembler) LDR(rt, rn Reg, imm int32) WordOffset {
	return a.emit(0xF9400000 | scaledImm12(imm, 8)<<10 | uint32(rn.n)<<5 | uint32(rt.n))
}

// STPOffset emits "stp rt1, rt2, [rn, #imm]" (signed offset form, 64-bit
// registers). imm must be a multiple of 8 in the range -512..504.
func (a *Assembler) STPOffset(rt1, rt2, rn Reg, imm int32) WordOffset {
	return a.emit(0xA9000000 | scaledImm7(imm)<<15 | uint32(rt2.n)<<10 | uint32(rn.n)<<5 | uint32(rt1.n))
}

// LDPOffset emits "ldp rt1, rt2, [rn, #imm]" (signed offset form).
func (a *Assembler) LDPOffset(rt1, rt2, rn Reg, imm int32) WordOffset {
	return a.emit(0xA9400000 | scaledImm7(imm)<<15 | uint32(rt2.n)<<10 | uint32(rn.n)<<5 | uint32(rt1.n))
}

// STPPreIndex emits "stp rt1, rt2, [rn, #imm]!": rn is updated to rn+imm
// before the store.
func (a *Assembler) STPPreIndex(rt1, rt2, rn Reg, imm int32) WordOffset {
	return a.emit(0xA9800000 | scaledImm7(imm)<<15 | uint32(rt2.n)<<10 | uint32(rn.n)<<5 | uint32(rt1.n))
}

// LDPPostIndex emits "ldp rt1, rt2, [rn], #imm": rn is updated to rn+imm
// after the load.
func (a *Assembler) LDPPostIndex(rt1, rt2, rn Reg, imm int32) WordOffset {
	return a.emit(0xA8C00000 | scaledImm7(imm)<<15 | uint32(rt2.n)<<10 | uint32(rn.n)<<5 | uint32(rt1.n))
}

// ADD emits "add rd, rn, #imm12" in the width of rd.
func (a *Assembler) ADD(rd, rn Reg, imm12 uint16) WordOffset {
	base := uint32(0x11000000)
	if rd.w64 {
		base = 0x91000000
	}
	return a.emit(base | uint32(imm12&0xFFF)<<10 | uint32(rn.n)<<5 | uint32(rd.n))
}

// SUB emits "sub rd, rn, #imm12" in the width of rd.
func (a *Assembler) SUB(rd, rn Reg, imm12 uint16) WordOffset {
	base := uint32(0x51000000)
	if rd.w64 {
		base = 0xD1000000
	}
	return a.emit(base | uint32(imm12&0xFFF)<<10 | uint32(rn.n)<<5 | uint32(rd.n))
}

// MOV emits "mov rd, rm" (the register-to-register alias of "orr rd, xzr, rm").
func (a *Assembler) MOV(rd, rm Reg) WordOffset {
	return a.emit(0xAA0003E0 | uint32(rm.n)<<16 | uint32(rd.n))
}

func scaledImm12(imm int32, scale int32) uint32 {
	if imm%scale != 0 {
		panic(fmt.Sprintf("compile: immediate %d is not a multiple of %d", imm, scale))
	}
	return uint32(imm/scale) & 0xFFF
}

func scaledImm7(imm int32) uint32 {
	if imm%8 != 0 {
		panic(fmt.Sprintf("compile: stp/ldp immediate %d is not a multiple of 8", imm))
	}
	return uint32(imm/8) & 0x7F
}

// PatchBranches resolves every pending CBZ/B target against the labels
// bound so far. It must be called once, after the last BindLabel.
func (a *Assembler) PatchBranches() error {
	for _, p := range a.pending {
		target, ok := a.labelOffset[p.target]
		if !ok {
			return fmt.Errorf("compile: branch at word %d targets unbound label %d", p.site, p.target)
		}
		disp := int32(target) - int32(p.site)
		switch p.kind {
		case branchCBZ:
			base := uint32(0x34000000)
			if p.reg.w64 {
				base = 0xB4000000
			}
			imm19 := uint32(disp) & 0x7FFFF
			a.words[p.site] = base | imm19<<5 | uint32(p.reg.n)
		case branchB:
			imm26 := uint32(disp) & 0x3FFFFFF
			a.words[p.site] = 0x14000000 | imm26
		}
	}
	return nil
}

// MachineCode renders the assembled words as little-endian bytes.
func (a *Assembler) MachineCode() []byte {
	buf := make([]byte, len(a.words)*4)
	for i, w := range a.words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// Len returns the number of instruction words emitted so far.
func (a *Assembler) Len() WordOffset { return WordOffset(len(a.words)) }
