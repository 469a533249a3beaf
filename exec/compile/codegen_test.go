// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile_test

import (
	"testing"

	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
	"github.com/go-interpreter/brainmuck/parse"
)

func generateSrc(t *testing.T, src string) *compile.NativeCode {
	t.Helper()
	ast, err := parse.Parse("t.bf", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	code, err := compile.Generate(ir.Optimize(ir.Lower(ast)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return code
}

func TestGenerateProducesWholeNumberOfInstructionWords(t *testing.T) {
	for _, src := range []string{"", "+", "[+]", "[[+][]]", "+-><.,"} {
		code := generateSrc(t, src)
		if len(code.Code)%4 != 0 {
			t.Errorf("%q: code length %d is not a multiple of 4", src, len(code.Code))
		}
		if len(code.Code) == 0 {
			t.Errorf("%q: generated no code", src)
		}
	}
}

func TestGenerateSimpleChangeValEndsWithReturn(t *testing.T) {
	code := generateSrc(t, "+")
	if len(code.Code) != 56 {
		t.Fatalf("got %d bytes, want 56 (7 prologue + 3 ChangeVal + 4 epilogue words)", len(code.Code))
	}
	last4 := code.Code[len(code.Code)-4:]
	want := []byte{0xC0, 0x03, 0x5F, 0xD6} // little-endian encoding of "ret"
	for i := range want {
		if last4[i] != want[i] {
			t.Fatalf("last instruction = % x, want ret (% x)", last4, want)
		}
	}
}

func TestGenerateLargeChangeAddrSplitsAcrossMultipleAdds(t *testing.T) {
	src := ""
	for i := 0; i < 5000; i++ {
		src += ">"
	}
	code := generateSrc(t, src)
	// prologue (7 words) + at least two ADD chunks (5000 > 4095) + epilogue (4 words)
	minWords := 7 + 2 + 4
	if len(code.Code)/4 < minWords {
		t.Errorf("got %d words, want at least %d (large ChangeAddr must split into multiple ADDs)", len(code.Code)/4, minWords)
	}
}
