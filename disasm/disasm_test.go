// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"strings"
	"testing"

	"github.com/go-interpreter/brainmuck/disasm"
	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
	"github.com/go-interpreter/brainmuck/parse"
)

func lower(t *testing.T, src string) *ir.CFG {
	t.Helper()
	ast, err := parse.Parse("t.bf", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ir.Optimize(ir.Lower(ast))
}

func TestCFGContainsOneLabelPerBlock(t *testing.T) {
	cfg := lower(t, "[+]")
	out := disasm.CFG(cfg)
	for i := range cfg.Blocks() {
		want := "L" + string(rune('0'+i)) + ":"
		if !strings.Contains(out, want) {
			t.Errorf("output missing label %q:\n%s", want, out)
		}
	}
}

func TestCFGRendersChangeValWithSign(t *testing.T) {
	// "." keeps the two deltas apart; "+-" alone would coalesce to ChangeVal(0).
	out := disasm.CFG(lower(t, "+.-"))
	if !strings.Contains(out, "[bp] <- [bp] + 1") {
		t.Errorf("missing positive ChangeVal rendering:\n%s", out)
	}
	if !strings.Contains(out, "[bp] <- [bp] - 1") {
		t.Errorf("missing negative ChangeVal rendering:\n%s", out)
	}
}

func TestProgramRendersOffsetsAndOpcodes(t *testing.T) {
	prog := compile.Compile(lower(t, "+.,"))
	out := disasm.Program(prog)
	for _, want := range []string{"change_val 1", "putchar", "getchar", "terminate"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
