// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate_test

import (
	"testing"

	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
	"github.com/go-interpreter/brainmuck/parse"
	"github.com/go-interpreter/brainmuck/validate"
)

func lower(t *testing.T, src string) *ir.CFG {
	t.Helper()
	ast, err := parse.Parse("t.bf", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ir.Optimize(ir.Lower(ast))
}

func TestCFGAcceptsWellFormedGraphs(t *testing.T) {
	for _, src := range []string{"", "+", "[+]", "[[+][]]"} {
		if err := validate.CFG(lower(t, src)); err != nil {
			t.Errorf("%q: CFG() = %v, want nil", src, err)
		}
	}
}

func TestCFGRejectsOutOfRangeBranchTarget(t *testing.T) {
	cfg := lower(t, "[+]")
	blocks := cfg.Blocks()
	// corrupt the check block's BranchIfZero to point past the graph.
	instrs := blocks[1].Instructions()
	instrs[0] = ir.Instruction{Op: ir.BranchIfZero, Target: ir.BlockLabel(len(blocks) + 5)}

	if err := validate.CFG(cfg); err == nil {
		t.Fatal("expected an error for an out-of-range branch target")
	}
}

func TestProgramAcceptsCompiledOutput(t *testing.T) {
	for _, src := range []string{"", "+", "[+]", "[[+][]]", "+-><.,"} {
		prog := compile.Compile(lower(t, src))
		if err := validate.Program(prog); err != nil {
			t.Errorf("%q: Program() = %v, want nil", src, err)
		}
	}
}

func TestProgramRejectsOutOfRangeBranchOffset(t *testing.T) {
	prog := compile.Compile(lower(t, "[+]"))
	// corrupt the first branch's target offset to point past the code.
	for i := range prog.Code {
		if compile.Op(prog.Code[i]) == compile.OpBranchIfZero {
			prog.Code[i+1] = 0xFF
			prog.Code[i+2] = 0xFF
			break
		}
	}
	if err := validate.Program(prog); err == nil {
		t.Fatal("expected an error for an out-of-range branch offset")
	}
}
