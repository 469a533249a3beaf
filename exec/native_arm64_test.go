// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build arm64 && !appengine
// +build arm64,!appengine

package exec_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-interpreter/brainmuck/exec"
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

// TestRunNativeMatchesInterpreter exercises spec's interpreter/JIT output
// parity property for programs with no I/O, where tape state after
// execution is directly comparable.
func TestRunNativeMatchesInterpreter(t *testing.T) {
	for _, src := range []string{"+++", "+++>++<-", "+[>+<-]"} {
		interp := exec.NewVM()
		if err := interp.Run(compileSrc(t, src)); err != nil {
			t.Fatalf("%q: interpreter Run: %v", src, err)
		}

		native := exec.NewVM()
		if err := native.RunNative(generateSrc(t, src)); err != nil {
			t.Fatalf("%q: RunNative: %v", src, err)
		}

		n := len(interp.Tape())
		if len(native.Tape()) < n {
			n = len(native.Tape())
		}
		for i := 0; i < n; i++ {
			if interp.Tape()[i] != native.Tape()[i] {
				t.Errorf("%q: tape[%d]: interpreter=%d native=%d", src, i, interp.Tape()[i], native.Tape()[i])
				break
			}
		}
	}
}

// TestRunNativeHelloWorld exercises "." through the JIT's callback-blr
// path (emitPutChar, callback_arm64.s), the native counterpart of
// TestRunHelloWorld in exec/vm_test.go.
func TestRunNativeHelloWorld(t *testing.T) {
	const hello = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`

	var out bytes.Buffer
	vm := exec.NewVM()
	vm.PutChar = exec.StdioPutChar(&out)

	if err := vm.RunNative(generateSrc(t, hello)); err != nil {
		t.Fatalf("RunNative: %v", err)
	}
	if got := out.String(); got != "Hello World!\n" {
		t.Errorf("got %q, want %q", got, "Hello World!\n")
	}
}

// TestRunNativeEchoesInputUntilEOF exercises "," through the JIT's
// callback-blr path (emitGetChar, callback_arm64.s), the native
// counterpart of TestRunEchoesInputUntilEOF in exec/vm_test.go.
func TestRunNativeEchoesInputUntilEOF(t *testing.T) {
	src := ",[.,]"
	vm := exec.NewVM()
	vm.GetChar = exec.StdioGetChar(strings.NewReader("abc"))
	var out bytes.Buffer
	vm.PutChar = exec.StdioPutChar(&out)

	if err := vm.RunNative(generateSrc(t, src)); err != nil {
		t.Fatalf("RunNative: %v", err)
	}
	if got := out.String(); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}
