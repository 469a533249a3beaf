// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command brainmuck-dump prints the intermediate forms of a brainmuck
// source file: its optimized CFG, and its compiled threaded bytecode.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/go-interpreter/brainmuck/disasm"
	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
	"github.com/go-interpreter/brainmuck/parse"
	"github.com/go-interpreter/brainmuck/validate"
)

func main() {
	log.SetPrefix("brainmuck-dump: ")
	log.SetFlags(0)

	cfgOnly := flag.Bool("cfg", false, "print only the optimized CFG")
	bytecodeOnly := flag.Bool("bytecode", false, "print only the compiled bytecode")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.bf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := dump(os.Stdout, flag.Arg(0), *cfgOnly, *bytecodeOnly); err != nil {
		log.Fatal(err)
	}
}

func dump(w *os.File, fname string, cfgOnly, bytecodeOnly bool) error {
	src, err := ioutil.ReadFile(fname)
	if err != nil {
		return err
	}

	ast, err := parse.Parse(fname, src)
	if err != nil {
		return err
	}

	cfg := ir.Optimize(ir.Lower(ast))
	if err := validate.CFG(cfg); err != nil {
		return err
	}

	if bytecodeOnly {
		prog := compile.Compile(cfg)
		if err := validate.Program(prog); err != nil {
			return err
		}
		_, err := fmt.Fprint(w, disasm.Program(prog))
		return err
	}

	if cfgOnly {
		_, err := fmt.Fprint(w, disasm.CFG(cfg))
		return err
	}

	fmt.Fprintln(w, "; cfg")
	fmt.Fprint(w, disasm.CFG(cfg))

	prog := compile.Compile(cfg)
	if err := validate.Program(prog); err != nil {
		return err
	}
	fmt.Fprintln(w, "; bytecode")
	fmt.Fprint(w, disasm.Program(prog))
	return nil
}
