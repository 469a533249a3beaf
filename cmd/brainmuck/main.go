// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command brainmuck compiles and runs a brainmuck (".bf") source file.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime"

	"github.com/go-interpreter/brainmuck/exec"
	"github.com/go-interpreter/brainmuck/exec/compile"
	"github.com/go-interpreter/brainmuck/ir"
	"github.com/go-interpreter/brainmuck/parse"
	"github.com/go-interpreter/brainmuck/validate"
)

func main() {
	log.SetPrefix("brainmuck: ")
	log.SetFlags(0)

	noJIT := flag.Bool("no-jit", false, "run under the threaded-bytecode interpreter instead of the native JIT")
	flag.BoolVar(noJIT, "J", false, "shorthand for -no-jit")
	verbose := flag.Bool("v", false, "print verbose parse/exec tracing to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.bf\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		parse.SetDebugMode(true)
		exec.SetDebugMode(true)
	}

	if err := run(flag.Arg(0), *noJIT); err != nil {
		log.Fatal(err)
	}
}

func run(fname string, noJIT bool) error {
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

	vm := exec.NewVM()

	if !noJIT && runtime.GOARCH == "arm64" {
		native, err := compile.Generate(cfg)
		if err != nil {
			return err
		}
		return vm.RunNative(native)
	}

	prog := compile.Compile(cfg)
	if err := validate.Program(prog); err != nil {
		return err
	}
	return vm.Run(prog)
}
