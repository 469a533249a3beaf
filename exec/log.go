// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"io/ioutil"
	"log"
	"os"
)

// PrintDebugInfo toggles verbose tracing of the VM's execution loop.
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	logger = log.New(ioutil.Discard, "exec: ", log.Lshortfile)
}

// SetDebugMode turns on or off verbose tracing for this package.
func SetDebugMode(b bool) {
	PrintDebugInfo = b
	w := ioutil.Discard
	if b {
		w = os.Stderr
	}
	logger = log.New(w, "exec: ", log.Lshortfile)
}
