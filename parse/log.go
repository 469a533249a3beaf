package parse

import (
	"io/ioutil"
	"log"
	"os"
)

// PrintDebugInfo toggles verbose tracing of the parser's statement stream.
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := ioutil.Discard

	if PrintDebugInfo {
		w = os.Stderr
	}

	logger = log.New(w, "parse: ", log.Lshortfile)
}

// SetDebugMode turns on or off verbose tracing for this package.
func SetDebugMode(b bool) {
	PrintDebugInfo = b
	w := ioutil.Discard
	if b {
		w = os.Stderr
	}
	logger = log.New(w, "parse: ", log.Lshortfile)
}
