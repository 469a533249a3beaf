package parse_test

import (
	"strings"
	"testing"

	"github.com/go-interpreter/brainmuck/parse"
)

func TestCompilationErrorFormatting(t *testing.T) {
	err := &parse.CompilationError{
		Reason:   parse.TooManyCloseBrackets,
		Location: parse.Location{File: "prog.bf", Line: 4},
	}
	got := err.Error()
	for _, want := range []string{"0x001", "prog.bf:4", "too many close brackets"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}

func TestNotEnoughCloseBracketsAlias(t *testing.T) {
	if parse.NotEnoughCloseBrackets != parse.TooFewCloseBrackets {
		t.Fatalf("NotEnoughCloseBrackets should alias TooFewCloseBrackets")
	}
}
