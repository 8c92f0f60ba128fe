package qubit_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/qubit"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("-x^-y % on 3")
	f.Add("f(x) = x LENGTH::METRE to LENGTH::FOOT")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := qubit.Parse(strings.NewReader(s))
		if err != nil {
			return
		}
		// The rendering of a parsed expression always parses.
		if _, err := qubit.ParseString(e.String()); err != nil {
			t.Errorf("%q rendered as %q which doesn't parse: %v", s, e, err)
		}
	})
}

func FuzzParseStatement(f *testing.F) {
	f.Add("x = 1")
	f.Add("f(x) = x")
	f.Add("f(x)")
	f.Fuzz(func(t *testing.T, s string) {
		qubit.ParseStatement(s)
	})
}
