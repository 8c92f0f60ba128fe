package qubit_test

import (
	"math"
	"testing"

	"github.com/zephyrtronium/qubit"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("f(x) = f(x)\nf(1)")
	f.Add("12 MASS::KILOGRAM to MASS::GRAM")
	f.Add("1 >> -70 << 3 % of 2")
	f.Fuzz(func(t *testing.T, s string) {
		r := qubit.NewEnv(qubit.SetVar("x", 0)).EvalText(s, qubit.DefaultFormat)
		if math.IsNaN(r.Total) || math.IsInf(r.Total, 0) && len(r.Lines) < 2 {
			t.Errorf("%q gave total %g", s, r.Total)
		}
		for _, l := range r.Lines {
			if l.Output == "" {
				t.Errorf("%q gave empty output for %q", s, l.Source)
			}
		}
	})
}
