package qubit_test

import (
	"math"
	"testing"

	"github.com/zephyrtronium/qubit"
)

// pointThree is 0.1 + 0.2 computed in float64.
var pointThree = func() float64 {
	a, b := 0.1, 0.2
	return a + b
}()

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		name string
		f    qubit.Format
		v    float64
		want string
	}{
		{"int", qubit.DefaultFormat, 4, "4"},
		{"bigint", qubit.DefaultFormat, 12000, "12000"},
		{"huge", qubit.DefaultFormat, 1e21, "1000000000000000000000"},
		{"negint", qubit.DefaultFormat, -3, "-3"},
		{"zero", qubit.DefaultFormat, 0, "0"},
		{"frac", qubit.DefaultFormat, 0.25, "0.25"},
		{"third", qubit.DefaultFormat, 1.0 / 3, "0.3333333333"},
		{"sum", qubit.DefaultFormat, pointThree, "0.3"},
		{"small", qubit.DefaultFormat, 1.5e-12, "1.5e-12"},
		{"nan", qubit.DefaultFormat, math.NaN(), "-"},
		{"inf", qubit.DefaultFormat, math.Inf(1), "inf"},
		{"neginf", qubit.DefaultFormat, math.Inf(-1), "-inf"},
		{"zerovalue", qubit.Format{}, 2.0 / 3, "0.6666666667"},
		{"zerovaluenan", qubit.Format{}, math.NaN(), "-"},
		{"nanstring", qubit.Format{NaN: "?"}, math.NaN(), "?"},
		{"precision", qubit.Format{Precision: 3}, math.Pi, "3.14"},
		{"precisionint", qubit.Format{Precision: 3}, 123456, "123456"},
		{"group", qubit.Format{GroupDigits: true}, 1234567, "1,234,567"},
		{"groupneg", qubit.Format{GroupDigits: true}, -1234567, "-1,234,567"},
		{"groupfrac", qubit.Format{GroupDigits: true}, 1234.5, "1,234.5"},
		{"groupsmall", qubit.Format{GroupDigits: true}, 999, "999"},
		{"groupexp", qubit.Format{GroupDigits: true}, 1.5e-12, "1.5e-12"},
		{"grouphuge", qubit.Format{GroupDigits: true}, 1e21, "1000000000000000000000"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f.Number(c.v); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}
