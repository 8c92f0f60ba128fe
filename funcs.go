package qubit

import (
	"math"
)

// Func is a builtin function from reals to reals. Arguments outside the
// function's domain give NaN rather than an error.
type Func func(x float64) float64

// degrees wraps a trigonometric function of radians to take degrees.
func degrees(f func(float64) float64) Func {
	return func(x float64) float64 {
		return f(x * (math.Pi / 180))
	}
}

var globalfuncs = map[string]Func{
	// trig, in degrees
	"sin": degrees(math.Sin),
	"cos": degrees(math.Cos),
	"tan": degrees(math.Tan),

	// inverse trig and hyperbolics work in radians
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,

	"log":   math.Log10,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"round": math.Round,
	"ceil":  math.Ceil,
	"floor": math.Floor,
}

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// isConst returns whether name is a named constant.
func isConst(name string) bool {
	_, ok := constants[name]
	return ok
}

// Builtin returns the builtin function with the given name, or nil if there is
// none.
func Builtin(name string) Func {
	return globalfuncs[name]
}

// Builtins returns the names of all builtin functions, sorted.
func Builtins() []string {
	r := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Constants returns the names of the named constants, sorted.
func Constants() []string {
	r := make([]string, 0, len(constants))
	for k := range constants {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}
