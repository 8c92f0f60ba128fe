package units

import "math"

// Convert converts value from one unit to another. Converting between units
// of different categories, or involving an invalid unit, gives NaN.
// Converting a unit to itself returns value unchanged.
func Convert(value float64, from, to Unit) float64 {
	if from == to && from.valid() {
		return value
	}
	if !from.valid() || !to.valid() || table[from].cat != table[to].cat {
		return math.NaN()
	}
	if table[from].cat == Temperature {
		f := temperature[[2]Unit{from, to}]
		if f == nil {
			// Unreachable with a complete table.
			return math.NaN()
		}
		return f(value)
	}
	return value * table[from].factor / table[to].factor
}

// Factor returns the multiplier from u to its category's reference unit. The
// result is false for temperatures, which have no single factor, and for
// invalid units.
func Factor(u Unit) (float64, bool) {
	if !u.valid() || table[u].cat == Temperature {
		return 0, false
	}
	return table[u].factor, true
}

func same(v float64) float64 { return v }

// temperature holds the affine conversions between temperature scales.
var temperature = map[[2]Unit]func(float64) float64{
	{Kelvin, Kelvin}:     same,
	{Kelvin, Celsius}:    func(v float64) float64 { return v - 273.15 },
	{Kelvin, Fahrenheit}: func(v float64) float64 { return math.FMA(v, 1.8, -459.67) },

	{Celsius, Celsius}:    same,
	{Celsius, Fahrenheit}: func(v float64) float64 { return math.FMA(v, 1.8, 32) },
	{Celsius, Kelvin}:     func(v float64) float64 { return v + 273.15 },

	{Fahrenheit, Fahrenheit}: same,
	{Fahrenheit, Celsius}:    func(v float64) float64 { return (v - 32) / 1.8 },
	{Fahrenheit, Kelvin}:     func(v float64) float64 { return (v + 459.67) * 5 / 9 },
}
