// Package qubit implements a line-oriented calculator with units, variables,
// and single-parameter functions.
//
// Each line of a calculation is a statement: an expression, an assignment
// like "x = 5", or a function definition like "f(x) = x * 2". Lines are
// evaluated in order against one Env, so later lines see the names bound by
// earlier ones. Every failure, whether a syntax error, an undefined name, or
// a conversion between unrelated units, gives NaN for that line alone.
//
// Operators, from loosest to tightest binding, are + and -, * and / (also ×
// and ÷), % (remainder), ^, "% of" and "% on" (percentages), and the shifts
// >> and <<. "^" and the shifts group to the right. A sign written directly
// before a number is part of the number, so "-2^2" is 4.
//
// Units convert with "12 MASS::KILOGRAM to MASS::GRAM"; see package units for
// the names. The builtins sin, cos, and tan take degrees.
//
// User functions may call each other and themselves, but nesting deeper than
// MaxDepth calls aborts the whole statement.
package qubit
