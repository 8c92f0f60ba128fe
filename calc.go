package qubit

import (
	"math"
	"strings"
)

// Line is the result of one line of a calculation.
type Line struct {
	// Source is the text of the line.
	Source string
	// Value is the line's result. It is NaN if the line is a function
	// definition or if anything failed.
	Value float64
	// Err is the reason for a NaN result. It is nil for definitions.
	Err error
	// Output is the formatted value.
	Output string
}

// Result is the result of evaluating a multi-line calculation.
type Result struct {
	// Lines holds the result of each line, in order.
	Lines []Line
	// Total is the sum of the finite line values.
	Total float64
}

// Outputs returns the formatted value of each line.
func (r *Result) Outputs() []string {
	s := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		s[i] = l.Output
	}
	return s
}

// EvalText evaluates each line of input in a new environment and formats the
// results with DefaultFormat.
func EvalText(input string) *Result {
	return NewEnv().EvalText(input, DefaultFormat)
}

// EvalText evaluates each line of input in order. Later lines see the
// variables and functions of earlier ones, and env keeps them afterward.
func (env *Env) EvalText(input string, f Format) *Result {
	lines := SplitLines(input)
	r := Result{Lines: make([]Line, 0, len(lines))}
	for _, src := range lines {
		l := env.EvalLine(src, f)
		if !math.IsNaN(l.Value) && !math.IsInf(l.Value, 0) {
			r.Total += l.Value
		}
		r.Lines = append(r.Lines, l)
	}
	return &r
}

// EvalLine evaluates one statement.
func (env *Env) EvalLine(src string, f Format) Line {
	v, err := env.ExecString(src)
	return Line{
		Source: src,
		Value:  v,
		Err:    err,
		Output: f.Number(v),
	}
}

// SplitLines splits input into lines. A line ends at \n or \r\n, and a final
// line terminator does not begin another line.
func SplitLines(input string) []string {
	if input == "" {
		return nil
	}
	lines := strings.Split(input, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
