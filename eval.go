package qubit

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zephyrtronium/qubit/units"
)

// MaxDepth is the maximum nesting of user function calls. A call which would
// exceed it aborts the entire evaluation.
const MaxDepth = 64

// evaluator holds the state of one evaluation.
type evaluator struct {
	env *Env
	// err is the first diagnostic, or a DepthError if the evaluation aborted.
	err error
	// abort is set when the depth limit is reached. No further nodes are
	// evaluated once it is set.
	abort bool
}

// scope is the local binding of a user function's parameter.
type scope struct {
	name string
	val  float64
}

// fail records err if it is the first diagnostic and returns NaN.
func (ev *evaluator) fail(err error) float64 {
	if ev.err == nil {
		ev.err = err
	}
	return math.NaN()
}

// run evaluates an expression tree at the top level.
func (ev *evaluator) run(n *node) float64 {
	r := n.eval(ev, nil, 0)
	if ev.abort {
		return math.NaN()
	}
	return r
}

// eval computes the node's value. locals is the scope of the innermost user
// function call, or nil at the top level.
func (n *node) eval(ev *evaluator, locals *scope, depth int) float64 {
	if ev.abort {
		return math.NaN()
	}
	switch n.kind {
	case nodeNum:
		return n.num
	case nodeConst:
		return constants[n.name]
	case nodeName:
		if locals != nil && locals.name == n.name {
			return locals.val
		}
		if v, ok := ev.env.vars[n.name]; ok {
			return v
		}
		return ev.fail(&NameError{Name: n.name})
	case nodeConvert:
		v := n.left.eval(ev, locals, depth)
		from, err := units.Parse(n.name)
		if err != nil {
			return ev.fail(err)
		}
		to, err := units.Parse(n.to)
		if err != nil {
			return ev.fail(err)
		}
		if from.Category() != to.Category() {
			return ev.fail(&ConversionError{From: from, To: to})
		}
		return units.Convert(v, from, to)
	case nodeCall:
		x := n.left.eval(ev, locals, depth)
		if ev.abort {
			return math.NaN()
		}
		if fn := ev.env.funcs[n.name]; fn != nil {
			if depth+1 > MaxDepth {
				ev.abort = true
				ev.err = &DepthError{Func: n.name, Depth: MaxDepth}
				return math.NaN()
			}
			return fn.expr.n.eval(ev, &scope{name: fn.Param, val: x}, depth+1)
		}
		if f := globalfuncs[n.name]; f != nil {
			return f(x)
		}
		return ev.fail(&FuncError{Name: n.name})
	case nodeNeg:
		return -n.left.eval(ev, locals, depth)
	case nodeNop:
		return n.left.eval(ev, locals, depth)
	}
	l := n.left.eval(ev, locals, depth)
	r := n.right.eval(ev, locals, depth)
	switch n.kind {
	case nodeAdd:
		return l + r
	case nodeSub:
		return l - r
	case nodeMul:
		return l * r
	case nodeDiv:
		return l / r
	case nodeMod:
		return math.Mod(l, r)
	case nodePow:
		return math.Pow(l, r)
	case nodePercentOf:
		return l / 100 * r
	case nodePercentOn:
		return l/100*r + r
	case nodeShr:
		return float64(toInt(l) >> shiftAmount(r))
	case nodeShl:
		return float64(toInt(l) << shiftAmount(r))
	default:
		panic("qubit: invalid AST node " + n.kind.String())
	}
}

// toInt truncates x to an int64, saturating at the limits. NaN becomes 0.
func toInt(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	return int64(x)
}

// shiftAmount gets a shift count in [0, 63] from x. Shifts wrap, so 65 is 1.
func shiftAmount(x float64) uint {
	return uint(toInt(x) & 63)
}

// Eval is a shortcut to parse an expression and return its result in a new
// environment created with opts. The error is a parse error or the
// evaluation's diagnostic.
func Eval(src io.RuneScanner, opts ...EnvOption) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return math.NaN(), err
	}
	env := NewEnv(opts...)
	r := env.Eval(e)
	return r, env.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...EnvOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is defined neither
// in the environment nor as the parameter of the function being called.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// FuncError is an error from a call to a name that is neither a user function
// nor a builtin.
type FuncError struct {
	// Name is the function name.
	Name string
}

func (err *FuncError) Error() string {
	return "undefined function: " + strconv.Quote(err.Name)
}

// ConversionError is an error from a conversion between units of different
// categories.
type ConversionError struct {
	From, To units.Unit
}

func (err *ConversionError) Error() string {
	return "cannot convert " + err.From.Category().String() + " to " + err.To.Category().String()
}

// DepthError is the error from an evaluation aborted because user function
// calls nested too deeply.
type DepthError struct {
	// Func is the function whose call exceeded the limit.
	Func string
	// Depth is the limit.
	Depth int
}

func (err *DepthError) Error() string {
	return "call to " + strconv.Quote(err.Func) + " exceeds maximum depth " + strconv.Itoa(err.Depth)
}
