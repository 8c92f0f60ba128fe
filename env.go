package qubit

import (
	"math"
	"strings"
)

// Env is an environment for evaluating statements: the variables assigned
// and the functions defined so far. The zero value is not ready for use; call
// NewEnv. It is not safe to use an Env concurrently.
type Env struct {
	vars  map[string]float64
	funcs map[string]*Function
	err   error
}

// Function is a user-defined function of one parameter.
type Function struct {
	// Name is the name of the function.
	Name string
	// Param is the name of the parameter.
	Param string
	// Body is the source text of the function's expression.
	Body string

	expr *Expr
}

// Expr returns the parsed body of the function.
func (f *Function) Expr() *Expr {
	return f.expr
}

func (f *Function) String() string {
	return f.Name + "(" + f.Param + ") = " + f.Body
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
)

func (varopt) envOption()  {}
func (varsopt) envOption() {}

// SetVar sets the value of a variable in the environment. As with Set, the
// environment's creation panics if name is reserved.
func SetVar(name string, val float64) EnvOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the environment.
// Reserved names panic as with SetVar.
func SetVars(vars map[string]float64) EnvOption {
	return varsopt(vars)
}

// NewEnv creates a new environment with no functions defined.
func NewEnv(opts ...EnvOption) *Env {
	var env Env
	return env.Clone(opts...)
}

// Clone creates a copy of an environment and applies options to it. The
// copy shares no state with env, except that parsed function bodies are
// shared because they are immutable.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		vars:  make(map[string]float64, len(env.vars)),
		funcs: make(map[string]*Function, len(env.funcs)),
	}
	for k, v := range env.vars {
		n.vars[k] = v
	}
	for k, f := range env.funcs {
		n.funcs[k] = f
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.Set(k, v)
			}
		default:
			panic("qubit: unknown option type")
		}
	}
	return &n
}

// Reset removes all variables and functions from the environment.
func (env *Env) Reset() {
	clear(env.vars)
	clear(env.funcs)
	env.err = nil
}

// Set sets the value of a variable. Returns env for chaining. Panics if name
// is reserved.
func (env *Env) Set(name string, value float64) *Env {
	if reserved[name] {
		panic("qubit: Set of reserved name " + name)
	}
	env.vars[name] = value
	return env
}

// Lookup returns the value of a variable and whether it is defined.
func (env *Env) Lookup(name string) (float64, bool) {
	v, ok := env.vars[name]
	return v, ok
}

// Define defines a function of one parameter by parsing its body. Any
// previous definition of the same name is replaced.
func (env *Env) Define(name, param, body string) error {
	s, err := ParseStatement(name + "(" + param + ") = " + body)
	if err != nil {
		return err
	}
	if s.Kind != DefineStatement || s.Name != name || s.Param != param {
		return &TokenError{Col: 1, Text: name, Want: "function name and parameter"}
	}
	env.define(s)
	return nil
}

func (env *Env) define(s *Statement) {
	env.funcs[s.Name] = &Function{
		Name:  s.Name,
		Param: s.Param,
		Body:  s.Body,
		expr:  s.expr,
	}
}

// Function returns the user function with the given name, or nil if there is
// none.
func (env *Env) Function(name string) *Function {
	return env.funcs[name]
}

// Vars returns the names of all variables, sorted.
func (env *Env) Vars() []string {
	r := make([]string, 0, len(env.vars))
	for k := range env.vars {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Funcs returns the names of all user functions, sorted.
func (env *Env) Funcs() []string {
	r := make([]string, 0, len(env.funcs))
	for k := range env.funcs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Err returns the diagnostic from the last call to Eval or Exec, if any. A
// non-nil error means the result was NaN because of a failed lookup, a bad
// conversion, or too deep recursion.
func (env *Env) Err() error {
	return env.err
}

// Eval evaluates an expression and returns the result. Failures give NaN, and
// env.Err returns the reason.
func (env *Env) Eval(e *Expr) float64 {
	ev := evaluator{env: env}
	r := ev.run(e.n)
	env.err = ev.err
	return r
}

// Exec executes a statement. Assignments store and return their value.
// Definitions store the function and return NaN.
func (env *Env) Exec(s *Statement) float64 {
	switch s.Kind {
	case AssignStatement:
		r := env.Eval(s.expr)
		env.vars[s.Name] = r
		return r
	case DefineStatement:
		env.define(s)
		env.err = nil
		return math.NaN()
	default:
		return env.Eval(s.expr)
	}
}

// ExecString is a shortcut to parse and execute one statement. Parse errors
// give NaN, and the error is returned along with it.
func (env *Env) ExecString(line string) (float64, error) {
	s, err := ParseStatement(strings.TrimSuffix(line, "\r"))
	if err != nil {
		env.err = err
		return math.NaN(), err
	}
	r := env.Exec(s)
	return r, env.Err()
}
