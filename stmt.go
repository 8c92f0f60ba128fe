package qubit

import (
	"strings"
)

// Statement = Define | Assign | Expr
// Define = name '(' name ')' '=' Expr
// Assign = name '=' Expr

// StatementKind identifies the form of a statement.
type StatementKind int8

const (
	// ExprStatement is a bare expression.
	ExprStatement StatementKind = iota
	// AssignStatement assigns the value of an expression to a variable.
	AssignStatement
	// DefineStatement defines a function of one parameter.
	DefineStatement
)

func (k StatementKind) String() string {
	switch k {
	case ExprStatement:
		return "expression"
	case AssignStatement:
		return "assignment"
	case DefineStatement:
		return "definition"
	default:
		return "invalid"
	}
}

// Statement is one parsed line of a calculation.
type Statement struct {
	// Kind is the form of the statement.
	Kind StatementKind
	// Name is the variable assigned or the function defined. It is empty for
	// bare expressions.
	Name string
	// Param is the parameter name of a defined function.
	Param string
	// Body is the source text of the expression, i.e. everything after the =
	// of an assignment or definition.
	Body string

	expr *Expr
}

// Expr returns the statement's expression: the right-hand side of an
// assignment, the body of a definition, or the whole of a bare expression.
func (s *Statement) Expr() *Expr {
	return s.expr
}

func (s *Statement) String() string {
	switch s.Kind {
	case AssignStatement:
		return s.Name + " = " + s.expr.String()
	case DefineStatement:
		return s.Name + "(" + s.Param + ") = " + s.expr.String()
	default:
		return s.expr.String()
	}
}

// ParseStatement parses one line of a calculation.
func ParseStatement(src string) (*Statement, error) {
	scan := lex(strings.NewReader(src))
	// Scan just enough to tell the statement forms apart, then put back
	// whatever turns out to belong to an expression.
	var head []lexToken
	unread := func() {
		for i := len(head) - 1; i >= 0; i-- {
			scan.push(head[i])
		}
	}
	want := []tokenKind{tokenIdent, tokenOpen, tokenIdent, tokenClose, tokenAssign}
	for i, k := range want {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		head = append(head, tok)
		if i == 1 && tok.kind == tokenAssign {
			return parseassign(scan, src, head)
		}
		if tok.kind != k {
			break
		}
	}
	if len(head) == len(want) && head[4].kind == tokenAssign {
		return parsedefine(scan, src, head)
	}
	unread()
	e, err := parse(scan)
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: ExprStatement, Body: strings.TrimSpace(src), expr: e}, nil
}

// parseassign parses the expression of name = expr.
func parseassign(scan *lexer, src string, head []lexToken) (*Statement, error) {
	name := head[0]
	if reserved[name.text] {
		return nil, &ReservedError{Col: name.pos, Name: name.text}
	}
	e, err := parse(scan)
	if err != nil {
		return nil, err
	}
	s := Statement{
		Kind: AssignStatement,
		Name: name.text,
		Body: body(src, head[1]),
		expr: e,
	}
	return &s, nil
}

// parsedefine parses the body of name(param) = expr.
func parsedefine(scan *lexer, src string, head []lexToken) (*Statement, error) {
	name, param := head[0], head[2]
	if reserved[name.text] {
		return nil, &ReservedError{Col: name.pos, Name: name.text}
	}
	if reserved[param.text] {
		return nil, &ReservedError{Col: param.pos, Name: param.text}
	}
	e, err := parse(scan)
	if err != nil {
		return nil, err
	}
	s := Statement{
		Kind:  DefineStatement,
		Name:  name.text,
		Param: param.text,
		Body:  body(src, head[4]),
		expr:  e,
	}
	return &s, nil
}

// body gets the source text following an = token.
func body(src string, eq lexToken) string {
	return strings.TrimSpace(src[eq.off+len(eq.text):])
}
