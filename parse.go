package qubit

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Expr = num | num unit 'to' unit | const | name | Call | Neg | Plus | Binary | '(' Expr ')'
// Call = funcname '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Binary = Expr op Expr, op one of + - * / × ÷ % ^ '% of' '% on' >> <<
//
// A sign directly before a number is part of the number, so -2^2 is 4.

// Expr is a parsed expression that can be evaluated in an Env.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
}

// Parse parses an expression so it can be evaluated in an Env. Statements,
// i.e. assignments and function definitions, are not expressions; use
// ParseStatement for those.
func Parse(src io.RuneScanner) (*Expr, error) {
	return parse(lex(src))
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// parse parses the remainder of the lexer's input as an expression.
func parse(scan *lexer) (*Expr, error) {
	p := parsectx{
		names: make(map[string]bool),
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		panic("qubit: parseterm ended on " + tok.String())
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, which is always a close bracket or EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			// Binary operator.
			prec, kw, err := infix(scan, tok)
			if err != nil {
				return nil, err
			}
			if !prec.moreBinding(until) {
				if kw.kind != tokenNone {
					scan.push(kw)
				}
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		case tokenNum, tokenIdent, tokenUnit, tokenOpen, tokenAssign:
			// There is no implicit multiplication.
			return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operator"}
		default:
			panic("qubit: unknown token: " + tok.String())
		}
	}
}

// infix gets the binary operator beginning with tok. A % followed by of or on
// is a percentage operator, in which case infix consumes the keyword and
// returns it so that the caller can push it back.
func infix(scan *lexer, tok lexToken) (operator, lexToken, error) {
	prec := binop(tok.text)
	if prec.op == nodeNone {
		return operator{}, lexToken{}, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
	}
	if prec.op != nodeMod {
		return prec, lexToken{}, nil
	}
	kw, err := scan.next()
	if err != nil {
		return operator{}, lexToken{}, err
	}
	if kw.kind == tokenIdent {
		switch kw.text {
		case "of":
			return percentOf, kw, nil
		case "on":
			return percentOn, kw, nil
		}
	}
	scan.push(kw)
	return prec, lexToken{}, nil
}

// parselhs parses the first component of a term. I.e., operators are unary,
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return parsenum(scan, tok, "")
	case tokenIdent:
		if reserved[tok.text] && !isConst(tok.text) {
			return nil, &ReservedError{Col: tok.pos, Name: tok.text}
		}
		open, err := scan.next()
		if err != nil {
			return nil, err
		}
		if open.kind == tokenOpen {
			arg, err := parsebracket(scan, p, open)
			if err != nil {
				return nil, err
			}
			return &node{kind: nodeCall, name: tok.text, left: arg}, nil
		}
		scan.push(open)
		if isConst(tok.text) {
			return &node{kind: nodeConst, name: tok.text}, nil
		}
		p.names[tok.text] = true
		return &node{kind: nodeName, name: tok.text}, nil
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		// A sign immediately before a number belongs to the number.
		num, err := scan.next()
		if err != nil {
			return nil, err
		}
		if num.kind == tokenNum {
			return parsenum(scan, num, tok.text)
		}
		scan.push(num)
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		return parsebracket(scan, p, tok)
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	case tokenUnit, tokenAssign:
		return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "expression"}
	default:
		panic("qubit: unknown token: " + tok.String())
	}
}

// parsebracket parses a parenthesized subexpression after its open bracket.
func parsebracket(scan *lexer, p *parsectx, open lexToken) (*node, error) {
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		var ee *EmptyExpressionError
		if errors.As(err, &ee) && ee.End == "" {
			// Reporting the unclosed bracket is more helpful.
			return nil, &BracketError{Col: ee.Col, Left: open.text}
		}
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		return nil, &BracketError{Col: end.pos, Left: open.text}
	}
	return n, nil
}

// parsenum parses a number literal with an optional sign, along with a unit
// conversion if one follows it.
func parsenum(scan *lexer, tok lexToken, sign string) (*node, error) {
	text := tok.text
	if sign == "-" {
		text = "-" + text
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// The lexer should prevent this.
		return nil, &LexError{Text: text, Kind: "number", Col: tok.pos}
	}
	// On ErrRange, v is already ±Inf or ±0.
	n := &node{kind: nodeNum, name: text, num: v}
	from, err := scan.next()
	if err != nil {
		return nil, err
	}
	if from.kind != tokenUnit {
		scan.push(from)
		return n, nil
	}
	kw, err := scan.next()
	if err != nil {
		return nil, err
	}
	if kw.kind != tokenIdent || kw.text != "to" {
		return nil, &TokenError{Col: kw.pos, Text: kw.text, Want: `"to"`}
	}
	to, err := scan.next()
	if err != nil {
		return nil, err
	}
	if to.kind != tokenUnit {
		return nil, &TokenError{Col: to.pos, Text: to.text, Want: "unit"}
	}
	return &node{kind: nodeConvert, name: from.text, to: to.text, left: n}, nil
}

// reserved holds names which cannot be variables or functions.
var reserved = map[string]bool{
	"pi":  true,
	"e":   true,
	"tau": true,
	"to":  true,
	"of":  true,
	"on":  true,
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression with every
// term in brackets.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone. The percentage operators
// are spelled with two tokens and are not returned by binop.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{7, false, nodeMod}
	case "^":
		return operator{11, true, nodePow}
	case ">>":
		return operator{15, true, nodeShr}
	case "<<":
		return operator{15, true, nodeShl}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{9, true, nodeNop}
	case "-":
		return operator{9, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	percentOf = operator{13, false, nodePercentOf}
	percentOn = operator{13, false, nodePercentOn}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
