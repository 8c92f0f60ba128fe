package qubit

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	// pos is the 1-based rune column of the token.
	pos int
	// off is the byte offset of the token in the source.
	off int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal floating-point literal.
	tokenNum
	// tokenIdent is a variable, function, constant, or keyword name.
	tokenIdent
	// tokenUnit is a unit name, CATEGORY::VARIANT.
	tokenUnit
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket.
	tokenOpen
	// tokenClose is a close bracket.
	tokenClose
	// tokenAssign is the = of an assignment or definition.
	tokenAssign
)

var tokenNames = [...]string{
	tokenNone:   "None",
	tokenEOF:    "EOF",
	tokenNum:    "Num",
	tokenIdent:  "Ident",
	tokenUnit:   "Unit",
	tokenOp:     "Op",
	tokenOpen:   "Open",
	tokenClose:  "Close",
	tokenAssign: "Assign",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators contains the runes which are single-rune operators. The shift
// operators >> and << are spelled with two runes.
const Operators = "+-*/%^×÷"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	off  int
	// last is the size of the last rune read, for unreading.
	last int
	// p is a stack of pushed tokens.
	p   []lexToken
	eof bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next.
// Pushed tokens are returned in last-in, first-out order.
func (l *lexer) push(tok lexToken) {
	if tok.kind == tokenNone {
		panic("qubit: push of empty token")
	}
	l.p = append(l.p, tok)
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	if len(l.p) == 0 {
		panic("qubit: no pushed token")
	}
	tok := l.p[len(l.p)-1]
	l.p = l.p[:len(l.p)-1]
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
		l.off += sz
	}
	l.last = sz
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
	l.off -= l.last
	l.last = 0
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent times,
// if the EOF token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if len(l.p) != 0 {
		return l.must(), nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.rune, off: l.off}
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.kind = tokenIdent
			unit, err := l.scanUnit()
			if err != nil {
				return tok, err
			}
			if unit {
				tok.kind = tokenUnit
			}
			tok.text = l.buf.String()
			return tok, nil
		case r == '>', r == '<':
			// Shifts are the only two-rune operators.
			l.buf.WriteRune(r)
			s, err := l.readRune()
			if err != nil && !errors.Is(err, io.EOF) {
				return tok, err
			}
			if s != r || err != nil {
				if err == nil {
					l.buf.WriteRune(s)
				}
				return tok, l.error("operator")
			}
			tok.text = string([]rune{r, r})
			tok.kind = tokenOp
			return tok, nil
		case r == '=':
			tok.text = "="
			tok.kind = tokenAssign
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		default:
			if strings.ContainsRune(Operators, r) {
				tok.text = string(r)
				tok.kind = tokenOp
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if (r == '+' || r == '-') && le {
			le = false
			l.buf.WriteRune(r)
			continue
		}
		switch {
		case r == '.':
			l.buf.WriteRune(r)
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
			continue
		case r == 'e', r == 'E':
			l.buf.WriteRune(r)
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
			continue
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
			continue
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			// 2x is not a product here, and 2kg is not a unit.
			l.buf.WriteRune(r)
			return l.error("number")
		}
		l.unreadRune()
		break
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanUnit continues an identifier into a unit name if it is followed by the
// category separator. The result reports whether a unit name was scanned.
func (l *lexer) scanUnit() (bool, error) {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if r != ':' {
		l.unreadRune()
		return false, nil
	}
	l.buf.WriteRune(r)
	r, err = l.readRune()
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if err != nil || r != ':' {
		if err == nil {
			l.buf.WriteRune(r)
		}
		return false, l.error("unit")
	}
	l.buf.WriteRune(r)
	r, err = l.readRune()
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if err != nil || !(r == '_' || unicode.IsLetter(r)) {
		if err == nil {
			l.buf.WriteRune(r)
		}
		return false, l.error("unit")
	}
	l.buf.WriteRune(r)
	return true, l.scanIdent()
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "unit", "operator", or the empty string (if a token kind hadn't been
	// decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including the invalid one.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
