package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hopsage/TigerC/pkg/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString

	// keywords
	tokArray
	tokBreak
	tokDo
	tokElse
	tokEnd
	tokFor
	tokFunction
	tokIf
	tokIn
	tokLet
	tokNil
	tokOf
	tokThen
	tokTo
	tokType
	tokVar
	tokWhile

	// punctuation
	tokComma
	tokColon
	tokSemicolon
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokDot
	tokPlus
	tokMinus
	tokTimes
	tokDivide
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokAnd
	tokOr
	tokAssign
)

var keywords = map[string]tokenKind{
	"array":    tokArray,
	"break":    tokBreak,
	"do":       tokDo,
	"else":     tokElse,
	"end":      tokEnd,
	"for":      tokFor,
	"function": tokFunction,
	"if":       tokIf,
	"in":       tokIn,
	"let":      tokLet,
	"nil":      tokNil,
	"of":       tokOf,
	"then":     tokThen,
	"to":       tokTo,
	"type":     tokType,
	"var":      tokVar,
	"while":    tokWhile,
}

var tokenNames = map[tokenKind]string{
	tokEOF:       "end of input",
	tokIdent:     "identifier",
	tokInt:       "integer",
	tokString:    "string",
	tokComma:     "','",
	tokColon:     "':'",
	tokSemicolon: "';'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokDot:       "'.'",
	tokPlus:      "'+'",
	tokMinus:     "'-'",
	tokTimes:     "'*'",
	tokDivide:    "'/'",
	tokEq:        "'='",
	tokNe:        "'<>'",
	tokLt:        "'<'",
	tokLe:        "'<='",
	tokGt:        "'>'",
	tokGe:        "'>='",
	tokAnd:       "'&'",
	tokOr:        "'|'",
	tokAssign:    "':='",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	for word, kind := range keywords {
		if kind == k {
			return "'" + word + "'"
		}
	}
	return fmt.Sprintf("token(%d)", int(k))
}

type token struct {
	kind  tokenKind
	text  string
	start ast.Position
	end   ast.Position
}

type lexer struct {
	name string
	src  string
	off  int
	line int
	col  int
}

func newLexer(name, src string) *lexer {
	return &lexer{name: name, src: src, line: 1, col: 1}
}

func (l *lexer) pos() ast.Position {
	return ast.Position{Line: l.line, Column: l.col}
}

func (l *lexer) peekByte(ahead int) byte {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) errorAt(at ast.Position, incomplete bool, format string, args ...any) *ParseError {
	return &ParseError{
		Name:       l.name,
		Message:    fmt.Sprintf(format, args...),
		Location:   Location{Line: at.Line, Column: at.Column},
		incomplete: incomplete,
	}
}

// tokenize scans the whole input, ending with a tokEOF token.
func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		if err := l.skipSpaceAndComments(); err != nil {
			return nil, err
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		c := l.peekByte(0)
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.advance()
		case c == '/' && l.peekByte(1) == '*':
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipComment consumes one comment; comments nest.
func (l *lexer) skipComment() error {
	start := l.pos()
	depth := 0
	for l.off < len(l.src) {
		switch {
		case l.peekByte(0) == '/' && l.peekByte(1) == '*':
			l.advance()
			l.advance()
			depth++
		case l.peekByte(0) == '*' && l.peekByte(1) == '/':
			l.advance()
			l.advance()
			depth--
			if depth == 0 {
				return nil
			}
		default:
			l.advance()
		}
	}
	return l.errorAt(start, true, "unterminated comment")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) next() (token, error) {
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start}, nil
	}
	c := l.peekByte(0)
	switch {
	case isLetter(c):
		begin := l.off
		for l.off < len(l.src) && (isLetter(l.peekByte(0)) || isDigit(l.peekByte(0)) || l.peekByte(0) == '_') {
			l.advance()
		}
		text := l.src[begin:l.off]
		kind := tokIdent
		if kw, ok := keywords[text]; ok {
			kind = kw
		}
		return token{kind: kind, text: text, start: start, end: l.pos()}, nil
	case isDigit(c):
		begin := l.off
		for l.off < len(l.src) && isDigit(l.peekByte(0)) {
			l.advance()
		}
		return token{kind: tokInt, text: l.src[begin:l.off], start: start, end: l.pos()}, nil
	case c == '"':
		text, err := l.scanString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: text, start: start, end: l.pos()}, nil
	}

	begin := l.off
	l.advance()
	kind := tokEOF
	switch c {
	case ',':
		kind = tokComma
	case ';':
		kind = tokSemicolon
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case '[':
		kind = tokLBracket
	case ']':
		kind = tokRBracket
	case '{':
		kind = tokLBrace
	case '}':
		kind = tokRBrace
	case '.':
		kind = tokDot
	case '+':
		kind = tokPlus
	case '-':
		kind = tokMinus
	case '*':
		kind = tokTimes
	case '/':
		kind = tokDivide
	case '=':
		kind = tokEq
	case '&':
		kind = tokAnd
	case '|':
		kind = tokOr
	case ':':
		kind = tokColon
		if l.peekByte(0) == '=' {
			l.advance()
			kind = tokAssign
		}
	case '<':
		kind = tokLt
		switch l.peekByte(0) {
		case '=':
			l.advance()
			kind = tokLe
		case '>':
			l.advance()
			kind = tokNe
		}
	case '>':
		kind = tokGt
		if l.peekByte(0) == '=' {
			l.advance()
			kind = tokGe
		}
	default:
		return token{}, l.errorAt(start, false, "unexpected character %q", c)
	}
	return token{kind: kind, text: l.src[begin:l.off], start: start, end: l.pos()}, nil
}

func (l *lexer) scanString() (string, error) {
	start := l.pos()
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.off >= len(l.src) {
			return "", l.errorAt(start, true, "unterminated string literal")
		}
		c := l.advance()
		switch c {
		case '"':
			return b.String(), nil
		case '\n':
			return "", l.errorAt(start, false, "newline in string literal")
		case '\\':
			if err := l.scanEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (l *lexer) scanEscape(b *strings.Builder) error {
	at := l.pos()
	if l.off >= len(l.src) {
		return l.errorAt(at, true, "unterminated string literal")
	}
	c := l.advance()
	switch {
	case c == 'n':
		b.WriteByte('\n')
	case c == 't':
		b.WriteByte('\t')
	case c == '"':
		b.WriteByte('"')
	case c == '\\':
		b.WriteByte('\\')
	case c == '^':
		if l.off >= len(l.src) {
			return l.errorAt(at, true, "unterminated string literal")
		}
		ctl := l.advance()
		if ctl < '@' || ctl > '_' {
			return l.errorAt(at, false, "invalid control escape \\^%c", ctl)
		}
		b.WriteByte(ctl - '@')
	case isDigit(c):
		if !isDigit(l.peekByte(0)) || !isDigit(l.peekByte(1)) {
			return l.errorAt(at, false, "decimal escape needs three digits")
		}
		digits := string([]byte{c, l.advance(), l.advance()})
		code, _ := strconv.Atoi(digits)
		if code > 255 {
			return l.errorAt(at, false, "decimal escape \\%s out of range", digits)
		}
		b.WriteByte(byte(code))
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		for {
			if l.off >= len(l.src) {
				return l.errorAt(at, true, "unterminated string literal")
			}
			g := l.advance()
			if g == '\\' {
				return nil
			}
			if g != ' ' && g != '\t' && g != '\n' && g != '\r' && g != '\f' {
				return l.errorAt(at, false, "unexpected %q in string gap", g)
			}
		}
	default:
		return l.errorAt(at, false, "unknown escape \\%c", c)
	}
	return nil
}
