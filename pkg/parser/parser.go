// Package parser turns Tiger source text into an ast.Expr.
package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/symbol"
)

// Parse parses a whole program. name is used in error messages.
func Parse(name, src string) (expr ast.Expr, err error) {
	toks, err := newLexer(name, src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{name: name, toks: toks}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			expr, err = nil, b.err
		}
	}()
	expr = p.parseExpr()
	if p.peek().kind != tokEOF {
		p.failf("unexpected %s after expression", p.peek().kind)
	}
	return expr, nil
}

// bailout carries a ParseError up through the recursive descent.
type bailout struct {
	err *ParseError
}

type parser struct {
	name string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) token {
	tok := p.peek()
	if tok.kind != kind {
		p.failf("expected %s, found %s", kind, describeToken(tok))
	}
	return p.next()
}

func describeToken(tok token) string {
	switch tok.kind {
	case tokIdent, tokInt:
		return fmt.Sprintf("%s %s", tok.kind, tok.text)
	case tokString:
		return "string literal"
	}
	return tok.kind.String()
}

// failf aborts the parse at the current token.
func (p *parser) failf(format string, args ...any) {
	tok := p.peek()
	panic(bailout{err: &ParseError{
		Name:       p.name,
		Message:    fmt.Sprintf(format, args...),
		Location:   Location{Line: tok.start.Line, Column: tok.start.Column},
		incomplete: tok.kind == tokEOF,
	}})
}

// prevEnd is the end position of the last consumed token.
func (p *parser) prevEnd() ast.Position {
	if p.pos == 0 {
		return p.toks[0].start
	}
	return p.toks[p.pos-1].end
}

func finish[T ast.Node](p *parser, node T, start ast.Position) T {
	ast.SetSpan(node, ast.Span{Start: start, End: p.prevEnd()})
	return node
}

func (p *parser) ident() *symbol.Symbol {
	return symbol.Intern(p.expect(tokIdent).text)
}

// Expressions, loosest binding first.

func (p *parser) parseExpr() ast.Expr {
	start := p.peek().start
	left := p.parseOr()
	if p.peek().kind != tokAssign {
		return left
	}
	read, ok := left.(*ast.VarExpr)
	if !ok {
		p.failf("left side of ':=' is not assignable")
	}
	p.next()
	value := p.parseOr()
	if p.peek().kind == tokAssign {
		p.failf("assignment does not associate")
	}
	return finish(p, ast.NewAssignExpr(read.Var, value), start)
}

func (p *parser) parseOr() ast.Expr {
	start := p.peek().start
	left := p.parseAnd()
	for p.accept(tokOr) {
		right := p.parseAnd()
		left = finish(p, ast.NewOpExpr(ast.OpOr, left, right), start)
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	start := p.peek().start
	left := p.parseComparison()
	for p.accept(tokAnd) {
		right := p.parseComparison()
		left = finish(p, ast.NewOpExpr(ast.OpAnd, left, right), start)
	}
	return left
}

var comparisonOps = map[tokenKind]ast.Operator{
	tokEq: ast.OpEq,
	tokNe: ast.OpNe,
	tokLt: ast.OpLt,
	tokLe: ast.OpLe,
	tokGt: ast.OpGt,
	tokGe: ast.OpGe,
}

func (p *parser) parseComparison() ast.Expr {
	start := p.peek().start
	left := p.parseAdditive()
	op, ok := comparisonOps[p.peek().kind]
	if !ok {
		return left
	}
	p.next()
	right := p.parseAdditive()
	expr := finish(p, ast.NewOpExpr(op, left, right), start)
	if _, chained := comparisonOps[p.peek().kind]; chained {
		p.failf("comparison operators do not associate")
	}
	return expr
}

func (p *parser) parseAdditive() ast.Expr {
	start := p.peek().start
	left := p.parseMultiplicative()
	for {
		var op ast.Operator
		switch p.peek().kind {
		case tokPlus:
			op = ast.OpPlus
		case tokMinus:
			op = ast.OpMinus
		default:
			return left
		}
		p.next()
		right := p.parseMultiplicative()
		left = finish(p, ast.NewOpExpr(op, left, right), start)
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	start := p.peek().start
	left := p.parseUnary()
	for {
		var op ast.Operator
		switch p.peek().kind {
		case tokTimes:
			op = ast.OpTimes
		case tokDivide:
			op = ast.OpDiv
		default:
			return left
		}
		p.next()
		right := p.parseUnary()
		left = finish(p, ast.NewOpExpr(op, left, right), start)
	}
}

// parseUnary desugars -e into 0 - e.
func (p *parser) parseUnary() ast.Expr {
	start := p.peek().start
	if !p.accept(tokMinus) {
		return p.parsePrimary()
	}
	operand := p.parseUnary()
	zero := ast.NewIntLit(0)
	ast.SetSpan(zero, ast.Span{Start: start, End: start})
	return finish(p, ast.NewOpExpr(ast.OpMinus, zero, operand), start)
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.peek()
	start := tok.start
	switch tok.kind {
	case tokInt:
		p.next()
		value, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil || value > math.MaxInt32 {
			p.pos--
			p.failf("integer literal %s out of range", tok.text)
		}
		return finish(p, ast.NewIntLit(int32(value)), start)
	case tokString:
		p.next()
		return finish(p, ast.NewStringLit(tok.text), start)
	case tokNil:
		p.next()
		return finish(p, ast.NewNilExpr(), start)
	case tokBreak:
		p.next()
		return finish(p, ast.NewBreakExpr(), start)
	case tokLParen:
		p.next()
		exprs := p.parseSeq(tokRParen)
		p.expect(tokRParen)
		if len(exprs) == 1 {
			return exprs[0]
		}
		return finish(p, ast.NewSeqExpr(exprs), start)
	case tokIf:
		return p.parseIf()
	case tokWhile:
		p.next()
		test := p.parseExpr()
		p.expect(tokDo)
		body := p.parseExpr()
		return finish(p, ast.NewWhileExpr(test, body), start)
	case tokFor:
		p.next()
		v := p.ident()
		p.expect(tokAssign)
		lo := p.parseExpr()
		p.expect(tokTo)
		hi := p.parseExpr()
		p.expect(tokDo)
		body := p.parseExpr()
		return finish(p, ast.NewForExpr(v, lo, hi, body), start)
	case tokLet:
		return p.parseLet()
	case tokIdent:
		return p.parseIdentExpr()
	}
	p.failf("unexpected %s", describeToken(tok))
	return nil
}

func (p *parser) parseIf() ast.Expr {
	start := p.expect(tokIf).start
	test := p.parseExpr()
	p.expect(tokThen)
	then := p.parseExpr()
	if p.accept(tokElse) {
		els := p.parseExpr()
		return finish(p, ast.NewIfElseExpr(test, then, els), start)
	}
	return finish(p, ast.NewIfExpr(test, then), start)
}

// parseSeq reads zero or more ';'-separated expressions up to (not
// including) the closing token.
func (p *parser) parseSeq(closing tokenKind) []ast.Expr {
	var exprs []ast.Expr
	if p.peek().kind == closing {
		return exprs
	}
	exprs = append(exprs, p.parseExpr())
	for p.accept(tokSemicolon) {
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

func (p *parser) parseLet() ast.Expr {
	start := p.expect(tokLet).start
	decls := p.parseDecls()
	p.expect(tokIn)
	bodyStart := p.peek().start
	exprs := p.parseSeq(tokEnd)
	body := finish(p, ast.NewSeqExpr(exprs), bodyStart)
	p.expect(tokEnd)
	return finish(p, ast.NewLetExpr(decls, body), start)
}

func (p *parser) parseIdentExpr() ast.Expr {
	tok := p.next()
	start := tok.start
	name := symbol.Intern(tok.text)
	switch p.peek().kind {
	case tokLParen:
		p.next()
		var args []ast.Expr
		if p.peek().kind != tokRParen {
			args = append(args, p.parseExpr())
			for p.accept(tokComma) {
				args = append(args, p.parseExpr())
			}
		}
		p.expect(tokRParen)
		return finish(p, ast.NewCallExpr(name, args), start)
	case tokLBrace:
		return p.parseRecord(name, start)
	}

	var lvalue ast.Var = finish(p, ast.NewSimpleVar(name), start)
	if p.peek().kind == tokLBracket {
		p.next()
		index := p.parseExpr()
		p.expect(tokRBracket)
		if p.accept(tokOf) {
			init := p.parseExpr()
			return finish(p, ast.NewArrayExpr(name, index, init), start)
		}
		lvalue = finish(p, ast.NewSubscriptVar(lvalue, index), start)
	}
	lvalue = p.parseLvalueTail(lvalue, start)
	return finish(p, ast.NewVarExpr(lvalue), start)
}

func (p *parser) parseLvalueTail(lvalue ast.Var, start ast.Position) ast.Var {
	for {
		switch p.peek().kind {
		case tokDot:
			p.next()
			field := p.ident()
			lvalue = finish(p, ast.NewFieldVar(lvalue, field), start)
		case tokLBracket:
			p.next()
			index := p.parseExpr()
			p.expect(tokRBracket)
			lvalue = finish(p, ast.NewSubscriptVar(lvalue, index), start)
		default:
			return lvalue
		}
	}
}

func (p *parser) parseRecord(ty *symbol.Symbol, start ast.Position) ast.Expr {
	p.expect(tokLBrace)
	var fields []*ast.FieldInit
	if p.peek().kind != tokRBrace {
		fields = append(fields, p.parseFieldInit())
		for p.accept(tokComma) {
			fields = append(fields, p.parseFieldInit())
		}
	}
	p.expect(tokRBrace)
	return finish(p, ast.NewRecordExpr(ty, fields), start)
}

func (p *parser) parseFieldInit() *ast.FieldInit {
	start := p.peek().start
	name := p.ident()
	p.expect(tokEq)
	value := p.parseExpr()
	return finish(p, ast.NewFieldInit(name, value), start)
}

// Declarations

func (p *parser) parseDecls() []ast.Decl {
	var decls []ast.Decl
	for {
		switch p.peek().kind {
		case tokVar:
			decls = append(decls, p.parseVarDecl())
		case tokFunction:
			decls = append(decls, p.parseFunctionGroup())
		case tokType:
			decls = append(decls, p.parseTypeGroup())
		default:
			return decls
		}
	}
}

func (p *parser) parseVarDecl() *ast.VarDecl {
	start := p.expect(tokVar).start
	name := p.ident()
	var typeName *symbol.Symbol
	if p.accept(tokColon) {
		typeName = p.ident()
	}
	p.expect(tokAssign)
	init := p.parseExpr()
	return finish(p, ast.NewVarDecl(name, typeName, init), start)
}

func (p *parser) parseFunctionGroup() *ast.FunctionGroup {
	start := p.peek().start
	var fns []*ast.FunctionDecl
	for p.peek().kind == tokFunction {
		fns = append(fns, p.parseFunction())
	}
	return finish(p, ast.NewFunctionGroup(fns), start)
}

func (p *parser) parseFunction() *ast.FunctionDecl {
	start := p.expect(tokFunction).start
	name := p.ident()
	p.expect(tokLParen)
	params := p.parseTypeFields(tokRParen)
	p.expect(tokRParen)
	var result *symbol.Symbol
	if p.accept(tokColon) {
		result = p.ident()
	}
	p.expect(tokEq)
	body := p.parseExpr()
	return finish(p, ast.NewFunctionDecl(name, params, result, body), start)
}

func (p *parser) parseTypeFields(closing tokenKind) []*ast.Field {
	var fields []*ast.Field
	if p.peek().kind == closing {
		return fields
	}
	for {
		start := p.peek().start
		name := p.ident()
		p.expect(tokColon)
		typeName := p.ident()
		fields = append(fields, finish(p, ast.NewField(name, typeName), start))
		if !p.accept(tokComma) {
			return fields
		}
	}
}

func (p *parser) parseTypeGroup() *ast.TypeGroup {
	start := p.peek().start
	var decls []*ast.TypeDecl
	for p.peek().kind == tokType {
		declStart := p.next().start
		name := p.ident()
		p.expect(tokEq)
		ty := p.parseTypeExpr()
		decls = append(decls, finish(p, ast.NewTypeDecl(name, ty), declStart))
	}
	return finish(p, ast.NewTypeGroup(decls), start)
}

func (p *parser) parseTypeExpr() ast.TypeExpr {
	start := p.peek().start
	switch p.peek().kind {
	case tokIdent:
		return finish(p, ast.NewNameType(p.ident()), start)
	case tokArray:
		p.next()
		p.expect(tokOf)
		return finish(p, ast.NewArrayType(p.ident()), start)
	case tokLBrace:
		p.next()
		fields := p.parseTypeFields(tokRBrace)
		p.expect(tokRBrace)
		return finish(p, ast.NewRecordType(fields), start)
	}
	p.failf("expected type, found %s", describeToken(p.peek()))
	return nil
}
