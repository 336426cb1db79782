package ast

import "github.com/hopsage/TigerC/pkg/symbol"

// Short constructors for hand-built trees in tests. Type names given as ""
// mean "no annotation".

func sym(name string) *symbol.Symbol {
	if name == "" {
		return nil
	}
	return symbol.Intern(name)
}

// Literal helpers.

func Int(value int32) *IntLit {
	return NewIntLit(value)
}

func Str(value string) *StringLit {
	return NewStringLit(value)
}

func Nil() *NilExpr {
	return NewNilExpr()
}

func Break() *BreakExpr {
	return NewBreakExpr()
}

// Lvalue helpers.

func Simple(name string) *SimpleVar {
	return NewSimpleVar(sym(name))
}

func Dot(v Var, field string) *FieldVar {
	return NewFieldVar(v, sym(field))
}

func Index(v Var, index Expr) *SubscriptVar {
	return NewSubscriptVar(v, index)
}

// ID reads a simple variable.
func ID(name string) *VarExpr {
	return NewVarExpr(Simple(name))
}

func Read(v Var) *VarExpr {
	return NewVarExpr(v)
}

// Expression helpers.

func Assign(target Var, value Expr) *AssignExpr {
	return NewAssignExpr(target, value)
}

func Call(name string, args ...Expr) *CallExpr {
	return NewCallExpr(sym(name), args)
}

func Bin(op Operator, left, right Expr) *OpExpr {
	return NewOpExpr(op, left, right)
}

func Seq(exprs ...Expr) *SeqExpr {
	return NewSeqExpr(exprs)
}

// Let wraps a multi-expression body in a SeqExpr, as the parser does.
func Let(decls []Decl, body ...Expr) *LetExpr {
	return NewLetExpr(decls, NewSeqExpr(body))
}

func Decls(decls ...Decl) []Decl {
	return decls
}

func If(test, then Expr) *IfExpr {
	return NewIfExpr(test, then)
}

func IfElse(test, then, els Expr) *IfElseExpr {
	return NewIfElseExpr(test, then, els)
}

func While(test, body Expr) *WhileExpr {
	return NewWhileExpr(test, body)
}

func For(v string, lo, hi, body Expr) *ForExpr {
	return NewForExpr(sym(v), lo, hi, body)
}

func ArrayOf(ty string, size, init Expr) *ArrayExpr {
	return NewArrayExpr(sym(ty), size, init)
}

func Rec(ty string, fields ...*FieldInit) *RecordExpr {
	return NewRecordExpr(sym(ty), fields)
}

func Init(name string, value Expr) *FieldInit {
	return NewFieldInit(sym(name), value)
}

// Declaration helpers.

func VarDef(name, ty string, init Expr) *VarDecl {
	return NewVarDecl(sym(name), sym(ty), init)
}

func Param(name, ty string) *Field {
	return NewField(sym(name), sym(ty))
}

func Fn(name string, params []*Field, result string, body Expr) *FunctionDecl {
	return NewFunctionDecl(sym(name), params, sym(result), body)
}

func Params(fields ...*Field) []*Field {
	return fields
}

func Funcs(functions ...*FunctionDecl) *FunctionGroup {
	return NewFunctionGroup(functions)
}

func TypeDef(name string, ty TypeExpr) *TypeDecl {
	return NewTypeDecl(sym(name), ty)
}

func Types(decls ...*TypeDecl) *TypeGroup {
	return NewTypeGroup(decls)
}

func NameTy(name string) *NameType {
	return NewNameType(sym(name))
}

func ArrayTy(elem string) *ArrayType {
	return NewArrayType(sym(elem))
}

func RecordTy(fields ...*Field) *RecordType {
	return NewRecordType(fields)
}
