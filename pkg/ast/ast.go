package ast

import "github.com/hopsage/TigerC/pkg/symbol"

type NodeType string

const (
	NodeVarDecl       NodeType = "VarDecl"
	NodeFunctionGroup NodeType = "FunctionGroup"
	NodeFunctionDecl  NodeType = "FunctionDecl"
	NodeTypeGroup     NodeType = "TypeGroup"
	NodeTypeDecl      NodeType = "TypeDecl"
	NodeField         NodeType = "Field"
	NodeFieldInit     NodeType = "FieldInit"
	NodeArrayType     NodeType = "ArrayType"
	NodeNameType      NodeType = "NameType"
	NodeRecordType    NodeType = "RecordType"
	NodeArrayExpr     NodeType = "ArrayExpr"
	NodeRecordExpr    NodeType = "RecordExpr"
	NodeAssignExpr    NodeType = "AssignExpr"
	NodeBreakExpr     NodeType = "BreakExpr"
	NodeCallExpr      NodeType = "CallExpr"
	NodeForExpr       NodeType = "ForExpr"
	NodeIfExpr        NodeType = "IfExpr"
	NodeIfElseExpr    NodeType = "IfElseExpr"
	NodeIntLit        NodeType = "IntLit"
	NodeStringLit     NodeType = "StringLit"
	NodeLetExpr       NodeType = "LetExpr"
	NodeNilExpr       NodeType = "NilExpr"
	NodeOpExpr        NodeType = "OpExpr"
	NodeSeqExpr       NodeType = "SeqExpr"
	NodeVarExpr       NodeType = "VarExpr"
	NodeWhileExpr     NodeType = "WhileExpr"
	NodeSimpleVar     NodeType = "SimpleVar"
	NodeFieldVar      NodeType = "FieldVar"
	NodeSubscriptVar  NodeType = "SubscriptVar"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces. The node set is closed: only this package can add
// implementations, so back ends may switch exhaustively over it.

type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

type Decl interface {
	Node
	declNode()
}

type declMarker struct{}

func (declMarker) declNode() {}

type TypeExpr interface {
	Node
	typeExprNode()
}

type typeExprMarker struct{}

func (typeExprMarker) typeExprNode() {}

// Var is an lvalue: something that names a storage location.
type Var interface {
	Node
	varNode()
}

type varMarker struct{}

func (varMarker) varNode() {}

// Declarations

type VarDecl struct {
	nodeImpl
	declMarker

	Name *symbol.Symbol `json:"name"`
	// TypeName is nil when the declaration has no annotation.
	TypeName *symbol.Symbol `json:"typeName,omitempty"`
	Init     Expr           `json:"init"`
}

func NewVarDecl(name, typeName *symbol.Symbol, init Expr) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Name: name, TypeName: typeName, Init: init}
}

// Field is a `name: type-id` pair, used for formals and record type fields.
type Field struct {
	nodeImpl

	Name     *symbol.Symbol `json:"name"`
	TypeName *symbol.Symbol `json:"typeName"`
}

func NewField(name, typeName *symbol.Symbol) *Field {
	return &Field{nodeImpl: newNodeImpl(NodeField), Name: name, TypeName: typeName}
}

type FunctionDecl struct {
	nodeImpl

	Name   *symbol.Symbol `json:"name"`
	Params []*Field       `json:"params"`
	// Result is nil for procedures.
	Result *symbol.Symbol `json:"result,omitempty"`
	Body   Expr           `json:"body"`
}

func NewFunctionDecl(name *symbol.Symbol, params []*Field, result *symbol.Symbol, body Expr) *FunctionDecl {
	return &FunctionDecl{nodeImpl: newNodeImpl(NodeFunctionDecl), Name: name, Params: params, Result: result, Body: body}
}

// FunctionGroup is a run of adjacent function declarations; its members may
// call each other regardless of order.
type FunctionGroup struct {
	nodeImpl
	declMarker

	Functions []*FunctionDecl `json:"functions"`
}

func NewFunctionGroup(functions []*FunctionDecl) *FunctionGroup {
	return &FunctionGroup{nodeImpl: newNodeImpl(NodeFunctionGroup), Functions: functions}
}

type TypeDecl struct {
	nodeImpl

	Name *symbol.Symbol `json:"name"`
	Type TypeExpr       `json:"ty"`
}

func NewTypeDecl(name *symbol.Symbol, ty TypeExpr) *TypeDecl {
	return &TypeDecl{nodeImpl: newNodeImpl(NodeTypeDecl), Name: name, Type: ty}
}

// TypeGroup is a run of adjacent type declarations.
type TypeGroup struct {
	nodeImpl
	declMarker

	Types []*TypeDecl `json:"types"`
}

func NewTypeGroup(decls []*TypeDecl) *TypeGroup {
	return &TypeGroup{nodeImpl: newNodeImpl(NodeTypeGroup), Types: decls}
}

// Type expressions

type ArrayType struct {
	nodeImpl
	typeExprMarker

	Elem *symbol.Symbol `json:"elem"`
}

func NewArrayType(elem *symbol.Symbol) *ArrayType {
	return &ArrayType{nodeImpl: newNodeImpl(NodeArrayType), Elem: elem}
}

type NameType struct {
	nodeImpl
	typeExprMarker

	Name *symbol.Symbol `json:"name"`
}

func NewNameType(name *symbol.Symbol) *NameType {
	return &NameType{nodeImpl: newNodeImpl(NodeNameType), Name: name}
}

type RecordType struct {
	nodeImpl
	typeExprMarker

	Fields []*Field `json:"fields"`
}

func NewRecordType(fields []*Field) *RecordType {
	return &RecordType{nodeImpl: newNodeImpl(NodeRecordType), Fields: fields}
}

// Expressions

type ArrayExpr struct {
	nodeImpl
	exprMarker

	Type *symbol.Symbol `json:"ty"`
	Size Expr           `json:"size"`
	Init Expr           `json:"init"`
}

func NewArrayExpr(ty *symbol.Symbol, size, init Expr) *ArrayExpr {
	return &ArrayExpr{nodeImpl: newNodeImpl(NodeArrayExpr), Type: ty, Size: size, Init: init}
}

type FieldInit struct {
	nodeImpl

	Name  *symbol.Symbol `json:"name"`
	Value Expr           `json:"value"`
}

func NewFieldInit(name *symbol.Symbol, value Expr) *FieldInit {
	return &FieldInit{nodeImpl: newNodeImpl(NodeFieldInit), Name: name, Value: value}
}

type RecordExpr struct {
	nodeImpl
	exprMarker

	Type   *symbol.Symbol `json:"ty"`
	Fields []*FieldInit   `json:"fields"`
}

func NewRecordExpr(ty *symbol.Symbol, fields []*FieldInit) *RecordExpr {
	return &RecordExpr{nodeImpl: newNodeImpl(NodeRecordExpr), Type: ty, Fields: fields}
}

type AssignExpr struct {
	nodeImpl
	exprMarker

	Target Var  `json:"target"`
	Value  Expr `json:"value"`
}

func NewAssignExpr(target Var, value Expr) *AssignExpr {
	return &AssignExpr{nodeImpl: newNodeImpl(NodeAssignExpr), Target: target, Value: value}
}

type BreakExpr struct {
	nodeImpl
	exprMarker
}

func NewBreakExpr() *BreakExpr {
	return &BreakExpr{nodeImpl: newNodeImpl(NodeBreakExpr)}
}

type CallExpr struct {
	nodeImpl
	exprMarker

	Func *symbol.Symbol `json:"func"`
	Args []Expr         `json:"args"`
}

func NewCallExpr(fn *symbol.Symbol, args []Expr) *CallExpr {
	return &CallExpr{nodeImpl: newNodeImpl(NodeCallExpr), Func: fn, Args: args}
}

type ForExpr struct {
	nodeImpl
	exprMarker

	Var  *symbol.Symbol `json:"var"`
	Lo   Expr           `json:"lo"`
	Hi   Expr           `json:"hi"`
	Body Expr           `json:"body"`
}

func NewForExpr(v *symbol.Symbol, lo, hi, body Expr) *ForExpr {
	return &ForExpr{nodeImpl: newNodeImpl(NodeForExpr), Var: v, Lo: lo, Hi: hi, Body: body}
}

type IfExpr struct {
	nodeImpl
	exprMarker

	Test Expr `json:"test"`
	Then Expr `json:"then"`
}

func NewIfExpr(test, then Expr) *IfExpr {
	return &IfExpr{nodeImpl: newNodeImpl(NodeIfExpr), Test: test, Then: then}
}

type IfElseExpr struct {
	nodeImpl
	exprMarker

	Test Expr `json:"test"`
	Then Expr `json:"then"`
	Else Expr `json:"else"`
}

func NewIfElseExpr(test, then, els Expr) *IfElseExpr {
	return &IfElseExpr{nodeImpl: newNodeImpl(NodeIfElseExpr), Test: test, Then: then, Else: els}
}

type IntLit struct {
	nodeImpl
	exprMarker

	Value int32 `json:"value"`
}

func NewIntLit(value int32) *IntLit {
	return &IntLit{nodeImpl: newNodeImpl(NodeIntLit), Value: value}
}

type StringLit struct {
	nodeImpl
	exprMarker

	Value string `json:"value"`
}

func NewStringLit(value string) *StringLit {
	return &StringLit{nodeImpl: newNodeImpl(NodeStringLit), Value: value}
}

type LetExpr struct {
	nodeImpl
	exprMarker

	Decls []Decl `json:"decls"`
	Body  Expr   `json:"body"`
}

func NewLetExpr(decls []Decl, body Expr) *LetExpr {
	return &LetExpr{nodeImpl: newNodeImpl(NodeLetExpr), Decls: decls, Body: body}
}

type NilExpr struct {
	nodeImpl
	exprMarker
}

func NewNilExpr() *NilExpr {
	return &NilExpr{nodeImpl: newNodeImpl(NodeNilExpr)}
}

type Operator string

const (
	OpPlus  Operator = "+"
	OpMinus Operator = "-"
	OpTimes Operator = "*"
	OpDiv   Operator = "/"
	OpAnd   Operator = "&"
	OpOr    Operator = "|"
	OpEq    Operator = "="
	OpNe    Operator = "<>"
	OpLt    Operator = "<"
	OpLe    Operator = "<="
	OpGt    Operator = ">"
	OpGe    Operator = ">="
)

func (op Operator) String() string { return string(op) }

// IsArithmetic covers + - * /.
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpPlus, OpMinus, OpTimes, OpDiv:
		return true
	}
	return false
}

// IsLogical covers the short-circuit operators & and |.
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsEquality covers = and <>.
func (op Operator) IsEquality() bool {
	return op == OpEq || op == OpNe
}

type OpExpr struct {
	nodeImpl
	exprMarker

	Op    Operator `json:"op"`
	Left  Expr     `json:"left"`
	Right Expr     `json:"right"`
}

func NewOpExpr(op Operator, left, right Expr) *OpExpr {
	return &OpExpr{nodeImpl: newNodeImpl(NodeOpExpr), Op: op, Left: left, Right: right}
}

type SeqExpr struct {
	nodeImpl
	exprMarker

	Exprs []Expr `json:"exprs"`
}

func NewSeqExpr(exprs []Expr) *SeqExpr {
	return &SeqExpr{nodeImpl: newNodeImpl(NodeSeqExpr), Exprs: exprs}
}

type VarExpr struct {
	nodeImpl
	exprMarker

	Var Var `json:"var"`
}

func NewVarExpr(v Var) *VarExpr {
	return &VarExpr{nodeImpl: newNodeImpl(NodeVarExpr), Var: v}
}

type WhileExpr struct {
	nodeImpl
	exprMarker

	Test Expr `json:"test"`
	Body Expr `json:"body"`
}

func NewWhileExpr(test, body Expr) *WhileExpr {
	return &WhileExpr{nodeImpl: newNodeImpl(NodeWhileExpr), Test: test, Body: body}
}

// Lvalues

type SimpleVar struct {
	nodeImpl
	varMarker

	Name *symbol.Symbol `json:"name"`
}

func NewSimpleVar(name *symbol.Symbol) *SimpleVar {
	return &SimpleVar{nodeImpl: newNodeImpl(NodeSimpleVar), Name: name}
}

type FieldVar struct {
	nodeImpl
	varMarker

	Var   Var            `json:"var"`
	Field *symbol.Symbol `json:"field"`
}

func NewFieldVar(v Var, field *symbol.Symbol) *FieldVar {
	return &FieldVar{nodeImpl: newNodeImpl(NodeFieldVar), Var: v, Field: field}
}

type SubscriptVar struct {
	nodeImpl
	varMarker

	Var   Var  `json:"var"`
	Index Expr `json:"index"`
}

func NewSubscriptVar(v Var, index Expr) *SubscriptVar {
	return &SubscriptVar{nodeImpl: newNodeImpl(NodeSubscriptVar), Var: v, Index: index}
}
