package ast

import (
	"strings"
	"testing"
)

func TestWalkVisitsInSourceOrder(t *testing.T) {
	prog := Let(Decls(
		VarDef("x", "int", Int(1)),
		Funcs(Fn("f", Params(Param("a", "int")), "int", Bin(OpPlus, ID("a"), ID("x")))),
	), Call("f", Int(2)))

	var kinds []string
	Walk(prog, func(n Node) bool {
		kinds = append(kinds, string(n.NodeType()))
		return true
	})
	want := []string{
		"LetExpr", "VarDecl", "IntLit", "FunctionGroup", "FunctionDecl", "Field",
		"OpExpr", "VarExpr", "SimpleVar", "VarExpr", "SimpleVar",
		"SeqExpr", "CallExpr", "IntLit",
	}
	if got := strings.Join(kinds, ","); got != strings.Join(want, ",") {
		t.Fatalf("walk order = %s, want %s", got, strings.Join(want, ","))
	}
}

func TestWalkPrunesSubtrees(t *testing.T) {
	prog := Seq(Call("print", Str("a")), Int(3))
	count := 0
	Walk(prog, func(n Node) bool {
		count++
		_, isCall := n.(*CallExpr)
		return !isCall
	})
	if count != 3 {
		t.Fatalf("visited %d nodes, want 3", count)
	}
}

func TestPrintOutline(t *testing.T) {
	prog := Let(Decls(
		Types(TypeDef("rec", RecordTy(Param("x", "int")))),
		VarDef("r", "rec", Rec("rec", Init("x", Int(4)))),
	), Read(Dot(Simple("r"), "x")))

	want := strings.Join([]string{
		"LetExpr",
		"  TypeGroup",
		"    TypeDecl rec",
		"      RecordType",
		"        Field x : int",
		"  VarDecl r : rec",
		"    RecordExpr rec",
		"      FieldInit x",
		"        IntLit 4",
		"  SeqExpr",
		"    VarExpr",
		"      FieldVar x",
		"        SimpleVar r",
		"",
	}, "\n")
	if got := Sprint(prog); got != want {
		t.Fatalf("Sprint =\n%s\nwant\n%s", got, want)
	}
}

func TestSetSpan(t *testing.T) {
	lit := Str("hi")
	if !lit.Span().IsZero() {
		t.Fatalf("fresh node span = %v, want zero", lit.Span())
	}
	span := Span{Start: Position{Line: 2, Column: 5}, End: Position{Line: 2, Column: 9}}
	SetSpan(lit, span)
	if got := lit.Span(); got != span {
		t.Fatalf("Span() = %v, want %v", got, span)
	}
	if got := span.Start.String(); got != "2:5" {
		t.Fatalf("Position.String() = %q, want %q", got, "2:5")
	}
}

func TestOperatorClasses(t *testing.T) {
	if !OpDiv.IsArithmetic() || OpEq.IsArithmetic() {
		t.Fatalf("arithmetic classification wrong")
	}
	if !OpAnd.IsLogical() || !OpOr.IsLogical() || OpLt.IsLogical() {
		t.Fatalf("logical classification wrong")
	}
	if !OpNe.IsEquality() || OpGe.IsEquality() {
		t.Fatalf("equality classification wrong")
	}
}
