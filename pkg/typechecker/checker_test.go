package typechecker

import (
	"strings"
	"testing"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/builtins"
	"github.com/hopsage/TigerC/pkg/parser"
	"github.com/hopsage/TigerC/pkg/types"
)

func check(t *testing.T, src string) (types.Type, []Diagnostic, *Checker) {
	t.Helper()
	expr, err := parser.Parse("test.tig", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	checker := New(builtins.Standard())
	result, diags := checker.Check(expr)
	return result, diags, checker
}

func messages(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func expectClean(t *testing.T, src string) types.Type {
	t.Helper()
	result, diags, _ := check(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(diags))
	}
	return result
}

func expectDiagnostics(t *testing.T, src string, want ...string) types.Type {
	t.Helper()
	result, diags, _ := check(t, src)
	got := messages(diags)
	if len(got) != len(want) {
		t.Fatalf("diagnostics = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostic %d = %q, want %q", i, got[i], want[i])
		}
	}
	return result
}

func TestMutuallyRecursiveFunctions(t *testing.T) {
	result := expectClean(t, `
let
  function even(x: int): int = if x = 0 then 1 else odd(x - 1)
  function odd(x: int): int = if x = 0 then 0 else even(x - 1)
in
  even(10)
end`)
	if result != types.Int {
		t.Fatalf("result = %v, want int", result)
	}
}

func TestTypeCycleRejected(t *testing.T) {
	result := expectDiagnostics(t, "let type a = b type b = a in 0 end", "Cycle detected in type declaration")
	if result != types.Error {
		t.Fatalf("result = %v, want error", result)
	}
}

func TestRecursiveRecordAccepted(t *testing.T) {
	result := expectClean(t, `
let
  type list = {head: int, tail: list}
  var l := list{head = 1, tail = list{head = 2, tail = nil}}
in
  l.tail.head
end`)
	if result != types.Int {
		t.Fatalf("result = %v, want int", result)
	}
}

func TestForwardAliasIsNotACycle(t *testing.T) {
	result := expectClean(t, "let type a = b type b = int var x : a := 3 in x end")
	if result.Actual() != types.Int {
		t.Fatalf("result = %v, want int", result)
	}
}

func TestMixedOperandsRejected(t *testing.T) {
	expectDiagnostics(t, `let var x := 10 in x + "a" end`, "Cannot apply '+' to int and string.")
}

func TestDuplicateVariableReportedOnce(t *testing.T) {
	result := expectDiagnostics(t, "let var x := 1 var x := 2 in x end", "Symbol x is already declared in this scope.")
	if result != types.Error {
		t.Fatalf("result = %v, want error", result)
	}
}

func TestDuplicateFunctionReportedOnce(t *testing.T) {
	expectDiagnostics(t, "let function f() = () function f() = () in f() end",
		"Symbol f is already declared in this scope.")
}

func TestDuplicateTypeNames(t *testing.T) {
	expectDiagnostics(t, "let type t = int type t = string in 0 end",
		"Type symbol t is already declared in this scope.")
}

func TestBreakNesting(t *testing.T) {
	expectDiagnostics(t, "break", "BREAK not properly nested.")
	expectClean(t, "while 1 do break")
	expectClean(t, "for i := 0 to 10 do if i = 5 then break")
	expectDiagnostics(t, "while 1 do let function f() = break in f() end",
		"BREAK not properly nested.")
}

func TestNominalRecords(t *testing.T) {
	expectDiagnostics(t, `
let
  type a = {x: int}
  type b = {x: int}
  var v : a := b{x = 1}
in
  v.x
end`, "Initializing expression is of incompatible type for variable v << expected: a, found: b >>.")
}

func TestNilComparesWithRecordsBothWays(t *testing.T) {
	expectClean(t, `
let
  type r = {x: int}
  var v : r := nil
in
  (v = nil) + (nil <> v)
end`)
	expectDiagnostics(t, "let var n := nil in 0 end",
		"Cannot determine type of variable n from nil initialization.")
}

func TestIfElsePrefersRecordOverNil(t *testing.T) {
	result, diags, _ := check(t, "let type r = {x: int} in if 1 then nil else r{x = 2} end")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(diags))
	}
	if _, ok := result.Actual().(*types.Record); !ok {
		t.Fatalf("result = %v, want record", result)
	}
}

func TestForCounterIsNotAssignable(t *testing.T) {
	expectDiagnostics(t, "for i := 0 to 3 do i := 1", "Variable i is not assignable.")
}

func TestNamespaceConfusion(t *testing.T) {
	expectDiagnostics(t, "let var f := 1 in f() end", "Variable f is not a function.")
	expectDiagnostics(t, "let function f() = () in f end", "Cannot reference function f() as if it were a variable.")
	expectDiagnostics(t, "y", "Symbol y is undefined.")
}

func TestCallChecks(t *testing.T) {
	expectDiagnostics(t, `substring("abc", 1)`, "Wrong number of arguments for function substring.")
	expectDiagnostics(t, `print(3)`, "Incompatible argument type for function print  << expected: string, found: int >>")
	if result := expectClean(t, `size(concat("a", chr(66)))`); result != types.Int {
		t.Fatalf("result = %v, want int", result)
	}
}

func TestStatementRules(t *testing.T) {
	expectDiagnostics(t, "if 1 then 2", "Conditional clause must be of VOID type.")
	expectDiagnostics(t, `if 1 then 2 else "x"`, "then/else clauses must be of the same type.")
	expectDiagnostics(t, `while "x" do ()`, "Test expression must be of type INT.")
	expectDiagnostics(t, "while 1 do 3", "Body of WHILE must be of VOID type.")
	expectDiagnostics(t, `for i := "a" to 3 do ()`, "Initializing expression must be of type INT.")
	expectDiagnostics(t, "for i := 0 to 3 do i", "Body of FOR must be of VOID type.")
	expectDiagnostics(t, "let var v := print(\"x\") in 0 end", "Cannot initialize with VOID type.")
	expectDiagnostics(t, "let function f(): int = \"s\" in 0 end", "Return value of function body must be of type int")
}

func TestArrayAndRecordRules(t *testing.T) {
	expectDiagnostics(t, `let type ia = array of int in ia["n"] of 0 end`, "Array size must be of type INT.")
	expectDiagnostics(t, `let type ia = array of int in ia[3] of "s" end`,
		"Initial expression is of incompatible type for array element  << expected: int, found: string >>")
	expectDiagnostics(t, `let type r = {a: int} in r[3] of 0 end`,
		"Attempt to use non-ARRAY type r as if it were an ARRAY.")
	expectDiagnostics(t, `let type r = {a: int, b: int} in r{b = 1, a = 2} end`,
		"Wrong field (expected a, found b)", "Wrong field (expected b, found a)")
	expectDiagnostics(t, `let type r = {a: int} in r{a = 1, b = 2} end`, "Wrong number of initializations in RECORD.")
	expectDiagnostics(t, `let type r = {a: int} var v := r{a = 1} in v.b end`, "Undefined field for type r")
	expectDiagnostics(t, `let var v := 1 in v.b end`, "Attempt to access non-existent field from non-RECORD variable.")
	expectDiagnostics(t, `let var v := 1 in v[0] end`, "Attempt to index non-ARRAY type variable.")
	expectDiagnostics(t, `let type r = {a: int, a: string} in 0 end`, "Field a is already defined in this scope.")
	expectDiagnostics(t, `let type r = {a: nope} in 0 end`, "Undefined type:  nope")
}

func TestTypeOfRecordsExpressions(t *testing.T) {
	expr, err := parser.Parse("test.tig", `let var s := "hi" in size(s) end`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	checker := New(builtins.Standard())
	if _, diags := checker.Check(expr); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(diags))
	}
	var sawVar bool
	ast.Walk(expr, func(n ast.Node) bool {
		if ve, ok := n.(*ast.VarExpr); ok {
			sawVar = true
			if got := checker.TypeOf(ve); got != types.String {
				t.Fatalf("TypeOf(s) = %v, want string", got)
			}
		}
		return true
	})
	if !sawVar {
		t.Fatalf("no variable reference visited")
	}
}

func TestDescribeDiagnostic(t *testing.T) {
	_, diags, _ := check(t, "let var x := 10 in\n  x + \"a\" end")
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want one", messages(diags))
	}
	got := DescribeDiagnostic("prog.tig", diags[0])
	if want := "prog.tig:2:3: error: Cannot apply '+' to int and string."; got != want {
		t.Fatalf("DescribeDiagnostic = %q, want %q", got, want)
	}
	if !strings.HasPrefix(DescribeDiagnostic("", Diagnostic{Message: "m"}), "error: m") {
		t.Fatalf("span-less diagnostic should render without location")
	}
}
